package icons

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Rasterizer renders an SVG to a square PNG of px pixels in color.
type Rasterizer interface {
	Rasterize(svg []byte, color string, px int) ([]byte, error)
}

// OKSVG rasterizes with the pure-Go oksvg renderer.
type OKSVG struct{}

// Rasterize implements Rasterizer.
func (OKSVG) Rasterize(svg []byte, color string, px int) ([]byte, error) {
	if px <= 0 {
		return nil, fmt.Errorf("raster size must be positive, got %d", px)
	}
	colored, err := Colorize(svg, color)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(colored), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("could not parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(px), float64(px))

	img := image.NewRGBA(image.Rect(0, 0, px, px))
	scanner := rasterx.NewScannerGV(px, px, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(px, px, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("could not encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// FallbackPixels is the bitmap edge for an icon sizeInches wide: pxPerInch
// per inch, never below minPx.
func FallbackPixels(sizeInches float64, minPx, pxPerInch int) int {
	return max(minPx, int(sizeInches*float64(pxPerInch)))
}
