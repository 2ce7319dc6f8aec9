// Package geometry converts slide measurements and places pictures inside
// target boxes.
package geometry

import (
	"math"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
)

const (
	EMUPerInch  = 914400
	EMUPerPoint = 12700
)

// Inches converts inches to EMU.
func Inches(in float64) int64 { return int64(math.Round(in * EMUPerInch)) }

// ToInches converts EMU to inches.
func ToInches(emu int64) float64 { return float64(emu) / EMUPerInch }

// Points converts points to EMU.
func Points(pt float64) int64 { return int64(math.Round(pt * EMUPerPoint)) }

// Size is a width and height in any consistent unit.
type Size struct {
	W, H float64
}

// Box is a positioned rectangle.
type Box struct {
	X, Y, W, H float64
}

// Crop holds fractions of the source trimmed from each edge.
type Crop struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// IsZero reports whether nothing is cropped.
func (c Crop) IsZero() bool { return c == Crop{} }

// Placement is where a picture ends up and how its source is cropped.
type Placement struct {
	Box  Box  `json:"box"`
	Crop Crop `json:"crop"`
}

// Mode selects how a picture is fitted to a box.
type Mode string

const (
	ModeFill    Mode = "fill"
	ModeFit     Mode = "fit"
	ModeStretch Mode = "stretch"
)

// ParseMode accepts fill, fit (also contain) and stretch.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fill", "cover":
		return ModeFill, nil
	case "fit", "contain":
		return ModeFit, nil
	case "stretch", "":
		return ModeStretch, nil
	}
	return "", errinfo.InvalidArgument("fit", "invalid fit mode '%s'. Valid modes: fill, fit, stretch", s)
}

func validate(op string, natural, target Size) error {
	if natural.W <= 0 || natural.H <= 0 {
		return errinfo.InvalidGeometry(op, "natural size must be positive, got %gx%g", natural.W, natural.H)
	}
	if target.W <= 0 || target.H <= 0 {
		return errinfo.InvalidGeometry(op, "target size must be positive, got %gx%g", target.W, target.H)
	}
	return nil
}

// FitFill scales natural to cover target and crops the overflow evenly
// from one axis. The result always has the target's size.
func FitFill(natural, target Size) (Crop, Size, error) {
	if err := validate("fit fill", natural, target); err != nil {
		return Crop{}, Size{}, err
	}
	var c Crop
	naturalRatio := natural.W / natural.H
	targetRatio := target.W / target.H
	switch {
	case naturalRatio > targetRatio:
		scaledW := natural.W * target.H / natural.H
		c.Left = (scaledW - target.W) / scaledW / 2
		c.Right = c.Left
	case naturalRatio < targetRatio:
		scaledH := natural.H * target.W / natural.W
		c.Top = (scaledH - target.H) / scaledH / 2
		c.Bottom = c.Top
	}
	return c, target, nil
}

// FitContain scales natural down to fit target without cropping and
// returns the centering offsets.
func FitContain(natural, target Size) (offX, offY float64, final Size, err error) {
	if err := validate("fit contain", natural, target); err != nil {
		return 0, 0, Size{}, err
	}
	scale := math.Min(target.W/natural.W, target.H/natural.H)
	final = Size{W: natural.W * scale, H: natural.H * scale}
	return (target.W - final.W) / 2, (target.H - final.H) / 2, final, nil
}

// Place fits natural into target with the given mode.
func Place(natural Size, target Box, mode Mode) (Placement, error) {
	ts := Size{W: target.W, H: target.H}
	switch mode {
	case ModeFill:
		crop, size, err := FitFill(natural, ts)
		if err != nil {
			return Placement{}, err
		}
		return Placement{Box: Box{X: target.X, Y: target.Y, W: size.W, H: size.H}, Crop: crop}, nil
	case ModeFit:
		dx, dy, size, err := FitContain(natural, ts)
		if err != nil {
			return Placement{}, err
		}
		return Placement{Box: Box{X: target.X + dx, Y: target.Y + dy, W: size.W, H: size.H}}, nil
	case ModeStretch:
		if err := validate("stretch", natural, ts); err != nil {
			return Placement{}, err
		}
		return Placement{Box: target}, nil
	}
	return Placement{}, errinfo.InvalidArgument("fit", "invalid fit mode '%s'. Valid modes: fill, fit, stretch", mode)
}

// EMU rounds a box measured in EMU to whole units.
func (b Box) EMU() (x, y, cx, cy int64) {
	return int64(math.Round(b.X)), int64(math.Round(b.Y)), int64(math.Round(b.W)), int64(math.Round(b.H))
}
