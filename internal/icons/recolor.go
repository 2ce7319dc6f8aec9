package icons

import (
	"regexp"
	"strings"

	"github.com/klytics/slidekit/internal/colorx"
)

var (
	fillAttr         = regexp.MustCompile(`\s*fill=["']([^"']*)["']`)
	strokeCurrent    = regexp.MustCompile(`\s*stroke=["']currentColor["']`)
	currentColorAttr = regexp.MustCompile(`(?i)(stroke|fill)=["']currentColor["']`)
)

// MakeRecolorable strips colour from the SVG so PowerPoint's Graphics Fill
// can restyle it: every fill except fill="none" and every
// stroke="currentColor" goes, then the root <svg> gets fill=color.
func MakeRecolorable(svg []byte, color string) ([]byte, error) {
	css, err := colorx.CSS(color)
	if err != nil {
		return nil, err
	}
	out := fillAttr.ReplaceAllStringFunc(string(svg), func(m string) string {
		if fillAttr.FindStringSubmatch(m)[1] == "none" {
			return m
		}
		return ""
	})
	out = strokeCurrent.ReplaceAllString(out, "")
	return []byte(strings.Replace(out, "<svg ", `<svg fill="`+css+`" `, 1)), nil
}

// Colorize resolves currentColor to color and gives the root a default
// fill, producing the SVG the bitmap fallback is drawn from.
func Colorize(svg []byte, color string) ([]byte, error) {
	css, err := colorx.CSS(color)
	if err != nil {
		return nil, err
	}
	out := currentColorAttr.ReplaceAllString(string(svg), `${1}="`+css+`"`)
	root, _, _ := strings.Cut(out, ">")
	if !strings.Contains(root, `fill="`) {
		out = strings.Replace(out, "<svg ", `<svg fill="`+css+`" `, 1)
	}
	return []byte(out), nil
}
