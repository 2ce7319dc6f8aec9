// Package colorx parses the hex colours accepted by the editing tools.
package colorx

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Parse accepts "#RRGGBB", "RRGGBB" or the short "#RGB" form and returns the
// colour as an upper-case "RRGGBB" string, the form DrawingML srgbClr expects.
func Parse(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("empty color")
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: expected #RRGGBB", s)
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("%02X%02X%02X", r, g, b), nil
}

// CSS returns the colour in "#rrggbb" form for SVG attributes.
func CSS(s string) (string, error) {
	hex, err := Parse(s)
	if err != nil {
		return "", err
	}
	return "#" + strings.ToLower(hex), nil
}
