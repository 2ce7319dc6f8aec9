// Package editor implements the deck operations exposed to agents. Every
// operation resolves and validates its inputs against the session's open
// deck before it changes anything, so a failed call leaves the deck as it
// was.
package editor

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/klytics/slidekit/internal/colorx"
	"github.com/klytics/slidekit/internal/config"
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx"
	"github.com/klytics/slidekit/internal/geometry"
	"github.com/klytics/slidekit/internal/icons"
	"github.com/klytics/slidekit/internal/logging"
	"github.com/klytics/slidekit/internal/session"
)

// Settings are the tunables the editor reads from config.
type Settings struct {
	DefaultIconColor string
	MinPx            int
	PxPerInch        int
}

// DefaultSettings matches the config defaults.
func DefaultSettings() Settings {
	return Settings{DefaultIconColor: "#333333", MinPx: 96, PxPerInch: 96}
}

// Editor runs operations against a session.
type Editor struct {
	Session *session.Session
	Icons   *icons.Store
	Raster  icons.Rasterizer
	Config  Settings
	Logger  *slog.Logger
}

// New wires an editor from config. A nil config uses the defaults and a nil
// logger discards.
func New(sess *session.Session, cfg *config.Config, log *slog.Logger) *Editor {
	if log == nil {
		log = logging.Nop()
	}
	settings := DefaultSettings()
	store := icons.NewStore("")
	if cfg != nil {
		store = icons.NewStore(cfg.Icons.Dir)
		if cfg.Icons.DefaultColor != "" {
			settings.DefaultIconColor = cfg.Icons.DefaultColor
		}
		if cfg.Raster.MinPx > 0 {
			settings.MinPx = cfg.Raster.MinPx
		}
		if cfg.Raster.PxPerInch > 0 {
			settings.PxPerInch = cfg.Raster.PxPerInch
		}
	}
	if sess == nil {
		sess = session.New(log)
	}
	return &Editor{
		Session: sess,
		Icons:   store,
		Raster:  icons.OKSVG{},
		Config:  settings,
		Logger:  log.With("component", "editor"),
	}
}

// ShapeRef names a shape by ID or by name. ID wins when both are set.
type ShapeRef struct {
	ID   int
	Name string
}

// IsZero reports whether neither field is set.
func (r ShapeRef) IsZero() bool { return r.ID == 0 && r.Name == "" }

func (r ShapeRef) String() string {
	if r.ID != 0 {
		return "ID " + strconv.Itoa(r.ID)
	}
	return "'" + r.Name + "'"
}

// slide returns slide n of the open deck.
func (e *Editor) slide(n int) (*pptx.Deck, *pptx.Slide, error) {
	deck, err := e.Session.Deck()
	if err != nil {
		return nil, nil, err
	}
	if n < 1 || n > deck.SlideCount() {
		return nil, nil, errinfo.NotFound("slide", "slide_number %d is out of range (1-%d)", n, deck.SlideCount())
	}
	s, err := deck.Slide(n)
	if err != nil {
		return nil, nil, err
	}
	return deck, s, nil
}

// shape resolves ref on s.
func shape(s *pptx.Slide, ref ShapeRef) (*pptx.Shape, error) {
	switch {
	case ref.ID != 0:
		return s.ShapeByID(ref.ID)
	case ref.Name != "":
		return s.ShapeByName(ref.Name)
	}
	return nil, errinfo.InvalidArgument("shape", "Must provide either shape_id or shape_name")
}

// color normalizes an optional colour argument. Empty stays empty.
func color(op, name, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	hex, err := colorx.Parse(value)
	if err != nil {
		return "", errinfo.InvalidArgument(op, "invalid %s '%s': expected #RRGGBB", name, value)
	}
	return hex, nil
}

// bullet parses an optional bullet name. Empty means keep what is there.
func bullet(op, name string) (*pptx.Bullet, error) {
	if name == "" {
		return nil, nil
	}
	b, err := pptx.ParseBullet(name)
	if err != nil {
		return nil, errinfo.InvalidArgument(op, "Invalid bullet type '%s'. Valid types: %s", name, strings.Join(pptx.BulletNames(), ", "))
	}
	return &b, nil
}

// rect converts a box in inches to EMU.
func rect(left, top, width, height float64) pptx.Rect {
	return pptx.Rect{
		X:  geometry.Inches(left),
		Y:  geometry.Inches(top),
		CX: geometry.Inches(width),
		CY: geometry.Inches(height),
	}
}

func inches(r pptx.Rect) (left, top, width, height float64) {
	return geometry.ToInches(r.X), geometry.ToInches(r.Y), geometry.ToInches(r.CX), geometry.ToInches(r.CY)
}

func positive(op string, width, height float64) error {
	if width <= 0 || height <= 0 {
		return errinfo.InvalidGeometry(op, "width and height must be positive (got %g x %g inches)", width, height)
	}
	return nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
