package editor

import (
	"fmt"
	"os"
	"strings"

	"github.com/klytics/slidekit/internal/colorx"
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/opc"
	"github.com/klytics/slidekit/internal/formats/pptx"
	"github.com/klytics/slidekit/internal/geometry"
	"github.com/klytics/slidekit/internal/icons"
	"github.com/klytics/slidekit/internal/session"
)

// FitImage computes where a picture of natural size lands in target and how
// it is cropped. It touches no deck.
func (e *Editor) FitImage(natural geometry.Size, target geometry.Box, mode string) (geometry.Placement, error) {
	m, err := geometry.ParseMode(mode)
	if err != nil {
		return geometry.Placement{}, err
	}
	return geometry.Place(natural, target, m)
}

// ImageRequest describes a picture to add. Nil position fields take the
// replaced shape's box; Left and Top then default to 1 inch. With a
// missing Width or Height the picture keeps its aspect ratio. FitMode
// defaults to fill when replacing and stretch otherwise.
type ImageRequest struct {
	Path                     string
	Left, Top, Width, Height *float64
	FitMode                  string
	Replace                  ShapeRef
}

// ImageAdded reports a new picture.
type ImageAdded struct {
	Added
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Mode   geometry.Mode `json:"mode"`
	Crop   geometry.Crop `json:"crop"`
}

func (a *ImageAdded) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Successfully added image on slide %d\nShape ID: %d\nName: %s\nSize: %.2f\" x %.2f\"",
		a.Slide, a.ShapeID, a.Name, a.Width, a.Height)
	switch {
	case a.Mode == geometry.ModeFill && (a.Crop.Top > 0 || a.Crop.Bottom > 0):
		fmt.Fprintf(&b, "\nCropped: %.1f%% top, %.1f%% bottom", a.Crop.Top*100, a.Crop.Bottom*100)
	case a.Mode == geometry.ModeFill && (a.Crop.Left > 0 || a.Crop.Right > 0):
		fmt.Fprintf(&b, "\nCropped: %.1f%% left, %.1f%% right", a.Crop.Left*100, a.Crop.Right*100)
	case a.Mode == geometry.ModeFit:
		b.WriteString("\nFit within bounds (aspect ratio preserved)")
	}
	return b.String()
}

// AddImage places an image file on a slide, optionally in place of another
// shape, fitted with fill, fit or stretch.
func (e *Editor) AddImage(slideNumber int, req ImageRequest) (*ImageAdded, error) {
	const op = "add image"
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return nil, err
	}
	var mode geometry.Mode
	if req.FitMode != "" {
		if mode, err = geometry.ParseMode(req.FitMode); err != nil {
			return nil, err
		}
	}
	path := session.ExpandPath(req.Path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errinfo.NotFound(op, "Image file not found: %s", path)
		}
		return nil, fmt.Errorf("could not read image: %w", err)
	}
	w, h, _, err := pptx.NaturalSize(data)
	if err != nil {
		return nil, err
	}

	left, top := 1.0, 1.0
	var width, height *float64
	var target *pptx.Shape
	if !req.Replace.IsZero() {
		if target, err = shape(s, req.Replace); err != nil {
			return nil, err
		}
		var tw, th float64
		left, top, tw, th = inches(target.Geometry())
		width, height = &tw, &th
		if mode == "" {
			mode = geometry.ModeFill
		}
	}
	if mode == "" {
		mode = geometry.ModeStretch
	}
	left, top = orDefault(req.Left, left), orDefault(req.Top, top)
	if req.Width != nil {
		width = req.Width
	}
	if req.Height != nil {
		height = req.Height
	}

	box := rect(left, top, 0, 0)
	var placement geometry.Placement
	if width != nil && height != nil {
		if err := positive(op, *width, *height); err != nil {
			return nil, err
		}
		bx := rect(left, top, *width, *height)
		area := geometry.Box{X: float64(bx.X), Y: float64(bx.Y), W: float64(bx.CX), H: float64(bx.CY)}
		if placement, err = geometry.Place(geometry.Size{W: float64(w), H: float64(h)}, area, mode); err != nil {
			return nil, err
		}
		box.X, box.Y, box.CX, box.CY = placement.Box.EMU()
	} else {
		if width != nil {
			if *width <= 0 {
				return nil, errinfo.InvalidGeometry(op, "width must be positive (got %g inches)", *width)
			}
			box.CX = geometry.Inches(*width)
		}
		if height != nil {
			if *height <= 0 {
				return nil, errinfo.InvalidGeometry(op, "height must be positive (got %g inches)", *height)
			}
			box.CY = geometry.Inches(*height)
		}
	}

	if target != nil {
		s.RemoveShape(target)
	}
	sh, err := pptx.AddPicture(s, data, box)
	if err != nil {
		return nil, err
	}
	c := placement.Crop
	sh.SetCrop(pptx.Crop{Left: c.Left, Right: c.Right, Top: c.Top, Bottom: c.Bottom})
	e.Session.Touch()
	e.Logger.Info("shape.added", "slide", slideNumber, "shape_id", sh.ID(), "kind", "picture", "mode", string(mode), "replaced", target != nil)

	_, _, fw, fh := inches(sh.Geometry())
	return &ImageAdded{
		Added:  Added{Slide: slideNumber, ShapeID: sh.ID(), Name: sh.Name(), What: "image"},
		Width:  fw,
		Height: fh,
		Mode:   mode,
		Crop:   c,
	}, nil
}

// VectorIcon is an SVG placed as a square picture. Left, Top and Size are
// inches.
type VectorIcon struct {
	Name            string
	SVG             []byte
	Color           string
	Left, Top, Size float64
}

// preparedIcon holds everything an icon insert writes, computed up front.
type preparedIcon struct {
	name   string
	vector []byte
	bitmap []byte
	box    pptx.Rect
	color  string
}

func (e *Editor) prepareIcon(icon VectorIcon) (*preparedIcon, error) {
	const op = "insert icon"
	if len(icon.SVG) == 0 {
		return nil, errinfo.InvalidArgument(op, "icon SVG is empty")
	}
	if icon.Size <= 0 {
		return nil, errinfo.InvalidGeometry(op, "icon size must be positive (got %g inches)", icon.Size)
	}
	c := icon.Color
	if c == "" {
		c = e.Config.DefaultIconColor
	}
	css, err := colorx.CSS(c)
	if err != nil {
		return nil, errinfo.InvalidArgument(op, "invalid color '%s': expected #RRGGBB", icon.Color)
	}
	vector, err := icons.MakeRecolorable(icon.SVG, css)
	if err != nil {
		return nil, errinfo.InvalidArgument(op, "%v", err)
	}
	px := icons.FallbackPixels(icon.Size, e.Config.MinPx, e.Config.PxPerInch)
	bitmap, err := e.Raster.Rasterize(icon.SVG, css, px)
	if err != nil {
		return nil, fmt.Errorf("could not render icon fallback: %w", err)
	}
	return &preparedIcon{
		name:   icon.Name,
		vector: vector,
		bitmap: bitmap,
		box:    rect(icon.Left, icon.Top, icon.Size, icon.Size),
		color:  css,
	}, nil
}

// place writes the bitmap picture and hangs the vector twin off it.
func (e *Editor) place(s *pptx.Slide, p *preparedIcon) (*pptx.Shape, error) {
	sh, err := pptx.AddPicture(s, p.bitmap, p.box)
	if err != nil {
		return nil, err
	}
	if p.name != "" {
		sh.SetName(p.name + " icon")
	}
	rid, err := pptx.AttachVectorAsset(sh, p.vector, opc.CTSVG)
	if err != nil {
		s.RemoveShape(sh)
		return nil, err
	}
	e.Logger.Debug("vector.attached", "shape_id", sh.ID(), "rel", rid)
	return sh, nil
}

// InsertVectorIcon places an SVG on a slide as a PNG picture carrying the
// recolourable SVG as its vector twin, and returns the new shape's ID.
func (e *Editor) InsertVectorIcon(slideNumber int, icon VectorIcon) (int, error) {
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return 0, err
	}
	p, err := e.prepareIcon(icon)
	if err != nil {
		return 0, err
	}
	sh, err := e.place(s, p)
	if err != nil {
		return 0, err
	}
	e.Session.Touch()
	return sh.ID(), nil
}

// IconRequest names a catalog icon to insert. Nil position fields take the
// replaced shape's box (the smaller side as size), then 1 inch.
type IconRequest struct {
	Name            string
	Left, Top, Size *float64
	Color           string
	Replace         ShapeRef
}

// IconAdded reports an inserted icon.
type IconAdded struct {
	Slide        int     `json:"slide"`
	ShapeID      int     `json:"shape_id"`
	Icon         string  `json:"icon"`
	Color        string  `json:"color"`
	Size         float64 `json:"size"`
	DefaultColor bool    `json:"-"`
}

func (a *IconAdded) String() string {
	colorMsg := ""
	if !a.DefaultColor {
		colorMsg = " with color " + a.Color
	}
	return fmt.Sprintf("Successfully added '%s' icon on slide %d%s\nShape ID: %d\nSize: %g\" x %g\"\n"+
		"Recolorable: Yes (use Graphics Format > Graphics Fill in PowerPoint)",
		a.Icon, a.Slide, colorMsg, a.ShapeID, a.Size, a.Size)
}

// InsertIcon loads an icon from the store and inserts it, optionally in
// place of a placeholder shape. Nothing is removed unless the icon, its
// colour and the target all check out.
func (e *Editor) InsertIcon(slideNumber int, req IconRequest) (*IconAdded, error) {
	_, s, err := e.slide(slideNumber)
	if err != nil {
		return nil, err
	}
	svg, err := e.Icons.Load(req.Name)
	if err != nil {
		return nil, err
	}

	left, top, size := 1.0, 1.0, 1.0
	var target *pptx.Shape
	if !req.Replace.IsZero() {
		if target, err = shape(s, req.Replace); err != nil {
			return nil, err
		}
		var w, h float64
		left, top, w, h = inches(target.Geometry())
		size = min(w, h)
	}
	left, top, size = orDefault(req.Left, left), orDefault(req.Top, top), orDefault(req.Size, size)

	colorArg := req.Color
	if colorArg == "" {
		colorArg = e.Config.DefaultIconColor
	}
	p, err := e.prepareIcon(VectorIcon{Name: req.Name, SVG: svg, Color: colorArg, Left: left, Top: top, Size: size})
	if err != nil {
		return nil, err
	}

	if target != nil {
		s.RemoveShape(target)
	}
	sh, err := e.place(s, p)
	if err != nil {
		return nil, err
	}
	e.Session.Touch()
	e.Logger.Info("icon.inserted", "slide", slideNumber, "shape_id", sh.ID(), "icon", req.Name, "replaced", target != nil)

	def, _ := colorx.CSS(e.Config.DefaultIconColor)
	return &IconAdded{
		Slide:        slideNumber,
		ShapeID:      sh.ID(),
		Icon:         req.Name,
		Color:        colorArg,
		Size:         size,
		DefaultColor: p.color == def,
	}, nil
}

// ListIcons renders the curated catalog.
func (e *Editor) ListIcons() string {
	text := icons.CatalogText()
	if names, err := e.Icons.Names(); err == nil && len(names) > 0 {
		text += fmt.Sprintf("\n\n%d icons installed in %s", len(names), e.Icons.Dir)
	}
	return text
}

// Repaired reports a content-type repair.
type Repaired struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
}

func (r *Repaired) String() string {
	if r.Changed {
		return fmt.Sprintf("Added SVG content type (%s) to %s", opc.CTSVG, r.Path)
	}
	return fmt.Sprintf("Content types already declare SVG in %s", r.Path)
}

// RepairContentTypes makes sure the saved package at path declares the SVG
// content type. An empty path uses the session's save location.
func (e *Editor) RepairContentTypes(path string) (*Repaired, error) {
	if strings.TrimSpace(path) == "" {
		path = e.Session.Path()
	}
	if path == "" {
		return nil, errinfo.InvalidArgument("repair content types", "file_path is required when no saved presentation is open")
	}
	path = session.ExpandPath(path)
	changed, err := opc.EnsureContentType(path, "svg", opc.CTSVG)
	if err != nil {
		return nil, err
	}
	e.Logger.Info("contenttypes.repaired", "path", path, "changed", changed)
	return &Repaired{Path: path, Changed: changed}, nil
}
