package pptx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/opc"
)

// emuPerPixel converts pixels at 72 dpi, the resolution assumed for
// images that carry no density of their own.
const emuPerPixel = 12700

func xfrmXML(r Rect) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, r.X, r.Y, r.CX, r.CY)
}

func validateBox(op string, r Rect) error {
	if r.CX <= 0 || r.CY <= 0 {
		return errinfo.InvalidGeometry(op, "width and height must be positive (got %d x %d EMU)", r.CX, r.CY)
	}
	return nil
}

// TextboxSpec describes a new text box. Text is split on newlines into
// paragraphs; Font, Align and Bullet apply to every one of them.
type TextboxSpec struct {
	Text   string
	Font   FontSpec
	Align  Alignment
	Bullet *Bullet
}

// AddTextbox adds a wrapping text box.
func AddTextbox(s *Slide, r Rect, spec TextboxSpec) (*Shape, error) {
	if err := validateBox("add textbox", r); err != nil {
		return nil, err
	}
	id := s.NextShapeID()
	el := fragment(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`+
		`<p:txBody><a:bodyPr wrap="square" rtlCol="0"><a:spAutoFit/></a:bodyPr><a:lstStyle/></p:txBody></p:sp>`,
		id, id-1, xfrmXML(r))
	sh := s.appendShape(el)
	tf := sh.TextFrame()
	for _, line := range strings.Split(spec.Text, "\n") {
		p := tf.AddParagraph()
		p.AddRun(line).SetFont(spec.Font)
		if spec.Align != "" {
			p.SetAlignment(spec.Align)
		}
		if spec.Bullet != nil {
			ApplyBullet(p, *spec.Bullet)
		}
	}
	return sh, nil
}

// NaturalSize decodes the image header and returns its pixel dimensions.
func NaturalSize(data []byte) (int, int, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", errinfo.InvalidArgument("image", "could not read image dimensions: %v", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, "", errinfo.InvalidGeometry("image", "image has no area (%d x %d)", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, format, nil
}

// AddPicture stores data as a media part and places it on the slide. A zero
// width or height is derived from the image's aspect ratio; both zero means
// natural size.
func AddPicture(s *Slide, data []byte, r Rect) (*Shape, error) {
	w, h, format, err := NaturalSize(data)
	if err != nil {
		return nil, err
	}
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	switch {
	case r.CX == 0 && r.CY == 0:
		r.CX, r.CY = int64(w)*emuPerPixel, int64(h)*emuPerPixel
	case r.CX == 0:
		r.CX = r.CY * int64(w) / int64(h)
	case r.CY == 0:
		r.CY = r.CX * int64(h) / int64(w)
	}
	if err := validateBox("add picture", r); err != nil {
		return nil, err
	}

	pkg := s.deck.pkg
	name := pkg.NextMediaName(ext)
	pkg.AddPart(name, opc.ContentTypeForExt(ext), data)
	rid := pkg.AddRel(s.part.Name, name, opc.RelTypeImage)

	id := s.NextShapeID()
	el := fragment(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d" descr="%s"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		id, id-1, esc(name[strings.LastIndex(name, "/")+1:]), esc(rid), xfrmXML(r))
	return s.appendShape(el), nil
}

type autoShape struct {
	prst string
	name string
}

var autoShapes = map[string]autoShape{
	"rectangle":         {"rect", "Rectangle"},
	"oval":              {"ellipse", "Oval"},
	"rounded_rectangle": {"roundRect", "Rounded Rectangle"},
	"triangle":          {"triangle", "Isosceles Triangle"},
	"right_arrow":       {"rightArrow", "Right Arrow"},
	"left_arrow":        {"leftArrow", "Left Arrow"},
	"up_arrow":          {"upArrow", "Up Arrow"},
	"down_arrow":        {"downArrow", "Down Arrow"},
	"star":              {"star5", "5-Point Star"},
	"pentagon":          {"homePlate", "Pentagon"},
	"hexagon":           {"hexagon", "Hexagon"},
	"diamond":           {"diamond", "Diamond"},
	"line":              {"lineInv", "Straight Connector"},
}

// ShapeTypes lists the names accepted by AddAutoShape.
func ShapeTypes() []string {
	order := []string{"rectangle", "oval", "rounded_rectangle", "triangle", "right_arrow", "left_arrow",
		"up_arrow", "down_arrow", "star", "pentagon", "hexagon", "diamond", "line"}
	out := make([]string, 0, len(order))
	for _, n := range order {
		if _, ok := autoShapes[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// AddAutoShape adds a preset geometry styled from the theme.
func AddAutoShape(s *Slide, kind string, r Rect) (*Shape, error) {
	def, ok := autoShapes[strings.ToLower(kind)]
	if !ok {
		return nil, errinfo.InvalidArgument("add shape", "unknown shape type '%s'. Valid types: %s", kind, strings.Join(ShapeTypes(), ", "))
	}
	if err := validateBox("add shape", r); err != nil {
		return nil, err
	}
	id := s.NextShapeID()
	el := fragment(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="%s"><a:avLst/></a:prstGeom></p:spPr>`+
		`<p:style><a:lnRef idx="1"><a:schemeClr val="accent1"/></a:lnRef><a:fillRef idx="3"><a:schemeClr val="accent1"/></a:fillRef>`+
		`<a:effectRef idx="2"><a:schemeClr val="accent1"/></a:effectRef><a:fontRef idx="minor"><a:schemeClr val="lt1"/></a:fontRef></p:style>`+
		`<p:txBody><a:bodyPr rtlCol="0" anchor="ctr"/><a:lstStyle/><a:p><a:pPr algn="ctr"/></a:p></p:txBody></p:sp>`,
		id, esc(def.name), id-1, xfrmXML(r), def.prst)
	return s.appendShape(el), nil
}

// builtinTableStyle is "Medium Style 2 - Accent 1", which PowerPoint knows
// without a definition in tableStyles.xml.
const builtinTableStyle = "{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"

// AddTable adds a rows x cols table. data fills cells row-major; extra
// entries are ignored.
func AddTable(s *Slide, rows, cols int, r Rect, data [][]string) (*Shape, error) {
	if rows < 1 || cols < 1 {
		return nil, errinfo.InvalidArgument("add table", "rows and cols must be at least 1")
	}
	if err := validateBox("add table", r); err != nil {
		return nil, err
	}
	var grid, body strings.Builder
	colW := r.CX / int64(cols)
	for c := 0; c < cols; c++ {
		w := colW
		if c == cols-1 {
			w = r.CX - colW*int64(cols-1)
		}
		fmt.Fprintf(&grid, `<a:gridCol w="%d"/>`, w)
	}
	rowH := r.CY / int64(rows)
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&body, `<a:tr h="%d">`, rowH)
		for c := 0; c < cols; c++ {
			body.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/><a:p/></a:txBody><a:tcPr/></a:tc>`)
		}
		body.WriteString(`</a:tr>`)
	}
	id := s.NextShapeID()
	el := fragment(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`+
		`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`+
		`<a:graphic><a:graphicData uri="%s"><a:tbl><a:tblPr firstRow="1" bandRow="1"><a:tableStyleId>%s</a:tableStyleId></a:tblPr>`+
		`<a:tblGrid>%s</a:tblGrid>%s</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`,
		id, id-1, r.X, r.Y, r.CX, r.CY, graphicTable, builtinTableStyle, grid.String(), body.String())
	sh := s.appendShape(el)

	tbl := sh.Table()
	for i, row := range data {
		if i >= rows {
			break
		}
		for c, text := range row {
			if c >= cols {
				break
			}
			cell, err := tbl.Cell(i, c)
			if err != nil {
				return nil, err
			}
			SetPlainText(cell, text)
		}
	}
	return sh, nil
}
