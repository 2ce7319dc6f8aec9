package editor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx"
	"github.com/klytics/slidekit/internal/formats/xlsx"
	"github.com/klytics/slidekit/internal/geometry"
)

func TestAddTextboxMessage(t *testing.T) {
	e, _ := newTestEditor(t)
	added, err := e.AddTextbox(1, TextboxRequest{
		Text: "Title", Left: 1, Top: 1, Width: 8, Height: 1,
		FontName: "Calibri", FontSize: 24, Bold: true, FontColor: "#ff0000", Bullet: "dash",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf("Successfully added textbox on slide 1\nShape ID: %d\nName: %s", added.ShapeID, added.Name)
	if added.String() != want {
		t.Errorf("message = %q", added.String())
	}
	if !e.Session.Modified() {
		t.Error("session should be modified")
	}
}

func TestAddTextboxValidatesFirst(t *testing.T) {
	e, _ := newTestEditor(t)
	bad := []TextboxRequest{
		{Text: "x", Width: 1, Height: 1, FontColor: "red-ish"},
		{Text: "x", Width: 1, Height: 1, Bullet: "hearts"},
		{Text: "x", Width: 1, Height: 1, Alignment: "sideways"},
		{Text: "x", Width: 0, Height: 1},
	}
	for _, req := range bad {
		if _, err := e.AddTextbox(1, req); err == nil {
			t.Errorf("%+v: expected error", req)
		}
	}
	if n := len(testSlide(t, e, 1).Shapes()); n != 0 {
		t.Errorf("slide has %d shapes after failed adds", n)
	}
	if _, err := e.AddTextbox(2, TextboxRequest{Text: "x", Width: 1, Height: 1}); errinfo.KindOf(err) != errinfo.KindNotFound {
		t.Errorf("missing slide: %v", err)
	}
}

func TestAddShapeStyled(t *testing.T) {
	e, _ := newTestEditor(t)
	added, err := e.AddShape(1, AutoShapeRequest{Type: "rounded_rectangle", Left: 1, Top: 1, Width: 2, Height: 1,
		FillColor: "#0066CC", LineColor: "#333", LineWidth: 2, Text: `Go\nNow`})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(added.String(), "Successfully added rounded_rectangle shape on slide 1") {
		t.Errorf("message = %q", added)
	}
	sh, _ := testSlide(t, e, 1).ShapeByID(added.ShapeID)
	if fill, ok := sh.FillColor(); !ok || fill != "0066CC" {
		t.Errorf("fill = %q, %v", fill, ok)
	}
	if got := sh.TextFrame().Text(); got != "Go\nNow" {
		t.Errorf("text = %q", got)
	}

	if _, err := e.AddShape(1, AutoShapeRequest{Type: "blob", Width: 1, Height: 1}); errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Errorf("unknown type: %v", err)
	}
}

func TestAddTableReplacesShape(t *testing.T) {
	e, _ := newTestEditor(t)
	holder, err := e.AddShape(1, AutoShapeRequest{Type: "rectangle", Left: 2, Top: 3, Width: 5, Height: 2})
	if err != nil {
		t.Fatal(err)
	}
	added, err := e.AddTable(1, TableRequest{Rows: 2, Cols: 3, Replace: ShapeRef{ID: holder.ShapeID}})
	if err != nil {
		t.Fatal(err)
	}
	s := testSlide(t, e, 1)
	if _, err := s.ShapeByID(holder.ShapeID); err == nil {
		t.Error("replaced shape still on slide")
	}
	sh, _ := s.ShapeByID(added.ShapeID)
	want := pptx.Rect{X: geometry.Inches(2), Y: geometry.Inches(3), CX: geometry.Inches(5), CY: geometry.Inches(2)}
	if sh.Geometry() != want {
		t.Errorf("table box = %+v, want %+v", sh.Geometry(), want)
	}
	if !strings.HasPrefix(added.String(), "Successfully added 2x3 table on slide 1") {
		t.Errorf("message = %q", added)
	}

	if _, err := e.AddTable(1, TableRequest{Rows: 0, Cols: 1}); errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Errorf("zero rows: %v", err)
	}
}

func TestAddChart(t *testing.T) {
	e, _ := newTestEditor(t)
	added, err := e.AddChart(1, ChartRequest{
		Type:       "Column",
		Categories: []string{"Q1", "Q2"},
		Series:     []xlsx.Series{{Name: "Sales", Values: []float64{10, 20}}},
		Left:       1, Top: 2, Width: 8, Height: 4.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	sh, _ := testSlide(t, e, 1).ShapeByID(added.ShapeID)
	if sh.ChartType() == "" {
		t.Error("chart frame has no chart type")
	}
	if _, err := e.AddChart(1, ChartRequest{Type: "column", Categories: []string{"Q1"},
		Series: []xlsx.Series{{Name: "S", Values: []float64{1, 2}}}, Width: 1, Height: 1}); errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Errorf("mismatched series: %v", err)
	}

	csv, err := e.GetChartData(1, ShapeRef{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(csv, ",Sales\nQ1,10\nQ2,20\n") {
		t.Errorf("chart data = %q", csv)
	}
	if _, err := e.GetChartData(1, ShapeRef{ID: 9999}); errinfo.KindOf(err) != errinfo.KindNotFound {
		t.Errorf("missing chart: %v", err)
	}
}

func TestModifyShape(t *testing.T) {
	e, _ := newTestEditor(t)
	added, err := e.AddTextbox(1, TextboxRequest{Text: "a\nb", Left: 1, Top: 1, Width: 4, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	ref := ShapeRef{Name: added.Name}

	res, err := e.ModifyShape(1, ref, ShapeEdit{
		Left:      ptr(2.5),
		Width:     ptr(3.0),
		Bullet:    "check",
		FillColor: "#EEEEEE",
		Rotation:  ptr(15.0),
		Font:      pptx.FontSpec{SizePt: 18},
	})
	if err != nil {
		t.Fatal(err)
	}
	wantChanges := []string{`left=2.5"`, `width=3"`, "bullets: check", "font updated", "fill=#EEEEEE", "rotation=15°"}
	if strings.Join(res.Changes, "|") != strings.Join(wantChanges, "|") {
		t.Errorf("changes = %v", res.Changes)
	}

	sh, _ := testSlide(t, e, 1).ShapeByID(added.ShapeID)
	if g := sh.Geometry(); g.X != geometry.Inches(2.5) || g.Y != geometry.Inches(1) || g.CX != geometry.Inches(3) {
		t.Errorf("geometry = %+v", g)
	}
	if sh.Rotation() != 15 {
		t.Errorf("rotation = %v", sh.Rotation())
	}
	for _, p := range sh.TextFrame().Paragraphs() {
		if b, ok := pptx.DetectBullet(p); !ok || b.Name() != "check" {
			t.Errorf("bullet = %v", b.Name())
		}
	}

	res, err = e.ModifyShape(1, ref, ShapeEdit{})
	if err != nil {
		t.Fatal(err)
	}
	if res.String() != "No changes specified" {
		t.Errorf("empty edit = %q", res)
	}
}

func TestModifyShapeValidatesFirst(t *testing.T) {
	e, _ := newTestEditor(t)
	added, err := e.AddTable(1, TableRequest{Rows: 1, Cols: 1})
	if err != nil {
		t.Fatal(err)
	}
	before := testSlide(t, e, 1).Shapes()[0].Geometry()
	_, err = e.ModifyShape(1, ShapeRef{ID: added.ShapeID}, ShapeEdit{Left: ptr(5.0), Text: ptr("nope")})
	if errinfo.KindOf(err) != errinfo.KindInvalidArgument {
		t.Fatalf("err = %v", err)
	}
	if after := testSlide(t, e, 1).Shapes()[0].Geometry(); after != before {
		t.Errorf("geometry moved to %+v after failed edit", after)
	}
	if _, err := e.ModifyShape(1, ShapeRef{ID: added.ShapeID}, ShapeEdit{Height: ptr(-1.0)}); errinfo.KindOf(err) != errinfo.KindInvalidGeometry {
		t.Errorf("negative height: %v", err)
	}
}

func TestModifyShapeRejectsLineWidth(t *testing.T) {
	e, _ := newTestEditor(t)
	added, err := e.AddShape(1, AutoShapeRequest{Type: "rectangle", Left: 1, Top: 1, Width: 2, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	ref := ShapeRef{ID: added.ShapeID}
	xml := func() string {
		sh, err := testSlide(t, e, 1).ShapeByID(added.ShapeID)
		if err != nil {
			t.Fatal(err)
		}
		return sh.Element().String()
	}
	before := xml()
	for _, w := range []float64{0, -1} {
		_, err := e.ModifyShape(1, ref, ShapeEdit{Left: ptr(3.0), FillColor: "#FF0000", LineWidth: ptr(w)})
		if errinfo.KindOf(err) != errinfo.KindInvalidArgument {
			t.Errorf("line_width %g: err = %v", w, err)
		}
	}
	if after := xml(); after != before {
		t.Errorf("shape changed after rejected edit:\n%s", after)
	}
	if _, err := e.ModifyShape(1, ref, ShapeEdit{LineWidth: ptr(1.5)}); err != nil {
		t.Errorf("line_width 1.5: %v", err)
	}
}

func TestDeleteShape(t *testing.T) {
	e, _ := newTestEditor(t)
	added, err := e.AddShape(1, AutoShapeRequest{Type: "oval", Width: 1, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	msg, err := e.DeleteShape(1, ShapeRef{ID: added.ShapeID})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(msg, "Successfully deleted shape (ID: ") {
		t.Errorf("message = %q", msg)
	}
	if _, err := e.DeleteShape(1, ShapeRef{ID: added.ShapeID}); errinfo.KindOf(err) != errinfo.KindNotFound {
		t.Errorf("second delete: %v", err)
	}
}
