package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/klytics/slidekit/internal/audit"
	"github.com/klytics/slidekit/internal/config"
	"github.com/klytics/slidekit/internal/editor"
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/logging"
	"github.com/klytics/slidekit/internal/session"
)

const testIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256" fill="currentColor"><circle cx="128" cy="128" r="96"/></svg>`

type blankRaster struct{}

func (blankRaster) Rasterize(_ []byte, _ string, px int) ([]byte, error) {
	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, px, px)))
	return buf.Bytes(), err
}

// newTestRegistry returns a registry over an editor with no open deck and
// an icon store holding a "star" icon.
func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "star-fill.svg"), []byte(testIcon), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}
	cfg.Icons.Dir = dir
	ed := editor.New(session.New(logging.Nop()), cfg, logging.Nop())
	ed.Raster = blankRaster{}
	return NewRegistry(ed, opts...)
}

func call(t *testing.T, r *Registry, name string, args Args) string {
	t.Helper()
	out, err := r.Call(context.Background(), name, args)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return out
}

func TestRegistryBuiltins(t *testing.T) {
	r := newTestRegistry(t)
	want := []string{
		"add_chart", "add_image", "add_shape", "add_table", "add_textbox",
		"delete_shape", "find_and_replace", "fit_image", "get_chart_data", "get_presentation_info",
		"get_slide_snapshot", "get_table_content", "insert_icon", "list_icons",
		"manage_presentation", "manage_slide", "modify_shape", "modify_table_cell",
		"repair_content_types",
	}
	got := r.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v", got)
	}
	for _, tool := range r.Tools() {
		if tool.Description == "" {
			t.Errorf("%s has no description", tool.Name)
		}
	}
}

func TestRegistryDisabled(t *testing.T) {
	r := newTestRegistry(t, Disabled("add_chart", "insert_icon"))
	if _, ok := r.Get("add_chart"); ok {
		t.Error("add_chart should be disabled")
	}
	if len(r.Names()) != 16 {
		t.Errorf("expected 16 tools, got %d", len(r.Names()))
	}
	_, err := r.Call(context.Background(), "add_chart", nil)
	if !errors.Is(err, errinfo.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCallChecksArguments(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	_, err := r.Call(ctx, "get_slide_snapshot", Args{})
	if !errors.Is(err, errinfo.ErrInvalidArgument) || !strings.Contains(err.Error(), "slide_number is required") {
		t.Errorf("missing required: %v", err)
	}
	_, err = r.Call(ctx, "get_slide_snapshot", Args{"slide_number": 1, "colour": "red"})
	if !errors.Is(err, errinfo.ErrInvalidArgument) || !strings.Contains(err.Error(), "unknown argument 'colour'") {
		t.Errorf("unknown argument: %v", err)
	}
	_, err = r.Call(ctx, "get_slide_snapshot", Args{"slide_number": 1})
	if !errors.Is(err, errinfo.ErrNoPresentation) {
		t.Errorf("expected no presentation, got %v", err)
	}
}

func TestDeckWorkflow(t *testing.T) {
	r := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "deck.pptx")

	if out := call(t, r, "manage_presentation", Args{"action": "create", "file_path": path}); !strings.Contains(out, "Successfully created new presentation") {
		t.Errorf("create: %s", out)
	}
	if out := call(t, r, "manage_slide", Args{"action": "add"}); !strings.Contains(out, "Total slides: 1") {
		t.Errorf("add slide: %s", out)
	}

	out := call(t, r, "add_textbox", Args{"slide_number": 1, "text": "Hello world\\nSecond line", "bullets": "number"})
	if !strings.Contains(out, "Successfully added textbox on slide 1") {
		t.Errorf("add_textbox: %s", out)
	}

	out = call(t, r, "add_table", Args{"slide_number": 1, "rows": 2, "cols": 2, "data": `[["Name","Score"],["Ada",10]]`})
	if !strings.Contains(out, "2x2 table") {
		t.Errorf("add_table: %s", out)
	}
	call(t, r, "modify_table_cell", Args{"slide_number": 1, "row": 2, "column": 2, "text": "12"})
	if out := call(t, r, "get_table_content", Args{"slide_number": 1}); !strings.Contains(out, "Ada | 12") {
		t.Errorf("table content: %s", out)
	}

	out = call(t, r, "find_and_replace", Args{"find_text": "world", "replace_text": "deck"})
	if !strings.Contains(out, "Replaced 'world' with 'deck' in 1 location(s)") {
		t.Errorf("find_and_replace: %s", out)
	}

	out = call(t, r, "add_chart", Args{
		"slide_number": 1,
		"chart_type":   "column",
		"categories":   `["Q1","Q2"]`,
		"series_data":  `{"Sales": [1, 2]}`,
	})
	if !strings.Contains(out, "column chart") {
		t.Errorf("add_chart: %s", out)
	}

	out = call(t, r, "insert_icon", Args{"slide_number": 1, "icon_name": "star", "size": 0.5})
	if !strings.Contains(out, "Successfully added 'star' icon on slide 1") {
		t.Errorf("insert_icon: %s", out)
	}

	snap := call(t, r, "get_slide_snapshot", Args{"slide_number": 1})
	for _, want := range []string{"=== Slide 1 of 1 ===", "Hello deck", "star icon"} {
		if !strings.Contains(snap, want) {
			t.Errorf("snapshot missing %q:\n%s", want, snap)
		}
	}

	if out := call(t, r, "manage_presentation", Args{"action": "save"}); !strings.Contains(out, path) {
		t.Errorf("save: %s", out)
	}
	out = call(t, r, "repair_content_types", Args{})
	if !strings.Contains(out, path) {
		t.Errorf("repair: %s", out)
	}
	if info := call(t, r, "get_presentation_info", nil); !strings.Contains(info, path) {
		t.Errorf("info: %s", info)
	}
}

func TestModifyAndDeleteShape(t *testing.T) {
	r := newTestRegistry(t)
	call(t, r, "manage_presentation", Args{"action": "create"})
	call(t, r, "manage_slide", Args{"action": "add"})
	added := call(t, r, "add_shape", Args{"slide_number": 1, "shape_type": "rectangle", "text": "Box"})
	var id int
	var name string
	for _, line := range strings.Split(added, "\n") {
		if v, ok := strings.CutPrefix(line, "Shape ID: "); ok {
			id, _ = strconv.Atoi(v)
		}
		if v, ok := strings.CutPrefix(line, "Name: "); ok {
			name = v
		}
	}
	if id == 0 || name == "" {
		t.Fatalf("add_shape output: %s", added)
	}

	out := call(t, r, "modify_shape", Args{"slide_number": 1, "shape_id": id, "left": 3.0, "fill_color": "#0066CC", "font_bold": true})
	for _, want := range []string{`left=3"`, "fill=", "font updated"} {
		if !strings.Contains(out, want) {
			t.Errorf("modify_shape missing %q: %s", want, out)
		}
	}

	out = call(t, r, "delete_shape", Args{"slide_number": 1, "shape_name": name})
	if !strings.Contains(out, "Successfully deleted shape") {
		t.Errorf("delete_shape: %s", out)
	}
}

func TestFitImageTool(t *testing.T) {
	r := newTestRegistry(t)
	out := call(t, r, "fit_image", Args{
		"natural_width": 1600, "natural_height": 900,
		"target_width": 4.0, "target_height": 3.0,
	})
	var got fitResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("fit_image output is not JSON: %v\n%s", err, out)
	}
	if got.Mode != "fill" || got.Width != 4 || got.Height != 3 {
		t.Errorf("fit_image box = %+v", got)
	}
	if math.Abs(got.Crop.Left-0.125) > 1e-9 || math.Abs(got.Crop.Right-0.125) > 1e-9 || got.Crop.Top != 0 {
		t.Errorf("fit_image crop = %+v", got.Crop)
	}

	_, err := r.Call(context.Background(), "fit_image", Args{
		"natural_width": 0, "natural_height": 900, "target_width": 4, "target_height": 3,
	})
	if !errors.Is(err, errinfo.ErrInvalidGeometry) {
		t.Errorf("expected invalid geometry, got %v", err)
	}
}

func TestRunAudits(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	r := newTestRegistry(t, WithAudit(audit.NewLogger(logPath, true)))
	ctx := context.Background()

	if _, err := r.Run(ctx, "shell", "manage_presentation", Args{"action": "create"}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Run(ctx, "shell", "get_slide_snapshot", Args{"slide_number": 4}); err == nil {
		t.Fatal("expected an error for a missing slide")
	}

	entries, err := audit.ReadEntries(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].OK || entries[0].Surface != "shell" || entries[0].Args["action"] != "create" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].OK || entries[1].Code != errinfo.CodeNotFound {
		t.Errorf("second entry = %+v", entries[1])
	}
}
