package opc

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/slidekit/internal/errinfo"
)

func writeArchive(t *testing.T, entries map[string]string, order []string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func rawEntries(t *testing.T, path string) map[string][]byte {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	out := make(map[string][]byte)
	for _, f := range zr.File {
		r, err := f.OpenRaw()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatal(err)
		}
		out[f.Name] = data
	}
	return out
}

const typesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/><Override PartName="/ppt/media/image2.svg" ContentType="image/svg+xml"/></Types>`

func TestEnsureContentTypeAddsDefault(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"[Content_Types].xml":  typesXML,
		"ppt/slides/slide1.xml": "<p:sld/>",
		"ppt/media/image2.svg":  "<svg/>",
	}, []string{"[Content_Types].xml", "ppt/slides/slide1.xml", "ppt/media/image2.svg"})
	before := rawEntries(t, path)

	changed, err := EnsureContentType(path, "svg", CTSVG)
	if err != nil {
		t.Fatalf("EnsureContentType: %v", err)
	}
	if !changed {
		t.Fatal("expected a change")
	}
	ok, err := DeclaresDefault(path, "svg")
	if err != nil || !ok {
		t.Fatalf("DeclaresDefault = %v, %v", ok, err)
	}

	after := rawEntries(t, path)
	for _, name := range []string{"ppt/slides/slide1.xml", "ppt/media/image2.svg"} {
		if !bytes.Equal(before[name], after[name]) {
			t.Errorf("%s was not copied byte for byte", name)
		}
	}
	if len(after) != len(before) {
		t.Errorf("entry count changed: %d -> %d", len(before), len(after))
	}
}

func TestEnsureContentTypeIdempotent(t *testing.T) {
	path := writeArchive(t, map[string]string{"[Content_Types].xml": typesXML}, []string{"[Content_Types].xml"})
	if _, err := EnsureContentType(path, ".SVG", CTSVG); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(path)
	changed, err := EnsureContentType(path, "svg", CTSVG)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("second run should be a no-op")
	}
	second, _ := os.ReadFile(path)
	if !bytes.Equal(first, second) {
		t.Error("file rewritten on no-op run")
	}
}

func TestEnsureContentTypeMalformed(t *testing.T) {
	path := writeArchive(t, map[string]string{"[Content_Types].xml": "<Types><Default"}, []string{"[Content_Types].xml"})
	before, _ := os.ReadFile(path)
	_, err := EnsureContentType(path, "svg", CTSVG)
	if !errors.Is(err, errinfo.ErrContentTypeRepairFailed) {
		t.Fatalf("expected repair failure, got %v", err)
	}
	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("malformed package was modified")
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".slidekit-repair-*"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestEnsureContentTypeMissingFile(t *testing.T) {
	_, err := EnsureContentType(filepath.Join(t.TempDir(), "nope.pptx"), "svg", CTSVG)
	if errinfo.KindOf(err) != errinfo.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEnsureContentTypeNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	os.WriteFile(path, []byte("plain text"), 0o644)
	_, err := EnsureContentType(path, "svg", CTSVG)
	if errinfo.KindOf(err) != errinfo.KindContentTypeRepairFailed {
		t.Fatalf("expected repair failure, got %v", err)
	}
}
