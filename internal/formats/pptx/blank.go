package pptx

import (
	"archive/zip"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed all:template
var template embed.FS

// New returns an empty 16:9 deck with the stock layouts:
// Title Slide, Title and Content, Section Header, Two Content,
// Comparison, Title Only and Blank.
func New() (*Deck, error) {
	data, err := blankPackage()
	if err != nil {
		return nil, err
	}
	return OpenBytes(data)
}

func blankPackage() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	err := fs.WalkDir(template, "template", func(p string, e fs.DirEntry, err error) error {
		if err != nil || e.IsDir() {
			return err
		}
		content, err := template.ReadFile(p)
		if err != nil {
			return err
		}
		w, err := zw.Create(strings.TrimPrefix(p, "template/"))
		if err != nil {
			return err
		}
		_, err = w.Write(content)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("could not build blank deck: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("could not build blank deck: %w", err)
	}
	return buf.Bytes(), nil
}
