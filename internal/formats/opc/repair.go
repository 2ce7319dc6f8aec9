package opc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
)

// EnsureContentType makes sure the package at path declares a Default content
// type for ext. Only [Content_Types].xml is rewritten; every other entry is
// copied raw, compressed bytes included. It reports whether the file changed.
// Running it again once the entry exists is a no-op.
func EnsureContentType(filePath, ext, contentType string) (bool, error) {
	const op = "repair content types"
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" || contentType == "" {
		return false, errinfo.InvalidArgument(op, "extension and content type are required")
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, errinfo.NotFound(op, "file not found: %s", filePath)
		}
		return false, fmt.Errorf("could not stat %s: %w", filePath, err)
	}

	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return false, errinfo.ContentTypeRepairFailed(op, err)
	}
	defer zr.Close()

	var declarations *zip.File
	for _, f := range zr.File {
		if f.Name == contentTypesName {
			declarations = f
			break
		}
	}
	if declarations == nil {
		return false, errinfo.ContentTypeRepairFailed(op, errors.New(contentTypesName+" is missing"))
	}
	original, err := readZipFile(declarations)
	if err != nil {
		return false, errinfo.ContentTypeRepairFailed(op, err)
	}
	patched, changed, err := addDefault(original, ext, contentType)
	if err != nil {
		return false, errinfo.ContentTypeRepairFailed(op, err)
	}
	if !changed {
		return false, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".slidekit-repair-*.tmp")
	if err != nil {
		return false, fmt.Errorf("could not create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := copyWithDeclarations(tmp, zr.File, patched); err != nil {
		return false, errinfo.ContentTypeRepairFailed(op, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("could not set mode on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("could not close %s: %w", tmpName, err)
	}
	zr.Close()
	if err := os.Rename(tmpName, filePath); err != nil {
		return false, fmt.Errorf("could not replace %s: %w", filePath, err)
	}
	committed = true
	return true, nil
}

func copyWithDeclarations(w io.Writer, files []*zip.File, declarations []byte) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		if f.Name == contentTypesName {
			header := &zip.FileHeader{
				Name:   f.Name,
				Method: f.Method,
			}
			header.SetModTime(f.Modified)
			fw, err := zw.CreateHeader(header)
			if err != nil {
				return fmt.Errorf("could not create %s in output: %w", f.Name, err)
			}
			if _, err := fw.Write(declarations); err != nil {
				return fmt.Errorf("could not write %s: %w", f.Name, err)
			}
			continue
		}

		header := f.FileHeader
		fw, err := zw.CreateRaw(&header)
		if err != nil {
			return fmt.Errorf("could not create %s in output: %w", f.Name, err)
		}
		rc, err := f.OpenRaw()
		if err != nil {
			return fmt.Errorf("could not open %s in archive: %w", f.Name, err)
		}
		if _, err := io.Copy(fw, rc); err != nil {
			return fmt.Errorf("could not copy %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not finalize output archive: %w", err)
	}
	return nil
}

// addDefault inserts a Default element before the closing Types tag, leaving
// the rest of the document as it was.
func addDefault(data []byte, ext, contentType string) ([]byte, bool, error) {
	var types xmlContentTypes
	if err := xml.Unmarshal(data, &types); err != nil {
		return nil, false, fmt.Errorf("could not parse %s: %w", contentTypesName, err)
	}
	for _, d := range types.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return data, false, nil
		}
	}
	closing := []byte("</Types>")
	idx := bytes.LastIndex(data, closing)
	if idx < 0 {
		return nil, false, fmt.Errorf("%s has no closing Types element", contentTypesName)
	}
	entry := fmt.Sprintf(`<Default Extension="%s" ContentType="%s"/>`, escapeAttr(ext), escapeAttr(contentType))
	out := make([]byte, 0, len(data)+len(entry))
	out = append(out, data[:idx]...)
	out = append(out, entry...)
	out = append(out, data[idx:]...)
	return out, true, nil
}

// DeclaresDefault reports whether the package at path has a Default entry for ext.
func DeclaresDefault(filePath, ext string) (bool, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return false, fmt.Errorf("could not open %s: %w", filePath, err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != contentTypesName {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return false, err
		}
		var types xmlContentTypes
		if err := xml.Unmarshal(data, &types); err != nil {
			return false, fmt.Errorf("could not parse %s: %w", contentTypesName, err)
		}
		for _, d := range types.Defaults {
			if strings.EqualFold(d.Extension, strings.TrimPrefix(ext, ".")) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("%s is missing", contentTypesName)
}
