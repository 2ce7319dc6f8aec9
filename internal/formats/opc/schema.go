package opc

import (
	"encoding/xml"
	"strings"
)

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Namespaces used by package-level parts.
const (
	NSContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Relationship types.
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelTypeExtProps       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	RelTypeSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelTypeSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	RelTypeSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	RelTypeNotesSlide     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	RelTypeTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	RelTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeChart          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	RelTypePackage        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/package"
	RelTypePresProps      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	RelTypeViewProps      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	RelTypeTableStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
)

// Content types.
const (
	CTRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	CTXML           = "application/xml"
	CTPresentation  = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	CTSlide         = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	CTSlideLayout   = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	CTSlideMaster   = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	CTTheme         = "application/vnd.openxmlformats-officedocument.theme+xml"
	CTChart         = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	CTXLSX          = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CTCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	CTExtProps      = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	CTSVG           = "image/svg+xml"
	CTPNG           = "image/png"
)

const contentTypesName = "[Content_Types].xml"

// defaultContentTypes lists the extensions declared with a Default entry when
// a package is written. Anything else gets an Override per part.
var defaultContentTypes = map[string]string{
	"rels": CTRelationships,
	"xml":  CTXML,
	"png":  CTPNG,
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
	"xlsx": CTXLSX,
}

// mediaTypes resolves parts that reached us without any declaration.
var mediaTypes = map[string]string{
	"svg":  CTSVG,
	"webp": "image/webp",
}

// ContentTypeForExt returns the MIME type conventionally used for ext.
func ContentTypeForExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ct, ok := defaultContentTypes[ext]; ok {
		return ct
	}
	if ct, ok := mediaTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ExtForContentType returns the file extension conventionally used for a
// media type, or "" when the type is unknown.
func ExtForContentType(contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	switch contentType {
	case "image/jpeg":
		return "jpeg"
	case "image/tiff":
		return "tiff"
	}
	for _, table := range []map[string]string{mediaTypes, defaultContentTypes} {
		for ext, ct := range table {
			if ct == contentType && ext != "xml" && ext != "rels" {
				return ext
			}
		}
	}
	return ""
}

type xmlContentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

func marshalXML(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlDecl), out...), nil
}

func escapeAttr(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
