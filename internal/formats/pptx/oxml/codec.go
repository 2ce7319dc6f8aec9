package oxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const nsXML = "http://www.w3.org/XML/1998/namespace"

// Document is a parsed part: its prolog (declaration, comments) and root.
type Document struct {
	Prolog []Node
	Root   *Element
}

// Parse reads a whole XML part.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	p := newParser(bytes.NewReader(data), nil)
	for {
		tok, err := p.dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not parse XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if doc.Root != nil {
				return nil, errors.New("could not parse XML: multiple root elements")
			}
			root, err := p.element(t)
			if err != nil {
				return nil, err
			}
			doc.Root = root
		case xml.ProcInst:
			if doc.Root == nil {
				doc.Prolog = append(doc.Prolog, &Raw{Data: procInst(t)})
			}
		case xml.Comment:
			if doc.Root == nil {
				doc.Prolog = append(doc.Prolog, &Raw{Data: "<!--" + string(t) + "-->"})
			}
		case xml.CharData:
			if doc.Root == nil {
				doc.Prolog = append(doc.Prolog, &Text{Data: string(t)})
			}
		case xml.EndElement:
			return nil, fmt.Errorf("could not parse XML: unexpected </%s>", qname(t.Name))
		}
	}
	if doc.Root == nil {
		return nil, errors.New("could not parse XML: no root element")
	}
	return doc, nil
}

// ParseFragment parses a single element whose prefixes may be declared by
// the surrounding document rather than by the fragment itself. ns maps
// prefixes to namespace URIs.
func ParseFragment(data string, ns map[string]string) (*Element, error) {
	p := newParser(strings.NewReader(data), ns)
	for {
		tok, err := p.dec.RawToken()
		if err == io.EOF {
			return nil, errors.New("could not parse fragment: no element")
		}
		if err != nil {
			return nil, fmt.Errorf("could not parse fragment: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return p.element(start)
		}
	}
}

// MustFragment is ParseFragment for fragments built from constants.
func MustFragment(data string, ns map[string]string) *Element {
	el, err := ParseFragment(data, ns)
	if err != nil {
		panic(err)
	}
	return el
}

type parser struct {
	dec    *xml.Decoder
	scopes []map[string]string
}

func newParser(r io.Reader, ns map[string]string) *parser {
	base := map[string]string{"xml": nsXML}
	for k, v := range ns {
		base[k] = v
	}
	dec := xml.NewDecoder(r)
	dec.Strict = true
	return &parser{dec: dec, scopes: []map[string]string{base}}
}

func (p *parser) lookup(prefix string) (string, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if uri, ok := p.scopes[i][prefix]; ok {
			return uri, true
		}
	}
	return "", false
}

func (p *parser) element(start xml.StartElement) (*Element, error) {
	scope := make(map[string]string)
	for _, a := range start.Attr {
		switch {
		case a.Name.Space == "xmlns":
			scope[a.Name.Local] = a.Value
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			scope[""] = a.Value
		}
	}
	p.scopes = append(p.scopes, scope)
	defer func() { p.scopes = p.scopes[:len(p.scopes)-1] }()

	el := &Element{Prefix: start.Name.Space, Local: start.Name.Local}
	uri, ok := p.lookup(start.Name.Space)
	if !ok && start.Name.Space != "" {
		return nil, fmt.Errorf("could not parse XML: undeclared prefix %q on <%s>", start.Name.Space, qname(start.Name))
	}
	el.Space = uri

	for _, a := range start.Attr {
		attr := Attr{Prefix: a.Name.Space, Local: a.Name.Local, Value: a.Value}
		switch {
		case a.Name.Space == "xmlns", a.Name.Space == "" && a.Name.Local == "xmlns":
			if a.Name.Space == "" {
				attr.Prefix, attr.Local = "xmlns", ""
			}
		case a.Name.Space != "":
			space, ok := p.lookup(a.Name.Space)
			if !ok {
				return nil, fmt.Errorf("could not parse XML: undeclared prefix %q on attribute %s", a.Name.Space, qname(a.Name))
			}
			attr.Space = space
		}
		el.Attrs = append(el.Attrs, attr)
	}

	for {
		tok, err := p.dec.RawToken()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("could not parse XML: <%s> is not closed", el.Name())
			}
			return nil, fmt.Errorf("could not parse XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := p.element(t)
			if err != nil {
				return nil, err
			}
			el.Append(child)
		case xml.EndElement:
			if qname(t.Name) != el.Name() {
				return nil, fmt.Errorf("could not parse XML: </%s> closes <%s>", qname(t.Name), el.Name())
			}
			return el, nil
		case xml.CharData:
			el.Children = append(el.Children, &Text{Data: string(t)})
		case xml.Comment:
			el.Children = append(el.Children, &Raw{Data: "<!--" + string(t) + "-->"})
		case xml.ProcInst:
			el.Children = append(el.Children, &Raw{Data: procInst(t)})
		}
	}
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func procInst(p xml.ProcInst) string {
	if len(p.Inst) == 0 {
		return "<?" + p.Target + "?>"
	}
	return "<?" + p.Target + " " + string(p.Inst) + "?>"
}

// Bytes serialises the document.
func (d *Document) Bytes() []byte {
	var b bytes.Buffer
	for _, n := range d.Prolog {
		writeNode(&b, n)
	}
	if len(d.Prolog) == 0 {
		b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	}
	writeNode(&b, d.Root)
	return b.Bytes()
}

// String serialises a single element without a declaration.
func (e *Element) String() string {
	var b bytes.Buffer
	writeNode(&b, e)
	return b.String()
}

func writeNode(b *bytes.Buffer, n Node) {
	switch v := n.(type) {
	case *Text:
		escapeText(b, v.Data)
	case *Raw:
		b.WriteString(v.Data)
	case *Element:
		b.WriteByte('<')
		b.WriteString(v.Name())
		for _, a := range v.Attrs {
			b.WriteByte(' ')
			switch {
			case a.Prefix == "xmlns" && a.Local == "":
				b.WriteString("xmlns")
			case a.Prefix != "":
				b.WriteString(a.Prefix + ":" + a.Local)
			default:
				b.WriteString(a.Local)
			}
			b.WriteString(`="`)
			escapeAttr(b, a.Value)
			b.WriteByte('"')
		}
		if len(v.Children) == 0 {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for _, c := range v.Children {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(v.Name())
		b.WriteByte('>')
	}
}

func escapeText(b *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\r':
			b.WriteString("&#xD;")
		default:
			writeChar(b, r)
		}
	}
}

func escapeAttr(b *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '"':
			b.WriteString("&quot;")
		case '\n':
			b.WriteString("&#xA;")
		case '\r':
			b.WriteString("&#xD;")
		case '\t':
			b.WriteString("&#x9;")
		default:
			writeChar(b, r)
		}
	}
}

// writeChar writes r, or its OOXML _xHHHH_ escape when r is outside the
// XML 1.0 Char range.
func writeChar(b *bytes.Buffer, r rune) {
	if isXMLChar(r) {
		b.WriteRune(r)
		return
	}
	fmt.Fprintf(b, "_x%04X_", r)
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r < 0x20:
		return false
	case r >= 0xD800 && r <= 0xDFFF:
		return false
	case r == 0xFFFE, r == 0xFFFF:
		return false
	}
	return r <= 0x10FFFF
}
