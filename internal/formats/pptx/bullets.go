package pptx

import (
	"fmt"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx/oxml"
)

// BulletKind tags a Bullet.
type BulletKind int

const (
	// BulletNone is an explicit a:buNone: no marker, overriding the layout.
	BulletNone BulletKind = iota + 1
	BulletChar
	BulletAutoNumber
	// BulletPicture is a:buBlip. It is only ever detected, never applied.
	BulletPicture
)

// Bullet describes the list marker of a paragraph.
type Bullet struct {
	Kind   BulletKind
	Char   string
	Scheme string
}

type namedValue struct {
	name  string
	value string
}

var bulletChars = []namedValue{
	{"bullet", "•"},
	{"dash", "–"},
	{"arrow", "→"},
	{"check", "✓"},
	{"square", "■"},
	{"circle", "●"},
	{"diamond", "◆"},
	{"star", "★"},
}

var numberSchemes = []namedValue{
	{"number", "arabicPeriod"},
	{"number_paren", "arabicParenR"},
	{"roman", "romanLcPeriod"},
	{"roman_upper", "romanUcPeriod"},
	{"letter", "alphaLcPeriod"},
	{"letter_upper", "alphaUcPeriod"},
}

var schemeLabels = map[string]string{
	"arabicPeriod":  "numbered (1. 2. 3.)",
	"arabicParenR":  "numbered (1) 2) 3))",
	"romanLcPeriod": "roman (i. ii. iii.)",
	"romanUcPeriod": "roman (I. II. III.)",
	"alphaLcPeriod": "letter (a. b. c.)",
	"alphaUcPeriod": "letter (A. B. C.)",
}

// BulletNames lists every accepted bullet style name.
func BulletNames() []string {
	var out []string
	for _, c := range bulletChars {
		out = append(out, c.name)
	}
	for _, s := range numberSchemes {
		out = append(out, s.name)
	}
	return append(out, "none")
}

// ParseBullet maps a style name to its descriptor.
func ParseBullet(name string) (Bullet, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "none" {
		return Bullet{Kind: BulletNone}, nil
	}
	for _, c := range bulletChars {
		if c.name == n {
			return Bullet{Kind: BulletChar, Char: c.value}, nil
		}
	}
	for _, s := range numberSchemes {
		if s.name == n {
			return Bullet{Kind: BulletAutoNumber, Scheme: s.value}, nil
		}
	}
	return Bullet{}, errinfo.InvalidArgument("bullets", "invalid bullet type '%s'. Valid types: %s", name, strings.Join(BulletNames(), ", "))
}

// Name returns the style name, or "custom (x)" / "numbered (scheme)" for
// markers outside the known set.
func (b Bullet) Name() string {
	switch b.Kind {
	case BulletNone:
		return "none"
	case BulletChar:
		for _, c := range bulletChars {
			if c.value == b.Char {
				return c.name
			}
		}
		return fmt.Sprintf("custom (%s)", b.Char)
	case BulletAutoNumber:
		for _, s := range numberSchemes {
			if s.value == b.Scheme {
				return s.name
			}
		}
		return fmt.Sprintf("numbered (%s)", b.Scheme)
	case BulletPicture:
		return "custom (picture)"
	}
	return ""
}

// Label is the display form used in slide snapshots.
func (b Bullet) Label() string {
	if b.Kind == BulletAutoNumber {
		if l, ok := schemeLabels[b.Scheme]; ok {
			return l
		}
	}
	return b.Name()
}

func (b Bullet) element() *oxml.Element {
	switch b.Kind {
	case BulletChar:
		el := newA("buChar")
		el.SetAttr("", "", "char", b.Char)
		return el
	case BulletAutoNumber:
		el := newA("buAutoNum")
		el.SetAttr("", "", "type", b.Scheme)
		return el
	default:
		return newA("buNone")
	}
}

var bulletMarkers = []string{"buNone", "buAutoNum", "buChar", "buBlip"}

// ApplyBullet replaces whatever marker the paragraph has with b.
func ApplyBullet(p *Paragraph, b Bullet) {
	pPr := p.EnsureProperties()
	removeAll(pPr, bulletMarkers...)
	insertBeforeAny(pPr, b.element(), "tabLst", "defRPr", "extLst")
}

// DetectBullet reads the paragraph's own marker. ok is false when the
// paragraph sets none and inherits from its layout.
func DetectBullet(p *Paragraph) (Bullet, bool) {
	pPr := p.Properties()
	if pPr == nil {
		return Bullet{}, false
	}
	if pPr.Child(NSA, "buNone") != nil {
		return Bullet{Kind: BulletNone}, true
	}
	if el := pPr.Child(NSA, "buAutoNum"); el != nil {
		return Bullet{Kind: BulletAutoNumber, Scheme: el.AttrOr("", "type", "")}, true
	}
	if el := pPr.Child(NSA, "buChar"); el != nil {
		return Bullet{Kind: BulletChar, Char: el.AttrOr("", "char", "")}, true
	}
	if pPr.Child(NSA, "buBlip") != nil {
		return Bullet{Kind: BulletPicture}, true
	}
	return Bullet{}, false
}

// SummarizeLists describes the list formatting of a container: a single
// label when every marked paragraph agrees, a "mixed ..." form otherwise,
// and "" when nothing is marked.
func SummarizeLists(c TextContainer) string {
	var found []Bullet
	for _, p := range c.Paragraphs() {
		b, ok := DetectBullet(p)
		if !ok || b.Kind == BulletNone {
			continue
		}
		found = append(found, b)
	}
	if len(found) == 0 {
		return ""
	}
	first := found[0]
	same := true
	hasChar, hasNum := false, false
	for _, b := range found {
		if b != first {
			same = false
		}
		switch b.Kind {
		case BulletAutoNumber:
			hasNum = true
		default:
			hasChar = true
		}
	}
	switch {
	case same:
		return first.Label()
	case hasChar && hasNum:
		return "mixed (bullets and numbered)"
	case hasChar:
		return "mixed bullets"
	default:
		return "mixed numbered"
	}
}
