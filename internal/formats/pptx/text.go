package pptx

import (
	"strconv"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/pptx/oxml"
)

// TextContainer is anything holding an ordered list of paragraphs: a shape's
// text frame or a table cell.
type TextContainer interface {
	Paragraphs() []*Paragraph
	AddParagraph() *Paragraph
	RemoveParagraph(p *Paragraph)
}

// TextFrame is a p:txBody.
type TextFrame struct {
	el *oxml.Element
}

func paragraphsOf(body *oxml.Element) []*Paragraph {
	var out []*Paragraph
	for _, el := range body.ChildrenNamed(NSA, "p") {
		out = append(out, &Paragraph{el: el})
	}
	return out
}

func addParagraph(body *oxml.Element) *Paragraph {
	p := newA("p")
	body.Append(p)
	return &Paragraph{el: p}
}

func (tf *TextFrame) Paragraphs() []*Paragraph { return paragraphsOf(tf.el) }

func (tf *TextFrame) AddParagraph() *Paragraph { return addParagraph(tf.el) }

func (tf *TextFrame) RemoveParagraph(p *Paragraph) { tf.el.Remove(p.el) }

// Text joins paragraph texts with newlines.
func (tf *TextFrame) Text() string { return joinParagraphs(tf.Paragraphs()) }

// SetWordWrap toggles wrapping on the body properties.
func (tf *TextFrame) SetWordWrap(on bool) {
	bodyPr := tf.el.Child(NSA, "bodyPr")
	if bodyPr == nil {
		bodyPr = newA("bodyPr")
		tf.el.Insert(0, bodyPr)
	}
	if on {
		bodyPr.SetAttr("", "", "wrap", "square")
	} else {
		bodyPr.SetAttr("", "", "wrap", "none")
	}
}

func joinParagraphs(ps []*Paragraph) string {
	lines := make([]string, 0, len(ps))
	for _, p := range ps {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// SetPlainText replaces all content of c with one unformatted paragraph per line.
func SetPlainText(c TextContainer, text string) {
	lines := strings.Split(text, "\n")
	ps := c.Paragraphs()
	for i, line := range lines {
		var p *Paragraph
		if i < len(ps) {
			p = ps[i]
		} else {
			p = c.AddParagraph()
		}
		p.ClearRuns()
		if line != "" {
			p.AddRun(line)
		}
	}
	for i := len(lines); i < len(ps); i++ {
		c.RemoveParagraph(ps[i])
	}
}

// Alignment is a paragraph alignment as stored in a:pPr/@algn.
type Alignment string

const (
	AlignLeft        Alignment = "l"
	AlignCenter      Alignment = "ctr"
	AlignRight       Alignment = "r"
	AlignJustify     Alignment = "just"
	AlignDistributed Alignment = "dist"
)

var alignmentNames = map[string]Alignment{
	"left":        AlignLeft,
	"center":      AlignCenter,
	"centre":      AlignCenter,
	"right":       AlignRight,
	"justify":     AlignJustify,
	"distributed": AlignDistributed,
}

// ParseAlignment accepts left, center, right, justify or distributed.
func ParseAlignment(s string) (Alignment, error) {
	if a, ok := alignmentNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	return "", errinfo.InvalidArgument("alignment", "unknown alignment %q. Use left, center, right or justify", s)
}

// String returns the user-facing name.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	case AlignDistributed:
		return "distributed"
	}
	return string(a)
}

// Paragraph is an a:p.
type Paragraph struct {
	el *oxml.Element
}

// Element returns the a:p node.
func (p *Paragraph) Element() *oxml.Element { return p.el }

// Properties returns a:pPr, or nil when the paragraph has none.
func (p *Paragraph) Properties() *oxml.Element { return p.el.Child(NSA, "pPr") }

// EnsureProperties returns a:pPr, creating it as the first child.
func (p *Paragraph) EnsureProperties() *oxml.Element {
	if pPr := p.Properties(); pPr != nil {
		return pPr
	}
	pPr := newA("pPr")
	p.el.Insert(0, pPr)
	return pPr
}

// Alignment returns the explicit alignment. ok is false when inherited.
func (p *Paragraph) Alignment() (Alignment, bool) {
	pPr := p.Properties()
	if pPr == nil {
		return "", false
	}
	v, ok := pPr.Attr("", "algn")
	return Alignment(v), ok
}

func (p *Paragraph) SetAlignment(a Alignment) {
	p.EnsureProperties().SetAttr("", "", "algn", string(a))
}

// Level returns the indent level, 0 when unset.
func (p *Paragraph) Level() int {
	v, _ := intAttr(p.Properties(), "lvl")
	return int(v)
}

// SetLevel sets the indent level. Level 0 is the default and is not written.
func (p *Paragraph) SetLevel(level int) {
	pPr := p.EnsureProperties()
	if level == 0 {
		pPr.RemoveAttr("", "lvl")
		return
	}
	pPr.SetAttr("", "", "lvl", strconv.Itoa(level))
}

// Runs returns the a:r children.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, el := range p.el.ChildrenNamed(NSA, "r") {
		out = append(out, &Run{el: el})
	}
	return out
}

// AddRun appends a run without character properties, so it takes the
// container's defaults.
func (p *Paragraph) AddRun(text string) *Run {
	r := newA("r")
	t := newA("t")
	t.SetText(text)
	r.Append(t)
	if end := p.el.Child(NSA, "endParaRPr"); end != nil {
		p.el.InsertBefore(r, end)
	} else {
		p.el.Append(r)
	}
	return &Run{el: r}
}

func (p *Paragraph) addBreak() {
	br := newA("br")
	if end := p.el.Child(NSA, "endParaRPr"); end != nil {
		p.el.InsertBefore(br, end)
	} else {
		p.el.Append(br)
	}
}

// ClearRuns removes every run, line break, field and stray text node.
func (p *Paragraph) ClearRuns() {
	kept := p.el.Children[:0]
	for _, n := range p.el.Children {
		switch v := n.(type) {
		case *oxml.Text:
			continue
		case *oxml.Element:
			if v.Space == NSA && (v.Local == "r" || v.Local == "br" || v.Local == "fld" || v.Local == "t") {
				continue
			}
		}
		kept = append(kept, n)
	}
	p.el.Children = kept
}

// Text returns the paragraph text; line breaks become newlines.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, el := range p.el.Elements() {
		if el.Space != NSA {
			continue
		}
		switch el.Local {
		case "r", "fld":
			if t := el.Child(NSA, "t"); t != nil {
				b.WriteString(t.Text())
			}
		case "br":
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Run is an a:r.
type Run struct {
	el *oxml.Element
}

// Element returns the a:r node.
func (r *Run) Element() *oxml.Element { return r.el }

func (r *Run) Text() string {
	if t := r.el.Child(NSA, "t"); t != nil {
		return t.Text()
	}
	return ""
}

// SetText changes the run text in place, keeping a:rPr.
func (r *Run) SetText(s string) {
	t := r.el.Child(NSA, "t")
	if t == nil {
		t = newA("t")
		r.el.Append(t)
	}
	t.SetText(s)
}

// Properties returns a:rPr, creating it as the first child.
func (r *Run) Properties() *oxml.Element {
	if rPr := r.el.Child(NSA, "rPr"); rPr != nil {
		return rPr
	}
	rPr := newA("rPr")
	r.el.Insert(0, rPr)
	return rPr
}

// FontSpec is a set of optional character properties.
type FontSpec struct {
	SizePt float64
	Bold   *bool
	Italic *bool
	Color  string
	Family string
}

// IsZero reports whether no property is set.
func (f FontSpec) IsZero() bool {
	return f.SizePt == 0 && f.Bold == nil && f.Italic == nil && f.Color == "" && f.Family == ""
}

// SetFont applies the set fields of f.
func (r *Run) SetFont(f FontSpec) {
	if f.IsZero() {
		return
	}
	rPr := r.Properties()
	if f.SizePt > 0 {
		rPr.SetAttr("", "", "sz", strconv.Itoa(int(f.SizePt*100+0.5)))
	}
	if f.Bold != nil {
		rPr.SetAttr("", "", "b", boolDigit(*f.Bold))
	}
	if f.Italic != nil {
		rPr.SetAttr("", "", "i", boolDigit(*f.Italic))
	}
	if f.Color != "" {
		removeAll(rPr, "noFill", "solidFill", "gradFill", "blipFill", "pattFill", "grpFill")
		fill := solidFill(f.Color)
		if ln := rPr.Child(NSA, "ln"); ln != nil {
			rPr.InsertAfter(fill, ln)
		} else {
			rPr.Insert(0, fill)
		}
	}
	if f.Family != "" {
		rPr.RemoveChildren(NSA, "latin")
		latin := newA("latin")
		latin.SetAttr("", "", "typeface", f.Family)
		insertBeforeAny(rPr, latin, "ea", "cs", "sym", "hlinkClick", "hlinkMouseOver", "rtl", "extLst")
	}
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
