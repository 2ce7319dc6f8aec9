package pptx

import "github.com/klytics/slidekit/internal/formats/pptx/oxml"

// FormatSnapshot is the paragraph-level formatting of one paragraph.
type FormatSnapshot struct {
	Alignment    Alignment
	HasAlignment bool
	Level        int
	// Properties is a detached copy of a:pPr, nil when the paragraph had none.
	Properties *oxml.Element
}

// CaptureFormat records alignment, level and a deep copy of a:pPr.
func CaptureFormat(p *Paragraph) FormatSnapshot {
	snap := FormatSnapshot{Level: p.Level()}
	snap.Alignment, snap.HasAlignment = p.Alignment()
	if pPr := p.Properties(); pPr != nil {
		snap.Properties = pPr.Clone()
	}
	return snap
}

// RestoreFormat reapplies a snapshot. A captured a:pPr replaces the
// paragraph's a:pPr wholesale and becomes its first child; bullet and
// numbering markup only survive this way.
func RestoreFormat(p *Paragraph, snap FormatSnapshot) {
	if snap.Level != 0 || p.Properties() != nil {
		p.SetLevel(snap.Level)
	}
	if snap.HasAlignment {
		p.SetAlignment(snap.Alignment)
	}
	if snap.Properties == nil {
		return
	}
	p.el.RemoveChildren(NSA, "pPr")
	p.el.Insert(0, snap.Properties.Clone())
}
