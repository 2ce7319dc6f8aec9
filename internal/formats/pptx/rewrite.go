package pptx

import "strings"

// RewriteText replaces the text of c, one paragraph per line, keeping the
// paragraph-level formatting found at each index. Lines past the original
// paragraph count take the last paragraph's formatting. Run-level formatting
// is reset: every line becomes a single run without a:rPr. A non-nil bullet
// is applied to every paragraph after formatting is restored.
func RewriteText(c TextContainer, text string, bullet *Bullet) {
	lines := strings.Split(text, "\n")
	existing := c.Paragraphs()

	snaps := make([]FormatSnapshot, len(existing))
	for i, p := range existing {
		snaps[i] = CaptureFormat(p)
	}

	for i, line := range lines {
		var p *Paragraph
		if i < len(existing) {
			p = existing[i]
		} else {
			p = c.AddParagraph()
		}
		p.ClearRuns()
		p.AddRun(line)
		switch {
		case i < len(snaps):
			RestoreFormat(p, snaps[i])
		case len(snaps) > 0:
			RestoreFormat(p, snaps[len(snaps)-1])
		}
		if bullet != nil {
			ApplyBullet(p, *bullet)
		}
	}
	for i := len(lines); i < len(existing); i++ {
		c.RemoveParagraph(existing[i])
	}
}

// ApplyBulletAll sets the same marker on every paragraph of c without
// touching text.
func ApplyBulletAll(c TextContainer, b Bullet) {
	for _, p := range c.Paragraphs() {
		ApplyBullet(p, b)
	}
}

// RewriteCell sets a table cell's text. The cell is left with a single
// paragraph: its first run keeps its character formatting and receives the
// first line, and every other run and paragraph is dropped. Further lines
// follow as a:br line breaks and plain runs.
func RewriteCell(cell *Cell, text string) {
	lines := strings.Split(text, "\n")
	ps := cell.Paragraphs()
	var first *Paragraph
	if len(ps) == 0 {
		first = cell.AddParagraph()
	} else {
		first = ps[0]
		for _, p := range ps[1:] {
			cell.RemoveParagraph(p)
		}
	}

	runs := first.Runs()
	if len(runs) == 0 {
		first.ClearRuns()
		first.AddRun(lines[0])
	} else {
		runs[0].SetText(lines[0])
		for _, r := range runs[1:] {
			first.el.Remove(r.el)
		}
		removeAll(first.el, "br", "fld")
	}

	for _, line := range lines[1:] {
		first.addBreak()
		first.AddRun(line)
	}
}

// DecodeEscapes turns the two-character sequences \n and \t, as typed by
// agents that cannot send control characters, into newline and tab.
func DecodeEscapes(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(s)
}
