package pptx

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffResult holds the result of comparing the text of two decks.
type DiffResult struct {
	Original   string `json:"original"`
	Revised    string `json:"revised"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
	Unchanged  int    `json:"unchanged"`
	Hunks      []Hunk `json:"hunks"`
}

// Hunk is a contiguous group of changed lines with context.
type Hunk struct {
	Header string     `json:"header"`
	Lines  []DiffLine `json:"lines"`
}

// DiffLine is a single line in a hunk.
type DiffLine struct {
	Type    string `json:"type"` // "insert", "delete", "context"
	Content string `json:"content"`
	OldLine int    `json:"oldLine,omitempty"`
	NewLine int    `json:"newLine,omitempty"`
}

// DiffFiles opens both decks and diffs their slide text.
func DiffFiles(originalPath, revisedPath string, contextLines int) (*DiffResult, error) {
	orig, err := ReadFile(originalPath)
	if err != nil {
		return nil, fmt.Errorf("could not read original: %w", err)
	}
	rev, err := ReadFile(revisedPath)
	if err != nil {
		return nil, fmt.Errorf("could not read revised: %w", err)
	}
	return DiffText(deckLines(orig), deckLines(rev), originalPath, revisedPath, contextLines), nil
}

// DiffDecks compares two open decks.
func DiffDecks(orig, rev *Deck, origName, revName string, contextLines int) *DiffResult {
	return DiffText(deckLines(Extract(orig)), deckLines(Extract(rev)), origName, revName, contextLines)
}

// deckLines flattens a deck to one line per text item, each slide
// opened by a marker line so moved text shows up under its slide.
func deckLines(p *Presentation) []string {
	var lines []string
	for _, s := range p.Slides {
		lines = append(lines, fmt.Sprintf("## Slide %d", s.Number))
		for _, t := range s.TextContent {
			for _, l := range strings.Split(t, "\n") {
				if strings.TrimSpace(l) != "" {
					lines = append(lines, l)
				}
			}
		}
		for _, n := range s.Notes {
			lines = append(lines, "Notes: "+n)
		}
	}
	return lines
}

// DiffText computes a line diff between two line slices.
func DiffText(origLines, revLines []string, origName, revName string, contextLines int) *DiffResult {
	if contextLines < 0 {
		contextLines = 3
	}
	ops := lineOps(origLines, revLines)
	result := &DiffResult{Original: origName, Revised: revName}
	for _, op := range ops {
		switch op.Op {
		case "=":
			result.Unchanged++
		case "+":
			result.Insertions++
		case "-":
			result.Deletions++
		}
	}
	result.Hunks = buildHunks(ops, contextLines)
	return result
}

type editOp struct {
	Op   string // "=", "+", "-"
	Text string
}

func lineOps(a, b []string) []editOp {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	dmp := diffmatchpatch.New()
	before := joinLines(a)
	after := joinLines(b)
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var ops []editOp
	for _, d := range diffs {
		chunk := strings.Split(d.Text, "\n")
		if len(chunk) > 0 && chunk[len(chunk)-1] == "" {
			chunk = chunk[:len(chunk)-1]
		}
		op := "="
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = "-"
		case diffmatchpatch.DiffInsert:
			op = "+"
		}
		for _, line := range chunk {
			ops = append(ops, editOp{Op: op, Text: line})
		}
	}
	return ops
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// buildHunks groups edit operations into hunks with context lines.
func buildHunks(ops []editOp, contextLines int) []Hunk {
	type changeRange struct{ start, end int }
	var changes []changeRange
	for i, op := range ops {
		if op.Op == "=" {
			continue
		}
		if len(changes) > 0 && i-changes[len(changes)-1].end <= 2*contextLines {
			changes[len(changes)-1].end = i + 1
		} else {
			changes = append(changes, changeRange{start: i, end: i + 1})
		}
	}

	var hunks []Hunk
	for _, cr := range changes {
		start := max(cr.start-contextLines, 0)
		end := min(cr.end+contextLines, len(ops))

		oldStart, newStart := 1, 1
		for _, op := range ops[:start] {
			if op.Op != "+" {
				oldStart++
			}
			if op.Op != "-" {
				newStart++
			}
		}

		var lines []DiffLine
		oldLine, newLine := oldStart, newStart
		for _, op := range ops[start:end] {
			switch op.Op {
			case "=":
				lines = append(lines, DiffLine{Type: "context", Content: op.Text, OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
			case "-":
				lines = append(lines, DiffLine{Type: "delete", Content: op.Text, OldLine: oldLine})
				oldLine++
			case "+":
				lines = append(lines, DiffLine{Type: "insert", Content: op.Text, NewLine: newLine})
				newLine++
			}
		}
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldLine-oldStart, newStart, newLine-newStart)
		hunks = append(hunks, Hunk{Header: header, Lines: lines})
	}
	return hunks
}

// FormatUnified returns the diff as unified text.
func (d *DiffResult) FormatUnified() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s  (%d lines)\n", d.Original, d.Unchanged+d.Deletions)
	fmt.Fprintf(&b, "+++ %s  (%d lines)\n", d.Revised, d.Unchanged+d.Insertions)
	for _, hunk := range d.Hunks {
		b.WriteString("\n" + hunk.Header + "\n")
		for _, line := range hunk.Lines {
			switch line.Type {
			case "context":
				b.WriteString("  " + line.Content + "\n")
			case "delete":
				b.WriteString("- " + line.Content + "\n")
			case "insert":
				b.WriteString("+ " + line.Content + "\n")
			}
		}
	}
	fmt.Fprintf(&b, "\n%s\n", d.Stats())
	return b.String()
}

// Stats returns a single-line summary.
func (d *DiffResult) Stats() string {
	return fmt.Sprintf("%d insertions, %d deletions, %d unchanged", d.Insertions, d.Deletions, d.Unchanged)
}
