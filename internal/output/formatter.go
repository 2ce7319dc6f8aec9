// Package output renders command results: the JSON envelope, exit codes,
// text and markdown documents, and paging.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
)

// Format is an output format named by --format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat maps a --format value to a Format. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return FormatText, errinfo.InvalidArgument("format", "unknown format %q (expected text, json or markdown)", s)
}

// Writer builds a document in one format. The first write error sticks
// and later calls do nothing; check it with Err.
type Writer struct {
	dest   io.Writer
	format Format
	err    error
}

// NewWriter returns a Writer on dest.
func NewWriter(dest io.Writer, format Format) *Writer {
	return &Writer{dest: dest, format: format}
}

// Format returns the writer's format.
func (w *Writer) Format() Format { return w.format }

// Err returns the first write error.
func (w *Writer) Err() error { return w.err }

func (w *Writer) printf(format string, args ...any) *Writer {
	if w.err == nil {
		_, w.err = fmt.Fprintf(w.dest, format, args...)
	}
	return w
}

// Heading writes a section title. Markdown gets level #'s and a blank line.
func (w *Writer) Heading(level int, s string) *Writer {
	if w.format == FormatMarkdown {
		return w.printf("%s %s\n\n", strings.Repeat("#", level), s)
	}
	return w.printf("%s\n", s)
}

// Item writes one list entry per non-blank line of s.
func (w *Writer) Item(s string) *Writer {
	prefix := "  "
	if w.format == FormatMarkdown {
		prefix = "- "
	}
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			w.printf("%s%s\n", prefix, line)
		}
	}
	return w
}

// Quote writes lines as a block quote, or indented in text.
func (w *Writer) Quote(lines []string) *Writer {
	prefix := "    "
	if w.format == FormatMarkdown {
		prefix = "> "
	}
	for _, l := range lines {
		w.printf("%s%s\n", prefix, l)
	}
	return w
}

// Blank writes an empty line.
func (w *Writer) Blank() *Writer { return w.printf("\n") }

// Text writes s verbatim.
func (w *Writer) Text(s string) *Writer { return w.printf("%s", s) }

// JSON writes v as indented JSON.
func (w *Writer) JSON(v any) *Writer {
	if w.err == nil {
		w.err = writeJSON(w.dest, v)
	}
	return w
}
