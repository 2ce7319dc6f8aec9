// Package session holds the one presentation an editing surface works on.
// Every tool call goes through a Session instead of a process-wide
// current document.
package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/opc"
	"github.com/klytics/slidekit/internal/formats/pptx"
	"github.com/klytics/slidekit/internal/geometry"
	"github.com/klytics/slidekit/internal/logging"
)

// Session owns at most one open deck. It is not safe for concurrent use;
// the host serializes calls.
type Session struct {
	deck     *pptx.Deck
	path     string
	modified bool
	log      *slog.Logger
}

// New returns an empty session. A nil logger discards.
func New(log *slog.Logger) *Session {
	if log == nil {
		log = logging.Nop()
	}
	return &Session{log: log.With("component", "session")}
}

// ExpandPath resolves a leading ~ and cleans the path.
func ExpandPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return filepath.Clean(p)
}

// Open replaces the session's deck with the file at path.
func (s *Session) Open(path string) error {
	if strings.TrimSpace(path) == "" {
		return errinfo.InvalidArgument("open", "file_path is required for 'open' action")
	}
	path = ExpandPath(path)
	deck, err := pptx.Open(path)
	if err != nil {
		return err
	}
	s.deck, s.path, s.modified = deck, path, false
	s.log.Info("session.opened", "path", path, "slides", deck.SlideCount())
	return nil
}

// Create starts a blank deck. path, when set, becomes the save location.
func (s *Session) Create(path string) error {
	deck, err := pptx.New()
	if err != nil {
		return err
	}
	s.deck, s.modified = deck, true
	s.path = ""
	if strings.TrimSpace(path) != "" {
		s.path = ExpandPath(path)
	}
	s.log.Info("session.created", "path", s.path)
	return nil
}

// Deck returns the open deck, or NoPresentation.
func (s *Session) Deck() (*pptx.Deck, error) {
	if s.deck == nil {
		return nil, errinfo.NoPresentation()
	}
	return s.deck, nil
}

// Path is the save location, empty when unset.
func (s *Session) Path() string { return s.path }

// Modified reports unsaved changes.
func (s *Session) Modified() bool { return s.modified }

// Touch marks the deck modified.
func (s *Session) Touch() { s.modified = true }

// Save writes the deck to its path.
func (s *Session) Save() error {
	if s.deck == nil {
		return errinfo.NoPresentation()
	}
	if s.path == "" {
		return errinfo.InvalidArgument("save", "No file path set. Use 'save_as' with a save_path instead")
	}
	return s.write(s.path)
}

// SaveAs writes the deck to path, creating its directory, and makes path
// the save location.
func (s *Session) SaveAs(path string) error {
	if s.deck == nil {
		return errinfo.NoPresentation()
	}
	if strings.TrimSpace(path) == "" {
		return errinfo.InvalidArgument("save_as", "save_path is required for 'save_as' action")
	}
	path = ExpandPath(path)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create %s: %w", dir, err)
		}
	}
	if err := s.write(path); err != nil {
		return err
	}
	s.path = path
	return nil
}

// write saves the deck and then makes sure the package declares the SVG
// type, which vector icons rely on.
func (s *Session) write(path string) error {
	if err := s.deck.Save(path); err != nil {
		return fmt.Errorf("could not save presentation: %w", err)
	}
	changed, err := opc.EnsureContentType(path, "svg", opc.CTSVG)
	if err != nil {
		return err
	}
	s.modified = false
	s.log.Info("session.saved", "path", path, "contenttypes_repaired", changed)
	return nil
}

// Close drops the deck without saving. It reports the path (or
// "unsaved presentation") and whether changes were discarded.
func (s *Session) Close() (string, bool, error) {
	if s.deck == nil {
		return "", false, errinfo.NoPresentation()
	}
	label := s.path
	if label == "" {
		label = "unsaved presentation"
	}
	wasModified := s.modified
	s.deck, s.path, s.modified = nil, "", false
	s.log.Info("session.closed", "path", label, "discarded_changes", wasModified)
	return label, wasModified, nil
}

// SlideSummary is one line of the presentation overview.
type SlideSummary struct {
	Number int    `json:"number"`
	Shapes int    `json:"shapes"`
	Title  string `json:"title"`
}

// Info describes the open presentation.
type Info struct {
	Path     string         `json:"path,omitempty"`
	Slides   int            `json:"slides"`
	WidthIn  float64        `json:"width_in"`
	HeightIn float64        `json:"height_in"`
	Modified bool           `json:"modified"`
	Layouts  []string       `json:"layouts"`
	Overview []SlideSummary `json:"overview,omitempty"`
}

// Info summarizes the open deck.
func (s *Session) Info() (*Info, error) {
	deck, err := s.Deck()
	if err != nil {
		return nil, err
	}
	w, h := deck.SlideSize()
	info := &Info{
		Path:     s.path,
		Slides:   deck.SlideCount(),
		WidthIn:  geometry.ToInches(w),
		HeightIn: geometry.ToInches(h),
		Modified: s.modified,
	}
	if layouts, err := deck.Layouts(); err == nil {
		for _, l := range layouts {
			info.Layouts = append(info.Layouts, l.Name)
		}
	}
	for i, slide := range deck.Slides() {
		title := slide.Title()
		if r := []rune(title); len(r) > 50 {
			title = string(r[:50])
		}
		info.Overview = append(info.Overview, SlideSummary{Number: i + 1, Shapes: len(slide.Shapes()), Title: title})
	}
	return info, nil
}

// String renders Info as the agent-facing report.
func (i *Info) String() string {
	var b strings.Builder
	path := i.Path
	if path == "" {
		path = "Not saved yet"
	}
	modified := "No"
	if i.Modified {
		modified = "Yes"
	}
	b.WriteString("=== Presentation Info ===\n")
	fmt.Fprintf(&b, "File path: %s\n", path)
	fmt.Fprintf(&b, "Slide count: %d\n", i.Slides)
	fmt.Fprintf(&b, "Slide dimensions: %.2f\" x %.2f\"\n", i.WidthIn, i.HeightIn)
	fmt.Fprintf(&b, "Modified: %s", modified)
	if len(i.Layouts) > 0 {
		b.WriteString("\n\n=== Layouts ===")
		for n, l := range i.Layouts {
			fmt.Fprintf(&b, "\n  %d: %s", n, l)
		}
	}
	if len(i.Overview) > 0 {
		b.WriteString("\n\n=== Slides Overview ===")
		for _, s := range i.Overview {
			title := s.Title
			if title == "" {
				title = "No title"
			}
			fmt.Fprintf(&b, "\n  Slide %d: %d shapes - \"%s\"", s.Number, s.Shapes, title)
		}
	}
	return b.String()
}
