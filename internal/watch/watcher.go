// Package watch monitors directories for saved presentations and makes sure
// each one declares the SVG content type, so decks edited by other tools
// keep their vector icons.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/klytics/slidekit/internal/formats/opc"
	"github.com/klytics/slidekit/internal/logging"
)

// Config holds the watcher configuration.
type Config struct {
	Directories []string `json:"directories"`
	Pattern     string   `json:"pattern"` // Glob on the file name, default "*.pptx"
	Recursive   bool     `json:"recursive"`
	Debounce    int      `json:"debounceMs"` // Milliseconds to wait before processing
}

// Event is one processed file.
type Event struct {
	Time      time.Time `json:"time"`
	Path      string    `json:"path"`
	Operation string    `json:"operation"`
	Changed   bool      `json:"changed"`
	Status    string    `json:"status"` // "repaired", "ok", "error"
	Error     string    `json:"error,omitempty"`
}

// Handler processes a matching file and reports whether it changed it.
type Handler func(path string) (bool, error)

// RepairContentTypes is the default Handler.
func RepairContentTypes(path string) (bool, error) {
	return opc.EnsureContentType(path, "svg", opc.CTSVG)
}

// Watcher monitors directories for file changes and runs the handler.
type Watcher struct {
	Config  Config
	Logger  *slog.Logger
	Handler Handler
	// OnEvent, when set, receives every event as it is recorded.
	OnEvent func(Event)

	mu       sync.Mutex
	events   []Event
	started  time.Time
	watcher  *fsnotify.Watcher
	debounce map[string]*time.Timer
}

// Status represents the current watcher status.
type Status struct {
	Running     bool     `json:"running"`
	Directories []string `json:"directories"`
	Pattern     string   `json:"pattern"`
	EventCount  int      `json:"eventCount"`
	Repaired    int      `json:"repaired"`
	StartedAt   string   `json:"startedAt,omitempty"`
}

// New creates a Watcher with the given configuration.
func New(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	if config.Debounce <= 0 {
		config.Debounce = 500
	}
	if config.Pattern == "" {
		config.Pattern = "*.pptx"
	}
	if _, err := filepath.Match(config.Pattern, ""); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("invalid pattern %q: %w", config.Pattern, err)
	}

	return &Watcher{
		Config:   config,
		Logger:   logging.Nop(),
		Handler:  RepairContentTypes,
		watcher:  fsw,
		debounce: make(map[string]*time.Timer),
	}, nil
}

// Start begins watching the configured directories. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.Config.Directories {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("could not resolve %s: %w", dir, err)
		}

		if w.Config.Recursive {
			if err := w.addRecursive(absDir); err != nil {
				return err
			}
		} else {
			if err := w.watcher.Add(absDir); err != nil {
				return fmt.Errorf("could not watch %s: %w", absDir, err)
			}
		}
	}

	w.mu.Lock()
	w.started = time.Now()
	w.mu.Unlock()
	w.Logger.Info("watch.started", "directories", len(w.Config.Directories), "pattern", w.Config.Pattern)

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("watch.stopped")
			w.stopTimers()
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watch.error", "err", err)
		}
	}
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			// Skip hidden directories
			if strings.HasPrefix(filepath.Base(path), ".") && path != dir {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.debounce {
		timer.Stop()
		delete(w.debounce, path)
	}
}

// Matches reports whether path is a presentation the watcher processes.
// Office lock files (~$name.pptx) and hidden files never match.
func (w *Watcher) Matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	ok, _ := filepath.Match(strings.ToLower(w.Config.Pattern), strings.ToLower(base))
	return ok
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Only process create and write events
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	path := event.Name
	if !w.Matches(path) {
		return
	}

	// Debounce: saving a deck produces a burst of writes
	w.mu.Lock()
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	op := event.Op.String()
	w.debounce[path] = time.AfterFunc(time.Duration(w.Config.Debounce)*time.Millisecond, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		w.mu.Unlock()
		w.Process(path, op)
	})
	w.mu.Unlock()
}

// Process runs the handler on path and records the outcome.
func (w *Watcher) Process(path, operation string) Event {
	evt := Event{Time: time.Now(), Path: path, Operation: operation}

	changed, err := w.Handler(path)
	switch {
	case err != nil:
		evt.Status = "error"
		evt.Error = err.Error()
		w.Logger.Warn("watch.failed", "path", path, "err", err)
	case changed:
		evt.Status, evt.Changed = "repaired", true
		w.Logger.Info("contenttypes.repaired", "path", path)
	default:
		evt.Status = "ok"
		w.Logger.Debug("watch.checked", "path", path)
	}

	w.mu.Lock()
	w.events = append(w.events, evt)
	onEvent := w.OnEvent
	w.mu.Unlock()
	if onEvent != nil {
		onEvent(evt)
	}
	return evt
}

// GetStatus returns the current watcher status.
func (w *Watcher) GetStatus() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := Status{
		Running:     !w.started.IsZero(),
		Directories: w.Config.Directories,
		Pattern:     w.Config.Pattern,
		EventCount:  len(w.events),
	}
	for _, e := range w.events {
		if e.Changed {
			st.Repaired++
		}
	}
	if !w.started.IsZero() {
		st.StartedAt = w.started.Format(time.RFC3339)
	}
	return st
}

// GetEvents returns all recorded events.
func (w *Watcher) GetEvents() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}
