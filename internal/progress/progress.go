// Package progress draws step progress for long CLI runs. Output goes to
// stderr so stdout stays clean for --json and pipes.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const clearLine = "\r\033[K"

// Bar counts finished steps of a known-length run.
type Bar struct {
	Label   string
	Total   int
	Width   int
	Enabled bool
	Out     io.Writer

	mu     sync.Mutex
	done   int
	failed int
	start  time.Time
}

// New returns a bar for total steps writing to stderr. It is disabled when
// stderr is not a terminal or SLIDEKIT_NO_PROGRESS=1.
func New(label string, total int) *Bar {
	return &Bar{
		Label:   label,
		Total:   total,
		Width:   24,
		Enabled: enabled(),
		Out:     os.Stderr,
		start:   time.Now(),
	}
}

// Step records one finished step and redraws with its name.
func (b *Bar) Step(name string, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done < b.Total {
		b.done++
	}
	if !ok {
		b.failed++
	}
	if b.Enabled {
		fmt.Fprint(b.Out, clearLine+b.line(name))
	}
}

// Done returns the number of steps recorded so far.
func (b *Bar) Done() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// Failed returns how many recorded steps failed.
func (b *Bar) Failed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failed
}

// Finish replaces the bar with a ✓ or ✗ summary line.
func (b *Bar) Finish(summary string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.Enabled {
		return
	}
	mark := "✓"
	if b.failed > 0 {
		mark = "✗"
	}
	fmt.Fprintf(b.Out, "%s%s %s\n", clearLine, mark, summary)
}

func (b *Bar) line(name string) string {
	filled := b.Width
	if b.Total > 0 {
		filled = b.done * b.Width / b.Total
	}
	var s strings.Builder
	fmt.Fprintf(&s, "%s %s%s %d/%d", b.Label,
		strings.Repeat("█", filled), strings.Repeat("░", b.Width-filled), b.done, b.Total)
	if b.failed > 0 {
		fmt.Fprintf(&s, " (%d failed)", b.failed)
	}
	if !b.start.IsZero() {
		fmt.Fprintf(&s, " %s", time.Since(b.start).Round(time.Second))
	}
	s.WriteString("  " + name)
	return s.String()
}

var frames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner shows activity for work of unknown length.
type Spinner struct {
	Enabled bool
	Out     io.Writer

	mu    sync.Mutex
	label string
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewSpinner returns a spinner on stderr.
func NewSpinner(label string) *Spinner {
	return &Spinner{label: label, Enabled: enabled(), Out: os.Stderr}
}

// Start animates the spinner until Stop.
func (s *Spinner) Start() {
	if !s.Enabled {
		return
	}
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		tick := time.NewTicker(80 * time.Millisecond)
		defer tick.Stop()
		for i := 0; ; i++ {
			s.mu.Lock()
			fmt.Fprintf(s.Out, "%s%c %s", clearLine, frames[i%len(frames)], s.label)
			s.mu.Unlock()
			select {
			case <-stop:
				return
			case <-tick.C:
			}
		}
	}()
}

// Update changes the label shown while running.
func (s *Spinner) Update(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}

// Label returns the current label.
func (s *Spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// Stop ends the animation and prints result. Stopping twice is a no-op.
func (s *Spinner) Stop(result string) {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	s.wg.Wait()
	fmt.Fprintf(s.Out, "%s✓ %s\n", clearLine, result)
}

func enabled() bool {
	if os.Getenv("SLIDEKIT_NO_PROGRESS") == "1" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
