package shell

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klytics/slidekit/internal/editor"
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/logging"
	"github.com/klytics/slidekit/internal/session"
	"github.com/klytics/slidekit/internal/tools"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	ed := editor.New(session.New(logging.Nop()), nil, logging.Nop())
	return NewSession(tools.NewRegistry(ed))
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t)
	if len(s.CommandHistory) != 0 {
		t.Errorf("expected empty history, got %d entries", len(s.CommandHistory))
	}
	if s.HistoryFile == "" {
		t.Error("expected history file path to be set")
	}
	if len(s.Commands()) != len(builtins)+19 {
		t.Errorf("expected builtins and tools, got %v", s.Commands())
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"add_textbox slide_number=1", []string{"add_textbox", "slide_number=1"}},
		{`text="Hello world"  x=1`, []string{"text=Hello world", "x=1"}},
		{`text='it "works"'`, []string{`text=it "works"`}},
		{`text="say \"hi\""`, []string{`text=say "hi"`}},
		{`empty=""`, []string{"empty="}},
		{"   ", nil},
	}
	for _, tt := range tests {
		got, err := Split(tt.input)
		if err != nil {
			t.Fatalf("Split(%q): %v", tt.input, err)
		}
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("Split(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	if _, err := Split(`text="open`); err == nil {
		t.Error("expected error for an unterminated quote")
	}
}

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs([]string{"slide_number=2", "text=a=b"})
	if err != nil {
		t.Fatal(err)
	}
	if args["slide_number"] != "2" || args["text"] != "a=b" {
		t.Errorf("args = %v", args)
	}
	if _, err := ParseArgs([]string{"oops"}); !errors.Is(err, errinfo.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestEvalSession(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shell.pptx")

	if s.prompt() != "slidekit> " {
		t.Errorf("prompt without deck = %q", s.prompt())
	}

	steps := []struct {
		line string
		want string
	}{
		{"new " + path, "Successfully created new presentation"},
		{"manage_slide action=add", "Total slides: 1"},
		{`add_textbox slide_number=1 text="Quarterly results" font_bold=true`, "Successfully added textbox"},
		{`find_and_replace find_text=Quarterly replace_text="Annual"`, "in 1 location(s)"},
		{"save", "Successfully saved presentation to: " + path},
		{"info", path},
	}
	for _, st := range steps {
		out, err := s.Eval(ctx, st.line)
		if err != nil {
			t.Fatalf("%s: %v", st.line, err)
		}
		if !strings.Contains(out, st.want) {
			t.Errorf("%s: output %q does not contain %q", st.line, out, st.want)
		}
	}
	if s.LastOutput == "" {
		t.Error("expected LastOutput to be set after Eval")
	}
	if s.prompt() != "slidekit [shell.pptx]> " {
		t.Errorf("prompt = %q", s.prompt())
	}
}

func TestEvalErrors(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	if _, err := s.Eval(ctx, "unknown-command"); !errors.Is(err, errinfo.ErrNotFound) {
		t.Errorf("unknown command: %v", err)
	}
	if _, err := s.Eval(ctx, "get_slide_snapshot slide_number=1"); !errors.Is(err, errinfo.ErrNoPresentation) {
		t.Errorf("no deck: %v", err)
	}
	if _, err := s.Eval(ctx, "open"); !errors.Is(err, errinfo.ErrInvalidArgument) {
		t.Errorf("open without path: %v", err)
	}
	out, err := s.Eval(ctx, "")
	if err != nil || out != "" {
		t.Errorf("empty line = %q, %v", out, err)
	}
}

func TestEvalHelpAndTools(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	out, err := s.Eval(ctx, "help insert_icon")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "icon_name") || !strings.Contains(out, "(required)") {
		t.Errorf("tool help = %q", out)
	}
	out, _ = s.Eval(ctx, "tools")
	if !strings.Contains(out, "fit_image") {
		t.Errorf("tools = %q", out)
	}
	out, _ = s.Eval(ctx, "help")
	if !strings.Contains(out, "key=value") {
		t.Errorf("help = %q", out)
	}
}

func TestCompleteCommand(t *testing.T) {
	s := newTestSession(t)
	matches := s.Complete("add_t")
	if strings.Join(matches, ",") != "add_table,add_textbox" {
		t.Errorf("expected [add_table add_textbox], got %v", matches)
	}
	if len(s.Complete("")) != len(s.Commands()) {
		t.Error("expected all commands for empty input")
	}
}

func TestCompleteParams(t *testing.T) {
	s := newTestSession(t)
	matches := s.Complete("find_and_replace find_text=x ")
	want := "replace_text=,slide_number=,match_case="
	if strings.Join(matches, ",") != want {
		t.Errorf("got %v, want %s", matches, want)
	}
	if got := s.Complete("find_and_replace ma"); len(got) != 1 || got[0] != "match_case=" {
		t.Errorf("prefix completion = %v", got)
	}
	if got := s.Complete("zzz "); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{5 * time.Minute, "5m 0s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.input); got != tt.expected {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
