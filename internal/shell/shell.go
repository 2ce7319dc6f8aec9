// Package shell provides the interactive slidekit REPL over the tool registry.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/tools"
)

// Surface names shell calls in logs and the audit trail.
const Surface = "shell"

// builtins are the shell's own commands.
var builtins = []string{"help", "tools", "open", "new", "save", "info", "history", "exit", "quit"}

// Session manages an interactive shell session.
type Session struct {
	Tools          *tools.Registry
	LastOutput     string
	CommandHistory []string
	HistoryFile    string
	StartTime      time.Time
	Out            io.Writer
}

// NewSession creates a session dispatching to reg.
func NewSession(reg *tools.Registry) *Session {
	home, _ := os.UserHomeDir()
	histFile := filepath.Join(home, ".slidekit", "shell_history")

	// Ensure parent dir exists
	os.MkdirAll(filepath.Dir(histFile), 0755)

	return &Session{
		Tools:       reg,
		HistoryFile: histFile,
		StartTime:   time.Now(),
		Out:         os.Stdout,
	}
}

// Commands lists everything that may start a line: shell commands then tools.
func (s *Session) Commands() []string {
	return append(append([]string{}, builtins...), s.Tools.Names()...)
}

func (s *Session) prompt() string {
	ed := s.Tools.Editor()
	if ed == nil {
		return "slidekit> "
	}
	if _, err := ed.Session.Deck(); err != nil {
		return "slidekit> "
	}
	name := filepath.Base(ed.Session.Path())
	if ed.Session.Path() == "" {
		name = "untitled"
	}
	if ed.Session.Modified() {
		name += "*"
	}
	return fmt.Sprintf("slidekit [%s]> ", name)
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     s.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(s.buildCompleter()...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(s.Out, "slidekit — Interactive Shell")
	fmt.Fprintln(s.Out, "Type 'help' for commands, 'exit' to quit.")
	fmt.Fprintln(s.Out)

	errColor := color.New(color.FgRed)
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.CommandHistory = append(s.CommandHistory, line)

		switch line {
		case "exit", "quit":
			elapsed := time.Since(s.StartTime)
			fmt.Fprintf(s.Out, "\nSession ended. %d commands run in %s.\n",
				len(s.CommandHistory)-1, formatDuration(elapsed))
			if ed := s.Tools.Editor(); ed != nil && ed.Session.Modified() {
				fmt.Fprintln(s.Out, "Warning: unsaved changes were discarded")
			}
			return nil
		case "history":
			for i, cmd := range s.CommandHistory {
				fmt.Fprintf(s.Out, "  %d  %s\n", i+1, cmd)
			}
		default:
			output, err := s.Eval(ctx, line)
			if err != nil {
				errColor.Fprintf(os.Stderr, "Error: %s\n", errinfo.Message(err))
			} else if output != "" {
				fmt.Fprint(s.Out, output)
				if !strings.HasSuffix(output, "\n") {
					fmt.Fprintln(s.Out)
				}
			}
		}
		rl.SetPrompt(s.prompt())
	}

	return nil
}

// Eval runs a single command line and returns its output. Tool calls take
// key=value arguments; values may be quoted.
func (s *Session) Eval(ctx context.Context, line string) (string, error) {
	words, err := Split(line)
	if err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", nil
	}
	name, rest := words[0], words[1:]

	var out string
	switch name {
	case "help":
		out, err = s.help(rest)
	case "tools":
		out = s.listTools()
	case "open":
		if len(rest) != 1 {
			return "", errinfo.InvalidArgument("open", "usage: open <path>")
		}
		out, err = s.call(ctx, "manage_presentation", tools.Args{"action": "open", "file_path": rest[0]})
	case "new":
		args := tools.Args{"action": "create"}
		if len(rest) > 0 {
			args["file_path"] = rest[0]
		}
		out, err = s.call(ctx, "manage_presentation", args)
	case "save":
		args := tools.Args{"action": "save"}
		if len(rest) > 0 {
			args = tools.Args{"action": "save_as", "save_path": rest[0]}
		}
		out, err = s.call(ctx, "manage_presentation", args)
	case "info":
		out, err = s.call(ctx, "get_presentation_info", nil)
	default:
		args, perr := ParseArgs(rest)
		if perr != nil {
			return "", perr
		}
		out, err = s.call(ctx, name, args)
	}
	if err != nil {
		return "", err
	}
	s.LastOutput = out
	return out, nil
}

func (s *Session) call(ctx context.Context, name string, args tools.Args) (string, error) {
	if _, ok := s.Tools.Get(name); !ok {
		return "", errinfo.NotFound("shell", "Unknown command '%s'. Type 'tools' to list tools", name)
	}
	return s.Tools.Run(ctx, Surface, name, args)
}

// ParseArgs turns key=value words into tool arguments. Values stay
// strings; the tools convert them.
func ParseArgs(words []string) (tools.Args, error) {
	args := tools.Args{}
	for _, w := range words {
		key, value, ok := strings.Cut(w, "=")
		if !ok || key == "" {
			return nil, errinfo.InvalidArgument("shell", "expected key=value, got %q", w)
		}
		args[key] = value
	}
	return args, nil
}

// Split breaks a line into words. Single and double quotes group words;
// inside double quotes a backslash escapes the next character.
func Split(line string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inWord := false
	var quote rune
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote == '"' && r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, errinfo.InvalidArgument("shell", "unterminated %c quote", quote)
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

// Complete returns tab-completion candidates for the given input.
func (s *Session) Complete(input string) []string {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return s.Commands()
	}

	// Complete the command
	if len(parts) == 1 && !strings.HasSuffix(input, " ") {
		var matches []string
		for _, cmd := range s.Commands() {
			if strings.HasPrefix(cmd, parts[0]) {
				matches = append(matches, cmd)
			}
		}
		sort.Strings(matches)
		return matches
	}

	// Complete parameter keys of a tool
	tool, ok := s.Tools.Get(parts[0])
	if !ok {
		return nil
	}
	prefix := ""
	if !strings.HasSuffix(input, " ") {
		prefix = parts[len(parts)-1]
		if strings.Contains(prefix, "=") {
			return nil
		}
	}
	used := make(map[string]bool)
	for _, p := range parts[1:] {
		if k, _, ok := strings.Cut(p, "="); ok {
			used[k] = true
		}
	}
	var matches []string
	for _, p := range tool.Params {
		if !used[p.Name] && strings.HasPrefix(p.Name, prefix) {
			matches = append(matches, p.Name+"=")
		}
	}
	return matches
}

func (s *Session) help(rest []string) (string, error) {
	if len(rest) > 0 {
		t, ok := s.Tools.Get(rest[0])
		if !ok {
			return "", errinfo.NotFound("help", "Unknown tool '%s'", rest[0])
		}
		return t.Usage(), nil
	}
	var b strings.Builder
	b.WriteString("Shell commands:\n")
	b.WriteString("  open <path>        — open a presentation\n")
	b.WriteString("  new [path]         — create a presentation\n")
	b.WriteString("  save [path]        — save, or save as path\n")
	b.WriteString("  info               — show the open presentation\n")
	b.WriteString("  tools              — list tools\n")
	b.WriteString("  help <tool>        — show a tool's arguments\n")
	b.WriteString("  history            — show command history\n")
	b.WriteString("  exit               — exit the shell\n")
	b.WriteString("\nTool calls:\n")
	b.WriteString("  <tool> key=value ...   e.g. find_and_replace find_text=Acme replace_text=\"Globex Corp\"\n")
	return b.String(), nil
}

func (s *Session) listTools() string {
	var b strings.Builder
	for _, t := range s.Tools.Tools() {
		desc, _, _ := strings.Cut(t.Description, ". ")
		fmt.Fprintf(&b, "  %-22s %s\n", t.Name, strings.TrimSuffix(desc, "."))
	}
	return b.String()
}

func (s *Session) buildCompleter() []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range builtins {
		items = append(items, readline.PcItem(cmd))
	}
	for _, t := range s.Tools.Tools() {
		var keys []readline.PrefixCompleterInterface
		for _, p := range t.Params {
			keys = append(keys, readline.PcItem(p.Name+"="))
		}
		items = append(items, readline.PcItem(t.Name, keys...))
	}
	return items
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
