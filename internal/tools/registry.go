// Package tools describes every deck operation as a named tool with typed
// parameters. The MCP server, the shell and pipelines all dispatch through
// the same Registry.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/klytics/slidekit/internal/audit"
	"github.com/klytics/slidekit/internal/editor"
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/logging"
)

// Type is the JSON type of a parameter.
type Type string

const (
	String  Type = "string"
	Number  Type = "number"
	Integer Type = "integer"
	Boolean Type = "boolean"
)

// Param describes one tool argument.
type Param struct {
	Name        string
	Description string
	Type        Type
	Required    bool
	Enum        []string
}

// RunFunc executes a tool and returns its text result.
type RunFunc func(ctx context.Context, args Args) (string, error)

// Tool is a named operation callable by agents and scripts.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Run         RunFunc
}

// Param returns the parameter called name.
func (t *Tool) Param(name string) (Param, bool) {
	for _, p := range t.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Check validates args against the declared parameters. Enum values are
// advertised to clients but checked by the editor, which names the valid
// choices in its errors.
func (t *Tool) Check(args Args) error {
	op := t.Name
	for _, p := range t.Params {
		if p.Required && !args.Has(p.Name) {
			return errinfo.InvalidArgument(op, "%s is required", p.Name)
		}
	}
	for key := range args {
		if _, ok := t.Param(key); !ok {
			return errinfo.InvalidArgument(op, "unknown argument '%s'", key)
		}
	}
	return nil
}

// Registry holds the available tools.
type Registry struct {
	tools    map[string]*Tool
	disabled map[string]bool
	editor   *editor.Editor
	audit    *audit.Logger
	log      *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// Disabled leaves the named tools out of the registry.
func Disabled(names ...string) Option {
	return func(r *Registry) {
		for _, name := range names {
			r.disabled[name] = true
		}
	}
}

// WithAudit records every Run in the audit log.
func WithAudit(l *audit.Logger) Option {
	return func(r *Registry) { r.audit = l }
}

// WithLogger sets the logger for tool calls.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// NewRegistry returns a registry with every built-in tool bound to ed.
func NewRegistry(ed *editor.Editor, opts ...Option) *Registry {
	r := &Registry{
		tools:    make(map[string]*Tool),
		disabled: make(map[string]bool),
		editor:   ed,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With("component", "tools")
	registerBuiltins(r, ed)
	return r
}

// Editor returns the editor the built-in tools act on.
func (r *Registry) Editor() *editor.Editor { return r.editor }

// Add registers t, replacing a tool of the same name.
func (r *Registry) Add(t *Tool) {
	if r.disabled[t.Name] {
		return
	}
	r.tools[t.Name] = t
}

// Get returns the tool called name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tools returns the tools sorted by name.
func (r *Registry) Tools() []*Tool {
	out := make([]*Tool, 0, len(r.tools))
	for _, name := range r.Names() {
		out = append(out, r.tools[name])
	}
	return out
}

// Call checks args and runs the named tool.
func (r *Registry) Call(ctx context.Context, name string, args Args) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", errinfo.NotFound("call tool", "Unknown tool '%s'", name)
	}
	if args == nil {
		args = Args{}
	}
	if err := t.Check(args); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("could not run %s: %w", name, err)
	}
	return t.Run(ctx, args)
}

// Run is Call as seen from a surface (mcp, shell, pipeline): the call is
// logged and, when auditing is on, recorded with its outcome.
func (r *Registry) Run(ctx context.Context, surface, name string, args Args) (string, error) {
	start := time.Now()
	out, err := r.Call(ctx, name, args)
	elapsed := time.Since(start)

	entry := audit.Entry{
		Timestamp:  start.UTC(),
		Surface:    surface,
		Tool:       name,
		Args:       audit.SummarizeArgs(args),
		OK:         err == nil,
		DurationMs: elapsed.Milliseconds(),
	}
	if r.editor != nil && r.editor.Session != nil {
		entry.Document = r.editor.Session.Path()
	}
	if err != nil {
		entry.Code = errinfo.KindOf(err).Code()
		entry.Error = errinfo.Message(err)
		r.log.Warn("tool.failed", "tool", name, "surface", surface, "code", entry.Code, "err", err)
	} else {
		r.log.Debug("tool.called", "tool", name, "surface", surface, "duration_ms", entry.DurationMs)
	}
	_ = r.audit.Log(ctx, entry)
	return out, err
}

// Usage renders a short help text for t.
func (t *Tool) Usage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s\n", t.Name, t.Description)
	for _, p := range t.Params {
		req := ""
		if p.Required {
			req = " (required)"
		}
		fmt.Fprintf(&b, "  %-20s %-8s%s %s", p.Name, p.Type, req, p.Description)
		if len(p.Enum) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(p.Enum, "|"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
