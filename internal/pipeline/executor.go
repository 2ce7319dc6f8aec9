package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/tools"
)

// Surface names pipeline calls in logs and the audit trail.
const Surface = "pipeline"

// Dispatcher runs a tool by name. *tools.Registry is one.
type Dispatcher interface {
	Run(ctx context.Context, surface, name string, args tools.Args) (string, error)
}

// RunResult is the outcome of a whole pipeline.
type RunResult struct {
	Steps    []StepResult  `json:"steps"`
	Duration time.Duration `json:"duration"`
}

// Failed counts the steps that returned an error.
func (r *RunResult) Failed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Failed() {
			n++
		}
	}
	return n
}

// Executor runs pipeline steps sequentially, resolving variable interpolation between steps.
type Executor struct {
	tools   Dispatcher
	results map[string]*StepResult
	verbose bool
	dryRun  bool
	out     io.Writer
	onStep  func(StepResult)
}

// NewExecutor creates a pipeline executor that dispatches to d.
func NewExecutor(d Dispatcher, verbose bool) *Executor {
	return &Executor{
		tools:   d,
		results: make(map[string]*StepResult),
		verbose: verbose,
		out:     os.Stdout,
	}
}

// SetDryRun enables dry-run mode: steps are resolved and reported but no
// tool runs and the deck is neither opened nor saved.
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// SetOutput redirects verbose progress output.
func (e *Executor) SetOutput(w io.Writer) {
	e.out = w
}

// OnStep registers a callback run after every step, dry-run steps included.
func (e *Executor) OnStep(fn func(StepResult)) {
	e.onStep = fn
}

func (e *Executor) record(r StepResult) {
	if e.onStep != nil {
		e.onStep(r)
	}
}

func (e *Executor) logf(format string, args ...any) {
	if e.verbose {
		fmt.Fprintf(e.out, format, args...)
	}
}

// Run executes all steps in the pipeline sequentially. It stops at the
// first failing step unless that step's on_failure is continue.
func (e *Executor) Run(ctx context.Context, p *Pipeline) (*RunResult, error) {
	start := time.Now()
	res := &RunResult{}
	defer func() { res.Duration = time.Since(start) }()

	e.logf("Running pipeline: %s (v%s)\n", p.Name, p.Version)
	if e.dryRun {
		e.logf("  (dry-run mode: no tool will run)\n")
	}

	if p.Document != "" && !e.dryRun {
		if _, err := e.tools.Run(ctx, Surface, "manage_presentation", tools.Args{"action": "open", "file_path": p.Document}); err != nil {
			return res, fmt.Errorf("could not open %s: %w", p.Document, err)
		}
	}

	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		e.logf("[%d/%d] Running step: %s (%s)\n", i+1, len(p.Steps), step.ID, step.Tool)

		args := e.resolveArgs(step.Args)

		if e.dryRun {
			msg := fmt.Sprintf("[DRY-RUN] Would call %s with %s", step.Tool, describeArgs(args))
			e.logf("  %s\n", msg)
			result := StepResult{StepID: step.ID, Tool: step.Tool, Output: msg}
			res.Steps = append(res.Steps, result)
			e.results[step.ID] = &result
			e.record(result)
			continue
		}

		stepStart := time.Now()
		output, err := e.tools.Run(ctx, Surface, step.Tool, args)
		result := StepResult{StepID: step.ID, Tool: step.Tool, Output: output}
		if err != nil {
			result.Error = errinfo.Message(err)
		}
		res.Steps = append(res.Steps, result)
		e.results[step.ID] = &result
		e.record(result)

		e.logf("  Completed in %s\n", time.Since(stepStart).Round(time.Millisecond))

		if err != nil {
			if step.continues() {
				e.logf("  Step %s failed (continuing): %s\n", step.ID, result.Error)
				continue
			}
			return res, fmt.Errorf("step %q failed: %w", step.ID, err)
		}
	}

	if p.SaveAs != "" && !e.dryRun {
		if _, err := e.tools.Run(ctx, Surface, "manage_presentation", tools.Args{"action": "save_as", "save_path": p.SaveAs}); err != nil {
			return res, fmt.Errorf("could not save to %s: %w", p.SaveAs, err)
		}
		e.logf("Saved %s\n", p.SaveAs)
	}

	return res, nil
}

var interpolationPattern = regexp.MustCompile(`\$\{\{\s*([^}]+)\s*\}\}`)

// resolveArgs interpolates every string in args, including those nested in
// lists and maps.
func (e *Executor) resolveArgs(args map[string]any) tools.Args {
	out := make(tools.Args, len(args))
	for k, v := range args {
		out[k] = e.resolveValue(v)
	}
	return out
}

func (e *Executor) resolveValue(v any) any {
	switch v := v.(type) {
	case string:
		return e.interpolate(v)
	case []any:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = e.resolveValue(x)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, x := range v {
			out[k] = e.resolveValue(x)
		}
		return out
	}
	return v
}

func (e *Executor) interpolate(s string) string {
	return interpolationPattern.ReplaceAllStringFunc(s, func(match string) string {
		inner := interpolationPattern.FindStringSubmatch(match)
		if len(inner) < 2 {
			return match
		}
		expr := strings.TrimSpace(inner[1])

		// Handle steps.<id>.output
		if strings.HasPrefix(expr, "steps.") {
			parts := strings.Split(expr, ".")
			if len(parts) >= 3 && parts[2] == "output" {
				stepID := parts[1]
				if result, ok := e.results[stepID]; ok {
					return result.Output
				}
			}
		}

		// Handle date.today
		if expr == "date.today" {
			return time.Now().Format("2006-01-02")
		}

		// Handle date.now or date.timestamp
		if expr == "date.now" || expr == "date.timestamp" {
			return time.Now().Format(time.RFC3339)
		}

		// Handle env.VAR_NAME
		if strings.HasPrefix(expr, "env.") {
			varName := strings.TrimPrefix(expr, "env.")
			return os.Getenv(varName)
		}

		return match
	})
}

// describeArgs renders args as sorted key=value pairs for dry-run output.
func describeArgs(args tools.Args) string {
	if len(args) == 0 {
		return "no arguments"
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + truncateStr(fmt.Sprint(args[k]), 40)
	}
	return strings.Join(parts, " ")
}

func truncateStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
