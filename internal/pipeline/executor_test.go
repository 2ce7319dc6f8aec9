package pipeline

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/tools"
)

// fakeTools dispatches to registered funcs and records every call.
type fakeTools struct {
	funcs map[string]func(tools.Args) (string, error)
	calls []string
}

func newFakeTools() *fakeTools {
	return &fakeTools{funcs: make(map[string]func(tools.Args) (string, error))}
}

func (f *fakeTools) Run(_ context.Context, _, name string, args tools.Args) (string, error) {
	f.calls = append(f.calls, name)
	fn, ok := f.funcs[name]
	if !ok {
		return "", errinfo.NotFound("call tool", "Unknown tool '%s'", name)
	}
	return fn(args)
}

func TestInterpolateDateToday(t *testing.T) {
	e := NewExecutor(newFakeTools(), false)
	result := e.interpolate("Today is ${{ date.today }}")
	today := time.Now().Format("2006-01-02")

	if !strings.Contains(result, today) {
		t.Errorf("expected today's date %q in result %q", today, result)
	}
}

func TestInterpolateDateTimestamp(t *testing.T) {
	e := NewExecutor(newFakeTools(), false)
	result := e.interpolate("Now: ${{ date.timestamp }}")

	if strings.Contains(result, "${{") {
		t.Errorf("timestamp was not interpolated: %q", result)
	}

	// Should contain a year
	year := time.Now().Format("2006")
	if !strings.Contains(result, year) {
		t.Errorf("expected year %q in result %q", year, result)
	}
}

func TestInterpolateEnvVar(t *testing.T) {
	t.Setenv("SLIDEKIT_TEST_VAR", "hello_world")

	e := NewExecutor(newFakeTools(), false)
	result := e.interpolate("Value: ${{ env.SLIDEKIT_TEST_VAR }}")

	if !strings.Contains(result, "hello_world") {
		t.Errorf("expected 'hello_world' in result %q", result)
	}
}

func TestInterpolateEnvVarEmpty(t *testing.T) {
	os.Unsetenv("SLIDEKIT_MISSING_VAR")

	e := NewExecutor(newFakeTools(), false)
	result := e.interpolate("Value: ${{ env.SLIDEKIT_MISSING_VAR }}")

	// Should resolve to empty string
	if strings.Contains(result, "${{") {
		t.Errorf("env var was not interpolated: %q", result)
	}
	if result != "Value: " {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestStepOutputFlowsToNextStep(t *testing.T) {
	ft := newFakeTools()
	ft.funcs["produce"] = func(tools.Args) (string, error) { return "produced_data", nil }
	ft.funcs["consume"] = func(a tools.Args) (string, error) {
		rows := a["rows"].([]any)
		return "received:" + a.OptString("text", "") + "/" + rows[0].(string), nil
	}
	e := NewExecutor(ft, false)

	p := &Pipeline{
		Name:    "test",
		Version: "1.0",
		Steps: []Step{
			{ID: "step1", Tool: "produce"},
			{ID: "step2", Tool: "consume", Args: map[string]any{
				"text": "${{ steps.step1.output }}",
				"rows": []any{"<${{ steps.step1.output }}>"},
			}},
		},
	}

	res, err := e.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Steps) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res.Steps))
	}
	if res.Steps[0].Output != "produced_data" {
		t.Errorf("step1: expected 'produced_data', got %q", res.Steps[0].Output)
	}
	if res.Steps[1].Output != "received:produced_data/<produced_data>" {
		t.Errorf("step2: got %q", res.Steps[1].Output)
	}
}

func TestUnknownToolReturnsError(t *testing.T) {
	e := NewExecutor(newFakeTools(), false)

	p := &Pipeline{
		Name:  "test",
		Steps: []Step{{ID: "bad_step", Tool: "nonexistent_tool"}},
	}

	res, err := e.Run(context.Background(), p)
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if !strings.Contains(err.Error(), "bad_step") || !strings.Contains(err.Error(), "nonexistent_tool") {
		t.Errorf("expected step and tool in error, got: %s", err)
	}
	if len(res.Steps) != 1 || !res.Steps[0].Failed() {
		t.Errorf("expected one failed step, got %+v", res.Steps)
	}
}

func TestContinueOnFailure(t *testing.T) {
	ft := newFakeTools()
	ft.funcs["ok_tool"] = func(tools.Args) (string, error) { return "ok", nil }
	e := NewExecutor(ft, false)
	var seen []string
	e.OnStep(func(r StepResult) { seen = append(seen, r.StepID) })

	p := &Pipeline{
		Name: "test",
		Steps: []Step{
			{ID: "skip_me", Tool: "nonexistent", OnFailure: OnFailureContinue},
			{ID: "after_skip", Tool: "ok_tool"},
		},
	}

	res, err := e.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run should not fail with on_failure=continue: %v", err)
	}
	if res.Failed() != 1 {
		t.Errorf("expected 1 failed step, got %d", res.Failed())
	}
	if res.Steps[0].Error != "Unknown tool 'nonexistent'" {
		t.Errorf("first step error = %q", res.Steps[0].Error)
	}
	if res.Steps[1].Output != "ok" {
		t.Errorf("second step should have run, got output %q", res.Steps[1].Output)
	}
	if strings.Join(seen, ",") != "skip_me,after_skip" {
		t.Errorf("OnStep saw %v", seen)
	}
}

func TestDocumentIsOpenedAndSaved(t *testing.T) {
	ft := newFakeTools()
	var actions []string
	ft.funcs["manage_presentation"] = func(a tools.Args) (string, error) {
		actions = append(actions, a.OptString("action", "")+":"+a.OptString("file_path", "")+a.OptString("save_path", ""))
		return "ok", nil
	}
	ft.funcs["find_and_replace"] = func(tools.Args) (string, error) { return "done", nil }

	p := &Pipeline{
		Name:     "brand",
		Document: "in.pptx",
		SaveAs:   "out.pptx",
		Steps:    []Step{{ID: "rename", Tool: "find_and_replace"}},
	}
	var log bytes.Buffer
	e := NewExecutor(ft, true)
	e.SetOutput(&log)
	if _, err := e.Run(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	if strings.Join(actions, ",") != "open:in.pptx,save_as:out.pptx" {
		t.Errorf("presentation actions = %v", actions)
	}
	if !strings.Contains(log.String(), "Running pipeline: brand") || !strings.Contains(log.String(), "Saved out.pptx") {
		t.Errorf("verbose output = %q", log.String())
	}
}

func TestDryRunCallsNothing(t *testing.T) {
	ft := newFakeTools()
	ft.funcs["find_and_replace"] = func(tools.Args) (string, error) { return "done", nil }
	e := NewExecutor(ft, false)
	e.SetDryRun(true)

	p := &Pipeline{
		Name:     "test",
		Document: "in.pptx",
		Steps: []Step{
			{ID: "rename", Tool: "find_and_replace", Args: map[string]any{"find_text": "Acme", "replace_text": "Globex"}},
		},
	}

	res, err := e.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(ft.calls) != 0 {
		t.Errorf("dry run dispatched %v", ft.calls)
	}
	if got := res.Steps[0].Output; got != "[DRY-RUN] Would call find_and_replace with find_text=Acme replace_text=Globex" {
		t.Errorf("dry-run output = %q", got)
	}
}
