package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisabledByEnv(t *testing.T) {
	t.Setenv("SLIDEKIT_NO_PROGRESS", "1")
	if New("run", 3).Enabled {
		t.Error("bar enabled with SLIDEKIT_NO_PROGRESS=1")
	}
	if NewSpinner("checks").Enabled {
		t.Error("spinner enabled with SLIDEKIT_NO_PROGRESS=1")
	}
}

func TestBarCountsSteps(t *testing.T) {
	var buf bytes.Buffer
	bar := &Bar{Label: "rebrand", Total: 2, Width: 4, Enabled: true, Out: &buf}
	bar.Step("swap", true)
	bar.Step("recolor", false)
	bar.Step("extra", true)

	if bar.Done() != 2 {
		t.Errorf("Done() = %d, want 2 (capped at total)", bar.Done())
	}
	if bar.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", bar.Failed())
	}
	if !strings.Contains(buf.String(), "rebrand ██░░ 1/2  swap") {
		t.Errorf("first step render = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "rebrand ████ 2/2 (1 failed)  recolor") {
		t.Errorf("second step render = %q", buf.String())
	}

	buf.Reset()
	bar.Finish("rebrand: 2/2 steps")
	if buf.String() != clearLine+"✗ rebrand: 2/2 steps\n" {
		t.Errorf("Finish() = %q", buf.String())
	}
}

func TestDisabledBarIsSilent(t *testing.T) {
	var buf bytes.Buffer
	bar := &Bar{Label: "x", Total: 1, Width: 4, Out: &buf}
	bar.Step("only", true)
	bar.Finish("done")
	if buf.Len() != 0 {
		t.Errorf("disabled bar wrote %q", buf.String())
	}
	if bar.Done() != 1 {
		t.Error("disabled bar should still count")
	}
}

func TestSpinner(t *testing.T) {
	var buf bytes.Buffer
	s := &Spinner{label: "checking", Enabled: true, Out: &buf}
	s.Start()
	s.Update("still checking")
	s.Stop("7 checks run")
	s.Stop("again")

	out := buf.String()
	if !strings.HasSuffix(out, "✓ 7 checks run\n") {
		t.Errorf("spinner output = %q", out)
	}
	if strings.Contains(out, "again") {
		t.Error("second Stop should not print")
	}
	if s.Label() != "still checking" {
		t.Errorf("Label() = %q", s.Label())
	}
}

func TestDisabledSpinnerIsSilent(t *testing.T) {
	var buf bytes.Buffer
	s := &Spinner{label: "x", Out: &buf}
	s.Start()
	s.Stop("done")
	if buf.Len() != 0 {
		t.Errorf("disabled spinner wrote %q", buf.String())
	}
}
