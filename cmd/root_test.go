package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootRegistersCommands(t *testing.T) {
	root := NewRootCommand()
	want := []string{
		"serve", "read", "info", "snapshot", "replace", "rewrite", "repair",
		"icon", "fit", "diff", "shell", "pipeline", "watch",
		"audit", "config", "doctor", "completion", "version",
	}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version", "--no-color"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "slidekit ") {
		t.Errorf("got %q", buf.String())
	}
}
