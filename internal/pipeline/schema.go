// Package pipeline runs YAML scripts of tool calls against one deck.
package pipeline

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pipeline is a script of tool calls. Document, when set, is opened before
// the first step; SaveAs, when set, is where the deck is saved afterwards.
type Pipeline struct {
	Name     string `yaml:"name" json:"name"`
	Version  string `yaml:"version" json:"version"`
	Document string `yaml:"document,omitempty" json:"document,omitempty"`
	SaveAs   string `yaml:"save_as,omitempty" json:"saveAs,omitempty"`
	Steps    []Step `yaml:"steps" json:"steps"`
}

// Step is one tool call.
type Step struct {
	ID        string         `yaml:"id" json:"id"`
	Tool      string         `yaml:"tool" json:"tool"`
	Args      map[string]any `yaml:"args,omitempty" json:"args,omitempty"`
	OnFailure string         `yaml:"on_failure,omitempty" json:"onFailure,omitempty"`
}

// Failure policies. skip is accepted as another name for continue.
const (
	OnFailureStop     = "stop"
	OnFailureContinue = "continue"
	onFailureSkip     = "skip"
)

// continues reports whether a failed step lets the script go on.
func (s Step) continues() bool {
	return s.OnFailure == OnFailureContinue || s.OnFailure == onFailureSkip
}

// StepResult holds the output of a completed step.
type StepResult struct {
	StepID string `json:"stepId"`
	Tool   string `json:"tool"`
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// Failed reports whether the step returned an error.
func (r StepResult) Failed() bool { return r.Error != "" }

// LoadPipeline reads and parses a pipeline YAML file.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("pipeline file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read pipeline file %s: %w", path, err)
	}

	return ParsePipeline(data)
}

// ParsePipeline parses a pipeline from YAML bytes.
func ParsePipeline(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid pipeline YAML: %w", err)
	}

	if err := validatePipeline(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

func validatePipeline(p *Pipeline) error {
	if p.Name == "" {
		return fmt.Errorf("pipeline is missing a 'name' field")
	}

	if len(p.Steps) == 0 {
		return fmt.Errorf("pipeline %q has no steps defined", p.Name)
	}

	seen := make(map[string]bool)
	for i, step := range p.Steps {
		if step.ID == "" {
			return fmt.Errorf("step %d is missing an 'id' field", i+1)
		}
		if seen[step.ID] {
			return fmt.Errorf("duplicate step ID %q — each step must have a unique ID", step.ID)
		}
		seen[step.ID] = true

		if step.Tool == "" {
			return fmt.Errorf("step %q is missing a 'tool' field", step.ID)
		}
		switch step.OnFailure {
		case "", OnFailureStop, OnFailureContinue, onFailureSkip:
		default:
			return fmt.Errorf("step %q has on_failure %q — use stop or continue", step.ID, step.OnFailure)
		}
	}

	return nil
}

// Validate checks p against the available tools: every step names a known
// tool and only refers to the output of steps that run before it.
func Validate(p *Pipeline, known func(tool string) bool) []error {
	var errs []error
	if err := validatePipeline(p); err != nil {
		return []error{err}
	}
	before := make(map[string]bool)
	for _, step := range p.Steps {
		if !known(step.Tool) {
			errs = append(errs, fmt.Errorf("step %q uses unknown tool %q", step.ID, step.Tool))
		}
		for _, ref := range references(step.Args) {
			if !before[ref] {
				errs = append(errs, fmt.Errorf("step %q refers to the output of %q, which does not run before it", step.ID, ref))
			}
		}
		before[step.ID] = true
	}
	return errs
}

// references lists the step ids named by ${{ steps.<id>.output }} in args.
func references(args map[string]any) []string {
	var out []string
	var walk func(v any)
	walk = func(v any) {
		switch v := v.(type) {
		case string:
			for _, m := range interpolationPattern.FindAllStringSubmatch(v, -1) {
				parts := strings.Split(strings.TrimSpace(m[1]), ".")
				if len(parts) == 3 && parts[0] == "steps" && parts[2] == "output" {
					out = append(out, parts[1])
				}
			}
		case []any:
			for _, x := range v {
				walk(x)
			}
		case map[string]any:
			for _, x := range v {
				walk(x)
			}
		}
	}
	for _, v := range args {
		walk(v)
	}
	return out
}
