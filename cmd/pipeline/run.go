package pipeline

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/app"
	"github.com/klytics/slidekit/internal/output"
	pipelinepkg "github.com/klytics/slidekit/internal/pipeline"
	"github.com/klytics/slidekit/internal/progress"
)

func newRunCommand() *cobra.Command {
	var (
		dryRun   bool
		document string
		saveAs   string
	)

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Execute a deck script from a YAML file",
		Long: `Runs a multi-step script defined in a YAML file.

Steps are executed sequentially with variable interpolation between steps.
Use --dry-run to print each resolved tool call without running it.

Example:
  name: rebrand
  document: deck.pptx
  save_as: deck-rebranded.pptx
  steps:
    - id: swap
      tool: find_and_replace
      args: {find_text: Acme, replace_text: Contoso}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")

			p, err := pipelinepkg.LoadPipeline(args[0])
			if err != nil {
				return err
			}
			if document != "" {
				p.Document = document
			}
			if saveAs != "" {
				p.SaveAs = saveAs
			}

			a, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if errs := pipelinepkg.Validate(p, knownTool(a)); len(errs) > 0 {
				return errors.Join(errs...)
			}

			executor := pipelinepkg.NewExecutor(a.Registry, verbose)
			executor.SetDryRun(dryRun)
			if jsonFlag {
				executor.SetOutput(os.Stderr)
			} else {
				executor.SetOutput(cmd.OutOrStdout())
			}

			bar := progress.New(p.Name, len(p.Steps))
			bar.Enabled = bar.Enabled && !jsonFlag && !verbose
			executor.OnStep(func(r pipelinepkg.StepResult) { bar.Step(r.StepID, !r.Failed()) })

			result, execErr := executor.Run(cmd.Context(), p)
			if result != nil {
				bar.Finish(fmt.Sprintf("%s: %d/%d steps", p.Name, len(result.Steps), len(p.Steps)))
			}

			if jsonFlag {
				if result != nil {
					_ = output.PrintJSON("pipeline run", result)
				}
				return execErr
			}

			out := cmd.OutOrStdout()
			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()
			if result != nil {
				for _, r := range result.Steps {
					if r.Failed() {
						fmt.Fprintf(out, "%s Step %s (%s): FAILED — %s\n", red("✗"), r.StepID, r.Tool, r.Error)
					} else {
						fmt.Fprintf(out, "%s Step %s (%s): OK\n", green("✓"), r.StepID, r.Tool)
						// Verbose dry runs already printed the planned call.
						if r.Output != "" && verbose != dryRun {
							fmt.Fprintf(out, "  Output: %s\n", truncate(r.Output, 200))
						}
					}
				}
				fmt.Fprintf(out, "%d step(s), %d failed, %s\n", len(result.Steps), result.Failed(), result.Duration.Round(time.Millisecond))
			}

			return execErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print resolved tool calls without running them")
	cmd.Flags().StringVar(&document, "document", "", "Override the script's document")
	cmd.Flags().StringVar(&saveAs, "save-as", "", "Override the script's save_as")

	return cmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <script.yaml>",
		Short: "Check a script's structure, tool names and step references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipelinepkg.LoadPipeline(args[0])
			if err != nil {
				return err
			}
			a, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			errs := pipelinepkg.Validate(p, knownTool(a))
			if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
				msgs := make([]string, 0, len(errs))
				for _, e := range errs {
					msgs = append(msgs, e.Error())
				}
				if err := output.PrintJSON("pipeline validate", map[string]interface{}{"valid": len(errs) == 0, "steps": len(p.Steps), "errors": msgs}); err != nil {
					return err
				}
				return errors.Join(errs...)
			}
			if len(errs) == 0 {
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s is valid (%d steps)\n", args[0], len(p.Steps))
				return nil
			}
			for _, e := range errs {
				color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "  %s\n", e)
			}
			return fmt.Errorf("%d problem(s) in %s", len(errs), args[0])
		},
	}
}

func knownTool(a *app.App) func(string) bool {
	return func(name string) bool {
		_, ok := a.Registry.Get(name)
		return ok
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
