// Package watch provides the "slidekit watch" command.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/app"
	w "github.com/klytics/slidekit/internal/watch"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		pattern   string
		recursive bool
		debounce  int
	)

	cmd := &cobra.Command{
		Use:   "watch <directory> [directory...]",
		Short: "Repair SVG content types of decks as they are saved",
		Long: `Watches directories for new or modified decks and makes sure each one
declares the image/svg+xml content type, so icons inserted by other tools keep
opening in PowerPoint. Decks that already declare it are left untouched.

Example:
  slidekit watch ./decks -r
  slidekit watch ./out --pattern "report-*.pptx" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			a, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			watcher, err := w.New(w.Config{
				Directories: args,
				Pattern:     pattern,
				Recursive:   recursive,
				Debounce:    debounce,
			})
			if err != nil {
				return err
			}
			watcher.Logger = a.Logger

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()
			dim := color.New(color.FgHiBlack).SprintFunc()
			watcher.OnEvent = func(ev w.Event) {
				if jsonOut {
					_ = enc.Encode(ev)
					return
				}
				stamp := dim(ev.Time.Format("15:04:05"))
				switch ev.Status {
				case "repaired":
					fmt.Fprintf(out, "%s %s %s (SVG content type added)\n", stamp, green("✓"), ev.Path)
				case "error":
					fmt.Fprintf(out, "%s %s %s: %s\n", stamp, red("✗"), ev.Path, ev.Error)
				default:
					fmt.Fprintf(out, "%s   %s\n", stamp, dim(ev.Path+" ok"))
				}
			}

			if !jsonOut {
				fmt.Fprintf(out, "Watching %d directory(ies) for %s files\n", len(args), watcher.Config.Pattern)
				fmt.Fprintln(out, "Press Ctrl+C to stop")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					cancel()
				case <-ctx.Done():
				}
			}()

			err = watcher.Start(ctx)
			if !jsonOut {
				st := watcher.GetStatus()
				fmt.Fprintf(out, "\nStopped: %d event(s), %d repaired\n", st.EventCount, st.Repaired)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "*.pptx", "Glob matched against file names")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch directories recursively")
	cmd.Flags().IntVar(&debounce, "debounce", 500, "Debounce interval in milliseconds")

	return cmd
}
