// Package doctor provides the "slidekit doctor" command for checking system health.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/audit"
	"github.com/klytics/slidekit/internal/config"
	"github.com/klytics/slidekit/internal/icons"
	"github.com/klytics/slidekit/internal/output"
	"github.com/klytics/slidekit/internal/progress"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// probeSVG is rendered to prove the rasterizer works.
const probeSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256"><circle cx="128" cy="128" r="96"/></svg>`

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, icons and dependencies",
		Long:  "Run diagnostic checks to verify slidekit is properly configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadFile(cfgPath)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			spin := progress.NewSpinner("Running checks...")
			spin.Enabled = spin.Enabled && !jsonOut
			spin.Start()
			checks := RunChecks(cfg)
			spin.Stop(fmt.Sprintf("%d checks run", len(checks)))

			if jsonOut {
				return output.PrintJSON("doctor", checks)
			}

			out := cmd.OutOrStdout()
			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Fprintln(out, "slidekit doctor")
			fmt.Fprintln(out, "===============")
			fmt.Fprintln(out)

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Fprintf(out, "  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

// RunChecks inspects the environment described by cfg.
func RunChecks(cfg *config.Config) []Check {
	var checks []Check

	checks = append(checks, Check{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	})

	configFile := config.Path()
	if _, err := os.Stat(configFile); err == nil {
		checks = append(checks, Check{Name: "Config File", Status: "ok", Message: configFile})
	} else {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "warning",
			Message: "Not found — run 'slidekit config init' (defaults are in use)",
		})
	}

	for _, issue := range config.Validate() {
		if issue.Severity == "error" {
			checks = append(checks, Check{Name: "Config " + issue.Key, Status: "error", Message: issue.Message})
		}
	}

	checks = append(checks, iconCheck(cfg.Icons.Dir))
	checks = append(checks, rasterCheck(cfg.Icons.DefaultColor))

	if cfg.Audit.Enabled {
		dir := filepath.Dir(cfg.Audit.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			checks = append(checks, Check{Name: "Audit Log", Status: "error", Message: fmt.Sprintf("cannot create %s: %v", dir, err)})
		} else {
			checks = append(checks, Check{
				Name:    "Audit Log",
				Status:  "ok",
				Message: fmt.Sprintf("%s (%d bytes)", cfg.Audit.Path, audit.LogSize(cfg.Audit.Path)),
			})
		}
	} else {
		checks = append(checks, Check{Name: "Audit Log", Status: "ok", Message: "disabled"})
	}

	if len(cfg.Tools.Disabled) > 0 {
		checks = append(checks, Check{
			Name:    "Disabled Tools",
			Status:  "warning",
			Message: fmt.Sprintf("%v are not exposed by serve", cfg.Tools.Disabled),
		})
	}

	return checks
}

func iconCheck(dir string) Check {
	store := icons.NewStore(dir)
	names, err := store.Names()
	if err != nil {
		return Check{
			Name:    "Icon Store",
			Status:  "warning",
			Message: fmt.Sprintf("%s not readable — insert_icon will fail; set icons.dir", dir),
		}
	}
	if len(names) == 0 {
		return Check{
			Name:    "Icon Store",
			Status:  "warning",
			Message: fmt.Sprintf("no *-fill.svg icons in %s", dir),
		}
	}
	return Check{Name: "Icon Store", Status: "ok", Message: fmt.Sprintf("%d icons in %s", len(names), dir)}
}

func rasterCheck(color string) Check {
	if color == "" {
		color = "#333333"
	}
	png, err := icons.OKSVG{}.Rasterize([]byte(probeSVG), color, 16)
	if err != nil || len(png) == 0 {
		return Check{Name: "SVG Rasterizer", Status: "error", Message: fmt.Sprintf("could not render a probe icon: %v", err)}
	}
	return Check{Name: "SVG Rasterizer", Status: "ok", Message: fmt.Sprintf("PNG fallback renders (%d bytes)", len(png))}
}
