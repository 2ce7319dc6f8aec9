// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/slidekit/internal/errinfo"
)

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for slidekit.

Install instructions:
  Bash:       slidekit completion bash > /etc/bash_completion.d/slidekit
              echo 'source <(slidekit completion bash)' >> ~/.bashrc
  Zsh:        slidekit completion zsh > ~/.zsh/completions/_slidekit
  Fish:       slidekit completion fish > ~/.config/fish/completions/slidekit.fish
  PowerShell: slidekit completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				fmt.Fprintln(out, "# slidekit bash completion")
				fmt.Fprintln(out, "# Install: slidekit completion bash > /etc/bash_completion.d/slidekit")
				fmt.Fprintln(out, "# Or:      echo 'source <(slidekit completion bash)' >> ~/.bashrc")
				fmt.Fprintln(out)
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				fmt.Fprintln(out, "# slidekit zsh completion")
				fmt.Fprintln(out, "# Install: slidekit completion zsh > ~/.zsh/completions/_slidekit")
				fmt.Fprintln(out)
				return rootCmd.GenZshCompletion(out)
			case "fish":
				fmt.Fprintln(out, "# slidekit fish completion")
				fmt.Fprintln(out, "# Install: slidekit completion fish > ~/.config/fish/completions/slidekit.fish")
				fmt.Fprintln(out)
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				fmt.Fprintln(out, "# slidekit PowerShell completion")
				fmt.Fprintln(out, "# Install: slidekit completion powershell >> $PROFILE")
				fmt.Fprintln(out)
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			default:
				return errinfo.InvalidArgument("completion", "unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
		},
	}
	return cmd
}
