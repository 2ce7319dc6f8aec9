package output

import (
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
)

// ShouldPage reports whether content is taller than termHeight and stdout
// is a terminal.
func ShouldPage(content string, termHeight int) bool {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return false
	}
	return strings.Count(content, "\n") > termHeight
}

// Page pipes content through $PAGER, falling back to "less". PAGER may
// carry arguments, e.g. "less -S".
func Page(content string) error {
	args := strings.Fields(os.Getenv("PAGER"))
	if len(args) == 0 {
		args = []string{"less"}
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if os.Getenv("LESS") == "" {
		// Keep colours and exit at once when everything fits.
		cmd.Env = append(os.Environ(), "LESS=FRX")
	}

	return cmd.Run()
}
