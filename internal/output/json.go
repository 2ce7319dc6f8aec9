package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klytics/slidekit/cmd/version"
	"github.com/klytics/slidekit/internal/errinfo"
)

// Exit codes for consistent error reporting.
const (
	ExitOK              = 0 // success
	ExitError           = 1 // IO failure, malformed deck, repair failure
	ExitInvalidArgument = 2 // bad flags or values, invalid geometry
	ExitNotFound        = 3 // missing file, slide, shape or icon
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch errinfo.KindOf(err) {
	case errinfo.KindInvalidArgument, errinfo.KindInvalidGeometry:
		return ExitInvalidArgument
	case errinfo.KindNotFound:
		return ExitNotFound
	default:
		return ExitError
	}
}

// JSONResult is the standard JSON output envelope for all commands.
type JSONResult struct {
	OK      bool        `json:"ok"`
	Command string      `json:"command"`
	Version string      `json:"version"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Code    int         `json:"code,omitempty"`
}

// PrintJSON writes a standard success JSON result to stdout.
func PrintJSON(cmd string, data interface{}) error {
	return writeJSON(os.Stdout, Success(cmd, data))
}

// PrintJSONError writes a standard error JSON result to stdout.
func PrintJSONError(cmd string, err error) error {
	if encErr := writeJSON(os.Stdout, Failure(cmd, err)); encErr != nil {
		return fmt.Errorf("could not encode JSON error: %w", encErr)
	}
	return nil
}

// Success builds the envelope for a successful command.
func Success(cmd string, data interface{}) JSONResult {
	return JSONResult{
		OK:      true,
		Command: cmd,
		Version: version.Version,
		Data:    data,
	}
}

// Failure builds the envelope for a failed command.
func Failure(cmd string, err error) JSONResult {
	return JSONResult{
		OK:      false,
		Command: cmd,
		Version: version.Version,
		Error:   errinfo.Message(err),
		Kind:    errinfo.KindOf(err).Code(),
		Code:    ExitCode(err),
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
