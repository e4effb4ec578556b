package github

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a gh invocation and returns its stdout. Implementations
// must report a non-zero exit as a *CommandError.
type Runner interface {
	Run(args ...string) (string, error)
}

// CommandError wraps a failed gh invocation with the stderr it produced.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("gh %s: %s", strings.Join(e.Args, " "), e.Stderr)
	}
	return fmt.Sprintf("gh %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

type execRunner struct{}

// NewRunner returns a Runner backed by the gh binary on PATH.
func NewRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(args ...string) (string, error) {
	cmd := exec.Command("gh", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Args:   append([]string(nil), args...),
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return strings.TrimRight(stdout.String(), "\n"), nil
}
