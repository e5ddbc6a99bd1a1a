// Package shell runs external commands and propagates their exit codes.
//
// Every external call made during provisioning (installer, package manager,
// runtime probes, tool version queries) goes through a single [Runner] so the
// search path, working directory and output streams are handled in one place.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/go-logr/logr"

	"github.com/imamik/provisionr/internal/util/searchpath"
)

// Command describes one external process invocation.
type Command struct {
	// Name is the executable, resolved against Path.
	Name string
	Args []string

	// Dir is the working directory; empty means the current one.
	Dir string

	// Path is exported to the child as PATH and used to resolve Name.
	Path searchpath.Path

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and dry runs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes commands. Implementations return *ExitError when the
// process ran and exited non-zero.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitError reports a non-zero exit status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// ExitCode extracts the exit status carried by err. It returns 0 for nil and
// -1 when err does not describe a process exit.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Logger logr.Logger
}

// NewExecRunner creates a runner logging command lines at V(1).
func NewExecRunner(logger logr.Logger) *ExecRunner {
	return &ExecRunner{Logger: logger}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	bin, err := c.Path.LookPath(c.Name)
	if err != nil {
		return fmt.Errorf("cannot run %s: %w", c.Name, err)
	}

	r.Logger.V(1).Info("exec", "cmd", c.String(), "dir", c.Dir, "path", c.Path.String())

	// #nosec G204 - commands come from the provisioning configuration
	cmd := exec.CommandContext(ctx, bin, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Path.Environ(os.Environ())
	cmd.Stdin = c.Stdin
	cmd.Stdout = orDiscard(c.Stdout)
	cmd.Stderr = orDiscard(c.Stderr)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return &ExitError{Command: c.String(), Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("%s: %w", c.String(), err)
	}
	return nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
