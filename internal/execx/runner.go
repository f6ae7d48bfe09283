// Package execx runs the external tools the bootstrapper depends on
// (python, virtualenv, pip) in two modes:
//
//   - captured: stdout/stderr buffered, used for quiet probes such as
//     "python --version" or "pip list". Failures come back as a
//     *CommandError carrying both streams.
//   - interactive: stdin/stdout/stderr inherited from the parent process,
//     used for environment creation and package installation so the tool's
//     own progress output reaches the user unmodified.
//
// Captured runs get a default timeout when the caller's context has no
// deadline. Interactive runs never get one: installs are unbounded network
// work and the user can interrupt them from the terminal.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultProbeTimeout is the default timeout applied to captured runs
// when the caller's context carries no deadline.
const DefaultProbeTimeout = 5 * time.Minute

// CommandError represents a failed captured command. It keeps both output
// streams so callers can surface the tool's own diagnostics.
type CommandError struct {
	Path   string
	Args   []string
	Stdout string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s", e.Path)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %s", strings.Join(e.Args, " "))
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", strings.TrimSpace(e.Stderr))
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError.
func NewCommandError(path string, args []string, stdout, stderr string, err error) *CommandError {
	return &CommandError{
		Path:   path,
		Args:   args,
		Stdout: stdout,
		Stderr: stderr,
		Err:    err,
	}
}

// Runner executes external commands, optionally in a fixed working directory.
type Runner struct {
	workingDir string
}

// NewRunner creates a new Runner. An empty workingDir means the commands
// inherit the parent's working directory.
func NewRunner(workingDir string) *Runner {
	return &Runner{workingDir: workingDir}
}

// Run executes a command with captured output and returns the trimmed
// stdout. If the context has no deadline, DefaultProbeTimeout is applied.
// On failure the returned error is a *CommandError.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultProbeTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", NewCommandError(name, args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", NewCommandError(name, args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RunInteractive executes a command with stdin/stdout/stderr connected to
// the parent's terminal. The raw error from the child is returned; use
// ExitCode to recover the child's exit status.
func (r *Runner) RunInteractive(ctx context.Context, name string, args ...string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// ExitCode extracts the child process exit status from an error returned
// by Run or RunInteractive. It returns 0 for nil and 1 for errors that did
// not come from a started process (binary not found, context cancelled).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
