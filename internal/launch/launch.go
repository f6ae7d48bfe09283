// Package launch implements the python-wrapper binary: it resolves the
// project environment from the working directory and runs the environment's
// interpreter with the caller's arguments untouched.
//
// The wrapper deliberately has no flags of its own. Anything on its command
// line belongs to the interpreter, including strings like --version or -c
// that a flag parser would otherwise swallow.
package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/kckc-g/init-python-project/internal/config"
	"github.com/kckc-g/init-python-project/internal/execx"
	"github.com/kckc-g/init-python-project/internal/model"
	"github.com/kckc-g/init-python-project/internal/venv"
)

// Run resolves the project environment and executes its interpreter with
// args, inheriting stdin, stdout, and stderr. A nil return means the
// interpreter exited 0. When the interpreter itself fails, the returned
// error carries the child's exit code; when the environment cannot be used,
// it is a CLIError describing how to recover.
func Run(ctx context.Context, args []string) error {
	// Catch and discard Ctrl-C and SIGTERM so the wrapper survives to
	// report the interpreter's exit code. The interpreter receives the
	// signals itself as part of the foreground process group: a caught
	// signal resets to its default disposition in the exec'd child,
	// whereas an ignored one would be inherited across exec and leave the
	// interpreter unable to be interrupted.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
		}
	}()

	cwd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "determining working directory", err)
	}

	return runFrom(ctx, cwd, args)
}

// runFrom is Run with an explicit starting directory for the project root
// search.
func runFrom(ctx context.Context, startDir string, args []string) error {
	root := config.FindProjectRoot(startDir)
	envDir := venv.Dir(root)

	switch venv.State(envDir) {
	case model.StateMissing:
		return model.NewCLIError(model.ExitEnvironmentMissing,
			fmt.Sprintf("no environment at %s, run bootstrap first", envDir))
	case model.StateIncomplete:
		return model.NewCLIError(model.ExitEnvironmentBroken,
			fmt.Sprintf("environment at %s is unusable, run 'bootstrap clean' and bootstrap again", envDir))
	}

	return execx.NewRunner("").RunInteractive(ctx, venv.InterpreterPath(envDir), args...)
}

// Execute runs the wrapper and exits the process with the resulting code.
// This is the entry point called from main.
//
// Wrapper failures (no usable environment) print a message; interpreter
// failures print nothing extra, since the interpreter already wrote its own
// diagnostics to the inherited stderr.
func Execute(args []string) {
	err := Run(context.Background(), args)
	if err == nil {
		return
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cliErr.Message)
		os.Exit(int(cliErr.Code))
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(int(model.ExitGeneralError))
}
