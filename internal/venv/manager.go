// Package venv manages the project's virtual environment directory:
// classification, creation, inspection and removal.
//
// Design decisions:
//   - Environment creation shells out to virtualenv (preferred) or to the
//     interpreter's built-in venv module rather than reimplementing either.
//     The tools know their own layout quirks across Python versions.
//   - Creation and removal never look at VIRTUAL_ENV themselves; the
//     calling command decides what an activated environment means.
//   - Creation output streams to the user unmodified. When the tool fails,
//     its exit status stays recoverable from the returned error.
package venv

import (
	"context"
	"fmt"
	"os"

	"github.com/kckc-g/init-python-project/internal/execx"
	"github.com/kckc-g/init-python-project/internal/model"
	"github.com/kckc-g/init-python-project/internal/python"
)

// Manager provides virtual environment operations.
type Manager struct {
	runner *execx.Runner
}

// NewManager creates a new environment Manager.
func NewManager() *Manager {
	return &Manager{runner: execx.NewRunner("")}
}

// CreateOptions describes one environment creation.
type CreateOptions struct {
	// EnvDir is the absolute target directory.
	EnvDir string

	// Interpreter is the absolute path of the base interpreter. Required.
	Interpreter string

	// Virtualenv is the absolute path of the virtualenv executable. When
	// empty the interpreter's built-in venv module is used instead.
	Virtualenv string
}

// Create materializes the environment directory.
//
// With a virtualenv executable the invocation is:
//
//	virtualenv --python=<interpreter> --never-download <dir>
//
// --never-download keeps virtualenv from fetching seed packages over the
// network; creation should only depend on what the host already has.
// Without virtualenv the fallback is:
//
//	<interpreter> -m venv <dir>
//
// Either tool's output goes straight to the user's terminal.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) error {
	if opts.Virtualenv != "" {
		err := m.runner.RunInteractive(ctx, opts.Virtualenv,
			"--python="+opts.Interpreter, "--never-download", opts.EnvDir)
		if err != nil {
			return fmt.Errorf("virtualenv failed: %w", err)
		}
		return nil
	}

	if err := m.runner.RunInteractive(ctx, opts.Interpreter, "-m", "venv", opts.EnvDir); err != nil {
		return fmt.Errorf("venv module failed: %w", err)
	}
	return nil
}

// Inspect reconstructs the Environment aggregate for a project. Probes are
// best-effort: a ready environment whose probes fail still reports as
// ready, just with fewer details filled in.
func (m *Manager) Inspect(ctx context.Context, projectRoot string) *model.Environment {
	envDir := Dir(projectRoot)
	env := &model.Environment{
		ProjectRoot: projectRoot,
		Path:        envDir,
		State:       State(envDir),
	}
	if env.State != model.StateReady {
		return env
	}

	if cfg, err := ReadPyvenvCfg(envDir); err == nil {
		env.BasePrefix = cfg["home"]
		// venv writes "version", virtualenv writes "version_info".
		if v := cfg["version"]; v != "" {
			env.PythonVersion = v
		} else if v := cfg["version_info"]; v != "" {
			env.PythonVersion = v
		}
	}

	// The interpreter's own answer beats whatever the marker file says.
	if version, err := python.Version(ctx, InterpreterPath(envDir)); err == nil {
		env.PythonVersion = version
	}

	return env
}

// Remove deletes the environment directory. Removing an environment that
// does not exist is not an error, keeping clean idempotent. Only the fixed
// .venv directory under the project root is ever touched.
func (m *Manager) Remove(projectRoot string) error {
	envDir := Dir(projectRoot)
	if State(envDir) == model.StateMissing {
		return nil
	}
	if err := os.RemoveAll(envDir); err != nil {
		return model.WrapCLIError(
			model.ExitGeneralError,
			fmt.Sprintf("cannot remove environment directory %s", envDir),
			err,
		)
	}
	return nil
}
