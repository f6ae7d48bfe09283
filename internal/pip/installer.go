// Package pip drives the package installer that ships inside a project
// environment.
//
// Every install goes through the environment's own pip binary rather than
// "python -m pip" on whatever interpreter the calling shell has active, so
// packages always land in the project environment. Each requirements file
// gets its own pip invocation, in the order the files were given, which
// keeps a failure attributable to the exact file that caused it and lets a
// later file override version pins from an earlier one.
package pip

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kckc-g/init-python-project/internal/execx"
	"github.com/kckc-g/init-python-project/internal/model"
	"github.com/kckc-g/init-python-project/internal/venv"
)

// NetworkTimeoutSeconds is the socket timeout handed to every pip
// invocation via --timeout. Pip's default of 15 seconds is too aggressive
// for large wheels on slow links.
const NetworkTimeoutSeconds = 120

// Installer runs pip commands against a single project environment.
type Installer struct {
	runner *execx.Runner
}

// NewInstaller creates an Installer that runs pip from the current working
// directory.
func NewInstaller() *Installer {
	return &Installer{runner: execx.NewRunner("")}
}

// InstallOptions describes one bootstrap installation pass.
type InstallOptions struct {
	// EnvDir is the environment directory whose pip binary is used.
	EnvDir string

	// IndexURL is the primary package index. Must be non-empty; the
	// config layer supplies the public default.
	IndexURL string

	// ExtraIndexURL is an optional additional index, typically an
	// internal mirror consulted alongside the primary one.
	ExtraIndexURL string

	// Requirements are the requirements file paths to install, in order.
	Requirements []string
}

// ValidateRequirementsFiles checks that every requirements path points at a
// readable file. It is called before the environment is created or touched,
// so a typo in a path never leaves a half-built environment behind.
func ValidateRequirementsFiles(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		switch {
		case os.IsNotExist(err):
			return model.NewCLIError(model.ExitConfigurationError,
				fmt.Sprintf("requirements file does not exist: %s", path))
		case err != nil:
			return model.WrapCLIError(model.ExitConfigurationError,
				fmt.Sprintf("requirements file is not accessible: %s", path), err)
		case info.IsDir():
			return model.NewCLIError(model.ExitConfigurationError,
				fmt.Sprintf("requirements path is a directory, not a file: %s", path))
		}

		f, err := os.Open(path)
		if err != nil {
			return model.WrapCLIError(model.ExitConfigurationError,
				fmt.Sprintf("requirements file is not readable: %s", path), err)
		}
		f.Close()
	}

	return nil
}

// Install runs one pip invocation per requirements file, in order. Pip's
// stdout and stderr are inherited so download progress and resolver
// diagnostics reach the user exactly as pip produced them. The first
// failing file aborts the pass; its exit code is recoverable from the
// returned error via execx.ExitCode.
func (i *Installer) Install(ctx context.Context, opts InstallOptions) error {
	pipPath := venv.PipPath(opts.EnvDir)
	base := installArgs(opts)

	for _, req := range opts.Requirements {
		args := append(append([]string{}, base...), "--requirement="+req)
		if err := i.runner.RunInteractive(ctx, pipPath, args...); err != nil {
			return fmt.Errorf("installing %s failed: %w", req, err)
		}
	}

	return nil
}

// installArgs builds the pip arguments shared by every requirements file in
// a pass. The --requirement flag is appended per file by Install.
func installArgs(opts InstallOptions) []string {
	args := []string{
		"install",
		"--index-url=" + opts.IndexURL,
	}
	if opts.ExtraIndexURL != "" {
		args = append(args, "--extra-index-url="+opts.ExtraIndexURL)
	}
	args = append(args, fmt.Sprintf("--timeout=%d", NetworkTimeoutSeconds))
	return args
}

// List reports the packages installed in the environment using pip's JSON
// output format, which is stable across pip versions unlike the columnar
// default.
func (i *Installer) List(ctx context.Context, envDir string) ([]model.Package, error) {
	out, err := i.runner.Run(ctx, venv.PipPath(envDir), "list", "--format=json")
	if err != nil {
		return nil, fmt.Errorf("pip list failed: %w", err)
	}

	var packages []model.Package
	if err := json.Unmarshal([]byte(out), &packages); err != nil {
		return nil, fmt.Errorf("parsing pip list output: %w", err)
	}

	return packages, nil
}
