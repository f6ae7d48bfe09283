// Package cli — bootstrap.go implements the root "bootstrap" operation.
//
// This is the primary user-facing operation. It orchestrates the full
// workflow of preparing a project's Python environment:
//
//	1. Resolve effective settings (flags, project file, user config)
//	2. Validate every requirements file before touching anything
//	3. Create the environment at <project>/.venv, or reuse it
//	4. Install each requirements file, in order, with the env's own pip
//	5. Output results (text or JSON)
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kckc-g/init-python-project/internal/config"
	"github.com/kckc-g/init-python-project/internal/logging"
	"github.com/kckc-g/init-python-project/internal/model"
	"github.com/kckc-g/init-python-project/internal/pip"
	"github.com/kckc-g/init-python-project/internal/python"
	"github.com/kckc-g/init-python-project/internal/venv"
)

// bootstrapFlags holds the flag values for the bootstrap operation.
// These are bound to cobra flags in registerBootstrapFlags.
type bootstrapFlags struct {
	requirements  []string // --requirements: ordered requirements files
	python        string   // --python: base interpreter for environment creation
	virtualenv    string   // --virtualenv: explicit virtualenv executable
	indexURL      string   // --index-url: primary package index
	extraIndexURL string   // --extra-index-url: additional package index
}

// registerBootstrapFlags binds the bootstrap-specific flags to the root
// command. They are not persistent: subcommands have no use for them.
func registerBootstrapFlags(cmd *cobra.Command, flags *bootstrapFlags) {
	cmd.Flags().StringArrayVar(&flags.requirements, "requirements", nil,
		"Requirements file to install, may be repeated; order is the install order (default: requirements.txt)")
	cmd.Flags().StringVar(&flags.python, "python", "",
		"Python executable used to create the environment (default: python3 on PATH)")
	cmd.Flags().StringVar(&flags.virtualenv, "virtualenv", "",
		"virtualenv executable (default: found next to the interpreter or on PATH)")
	cmd.Flags().StringVar(&flags.indexURL, "index-url", "",
		fmt.Sprintf("Package index URL (default: %s)", config.DefaultIndexURL))
	cmd.Flags().StringVar(&flags.extraIndexURL, "extra-index-url", "",
		"Additional package index URL (default: none)")
}

// runBootstrap is the main orchestration function for the bootstrap
// operation.
func runBootstrap(ctx context.Context, flags *bootstrapFlags) error {
	// Step 1: Resolve effective settings from flags, the project file,
	// the user config, and defaults.
	settings, err := config.Resolve(config.Options{
		ProjectDir:    projectDir,
		ConfigFile:    cfgFile,
		Python:        flags.python,
		Virtualenv:    flags.virtualenv,
		Requirements:  flags.requirements,
		IndexURL:      flags.indexURL,
		ExtraIndexURL: flags.extraIndexURL,
	})
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{Verbose: verbose, FilePath: settings.LogFile})
	defer logger.Close()

	logger.Debug("project root: %s", settings.ProjectRoot)
	logger.Debug("requirements: %s", strings.Join(settings.Requirements, ", "))
	logger.Debug("index url: %s", settings.IndexURL)

	// Step 2: Validate every requirements file before the environment is
	// created or touched. A bad path must not leave a half-built
	// environment behind.
	if err := pip.ValidateRequirementsFiles(settings.Requirements); err != nil {
		return err
	}

	envDir := settings.EnvDir()

	// Step 3: An environment active in the calling shell does not move
	// the fixed location. Mention it and carry on.
	if active, matches := venv.ActiveEnv(envDir); active != "" && !matches {
		logger.Info("Ignoring active environment %s; this project uses %s", active, envDir)
	}

	// Step 4: Reuse, refuse, or create, depending on what is on disk.
	manager := venv.NewManager()
	switch venv.State(envDir) {
	case model.StateReady:
		logger.Info("Reusing environment at %s", envDir)

	case model.StateIncomplete:
		return model.NewCLIError(model.ExitEnvironmentBroken,
			fmt.Sprintf("environment at %s is incomplete; run 'bootstrap clean' and bootstrap again", envDir))

	case model.StateMissing:
		if err := createEnvironment(ctx, logger, settings, manager, envDir); err != nil {
			return err
		}
	}

	// Step 5: Install the requirements files, in order. One pip run per
	// file; the first failure aborts with pip's own exit code.
	logger.Info("Installing requirements: %s", strings.Join(settings.Requirements, ", "))
	installer := pip.NewInstaller()
	if err := installer.Install(ctx, pip.InstallOptions{
		EnvDir:        envDir,
		IndexURL:      settings.IndexURL,
		ExtraIndexURL: settings.ExtraIndexURL,
		Requirements:  settings.Requirements,
	}); err != nil {
		return err
	}

	// Step 6: Output results.
	printBootstrapResult(manager.Inspect(ctx, settings.ProjectRoot), settings.Requirements)
	return nil
}

// createEnvironment discovers the tooling and creates the environment
// directory. Called only when nothing exists at the environment path yet.
func createEnvironment(ctx context.Context, logger *logging.Logger, settings *config.Settings, manager *venv.Manager, envDir string) error {
	interpreter, err := python.DiscoverInterpreter(settings.Python)
	if err != nil {
		return err
	}
	logger.Debug("interpreter: %s", interpreter)

	virtualenv, err := python.DiscoverVirtualenv(settings.Virtualenv, interpreter)
	if err != nil {
		return err
	}
	if virtualenv != "" {
		logger.Debug("virtualenv: %s", virtualenv)
	} else {
		logger.Debug("no virtualenv executable found, using the venv module")
	}

	logger.Info("Creating environment at %s", envDir)
	return manager.Create(ctx, venv.CreateOptions{
		EnvDir:      envDir,
		Interpreter: interpreter,
		Virtualenv:  virtualenv,
	})
}

// printBootstrapResult outputs the bootstrap results in text or JSON
// format, depending on the global --json flag.
func printBootstrapResult(env *model.Environment, requirements []string) {
	if IsJSONOutput() {
		printBootstrapResultJSON(env, requirements)
	} else {
		printBootstrapResultText(env, requirements)
	}
}

// printBootstrapResultJSON outputs the bootstrap result as structured JSON.
func printBootstrapResultJSON(env *model.Environment, requirements []string) {
	type resultJSON struct {
		Environment  *model.Environment `json:"environment"`
		Requirements []string           `json:"requirements"`
	}

	data, _ := json.MarshalIndent(resultJSON{
		Environment:  env,
		Requirements: requirements,
	}, "", "  ")
	fmt.Println(string(data))
}

// printBootstrapResultText outputs the bootstrap result as human-readable
// text.
func printBootstrapResultText(env *model.Environment, requirements []string) {
	fmt.Printf("Environment ready at %s\n", env.Path)
	if env.PythonVersion != "" {
		fmt.Printf("  Interpreter:   %s (%s)\n", venv.InterpreterPath(env.Path), env.PythonVersion)
	} else {
		fmt.Printf("  Interpreter:   %s\n", venv.InterpreterPath(env.Path))
	}
	fmt.Printf("  Requirements:  %s\n", formatFileList(requirements))
}

// formatFileList renders an ordered path list for text output. Returns "-"
// when the list is empty.
func formatFileList(paths []string) string {
	if len(paths) == 0 {
		return "-"
	}
	return strings.Join(paths, ", ")
}
