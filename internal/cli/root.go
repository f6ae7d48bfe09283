// Package cli implements the cobra-based CLI commands for bootstrap.
//
// The root command itself performs the bootstrap, so the everyday
// invocation stays `bootstrap [--requirements FILE]`. Supporting
// subcommands (status, doctor, clean, scaffold) are each defined in their
// own file within this package. This file defines the root command, the
// global flags, and the error-to-exit-code translation.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kckc-g/init-python-project/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// projectDir is an explicit project root. When empty, the root is
	// found by walking up from the working directory.
	projectDir string

	// cfgFile is an explicit user config file. When empty, the default
	// per-user location is consulted if it exists.
	cfgFile string

	// jsonOutput controls whether command output is formatted as JSON.
	// When true, all output uses structured JSON format for machine consumption.
	// When false (default), output uses human-readable text format.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information about operations is printed to stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// Unlike a purely dispatching root, this command does real work: running
// it bootstraps the project environment. Inspection and maintenance live
// in subcommands (status, doctor, clean, scaffold).
func NewRootCommand() *cobra.Command {
	flags := &bootstrapFlags{}

	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown in help output.
		Use:   "bootstrap",
		Short: "Create a project Python environment and install its requirements",
		Long: `bootstrap creates an isolated Python environment at <project>/.venv and
installs the project's requirements files into it, in order, using the
environment's own pip.

Re-running bootstrap reuses the existing environment and re-applies the
requirements, so it is safe to run after every pull.

Examples:
  bootstrap
  bootstrap --requirements requirements.txt --requirements requirements-dev.txt
  bootstrap --python /usr/bin/python3.12
  bootstrap --index-url https://mirror.example.com/simple
  bootstrap status
  bootstrap clean --force`,

		// The bootstrap operation takes no positional arguments; anything
		// positional is either a subcommand or a mistake.
		Args: cobra.NoArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler below.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd.Context(), flags)
		},
	}

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags: any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().StringVar(&projectDir, "project", "", "Project root directory (default: detected from the working directory)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "User config file (default: ~/.config/init-python-project/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Flags specific to the bootstrap operation itself.
	registerBootstrapFlags(rootCmd, flags)

	// Register subcommands. Each subcommand is defined in its own file
	// (status.go, doctor.go, etc.) and returns a *cobra.Command.
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewDoctorCommand())
	rootCmd.AddCommand(NewCleanCommand())
	rootCmd.AddCommand(NewScaffoldCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError values carry their own exit codes. Errors wrapping a subprocess
// failure exit with the child's own code, since the contract is to pass
// installer and interpreter failures through unmodified. Anything else
// exits 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// A failed child process keeps its exit code. Its output already
		// reached the user through the inherited streams.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			printError(err.Error(), nil)
			os.Exit(exitErr.ExitCode())
		}

		// Generic error: exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		// Text format: "Error: <message>" on stderr.
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
// This is used throughout the CLI for debug/trace output that helps
// users understand what operations are being performed.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
