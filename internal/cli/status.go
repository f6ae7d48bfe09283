// Package cli — status.go implements the "bootstrap status" command.
//
// The status command inspects the project environment without modifying
// anything: its state, the resolved paths, the interpreter version, and the
// installed packages (queried from the environment's pip). Output is a text
// table by default, or JSON/YAML for machine consumption.
//
// The report is always rendered; when the environment is not usable the
// command additionally exits non-zero so scripts can branch on the state
// without parsing output.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kckc-g/init-python-project/internal/config"
	"github.com/kckc-g/init-python-project/internal/model"
	"github.com/kckc-g/init-python-project/internal/pip"
	"github.com/kckc-g/init-python-project/internal/venv"
)

// statusFlags holds the flag values for the status command.
type statusFlags struct {
	// output selects the rendering: "table" (default), "json", or "yaml".
	output string
}

// NewStatusCommand creates the "status" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewStatusCommand() *cobra.Command {
	flags := &statusFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the project environment and its installed packages",
		Long: `Show the state of the project environment, the resolved paths, the
interpreter version, and the packages installed in it.

Exit code reflects the environment state: 0 when ready, non-zero when the
environment is missing or unusable.

Examples:
  bootstrap status
  bootstrap status --output json
  bootstrap status --output yaml`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.output, "output", "table",
		"Output format: table, json, yaml (default: table)")

	return cmd
}

// runStatus is the main logic function for the status command.
func runStatus(ctx context.Context, flags *statusFlags) error {
	// Step 1: Determine the output format. The global --json flag wins
	// over --output so that `--json` behaves the same on every command.
	var format model.OutputFormat
	if IsJSONOutput() {
		format = model.FormatJSON
	} else {
		parsed, err := model.ParseOutputFormat(flags.output)
		if err != nil {
			return model.WrapCLIError(model.ExitConfigurationError, "invalid --output flag", err)
		}
		format = parsed
	}

	// Step 2: Resolve the project root and inspect the environment.
	settings, err := config.Resolve(config.Options{ProjectDir: projectDir, ConfigFile: cfgFile})
	if err != nil {
		return err
	}
	VerboseLog("Project root: %s", settings.ProjectRoot)

	env := venv.NewManager().Inspect(ctx, settings.ProjectRoot)

	// Step 3: Query installed packages when the environment can answer.
	// A pip hiccup should not hide the rest of the report.
	if env.State == model.StateReady {
		packages, listErr := pip.NewInstaller().List(ctx, env.Path)
		if listErr != nil {
			VerboseLog("Warning: could not list packages: %v", listErr)
		} else {
			env.Packages = packages
		}
	}

	// Step 4: Render.
	if err := printStatusResult(env, format); err != nil {
		return err
	}

	// Step 5: Reflect the state in the exit code.
	return stateError(env)
}

// stateError translates a non-ready environment into the error reported
// after the status output has been rendered. Ready environments yield nil.
func stateError(env *model.Environment) error {
	switch env.State {
	case model.StateMissing:
		return model.NewCLIError(model.ExitEnvironmentMissing,
			fmt.Sprintf("no environment at %s; run bootstrap to create it", env.Path))
	case model.StateIncomplete:
		return model.NewCLIError(model.ExitEnvironmentBroken,
			fmt.Sprintf("environment at %s is incomplete; run 'bootstrap clean' and bootstrap again", env.Path))
	}
	return nil
}

// printStatusResult renders the environment in the requested format.
func printStatusResult(env *model.Environment, format model.OutputFormat) error {
	switch format {
	case model.FormatJSON:
		data, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "encoding status output", err)
		}
		fmt.Println(string(data))

	case model.FormatYAML:
		data, err := yaml.Marshal(env)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "encoding status output", err)
		}
		fmt.Print(string(data))

	default:
		printStatusTable(env)
	}
	return nil
}

// printStatusTable renders the environment report as text tables: one for
// the environment itself, one for the installed packages.
func printStatusTable(env *model.Environment) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	table.Append([]string{"Project", env.ProjectRoot})
	table.Append([]string{"Environment", env.Path})
	table.Append([]string{"State", env.State.String()})
	if env.PythonVersion != "" {
		table.Append([]string{"Python", env.PythonVersion})
	}
	if env.BasePrefix != "" {
		table.Append([]string{"Base prefix", env.BasePrefix})
	}

	table.Render()

	if len(env.Packages) == 0 {
		return
	}

	fmt.Println()
	pkgTable := tablewriter.NewWriter(os.Stdout)
	pkgTable.Header("Package", "Version")
	for _, p := range env.Packages {
		pkgTable.Append(p.Name, p.Version)
	}
	pkgTable.Render()
	fmt.Printf("\nTotal packages: %d\n", len(env.Packages))
}
