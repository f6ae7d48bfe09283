// Package cli — clean.go implements the "bootstrap clean" command.
//
// Clean removes the environment directory so the next bootstrap starts
// fresh. It is the prescribed recovery for an incomplete environment.
// Removal is confirmed interactively unless --force is given; in
// non-interactive sessions --force is required.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kckc-g/init-python-project/internal/config"
	"github.com/kckc-g/init-python-project/internal/logging"
	"github.com/kckc-g/init-python-project/internal/model"
	"github.com/kckc-g/init-python-project/internal/venv"
)

// cleanFlags holds the flag values for the clean command.
type cleanFlags struct {
	// force skips the interactive confirmation.
	force bool
}

// NewCleanCommand creates the "clean" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCleanCommand() *cobra.Command {
	flags := &cleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the project environment",
		Long: `Remove the environment directory at <project>/.venv.

The next bootstrap run recreates it from scratch. Use this to recover from
an interrupted bootstrap or to switch base interpreters.

Examples:
  bootstrap clean
  bootstrap clean --force`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Remove without asking for confirmation")

	return cmd
}

// runClean is the main logic function for the clean command.
func runClean(flags *cleanFlags) error {
	// Step 1: Resolve the environment location.
	settings, err := config.Resolve(config.Options{ProjectDir: projectDir, ConfigFile: cfgFile})
	if err != nil {
		return err
	}
	envDir := settings.EnvDir()

	// Step 2: Nothing on disk means nothing to do.
	if venv.State(envDir) == model.StateMissing {
		fmt.Printf("No environment at %s, nothing to remove.\n", envDir)
		return nil
	}

	// Step 3: Confirm. Without a terminal there is nobody to ask, so
	// --force is the only way forward.
	if !flags.force {
		if !stdinIsTerminal() {
			return model.NewCLIError(model.ExitUserCancelled,
				"confirmation required; pass --force in non-interactive sessions")
		}

		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Remove environment at %s?", envDir),
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return model.WrapCLIError(model.ExitUserCancelled, "prompt aborted", err)
		}
		if !confirmed {
			return model.NewCLIError(model.ExitUserCancelled, "removal cancelled")
		}
	}

	// Step 4: Remove, and note it in the log file.
	logger := logging.New(logging.Options{Verbose: verbose, FilePath: settings.LogFile})
	defer logger.Close()

	logger.Info("Removing environment at %s", envDir)
	if err := venv.NewManager().Remove(settings.ProjectRoot); err != nil {
		return err
	}

	printCleanResult(envDir)
	return nil
}

// stdinIsTerminal reports whether stdin is attached to a terminal, which is
// what decides if a confirmation prompt can be shown.
func stdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// printCleanResult outputs the clean result in text or JSON format.
func printCleanResult(envDir string) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]string{"removed": envDir}, "", "  ")
		fmt.Println(string(data))
		return
	}
	fmt.Printf("Removed environment at %s\n", envDir)
}
