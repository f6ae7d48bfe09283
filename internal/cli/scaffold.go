// Package cli — scaffold.go implements the "bootstrap scaffold" command.
//
// Scaffold writes the optional shell helpers (bin/env.sh, bin/python.sh)
// into the project. It never overwrites existing files unless --force is
// given, so locally customized scripts survive.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kckc-g/init-python-project/internal/config"
	"github.com/kckc-g/init-python-project/internal/scaffold"
)

// scaffoldFlags holds the flag values for the scaffold command.
type scaffoldFlags struct {
	// force overwrites existing helper scripts.
	force bool
}

// NewScaffoldCommand creates the "scaffold" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewScaffoldCommand() *cobra.Command {
	flags := &scaffoldFlags{}

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Write the helper scripts bin/env.sh and bin/python.sh",
		Long: `Write the shell helpers into the project's bin/ directory:

  env.sh     source it to activate the environment and put src/ on PYTHONPATH
  python.sh  shebang-friendly launcher that runs the environment interpreter

Existing files are left untouched unless --force is given.

Examples:
  bootstrap scaffold
  bootstrap scaffold --force`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite existing helper scripts")

	return cmd
}

// runScaffold is the main logic function for the scaffold command.
func runScaffold(flags *scaffoldFlags) error {
	root, err := config.ResolveProjectRoot(projectDir)
	if err != nil {
		return err
	}
	VerboseLog("Project root: %s", root)

	results, err := scaffold.Write(root, flags.force)
	if err != nil {
		return err
	}

	printScaffoldResult(results)
	return nil
}

// printScaffoldResult outputs per-file outcomes in text or JSON format.
func printScaffoldResult(results []scaffold.Result) {
	if IsJSONOutput() {
		type fileJSON struct {
			Path    string `json:"path"`
			Written bool   `json:"written"`
		}
		files := make([]fileJSON, 0, len(results))
		for _, r := range results {
			files = append(files, fileJSON{Path: r.Path, Written: r.Written})
		}
		data, _ := json.MarshalIndent(map[string]interface{}{"files": files}, "", "  ")
		fmt.Println(string(data))
		return
	}

	for _, r := range results {
		if r.Written {
			fmt.Printf("wrote %s\n", r.Path)
		} else {
			fmt.Printf("kept  %s (already exists)\n", r.Path)
		}
	}
}
