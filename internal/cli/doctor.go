// Package cli — doctor.go implements the "bootstrap doctor" command.
//
// The doctor command diagnoses the host without changing anything: which
// interpreters and virtualenv executables the discovery order would find,
// the environment state, the configuration files consulted, and whether the
// project filesystem has room to build an environment. It is the first
// thing to run when bootstrap misbehaves on a machine.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/cobra"

	"github.com/kckc-g/init-python-project/internal/config"
	"github.com/kckc-g/init-python-project/internal/model"
	"github.com/kckc-g/init-python-project/internal/python"
	"github.com/kckc-g/init-python-project/internal/venv"
)

// diskSpaceWarnBytes is the free-space threshold below which doctor warns.
// A CPython environment with compiled wheels can easily take a few hundred
// megabytes.
const diskSpaceWarnBytes = 500 * 1024 * 1024

// NewDoctorCommand creates the "doctor" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the host setup for bootstrapping",
		Long: `Check the host for everything bootstrap needs: Python interpreters,
virtualenv executables, the environment state, the configuration files in
effect, and free disk space.

Examples:
  bootstrap doctor
  bootstrap doctor --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context())
		},
	}
}

// doctorTool is one discovery candidate with its probe results.
type doctorTool struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Found   bool   `json:"found"`
}

// doctorReport aggregates everything the doctor command examined.
type doctorReport struct {
	Host          string             `json:"host,omitempty"`
	Interpreters  []doctorTool       `json:"interpreters"`
	Virtualenvs   []doctorTool       `json:"virtualenvs"`
	Environment   *model.Environment `json:"environment"`
	ProjectFile   string             `json:"projectFile,omitempty"`
	UserConfig    string             `json:"userConfig,omitempty"`
	DiskFreeBytes uint64             `json:"diskFreeBytes"`
	Warnings      []string           `json:"warnings"`
}

// runDoctor is the main logic function for the doctor command.
// It always exits 0 when the examination itself succeeded; findings are
// reported as warnings, not failures.
func runDoctor(ctx context.Context) error {
	report := &doctorReport{Warnings: []string{}}

	// Step 1: Resolve configuration. A broken config file is exactly what
	// doctor exists to surface, so it becomes a warning rather than an
	// abort.
	root, err := config.ResolveProjectRoot(projectDir)
	if err != nil {
		return err
	}

	var configuredPython, configuredVirtualenv string
	settings, err := config.Resolve(config.Options{ProjectDir: projectDir, ConfigFile: cfgFile})
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("configuration problem: %v", err))
		if path, found := config.FindProjectFile(root); found {
			report.ProjectFile = path
		}
	} else {
		report.ProjectFile = settings.ProjectFile
		report.UserConfig = settings.UserConfigFile
		configuredPython = settings.Python
		configuredVirtualenv = settings.Virtualenv
	}

	// Step 2: Identify the host.
	if info, hostErr := host.Info(); hostErr == nil {
		report.Host = fmt.Sprintf("%s (%s %s %s)", info.Hostname, info.OS, info.Platform, info.PlatformVersion)
	}

	// Step 3: Probe the interpreter and virtualenv discovery orders.
	report.Interpreters = probeTools(ctx, python.InterpreterCandidates(configuredPython))

	firstInterpreter := ""
	for _, t := range report.Interpreters {
		if t.Found {
			firstInterpreter = t.Path
			break
		}
	}
	if firstInterpreter == "" {
		report.Warnings = append(report.Warnings,
			"no Python interpreter found; install Python 3 or set --python")
	}

	report.Virtualenvs = probeTools(ctx, python.VirtualenvCandidates(configuredVirtualenv, firstInterpreter))

	// Step 4: Inspect the environment.
	report.Environment = venv.NewManager().Inspect(ctx, root)
	if report.Environment.State == model.StateIncomplete {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("environment at %s is incomplete; run 'bootstrap clean'", report.Environment.Path))
	}

	// Step 5: Check free disk space where the environment will live.
	if usage, diskErr := disk.Usage(root); diskErr == nil {
		report.DiskFreeBytes = usage.Free
		if usage.Free < diskSpaceWarnBytes {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("low disk space: only %s free at %s", formatBytes(usage.Free), root))
		}
	} else {
		report.Warnings = append(report.Warnings, fmt.Sprintf("could not check disk space: %v", diskErr))
	}

	// Step 6: Output the report.
	printDoctorReport(report)
	return nil
}

// probeTools resolves each candidate's version, where it was found at all.
func probeTools(ctx context.Context, candidates []python.Candidate) []doctorTool {
	tools := make([]doctorTool, 0, len(candidates))
	for _, c := range candidates {
		tool := doctorTool{Name: c.Name, Path: c.Path, Found: c.Found()}
		if c.Found() {
			if version, err := python.Version(ctx, c.Path); err == nil {
				tool.Version = version
			}
		}
		tools = append(tools, tool)
	}
	return tools
}

// printDoctorReport outputs the report in text or JSON format, depending on
// the global --json flag.
func printDoctorReport(report *doctorReport) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return
	}

	if report.Host != "" {
		fmt.Printf("Host: %s\n\n", report.Host)
	}

	fmt.Println("Interpreters:")
	printDoctorTools(os.Stdout, report.Interpreters)

	fmt.Println()
	fmt.Println("Virtualenv:")
	printDoctorTools(os.Stdout, report.Virtualenvs)

	fmt.Println()
	fmt.Println("Environment:")
	fmt.Printf("  Path:   %s\n", report.Environment.Path)
	fmt.Printf("  State:  %s\n", report.Environment.State)
	if report.Environment.PythonVersion != "" {
		fmt.Printf("  Python: %s\n", report.Environment.PythonVersion)
	}

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("  Project file:  %s\n", orNone(report.ProjectFile))
	fmt.Printf("  User config:   %s\n", orNone(report.UserConfig))

	fmt.Println()
	fmt.Printf("Disk free: %s\n", formatBytes(report.DiskFreeBytes))

	fmt.Println()
	if len(report.Warnings) == 0 {
		fmt.Println("No problems found.")
		return
	}
	fmt.Println("Warnings:")
	for _, w := range report.Warnings {
		fmt.Printf("  - %s\n", w)
	}
}

// printDoctorTools renders one discovery order as a table, candidates in
// the order they would be tried.
func printDoctorTools(w io.Writer, tools []doctorTool) {
	table := tablewriter.NewWriter(w)
	table.Header("Candidate", "Path", "Version")

	for _, tool := range tools {
		if !tool.Found {
			table.Append([]string{tool.Name, "not found", ""})
			continue
		}
		table.Append([]string{tool.Name, tool.Path, tool.Version})
	}

	table.Render()
}

// orNone substitutes a placeholder for empty path values in text output.
func orNone(path string) string {
	if path == "" {
		return "(none)"
	}
	return path
}

// formatBytes renders a byte count with a binary unit, one decimal place.
func formatBytes(n uint64) string {
	const (
		kib = 1 << 10
		mib = 1 << 20
		gib = 1 << 30
	)
	switch {
	case n >= gib:
		return fmt.Sprintf("%.1f GiB", float64(n)/gib)
	case n >= mib:
		return fmt.Sprintf("%.1f MiB", float64(n)/mib)
	case n >= kib:
		return fmt.Sprintf("%.1f KiB", float64(n)/kib)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
