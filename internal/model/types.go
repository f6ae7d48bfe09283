package model

import (
	"fmt"
	"net/url"
	"strings"
)

// EnvState represents the observable state of the managed virtual
// environment directory. The state transitions are:
//
//	Missing → Ready (bootstrap)
//	Ready → Missing (clean)
//	Missing/Ready → Incomplete (interrupted creation, foreign directory)
type EnvState string

const (
	// StateReady indicates the environment directory exists and contains
	// both a pyvenv.cfg marker and an interpreter binary at the platform
	// location. Safe to install into and to launch from.
	StateReady EnvState = "ready"

	// StateIncomplete indicates the environment directory exists but is
	// missing pyvenv.cfg or the interpreter binary. This typically happens
	// when creation was interrupted, or when an unrelated directory occupies
	// the environment path. Bootstrap refuses to reuse it.
	StateIncomplete EnvState = "incomplete"

	// StateMissing indicates the environment directory does not exist.
	StateMissing EnvState = "missing"
)

// String returns the string representation of EnvState.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands and logging.
func (s EnvState) String() string {
	return string(s)
}

// IsValid checks whether the EnvState value is one of the
// predefined valid states.
func (s EnvState) IsValid() bool {
	switch s {
	case StateReady, StateIncomplete, StateMissing:
		return true
	default:
		return false
	}
}

// ParseEnvState converts a string to an EnvState.
// Returns an error if the string does not match any valid state.
func ParseEnvState(s string) (EnvState, error) {
	state := EnvState(strings.ToLower(s))
	if !state.IsValid() {
		return "", fmt.Errorf("invalid environment state: %q (valid: ready, incomplete, missing)", s)
	}
	return state, nil
}

// OutputFormat represents the rendering format for commands that can
// emit structured output (status, doctor).
type OutputFormat string

const (
	// FormatTable renders human-readable aligned tables. This is the default.
	FormatTable OutputFormat = "table"

	// FormatJSON renders indented JSON, suitable for scripts and CI.
	FormatJSON OutputFormat = "json"

	// FormatYAML renders YAML, suitable for piping into other config tooling.
	FormatYAML OutputFormat = "yaml"
)

// String returns the string representation of OutputFormat.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks whether the OutputFormat value is one of the
// predefined valid formats.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// ParseOutputFormat converts a string to an OutputFormat.
// Returns an error if the string does not match any valid format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format: %q (valid: table, json, yaml)", s)
	}
	return format, nil
}

const (
	// EnvDirName is the fixed name of the environment directory under the
	// project root. It is deliberately not configurable: the interpreter
	// launcher relies on finding the environment at exactly this path.
	EnvDirName = ".venv"

	// DefaultRequirementsName is the requirements file installed when the
	// user names none.
	DefaultRequirementsName = "requirements.txt"
)

// Environment represents the managed virtual environment: the project's
// isolated Python installation at the fixed .venv path. This is the primary
// aggregate entity in the domain.
//
// All fields are reconstructed at runtime from the filesystem (pyvenv.cfg)
// and from probes against the environment's own binaries. Nothing here is
// cached between invocations.
type Environment struct {
	// ProjectRoot is the absolute path of the project the environment
	// belongs to.
	ProjectRoot string `json:"projectRoot" yaml:"projectRoot"`

	// Path is the absolute path of the environment directory
	// (<ProjectRoot>/.venv).
	Path string `json:"path" yaml:"path"`

	// State is the current observable state of the environment directory.
	State EnvState `json:"state" yaml:"state"`

	// PythonVersion is the interpreter's self-reported version
	// (e.g. "Python 3.11.9"). Only populated for ready environments.
	PythonVersion string `json:"pythonVersion,omitempty" yaml:"pythonVersion,omitempty"`

	// BasePrefix is the installation prefix of the interpreter the
	// environment was created from, read from the "home" key of pyvenv.cfg.
	BasePrefix string `json:"basePrefix,omitempty" yaml:"basePrefix,omitempty"`

	// Packages holds the packages installed in the environment, if they
	// were queried. May be empty for a freshly created environment.
	Packages []Package `json:"packages,omitempty" yaml:"packages,omitempty"`
}

// Package holds name and version of a single installed distribution,
// as reported by the environment's package installer.
type Package struct {
	// Name is the canonical distribution name (e.g. "requests").
	Name string `json:"name" yaml:"name"`

	// Version is the installed version string (e.g. "2.31.0").
	Version string `json:"version" yaml:"version"`
}

// String returns the pin-style representation "name==version".
func (p Package) String() string {
	return fmt.Sprintf("%s==%s", p.Name, p.Version)
}

// ValidateIndexURL checks that a package index URL is usable: absolute,
// with an http, https or file scheme. pip accepts the same set.
// An empty string is valid and means "not configured".
func ValidateIndexURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid index URL %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		return fmt.Errorf("invalid index URL %q: scheme must be http, https or file", raw)
	}
	if u.Scheme != "file" && u.Host == "" {
		return fmt.Errorf("invalid index URL %q: missing host", raw)
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
//
// Installer and interpreter subprocess failures do not map onto these
// constants: the child's own exit code is propagated unchanged.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigurationError indicates invalid input configuration:
	// a missing or unreadable requirements file, or a malformed
	// bootstrap.jsonc.
	ExitConfigurationError ExitCode = 2

	// ExitEnvironmentMissing indicates the virtual environment does not
	// exist yet and the requested operation needs one. Running bootstrap
	// creates it.
	ExitEnvironmentMissing ExitCode = 3

	// ExitInterpreterNotFound indicates no usable Python interpreter or
	// virtualenv executable could be discovered on the host.
	ExitInterpreterNotFound ExitCode = 4

	// ExitEnvironmentBroken indicates the environment directory exists but
	// is not a usable virtual environment (missing pyvenv.cfg or
	// interpreter binary).
	ExitEnvironmentBroken ExitCode = 5

	// ExitUserCancelled indicates the user declined an interactive
	// confirmation prompt.
	ExitUserCancelled ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
