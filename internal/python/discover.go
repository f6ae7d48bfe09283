// Package python locates the host's Python tooling: the base interpreter
// used to create the virtual environment and the virtualenv executable
// preferred for creating it.
//
// Discovery never runs anything by itself; it only resolves executables.
// Version probes are separate so commands can decide how chatty to be.
package python

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/kckc-g/init-python-project/internal/execx"
	"github.com/kckc-g/init-python-project/internal/model"
)

// defaultInterpreterNames is the PATH lookup order when no interpreter is
// configured. python3 first: on hosts with both, plain python is often
// still Python 2.
var defaultInterpreterNames = []string{"python3", "python"}

// virtualenvName is the executable probed next to the interpreter and on
// PATH.
const virtualenvName = "virtualenv"

// defaultRunner executes version probes. Probes inherit the parent's
// working directory; all paths involved are absolute.
var defaultRunner = execx.NewRunner("")

// DiscoverInterpreter resolves the base interpreter for environment
// creation.
//
// The strategy follows this priority order:
//  1. An explicit value (flag or config): a path or a PATH name. It must
//     resolve to an executable, otherwise discovery fails rather than
//     silently picking a different Python than the one asked for.
//  2. python3 on PATH.
//  3. python on PATH.
//
// Returns a model.CLIError with ExitInterpreterNotFound when nothing
// usable is found.
func DiscoverInterpreter(explicit string) (string, error) {
	if explicit != "" {
		path, err := resolveExecutable(explicit)
		if err != nil {
			return "", model.WrapCLIError(
				model.ExitInterpreterNotFound,
				fmt.Sprintf("configured python is not usable: %s", explicit),
				err,
			)
		}
		return path, nil
	}

	for _, name := range defaultInterpreterNames {
		if path, err := resolveExecutable(name); err == nil {
			return path, nil
		}
	}

	return "", model.NewCLIError(
		model.ExitInterpreterNotFound,
		fmt.Sprintf("no python interpreter found on PATH (tried %v)", defaultInterpreterNames),
	)
}

// DiscoverVirtualenv resolves the virtualenv executable used to create the
// environment.
//
// The strategy follows this priority order:
//  1. An explicit value (flag or config), which must resolve.
//  2. A virtualenv binary next to the chosen interpreter. An interpreter
//     installation that ships its own virtualenv should be used with it,
//     not with whatever happens to be first on PATH.
//  3. virtualenv on PATH.
//
// Unlike the interpreter, virtualenv is optional: when nothing is found
// and nothing was configured, ("", nil) is returned and the caller falls
// back to the interpreter's built-in venv module.
func DiscoverVirtualenv(explicit, interpreter string) (string, error) {
	if explicit != "" {
		path, err := resolveExecutable(explicit)
		if err != nil {
			return "", model.WrapCLIError(
				model.ExitInterpreterNotFound,
				fmt.Sprintf("configured virtualenv is not usable: %s", explicit),
				err,
			)
		}
		return path, nil
	}

	if interpreter != "" {
		sibling := filepath.Join(filepath.Dir(interpreter), virtualenvName)
		if path, err := resolveExecutable(sibling); err == nil {
			return path, nil
		}
	}

	if path, err := resolveExecutable(virtualenvName); err == nil {
		return path, nil
	}

	return "", nil
}

// Version asks an executable for its self-reported version, e.g.
// "Python 3.11.9". Used by status and doctor output.
func Version(ctx context.Context, path string) (string, error) {
	return defaultRunner.Run(ctx, path, "--version")
}

// Candidate is one entry of the discovery order, resolved for diagnostic
// display. Path is empty when the candidate was not found.
type Candidate struct {
	// Name is how the candidate is referred to: a configured value or a
	// PATH lookup name.
	Name string `json:"name"`

	// Path is the resolved absolute path, empty when not found.
	Path string `json:"path,omitempty"`
}

// Found reports whether the candidate resolved to an executable.
func (c Candidate) Found() bool {
	return c.Path != ""
}

// InterpreterCandidates lists every interpreter the discovery order would
// consider, with resolution results. Used by the doctor command.
func InterpreterCandidates(explicit string) []Candidate {
	var names []string
	if explicit != "" {
		names = append(names, explicit)
	}
	names = append(names, defaultInterpreterNames...)

	candidates := make([]Candidate, 0, len(names))
	for _, name := range names {
		c := Candidate{Name: name}
		if path, err := resolveExecutable(name); err == nil {
			c.Path = path
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// VirtualenvCandidates lists every virtualenv location the discovery order
// would consider. Used by the doctor command.
func VirtualenvCandidates(explicit, interpreter string) []Candidate {
	var names []string
	if explicit != "" {
		names = append(names, explicit)
	}
	if interpreter != "" {
		names = append(names, filepath.Join(filepath.Dir(interpreter), virtualenvName))
	}
	names = append(names, virtualenvName)

	candidates := make([]Candidate, 0, len(names))
	for _, name := range names {
		c := Candidate{Name: name}
		if path, err := resolveExecutable(name); err == nil {
			c.Path = path
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// resolveExecutable turns a name or path into an absolute executable path.
// exec.LookPath does the heavy lifting: names are searched on PATH, values
// containing a separator are checked directly, and Windows extension
// handling comes for free.
func resolveExecutable(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", err
	}
	return filepath.Abs(path)
}
