package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kckc-g/init-python-project/internal/logging"
	"github.com/kckc-g/init-python-project/internal/model"
)

// DefaultIndexURL is the package index used when no layer overrides it.
const DefaultIndexURL = "https://pypi.org/simple"

// Options carries the flag-level overrides collected by the CLI.
// Zero values mean "not set on the command line".
type Options struct {
	// ProjectDir is the --project flag: an explicit project root.
	ProjectDir string

	// ConfigFile is the --config flag: an explicit user config file.
	ConfigFile string

	// Python is the --python flag.
	Python string

	// Virtualenv is the --virtualenv flag.
	Virtualenv string

	// Requirements is the --requirements flag values, in order.
	Requirements []string

	// IndexURL is the --index-url flag.
	IndexURL string

	// ExtraIndexURL is the --extra-index-url flag.
	ExtraIndexURL string
}

// Settings is the effective configuration after merging all layers.
// All paths are absolute.
type Settings struct {
	// ProjectRoot is the resolved project root directory.
	ProjectRoot string

	// Python is the base interpreter to create the environment from.
	// Empty means "discover python3/python on PATH".
	Python string

	// Virtualenv is an explicit virtualenv executable. Empty means
	// "discover, then fall back to python -m venv".
	Virtualenv string

	// Requirements are the requirements files to install, in order.
	Requirements []string

	// IndexURL is the primary package index handed to pip.
	IndexURL string

	// ExtraIndexURL is the additional package index handed to pip.
	// Empty means none.
	ExtraIndexURL string

	// LogFile is the rolling log file location. Empty disables file
	// logging.
	LogFile string

	// ProjectFile is the bootstrap.jsonc that was consulted, or empty.
	ProjectFile string

	// UserConfigFile is the user config file that was consulted, or empty.
	UserConfigFile string
}

// EnvDir returns the absolute path of the environment directory.
func (s *Settings) EnvDir() string {
	return filepath.Join(s.ProjectRoot, model.EnvDirName)
}

// Resolve merges flags, the project file, the user layer and defaults into
// the effective Settings. Configuration problems (unresolvable project
// root, malformed files, bad index URLs) come back as CLIErrors carrying
// ExitConfigurationError.
func Resolve(opts Options) (*Settings, error) {
	root, err := ResolveProjectRoot(opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	user, err := loadUserLayer(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	var proj ProjectFile
	projPath, found := FindProjectFile(root)
	if found {
		loaded, err := LoadProjectFile(projPath)
		if err != nil {
			return nil, err
		}
		proj = *loaded
	}

	s := &Settings{
		ProjectRoot:    root,
		Python:         firstNonEmpty(opts.Python, proj.Python, user.GetString("python")),
		Virtualenv:     firstNonEmpty(opts.Virtualenv, proj.Virtualenv, user.GetString("virtualenv")),
		IndexURL:       firstNonEmpty(opts.IndexURL, proj.IndexURL, user.GetString("index-url"), DefaultIndexURL),
		ExtraIndexURL:  firstNonEmpty(opts.ExtraIndexURL, proj.ExtraIndexURL, user.GetString("extra-index-url")),
		LogFile:        firstNonEmpty(user.GetString("log-file"), logging.DefaultFilePath()),
		ProjectFile:    projPath,
		UserConfigFile: user.ConfigFileUsed(),
	}

	if err := model.ValidateIndexURL(s.IndexURL); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigurationError, "invalid package index configuration", err)
	}
	if err := model.ValidateIndexURL(s.ExtraIndexURL); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigurationError, "invalid package index configuration", err)
	}

	s.Requirements, err = resolveRequirements(opts.Requirements, proj.Requirements, root)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// resolveRequirements picks the requirements list and makes every entry
// absolute. Flag-provided relative paths resolve against the working
// directory, the way any command-line path argument would; paths from the
// project file and the default resolve against the project root.
func resolveRequirements(fromFlags, fromProject []string, root string) ([]string, error) {
	switch {
	case len(fromFlags) > 0:
		resolved := make([]string, len(fromFlags))
		for i, r := range fromFlags {
			abs, err := filepath.Abs(r)
			if err != nil {
				return nil, model.WrapCLIError(model.ExitConfigurationError,
					fmt.Sprintf("cannot resolve requirements path %s", r), err)
			}
			resolved[i] = abs
		}
		return resolved, nil

	case len(fromProject) > 0:
		resolved := make([]string, len(fromProject))
		for i, r := range fromProject {
			if filepath.IsAbs(r) {
				resolved[i] = filepath.Clean(r)
			} else {
				resolved[i] = filepath.Join(root, r)
			}
		}
		return resolved, nil

	default:
		return []string{filepath.Join(root, model.DefaultRequirementsName)}, nil
	}
}

// ResolveProjectRoot determines the project root directory. An explicit
// directory must exist; otherwise the working directory and its parents
// are searched for a project marker, falling back to the working directory
// itself.
func ResolveProjectRoot(explicit string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", model.WrapCLIError(model.ExitConfigurationError,
				fmt.Sprintf("cannot resolve project directory %s", explicit), err)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return "", model.NewCLIError(model.ExitConfigurationError,
				fmt.Sprintf("project directory not found: %s", explicit))
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot determine working directory: %w", err)
	}
	return FindProjectRoot(cwd), nil
}

// FindProjectRoot walks from start toward the filesystem root and returns
// the first directory containing a project marker: bootstrap.jsonc,
// requirements.txt or the environment directory itself. When no marker is
// found, start is returned unchanged.
func FindProjectRoot(start string) string {
	markers := []string{ProjectFileName, model.DefaultRequirementsName, model.EnvDirName}

	current := start
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
				return current
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return start
		}
		current = parent
	}
}

// firstNonEmpty returns the first value that is set, implementing the
// layer precedence for scalar settings.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
