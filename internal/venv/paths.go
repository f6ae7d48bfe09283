package venv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kckc-g/init-python-project/internal/model"
)

// ConfigFileName is the marker file every usable virtual environment
// carries. Both virtualenv and the venv module write it at creation time.
const ConfigFileName = "pyvenv.cfg"

// Dir returns the environment directory for a project root.
func Dir(projectRoot string) string {
	return filepath.Join(projectRoot, model.EnvDirName)
}

// BinDir returns the environment's executables directory. Windows
// environments use Scripts/ where POSIX ones use bin/.
func BinDir(envDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envDir, "Scripts")
	}
	return filepath.Join(envDir, "bin")
}

// InterpreterPath returns the environment's own interpreter binary.
func InterpreterPath(envDir string) string {
	return filepath.Join(BinDir(envDir), "python"+exeSuffix())
}

// PipPath returns the environment's own package installer. Installs must
// run through this binary, never a global pip, so packages land inside
// the environment.
func PipPath(envDir string) string {
	return filepath.Join(BinDir(envDir), "pip"+exeSuffix())
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// State inspects the filesystem and classifies the environment directory.
//
// A directory is ready when it exists and carries both the pyvenv.cfg
// marker and the interpreter binary at the platform location. Anything
// occupying the path without those is incomplete: an interrupted creation
// or an unrelated directory, either way not safe to install into.
func State(envDir string) model.EnvState {
	info, err := os.Stat(envDir)
	if err != nil {
		if os.IsNotExist(err) {
			return model.StateMissing
		}
		// The path exists but cannot be inspected. Not safe to treat as
		// usable.
		return model.StateIncomplete
	}
	if !info.IsDir() {
		return model.StateIncomplete
	}
	if _, err := os.Stat(filepath.Join(envDir, ConfigFileName)); err != nil {
		return model.StateIncomplete
	}
	if _, err := os.Stat(InterpreterPath(envDir)); err != nil {
		return model.StateIncomplete
	}
	return model.StateReady
}

// ReadPyvenvCfg parses the environment's pyvenv.cfg into a key/value map.
// The format is one "key = value" pair per line.
func ReadPyvenvCfg(envDir string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(envDir, ConfigFileName))
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return values, nil
}

// ActiveEnv returns the value of the VIRTUAL_ENV variable and whether it
// points at envDir. An activated but unrelated environment must not
// short-circuit creation of the project's own, so callers need both
// pieces of information.
func ActiveEnv(envDir string) (string, bool) {
	active := os.Getenv("VIRTUAL_ENV")
	if active == "" {
		return "", false
	}
	return active, filepath.Clean(active) == filepath.Clean(envDir)
}
