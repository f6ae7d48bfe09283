// Package scaffold generates the optional shell helpers that wrap a
// bootstrapped environment: bin/env.sh, which activates the environment and
// exposes the project sources on PYTHONPATH, and bin/python.sh, a launcher
// for shebang lines and cron entries that cannot invoke the Go binaries.
//
// Existing files are never touched unless the caller asks for an overwrite,
// so local edits to the generated scripts survive re-runs.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kckc-g/init-python-project/internal/model"
)

// envScript activates the project environment for the current shell.
// It is meant to be sourced, not executed.
const envScript = `#!/bin/bash

PROJECT_DIR=$(realpath "$(dirname "${BASH_SOURCE[0]}")/..")

VENV_DIR=${PROJECT_DIR}/.venv

if ! [ -d "${VENV_DIR}" ]; then
    echo "No environment found at '${VENV_DIR}', run bootstrap first."
    exit 1
fi

# Activate only when no environment is active yet.
if [ -z "${VIRTUAL_ENV}" ]; then
    echo "Activating environment from '${VENV_DIR}'"
    . "${VENV_DIR}/bin/activate"
fi

# Make the project sources importable.
export PYTHONPATH=${PROJECT_DIR}/src
`

// pythonScript runs the environment interpreter with the caller's
// arguments, activating the environment first via env.sh.
const pythonScript = `#!/bin/bash

# Disable core dumps.
ulimit -c 0

ENV_SH=$(dirname "${BASH_SOURCE[0]}")/env.sh

if ! [ -f "${ENV_SH}" ]; then
    echo "Missing env.sh, run 'bootstrap scaffold' first."
    exit 1
fi

. "${ENV_SH}"

PYTHON=${VIRTUAL_ENV}/bin/python

exec ${PYTHON} "$@"
`

// Result reports what happened to one scaffolded file.
type Result struct {
	// Path is the absolute path of the script.
	Path string

	// Written is false when the file already existed and was left alone.
	Written bool
}

// Write places bin/env.sh and bin/python.sh under projectRoot. Files that
// already exist are skipped unless force is set. python.sh is made
// executable; env.sh is not, since it only works when sourced.
func Write(projectRoot string, force bool) ([]Result, error) {
	binDir := filepath.Join(projectRoot, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("creating %s", binDir), err)
	}

	files := []struct {
		name    string
		content string
		mode    os.FileMode
	}{
		{"env.sh", envScript, 0o644},
		{"python.sh", pythonScript, 0o755},
	}

	results := make([]Result, 0, len(files))
	for _, f := range files {
		path := filepath.Join(binDir, f.name)
		written, err := writeScript(path, f.content, f.mode, force)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Path: path, Written: written})
	}

	return results, nil
}

func writeScript(path, content string, mode os.FileMode, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return false, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("writing %s", path), err)
	}

	// WriteFile applies the mode only when it creates the file; the
	// overwrite path needs an explicit chmod.
	if err := os.Chmod(path, mode); err != nil {
		return false, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("setting permissions on %s", path), err)
	}

	return true, nil
}
