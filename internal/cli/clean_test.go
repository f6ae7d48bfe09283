// Package cli — clean_test.go exercises the clean command paths that need
// no terminal: the non-interactive guard, --force, and the missing-env
// no-op. go test runs with a non-tty stdin, which is exactly the situation
// the guard exists for.
package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kckc-g/init-python-project/internal/model"
	"github.com/kckc-g/init-python-project/internal/venv"
)

// TestRunClean_NonInteractiveRequiresForce: with nobody to confirm, clean
// refuses unless --force is given, and the environment stays untouched.
func TestRunClean_NonInteractiveRequiresForce(t *testing.T) {
	dir := t.TempDir()
	useProject(t, dir)
	plantReadyEnv(t, dir)

	err := runClean(&cleanFlags{})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitUserCancelled, cliErr.Code)
	assert.Contains(t, cliErr.Message, "--force")

	assert.Equal(t, model.StateReady, venv.State(venv.Dir(dir)), "environment must survive a refused clean")
}

// TestRunClean_Force removes the environment without prompting.
func TestRunClean_Force(t *testing.T) {
	dir := t.TempDir()
	useProject(t, dir)
	plantReadyEnv(t, dir)

	require.NoError(t, runClean(&cleanFlags{force: true}))

	_, err := os.Stat(venv.Dir(dir))
	assert.True(t, os.IsNotExist(err), "environment directory should be gone")
}

// TestRunClean_MissingEnvironment: nothing on disk is a successful no-op,
// not an error.
func TestRunClean_MissingEnvironment(t *testing.T) {
	dir := t.TempDir()
	useProject(t, dir)

	assert.NoError(t, runClean(&cleanFlags{}))

	_, err := os.Stat(venv.Dir(dir))
	assert.True(t, os.IsNotExist(err))
}
