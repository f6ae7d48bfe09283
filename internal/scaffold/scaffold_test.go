package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	root := t.TempDir()

	results, err := Write(root, false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	envPath := filepath.Join(root, "bin", "env.sh")
	pythonPath := filepath.Join(root, "bin", "python.sh")

	assert.Equal(t, envPath, results[0].Path)
	assert.True(t, results[0].Written)
	assert.Equal(t, pythonPath, results[1].Path)
	assert.True(t, results[1].Written)

	envData, err := os.ReadFile(envPath)
	require.NoError(t, err)
	assert.Contains(t, string(envData), "VENV_DIR=${PROJECT_DIR}/.venv")
	assert.Contains(t, string(envData), "export PYTHONPATH=${PROJECT_DIR}/src")

	pythonData, err := os.ReadFile(pythonPath)
	require.NoError(t, err)
	assert.Contains(t, string(pythonData), "ulimit -c 0")
	assert.Contains(t, string(pythonData), `exec ${PYTHON} "$@"`)

	info, err := os.Stat(pythonPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111, "python.sh should be executable")

	envInfo, err := os.Stat(envPath)
	require.NoError(t, err)
	assert.Zero(t, envInfo.Mode()&0o111, "env.sh is sourced, not executed")
}

func TestWrite_PreservesExistingFiles(t *testing.T) {
	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))

	custom := "#!/bin/bash\n# local customization\n"
	envPath := filepath.Join(binDir, "env.sh")
	require.NoError(t, os.WriteFile(envPath, []byte(custom), 0o644))

	results, err := Write(root, false)
	require.NoError(t, err)

	assert.False(t, results[0].Written)
	assert.True(t, results[1].Written, "python.sh was absent and should be created")

	data, err := os.ReadFile(envPath)
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestWrite_Force(t *testing.T) {
	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))

	pythonPath := filepath.Join(binDir, "python.sh")
	require.NoError(t, os.WriteFile(pythonPath, []byte("stale"), 0o644))

	results, err := Write(root, true)
	require.NoError(t, err)

	assert.True(t, results[0].Written)
	assert.True(t, results[1].Written)

	data, err := os.ReadFile(pythonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ulimit -c 0")

	info, err := os.Stat(pythonPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111, "overwrite should restore the executable bit")
}
