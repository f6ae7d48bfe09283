package pip

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kckc-g/init-python-project/internal/execx"
	"github.com/kckc-g/init-python-project/internal/model"
	"github.com/kckc-g/init-python-project/internal/venv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePipStub plants a fake pip binary inside envDir so Install and List
// resolve it at the path a real environment would provide.
func writePipStub(t *testing.T, envDir, script string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(venv.BinDir(envDir), 0o755))
	require.NoError(t, os.WriteFile(venv.PipPath(envDir), []byte(script), 0o755))
}

// writeRequirements writes a requirements file with a single pin and
// returns its path.
func writeRequirements(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("requests==2.31.0\n"), 0o644))
	return path
}

func TestValidateRequirementsFiles(t *testing.T) {
	t.Run("all files exist", func(t *testing.T) {
		dir := t.TempDir()
		a := writeRequirements(t, dir, "requirements.txt")
		b := writeRequirements(t, dir, "requirements-dev.txt")

		assert.NoError(t, ValidateRequirementsFiles([]string{a, b}))
	})

	t.Run("empty list", func(t *testing.T) {
		assert.NoError(t, ValidateRequirementsFiles(nil))
	})

	t.Run("missing file", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope.txt")

		err := ValidateRequirementsFiles([]string{missing})
		require.Error(t, err)

		var cliErr *model.CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, model.ExitConfigurationError, cliErr.Code)
		assert.Contains(t, cliErr.Message, missing)
	})

	t.Run("directory instead of file", func(t *testing.T) {
		dir := t.TempDir()

		err := ValidateRequirementsFiles([]string{dir})
		require.Error(t, err)

		var cliErr *model.CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, model.ExitConfigurationError, cliErr.Code)
		assert.Contains(t, cliErr.Message, "directory")
	})

	t.Run("one bad path among good ones", func(t *testing.T) {
		dir := t.TempDir()
		good := writeRequirements(t, dir, "requirements.txt")
		bad := filepath.Join(dir, "absent.txt")

		err := ValidateRequirementsFiles([]string{good, bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "absent.txt")
	})
}

func TestInstaller_Install(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		envDir := filepath.Join(t.TempDir(), ".venv")
		argFile := filepath.Join(t.TempDir(), "args.txt")
		writePipStub(t, envDir, "#!/bin/sh\necho \"$@\" >> \""+argFile+"\"\n")
		req := writeRequirements(t, t.TempDir(), "requirements.txt")

		err := NewInstaller().Install(context.Background(), InstallOptions{
			EnvDir:       envDir,
			IndexURL:     "https://pypi.org/simple",
			Requirements: []string{req},
		})
		require.NoError(t, err)

		data, readErr := os.ReadFile(argFile)
		require.NoError(t, readErr)
		assert.Equal(t,
			"install --index-url=https://pypi.org/simple --timeout=120 --requirement="+req,
			strings.TrimSpace(string(data)))
	})

	t.Run("extra index url", func(t *testing.T) {
		envDir := filepath.Join(t.TempDir(), ".venv")
		argFile := filepath.Join(t.TempDir(), "args.txt")
		writePipStub(t, envDir, "#!/bin/sh\necho \"$@\" >> \""+argFile+"\"\n")
		req := writeRequirements(t, t.TempDir(), "requirements.txt")

		err := NewInstaller().Install(context.Background(), InstallOptions{
			EnvDir:        envDir,
			IndexURL:      "https://pypi.org/simple",
			ExtraIndexURL: "https://mirror.example.com/simple",
			Requirements:  []string{req},
		})
		require.NoError(t, err)

		data, readErr := os.ReadFile(argFile)
		require.NoError(t, readErr)
		assert.Equal(t,
			"install --index-url=https://pypi.org/simple"+
				" --extra-index-url=https://mirror.example.com/simple"+
				" --timeout=120 --requirement="+req,
			strings.TrimSpace(string(data)))
	})

	t.Run("multiple files install in order", func(t *testing.T) {
		envDir := filepath.Join(t.TempDir(), ".venv")
		argFile := filepath.Join(t.TempDir(), "args.txt")
		writePipStub(t, envDir, "#!/bin/sh\necho \"$@\" >> \""+argFile+"\"\n")
		dir := t.TempDir()
		base := writeRequirements(t, dir, "requirements.txt")
		dev := writeRequirements(t, dir, "requirements-dev.txt")

		err := NewInstaller().Install(context.Background(), InstallOptions{
			EnvDir:       envDir,
			IndexURL:     "https://pypi.org/simple",
			Requirements: []string{base, dev},
		})
		require.NoError(t, err)

		data, readErr := os.ReadFile(argFile)
		require.NoError(t, readErr)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "--requirement="+base)
		assert.Contains(t, lines[1], "--requirement="+dev)
	})

	t.Run("failure stops the pass and propagates the exit code", func(t *testing.T) {
		envDir := filepath.Join(t.TempDir(), ".venv")
		argFile := filepath.Join(t.TempDir(), "args.txt")
		writePipStub(t, envDir, "#!/bin/sh\necho \"$@\" >> \""+argFile+"\"\nexit 4\n")
		dir := t.TempDir()
		first := writeRequirements(t, dir, "requirements.txt")
		second := writeRequirements(t, dir, "requirements-dev.txt")

		err := NewInstaller().Install(context.Background(), InstallOptions{
			EnvDir:       envDir,
			IndexURL:     "https://pypi.org/simple",
			Requirements: []string{first, second},
		})
		require.Error(t, err)
		assert.Equal(t, 4, execx.ExitCode(err))
		assert.Contains(t, err.Error(), first)

		data, readErr := os.ReadFile(argFile)
		require.NoError(t, readErr)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Len(t, lines, 1)
	})
}

func TestInstaller_List(t *testing.T) {
	t.Run("parses pip json output", func(t *testing.T) {
		envDir := filepath.Join(t.TempDir(), ".venv")
		writePipStub(t, envDir,
			"#!/bin/sh\necho '[{\"name\":\"flask\",\"version\":\"3.0.2\"},{\"name\":\"requests\",\"version\":\"2.31.0\"}]'\n")

		packages, err := NewInstaller().List(context.Background(), envDir)
		require.NoError(t, err)

		require.Len(t, packages, 2)
		assert.Equal(t, model.Package{Name: "flask", Version: "3.0.2"}, packages[0])
		assert.Equal(t, model.Package{Name: "requests", Version: "2.31.0"}, packages[1])
	})

	t.Run("pip failure", func(t *testing.T) {
		envDir := filepath.Join(t.TempDir(), ".venv")
		writePipStub(t, envDir, "#!/bin/sh\necho 'boom' >&2\nexit 1\n")

		_, err := NewInstaller().List(context.Background(), envDir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pip list failed")
	})

	t.Run("malformed output", func(t *testing.T) {
		envDir := filepath.Join(t.TempDir(), ".venv")
		writePipStub(t, envDir, "#!/bin/sh\necho 'not json'\n")

		_, err := NewInstaller().List(context.Background(), envDir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing pip list output")
	})
}
