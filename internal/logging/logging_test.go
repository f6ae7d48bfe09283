package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogger_ConsoleOutput verifies bare console messages and the
// verbose gate for debug records.
func TestLogger_ConsoleOutput(t *testing.T) {
	t.Run("messages are bare lines", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(Options{ConsoleWriter: &buf})
		defer l.Close()

		l.Info("creating virtual environment at %s", "/tmp/p/.venv")
		assert.Equal(t, "creating virtual environment at /tmp/p/.venv\n", buf.String())
	})

	t.Run("debug hidden by default", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(Options{ConsoleWriter: &buf})
		defer l.Close()

		l.Debug("probe result: %s", "Python 3.11.9")
		assert.Empty(t, buf.String())
	})

	t.Run("debug visible in verbose mode", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(Options{ConsoleWriter: &buf, Verbose: true})
		defer l.Close()

		l.Debug("probe result")
		assert.Contains(t, buf.String(), "probe result")
	})
}

// TestLogger_FileSink verifies that the file sink receives timestamped
// records tagged with the run ID, including debug records.
func TestLogger_FileSink(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "bootstrap.log")

	var console bytes.Buffer
	l := New(Options{ConsoleWriter: &console, FilePath: logPath})
	l.Info("installing from requirements.txt")
	l.Debug("pip args: --timeout=120")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "installing from requirements.txt")
	assert.Contains(t, content, "pip args: --timeout=120") // file gets debug regardless of verbose
	assert.Contains(t, content, "run="+l.RunID())

	// Console stays bare: no run ID leakage.
	assert.NotContains(t, console.String(), l.RunID())
}

// TestLogger_FileSinkFailureIsNonFatal checks that an unwritable log
// location degrades to console-only logging instead of failing.
func TestLogger_FileSinkFailureIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	// A file where the log directory should be makes MkdirAll fail.
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	var console bytes.Buffer
	l := New(Options{ConsoleWriter: &console, FilePath: filepath.Join(blocker, "bootstrap.log")})
	defer l.Close()

	l.Info("still works")
	assert.Contains(t, console.String(), "still works")
	assert.Contains(t, console.String(), "log file disabled")
}

// TestLogger_RunID verifies each logger gets its own identifier.
func TestLogger_RunID(t *testing.T) {
	a := New(Options{ConsoleWriter: &bytes.Buffer{}})
	b := New(Options{ConsoleWriter: &bytes.Buffer{}})
	defer a.Close()
	defer b.Close()

	assert.NotEmpty(t, a.RunID())
	assert.NotEqual(t, a.RunID(), b.RunID())
}
