package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnvState_String verifies that EnvState values produce the expected
// string representations for CLI output and JSON serialization.
func TestEnvState_String(t *testing.T) {
	tests := []struct {
		state    EnvState
		expected string
	}{
		{StateReady, "ready"},
		{StateIncomplete, "incomplete"},
		{StateMissing, "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

// TestEnvState_IsValid checks that only defined state values pass validation.
func TestEnvState_IsValid(t *testing.T) {
	assert.True(t, StateReady.IsValid())
	assert.True(t, StateIncomplete.IsValid())
	assert.True(t, StateMissing.IsValid())
	assert.False(t, EnvState("invalid").IsValid())
	assert.False(t, EnvState("").IsValid())
}

// TestParseEnvState verifies string-to-state conversion,
// including case normalization and error cases.
func TestParseEnvState(t *testing.T) {
	tests := []struct {
		input    string
		expected EnvState
		hasError bool
	}{
		{"ready", StateReady, false},
		{"incomplete", StateIncomplete, false},
		{"missing", StateMissing, false},
		{"Ready", StateReady, false},     // case insensitive
		{"MISSING", StateMissing, false}, // case insensitive
		{"invalid", "", true},            // unknown value
		{"", "", true},                   // empty string
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseEnvState(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestOutputFormat_String verifies string representation of all output formats.
func TestOutputFormat_String(t *testing.T) {
	tests := []struct {
		format   OutputFormat
		expected string
	}{
		{FormatTable, "table"},
		{FormatJSON, "json"},
		{FormatYAML, "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.String())
		})
	}
}

// TestOutputFormat_IsValid checks that only defined formats pass validation.
func TestOutputFormat_IsValid(t *testing.T) {
	assert.True(t, FormatTable.IsValid())
	assert.True(t, FormatJSON.IsValid())
	assert.True(t, FormatYAML.IsValid())
	assert.False(t, OutputFormat("xml").IsValid())
	assert.False(t, OutputFormat("").IsValid())
}

// TestParseOutputFormat verifies string-to-format conversion.
func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected OutputFormat
		hasError bool
	}{
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"JSON", FormatJSON, false}, // case insensitive
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseOutputFormat(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestPackage_String verifies the pin-style output format used in
// CLI displays and logs.
func TestPackage_String(t *testing.T) {
	pkg := Package{Name: "requests", Version: "2.31.0"}
	assert.Equal(t, "requests==2.31.0", pkg.String())
}

// TestValidateIndexURL checks package index URL validation rules:
// - Empty means "not configured" and is allowed
// - Scheme must be http, https or file
// - http/https URLs need a host
func TestValidateIndexURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		hasError bool
	}{
		{"empty is allowed", "", false},
		{"https index", "https://pypi.org/simple", false},
		{"http mirror", "http://mirror.internal:8080/simple", false},
		{"file scheme", "file:///opt/wheels", false},
		{"missing host", "https://", true},
		{"bad scheme", "ftp://pypi.org/simple", true},
		{"not a url", "://***", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIndexURL(tt.url)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestCLIError verifies the custom error type used for exit code mapping.
func TestCLIError(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := NewCLIError(ExitEnvironmentMissing, "virtual environment not found")
		assert.Equal(t, ExitEnvironmentMissing, err.Code)
		assert.Equal(t, "virtual environment not found", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("permission denied")
		err := WrapCLIError(ExitConfigurationError, "cannot read requirements file", inner)
		assert.Equal(t, ExitConfigurationError, err.Code)
		assert.Contains(t, err.Error(), "permission denied")
		assert.Equal(t, inner, err.Unwrap())
	})

	// Verify errors.Is works with unwrapped errors (Go 1.13+ error chain).
	t.Run("errors.Is chain", func(t *testing.T) {
		inner := errors.New("permission denied")
		err := WrapCLIError(ExitConfigurationError, "cannot read requirements file", inner)
		assert.True(t, errors.Is(err, inner))
	})
}
