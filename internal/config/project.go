package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kckc-g/init-python-project/internal/model"
	"github.com/tidwall/jsonc"
)

// ProjectFileName is the per-project configuration file, looked up in the
// project root.
const ProjectFileName = "bootstrap.jsonc"

// ProjectFile represents the parsed bootstrap.jsonc. Only the fields the
// bootstrapper understands are included; unknown fields are silently
// ignored so projects can annotate the file freely.
type ProjectFile struct {
	// Python is the base interpreter used to create the environment.
	// Either an absolute path or a name looked up on PATH.
	Python string `json:"python,omitempty"`

	// Virtualenv is an explicit virtualenv executable. When empty the
	// usual discovery order applies.
	Virtualenv string `json:"virtualenv,omitempty"`

	// Requirements lists requirements files to install, in order, relative
	// to the project root unless absolute. Later files override earlier
	// pins, matching pip's sequential install behavior.
	Requirements []string `json:"requirements,omitempty"`

	// IndexURL is the primary package index passed to pip.
	IndexURL string `json:"indexUrl,omitempty"`

	// ExtraIndexURL is an additional package index passed to pip.
	ExtraIndexURL string `json:"extraIndexUrl,omitempty"`
}

// LoadProjectFile reads a bootstrap.jsonc file, strips JSONC comments, and
// parses it into a ProjectFile.
//
// A missing or unparseable file is a configuration error: the caller only
// asks for a load after the file was located, so both cases mean the
// project's configuration is broken, not absent.
func LoadProjectFile(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigurationError,
			fmt.Sprintf("cannot read %s", path),
			err,
		)
	}

	// Strip JSONC comments (// and /* */) and trailing commas before
	// handing the bytes to encoding/json.
	cleanJSON := jsonc.ToJSON(data)

	var pf ProjectFile
	if err := json.Unmarshal(cleanJSON, &pf); err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigurationError,
			fmt.Sprintf("malformed %s", path),
			err,
		)
	}

	return &pf, nil
}

// FindProjectFile returns the path of the project configuration file under
// root and whether it exists.
func FindProjectFile(root string) (string, bool) {
	path := filepath.Join(root, ProjectFileName)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}
