// Package model defines the domain types and value objects for the
// init-python-project CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (Environment, Package, EnvState, etc.) are transient
// representations reconstructed from the filesystem and from subprocess
// probes at runtime. The environment directory is the only persistent
// state, and the pyvenv.cfg file inside it is the source of truth for
// whether a directory is a usable virtual environment.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
