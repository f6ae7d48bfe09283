// Package config resolves the effective bootstrapper configuration from
// four layers, highest precedence first:
//
//  1. Command-line flags.
//  2. The project file <root>/bootstrap.jsonc. JSONC is supported via
//     github.com/tidwall/jsonc, so comments and trailing commas are fine.
//  3. The user config file (config.yaml under the OS config directory,
//     or an explicit --config path) plus BOOTSTRAP_* environment
//     variables, both handled by viper.
//  4. Built-in defaults.
//
// The package also resolves the project root: an explicit --project flag
// wins, otherwise the working directory and its parents are searched for
// a directory carrying a project marker (bootstrap.jsonc, requirements.txt
// or .venv).
//
// The environment directory name (.venv) is not part of the configuration
// surface. It is fixed by contract so the interpreter launcher can always
// find the environment without any configuration of its own.
package config
