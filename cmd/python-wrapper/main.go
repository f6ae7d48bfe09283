// Package main is the entry point for the python-wrapper binary.
//
// python-wrapper runs the project environment's Python interpreter with
// whatever arguments it was given, exactly as given. It deliberately does
// not use a CLI framework: every argument, including flag-shaped ones like
// --version or -c, belongs to the interpreter.
//
// The process exits with the interpreter's own exit code. When no usable
// environment exists it fails with a message pointing at bootstrap.
package main

import (
	"os"

	"github.com/kckc-g/init-python-project/internal/launch"
)

func main() {
	launch.Execute(os.Args[1:])
}
