// Command rashc transpiles a restricted language into POSIX shell, and
// lints/purifies existing shell or Makefile sources. It is a thin cobra
// wrapper over pkg/rash — every command here parses flags, reads/writes
// files, and prints a report; all real work happens in pkg/rash and the
// internal packages it wraps.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitErrors
	}
	return exitCode
}
