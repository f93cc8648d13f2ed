package main

import (
	"fmt"
	"os"
)

// writeBackInPlace overwrites path with text, used by `lint --fix`,
// `make lint --fix`, and `purify` (to the -o path, or to the input under
// --fix). Refuses to silently discard a stdin-sourced
// rewrite, since there is nowhere in-place to write it back to.
func writeBackInPlace(path, text string) error {
	if path == "-" || path == "" {
		return fmt.Errorf("rashc: --fix requires a real input file, not stdin")
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("rashc: writing %s: %w", path, err)
	}
	return nil
}
