package main

import (
	"path/filepath"
	"strings"

	"github.com/rashlang/rashc/pkg/rash"
)

// detectSourceKind picks Makefile vs. shell framing from the path's base
// name and extension: "Makefile", "makefile", or a ".mk" suffix are
// treated as Makefile source; everything else (including stdin) is
// treated as shell source. `make parse`/`make lint` bypass this and
// always force SourceMakefile, since their whole purpose is Makefile
// analysis regardless of the file's name.
func detectSourceKind(path string) rash.SourceKind {
	base := filepath.Base(path)
	if base == "Makefile" || base == "makefile" || strings.HasSuffix(base, ".mk") {
		return rash.SourceMakefile
	}
	return rash.SourceShell
}
