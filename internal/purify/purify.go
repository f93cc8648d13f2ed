// Package purify rewrites shell and Makefile ASTs to remove
// non-determinism and idempotency hazards that internal/lint only
// flags. Every rewrite is table-driven and total: running a rewrite
// twice on its own output is a no-op (purify(purify(x)) == purify(x)),
// which the property tests in purify_test.go check directly rather
// than trusting by construction.
package purify

import (
	"strings"

	"github.com/rashlang/rashc/internal/makefile"
	"github.com/rashlang/rashc/internal/shellfront"
)

// Note is a human-readable annotation the purifier could not resolve
// automatically; callers render it as a "# PURIFY: ..." comment above
// the offending construct rather than silently rewriting it.
type Note struct {
	Line    int
	Message string
}

// annotate prepends a "# PURIFY: <message>" comment line above each
// noted source line. Applied against the pre-rewrite line numbers
// recorded in each Note — safe because every automatic rewrite in this
// package changes line content, never line count or order: a missing
// .PHONY: declaration is appended at the end rather than inserted at
// the point of use, so it never shifts an earlier Note's line number.
func annotate(text string, notes []Note) string {
	if len(notes) == 0 {
		return text
	}
	byLine := map[int]string{}
	for _, n := range notes {
		byLine[n.Line] = n.Message
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	out := make([]string, 0, len(lines)+len(notes))
	for i, line := range lines {
		if msg, ok := byLine[i+1]; ok {
			out = append(out, "# PURIFY: "+msg)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n") + "\n"
}

// MakefileSource parses, purifies, and re-prints Makefile source in one
// step, annotating any line the purifier left untouched with a
// "# PURIFY: ..." comment above it.
func MakefileSource(src string) (string, []Note, error) {
	f, err := makefile.Parse(strings.NewReader(src))
	if err != nil {
		return "", nil, err
	}
	notes := Makefile(f)
	return annotate(makefile.Print(f), notes), notes, nil
}

// ShellSource parses, purifies, and re-prints shell source in one step.
func ShellSource(name, src string) (string, []Note, error) {
	f, err := shellfront.ParseString(name, src)
	if err != nil {
		return "", nil, err
	}
	notes := Shell(f)
	out, err := shellfront.Print(f)
	if err != nil {
		return "", nil, err
	}
	return annotate(out, notes), notes, nil
}
