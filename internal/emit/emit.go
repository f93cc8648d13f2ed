// Package emit renders a verified ShellIR (internal/ir) to POSIX shell text.
// The emitter is a stateless read-only walk apart from indentation and a
// temp-variable counter used to hoist boolean-valued sub-expressions into
// their own assignment, since POSIX has no single-expression shape for
// combining two dynamically-computed truth values. Identical IR always
// produces byte-identical output.
package emit

import (
	"fmt"
	"strings"

	"github.com/rashlang/rashc/internal/dialect"
	"github.com/rashlang/rashc/internal/ir"
)

// preludeBody is the strict-mode/IFS/locale header shared by every dialect,
// minus the shebang line, which varies per dialect.Profile.
const preludeBody = "set -eu\n" +
	"IFS='\n" +
	"\t'\n" +
	"LC_ALL=C\n" +
	"export LC_ALL\n"

// runtime defines the small set of helpers every emitted script carries,
// regardless of whether a given program happens to call them: rash_require
// fails fast with a clear message when an external command is missing, and
// rash_cleanup is installed as an EXIT trap so early exits (including from
// `set -e`) still run through one place.
const runtime = "" +
	"rash_require() {\n" +
	"\tcommand -v \"$1\" >/dev/null 2>&1 || {\n" +
	"\t\tprintf 'rash: missing required command: %s\\n' \"$1\" >&2\n" +
	"\t\texit 1\n" +
	"\t}\n" +
	"}\n" +
	"\n" +
	"rash_cleanup() {\n" +
	"\t:\n" +
	"}\n" +
	"trap rash_cleanup EXIT\n"

// Emit renders script to POSIX shell text. script must already have passed
// internal/verify; Emit does not re-check its invariants, only realizes
// them as text. Equivalent to EmitDialect(script, dialect.Default()).
func Emit(script *ir.Script) (string, error) {
	return EmitDialect(script, dialect.Default())
}

// EmitDialect renders script under the given dialect profile. The IR is
// dialect-agnostic; profile only selects the shebang, the prelude's
// dialect-specific addendum, and the `[`/`[[` test form (internal/emit/cond.go).
func EmitDialect(script *ir.Script, profile *dialect.Profile) (string, error) {
	if profile == nil {
		profile = dialect.Default()
	}
	e := &emitter{buf: &strings.Builder{}, profile: profile}
	e.buf.WriteString(profile.Shebang)
	e.buf.WriteByte('\n')
	e.buf.WriteString(preludeBody)
	e.buf.WriteString(profile.ExtraPrelude)
	e.buf.WriteByte('\n')
	e.buf.WriteString(runtime)
	e.buf.WriteByte('\n')

	for _, fn := range script.Functions {
		if err := e.emitFunction(fn); err != nil {
			return "", err
		}
		e.buf.WriteByte('\n')
	}

	e.buf.WriteString("main \"$@\"\n")
	return e.buf.String(), nil
}

type emitter struct {
	buf     *strings.Builder
	tmpSeq  int
	profile *dialect.Profile
}

// nextTemp returns a fresh, script-unique scratch variable name. Allocation
// order follows the single deterministic tree walk the rest of the emitter
// performs, so two runs over the same IR always hand out the same names.
func (e *emitter) nextTemp() string {
	e.tmpSeq++
	return fmt.Sprintf("__rash_t%d", e.tmpSeq)
}

func (e *emitter) line(depth int, format string, args ...any) {
	e.buf.WriteString(strings.Repeat("\t", depth))
	fmt.Fprintf(e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *emitter) raw(depth int, text string) {
	for _, ln := range strings.Split(text, "\n") {
		e.buf.WriteString(strings.Repeat("\t", depth))
		e.buf.WriteString(ln)
		e.buf.WriteByte('\n')
	}
}

func (e *emitter) emitFunction(fn *ir.Function) error {
	e.line(0, "%s() {", fn.Name)
	if err := e.emitBlock(fn.Body, fn.Kind, 1); err != nil {
		return err
	}
	e.line(0, "}")
	return nil
}
