package purify

import (
	"mvdan.cc/sh/v3/syntax"

	"github.com/rashlang/rashc/internal/shellfront"
)

// Shell rewrites f's AST in place, adding the missing idempotency flag
// to mkdir/rm/ln -s invocations. Calls that already carry the flag (in
// any position) are left untouched, so a second pass over already
// purified input is a no-op.
func Shell(f *syntax.File) []Note {
	for _, call := range shellfront.Calls(f) {
		name, ok := shellfront.CallName(call)
		if !ok || len(call.Args) < 1 {
			continue
		}
		switch name {
		case "mkdir":
			addFlagIfMissing(call, "-p")
		case "rm":
			addFlagIfMissing(call, "-f")
		case "ln":
			if hasLiteralFlag(call.Args[1:], "-s") && !hasAnyLiteralFlag(call.Args[1:], "-f", "-sf", "-fs") {
				call.Args = append(call.Args, litWord("-f"))
			}
		}
	}
	return nil
}

func addFlagIfMissing(call *syntax.CallExpr, flag string) {
	if hasLiteralFlag(call.Args[1:], flag) {
		return
	}
	// Insert right after the command name so the flag reads naturally
	// (mkdir -p foo, not mkdir foo -p) without needing to reorder the
	// remaining arguments.
	args := make([]*syntax.Word, 0, len(call.Args)+1)
	args = append(args, call.Args[0], litWord(flag))
	args = append(args, call.Args[1:]...)
	call.Args = args
}

func hasLiteralFlag(args []*syntax.Word, flag string) bool {
	for _, w := range args {
		if v, ok := shellfront.LiteralWord(w); ok && v == flag {
			return true
		}
	}
	return false
}

func hasAnyLiteralFlag(args []*syntax.Word, flags ...string) bool {
	for _, flag := range flags {
		if hasLiteralFlag(args, flag) {
			return true
		}
	}
	return false
}

func litWord(s string) *syntax.Word {
	return &syntax.Word{Parts: []syntax.WordPart{&syntax.Lit{Value: s}}}
}
