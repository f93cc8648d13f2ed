package purify

import (
	"strings"

	"github.com/rashlang/rashc/internal/makefile"
)

var canonicalPhonyNames = map[string]bool{
	"all": true, "clean": true, "test": true, "install": true,
	"fmt": true, "lint": true, "build": true, "run": true, "check": true,
}

// Makefile rewrites f's AST in place and returns the Notes for
// transformations it deliberately left untouched. Safe to call on
// already-purified input: every rewrite checks for its own
// already-applied shape before acting.
func Makefile(f *makefile.File) []Note {
	var notes []Note
	declaredPhony := map[string]bool{}
	var missingPhonyTargets []string

	walk(f.Nodes, func(n makefile.Node) {
		switch v := n.(type) {
		case *makefile.VarAssign:
			v.Value = wrapNonDeterministicCalls(v.Value)
			if isShellDateCapture(v) {
				notes = append(notes, Note{
					Line:    v.Line,
					Message: "captures output of date; no automatic rewrite preserves both determinism and intent",
				})
			}
		case *makefile.PhonyDecl:
			for _, name := range v.Names {
				declaredPhony[name] = true
			}
		}
	})

	walk(f.Nodes, func(n makefile.Node) {
		rule, ok := n.(*makefile.Rule)
		if !ok {
			return
		}
		for i, rl := range rule.Recipe {
			rule.Recipe[i].Text = rewriteRecipeIdempotency(rl.Text)
		}
		if len(rule.Targets) != 1 {
			return
		}
		target := rule.Targets[0]
		if !canonicalPhonyNames[target] || declaredPhony[target] {
			return
		}
		missingPhonyTargets = append(missingPhonyTargets, target)
		declaredPhony[target] = true
	})

	if len(missingPhonyTargets) > 0 {
		// Appended, not prepended: every other Note's Line refers to its
		// position in the original source, and appending leaves those
		// positions unshifted when the result is re-printed.
		f.Nodes = append(f.Nodes, &makefile.PhonyDecl{Names: missingPhonyTargets})
	}

	return notes
}

func walk(nodes []makefile.Node, visit func(makefile.Node)) {
	for _, n := range nodes {
		visit(n)
		if c, ok := n.(*makefile.Conditional); ok {
			walk(c.Then, visit)
			walk(c.Else, visit)
		}
	}
}

// isShellDateCapture reports whether va captures the output of a `date`
// invocation, either via "!=" or a "$(shell ...)" call.
func isShellDateCapture(va *makefile.VarAssign) bool {
	isShellAssign := va.Op == makefile.OpShell
	hasShellCall := strings.Contains(va.Value, "$(shell")
	return (isShellAssign || hasShellCall) && strings.Contains(va.Value, "date")
}

// wrapNonDeterministicCalls wraps every not-already-sorted $(wildcard ...)
// or $(shell find ...) occurrence in value with $(sort ...), preserving
// arbitrary nesting depth. Idempotent: an occurrence already preceded by
// "$(sort" is left untouched.
func wrapNonDeterministicCalls(value string) string {
	value = wrapCalls(value, "$(wildcard")
	value = wrapCalls(value, "$(shell find")
	return value
}

func wrapCalls(value, marker string) string {
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], marker)
		if idx == -1 {
			b.WriteString(value[i:])
			break
		}
		abs := i + idx
		b.WriteString(value[i:abs])
		if isSortWrapped(value, abs) {
			b.WriteString(marker)
			i = abs + len(marker)
			continue
		}
		// marker always starts "$(", so the opening paren sits at abs+1;
		// matchingParen wants the position right after it.
		end := matchingParen(value, abs+2)
		if end == -1 {
			// Unbalanced input; leave the remainder untouched rather than
			// guess at a closing paren.
			b.WriteString(value[abs:])
			break
		}
		b.WriteString("$(sort ")
		b.WriteString(value[abs:end])
		b.WriteString(")")
		i = end
	}
	return b.String()
}

// isSortWrapped reports whether the occurrence of a call marker starting
// at idx is immediately preceded (ignoring whitespace/parens) by "$(sort".
func isSortWrapped(s string, idx int) bool {
	before := strings.TrimRight(s[:idx], " \t(")
	return strings.HasSuffix(before, "$(sort")
}

// matchingParen returns the index one past the ')' that closes the '('
// at position openIdx-1 (openIdx is the position right after that '(').
func matchingParen(s string, openIdx int) int {
	depth := 1
	for i := openIdx; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// rewriteRecipeIdempotency adds the missing idempotency flag to mkdir/rm/
// ln -s invocations in a recipe line's text. Already-flagged invocations
// are left byte-identical.
func rewriteRecipeIdempotency(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return text
	}
	switch fields[0] {
	case "mkdir":
		return insertFlagIfMissing(text, fields, "-p")
	case "rm":
		return insertFlagIfMissing(text, fields, "-f")
	case "ln":
		if !containsField(fields, "-s") {
			return text
		}
		if containsField(fields, "-f") || containsField(fields, "-sf") || containsField(fields, "-fs") {
			return text
		}
		return insertAfterCommand(text, "-f")
	}
	return text
}

func containsField(fields []string, flag string) bool {
	for _, f := range fields {
		if f == flag {
			return true
		}
	}
	return false
}

func insertFlagIfMissing(text string, fields []string, flag string) string {
	if containsField(fields, flag) {
		return text
	}
	return insertAfterCommand(text, flag)
}

func insertAfterCommand(text, flag string) string {
	cmd, rest, found := strings.Cut(text, " ")
	if !found {
		return text + " " + flag
	}
	return cmd + " " + flag + " " + rest
}
