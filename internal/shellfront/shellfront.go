// Package shellfront parses legacy POSIX/bash shell source into a typed
// AST for the linter and purifier to query. It wraps mvdan.cc/sh/v3/syntax
// rather than hand-rolling a second shell grammar: the parser already
// produces exactly the node set the rule surface needs (commands,
// pipelines, redirections, variable references, command substitutions,
// arithmetic expansions, control flow), and reuses its printer as the base
// of the purified-AST emitter.
package shellfront

import (
	"bytes"
	"fmt"
	"io"

	"mvdan.cc/sh/v3/syntax"
)

// Parse reads shell source and returns its parsed AST. Bash-dialect
// constructs are accepted on ingest (legacy scripts are rarely strict
// POSIX); only the POSIX emitter (internal/emit) and the posix dialect
// profile (internal/dialect) constrain what rashc itself ever produces.
func Parse(name string, r io.Reader) (*syntax.File, error) {
	p := syntax.NewParser(syntax.KeepComments(true), syntax.Variant(syntax.LangBash))
	f, err := p.Parse(r, name)
	if err != nil {
		return nil, fmt.Errorf("shellfront: parse %s: %w", name, err)
	}
	return f, nil
}

// ParseString is Parse over an in-memory source string.
func ParseString(name, src string) (*syntax.File, error) {
	return Parse(name, bytes.NewBufferString(src))
}

// Print renders f back to POSIX shell text, the base the purifier's
// rewritten AST is re-emitted through.
func Print(f *syntax.File) (string, error) {
	printer := syntax.NewPrinter(syntax.Indent(0))
	var buf bytes.Buffer
	if err := printer.Print(&buf, f); err != nil {
		return "", fmt.Errorf("shellfront: print: %w", err)
	}
	return buf.String(), nil
}

// Walk visits every node in f's tree, calling fn for each; fn returning
// false skips that node's children. Thin alias over syntax.Walk so rule
// and purifier code in internal/lint/internal/purify never needs its own
// import of mvdan.cc/sh/v3/syntax for traversal.
func Walk(f *syntax.File, fn func(syntax.Node) bool) {
	syntax.Walk(f, fn)
}

// Calls collects every simple-command invocation in f, in source order.
func Calls(f *syntax.File) []*syntax.CallExpr {
	var out []*syntax.CallExpr
	Walk(f, func(n syntax.Node) bool {
		if c, ok := n.(*syntax.CallExpr); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

// ParamExpansions collects every `$name`/`${name...}` reference in f.
func ParamExpansions(f *syntax.File) []*syntax.ParamExp {
	var out []*syntax.ParamExp
	Walk(f, func(n syntax.Node) bool {
		if p, ok := n.(*syntax.ParamExp); ok {
			out = append(out, p)
		}
		return true
	})
	return out
}

// CmdSubsts collects every `$(...)`/backtick command substitution in f.
func CmdSubsts(f *syntax.File) []*syntax.CmdSubst {
	var out []*syntax.CmdSubst
	Walk(f, func(n syntax.Node) bool {
		if c, ok := n.(*syntax.CmdSubst); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

// ArithmExpansions collects every `$(( ... ))` arithmetic expansion in f.
func ArithmExpansions(f *syntax.File) []*syntax.ArithmExp {
	var out []*syntax.ArithmExp
	Walk(f, func(n syntax.Node) bool {
		if a, ok := n.(*syntax.ArithmExp); ok {
			out = append(out, a)
		}
		return true
	})
	return out
}

// LiteralWord returns a Word's literal text and true when it contains no
// expansion, substitution, or quoting that would make its value only
// known at runtime — used by rules that need to match a command name or
// a flag string.
func LiteralWord(w *syntax.Word) (string, bool) {
	if w == nil {
		return "", false
	}
	if len(w.Parts) != 1 {
		return "", false
	}
	lit, ok := w.Parts[0].(*syntax.Lit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// CallName returns the literal command name of a CallExpr, when static.
func CallName(c *syntax.CallExpr) (string, bool) {
	if c == nil || len(c.Args) == 0 {
		return "", false
	}
	return LiteralWord(c.Args[0])
}
