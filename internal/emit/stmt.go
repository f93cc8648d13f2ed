package emit

import (
	"strings"

	"github.com/rashlang/rashc/internal/ir"
)

// emitBlock emits stmts at depth, one statement per IR Stmt. An empty block
// (an empty function, Then/Else, or loop body reachable from a validated
// program, e.g. `fn main() {}`) is rendered as a single `:` — POSIX shell
// compound-command bodies cannot be syntactically empty.
func (e *emitter) emitBlock(stmts []ir.Stmt, kind ir.ReturnKind, depth int) error {
	if len(stmts) == 0 {
		e.line(depth, ":")
		return nil
	}
	for _, s := range stmts {
		if err := e.emitStmt(s, kind, depth); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) flushPre(pre []string, depth int) {
	for _, ln := range pre {
		e.buf.WriteString(ln)
		e.buf.WriteByte('\n')
	}
}

func (e *emitter) emitStmt(s ir.Stmt, kind ir.ReturnKind, depth int) error {
	switch n := s.(type) {
	case *ir.Let:
		return e.emitLet(n, depth)
	case *ir.Exec:
		return e.emitExec(n, depth)
	case *ir.If:
		return e.emitIf(n, kind, depth)
	case *ir.Case:
		return e.emitCase(n, kind, depth)
	case *ir.While:
		return e.emitWhile(n, kind, depth)
	case *ir.For:
		return e.emitFor(n, kind, depth)
	case *ir.Return:
		return e.emitReturn(n, kind, depth)
	case *ir.Break:
		e.line(depth, "break")
		return nil
	case *ir.Continue:
		e.line(depth, "continue")
		return nil
	case *ir.Noop:
		e.line(depth, ":")
		return nil
	default:
		return errf("<stmt>", "unhandled Stmt %T", s)
	}
}

func (e *emitter) emitLet(n *ir.Let, depth int) error {
	var pre []string
	text, err := e.renderValue(n.Value, &pre, depth)
	if err != nil {
		return err
	}
	e.flushPre(pre, depth)
	e.line(depth, "%s=%s", n.Name, text)
	return nil
}

func (e *emitter) emitExec(n *ir.Exec, depth int) error {
	var pre []string
	text, err := e.renderCommandInline(n.Cmd, &pre, depth)
	if err != nil {
		return err
	}
	e.flushPre(pre, depth)
	e.line(depth, "%s", text)
	return nil
}

// renderCommandInline renders a Command as a single line of text: name,
// space-joined arguments, then redirections. Argument/redirect sub-values
// that need hoisting (boolean-shaped or non-variable string_trim operands)
// append their setup to *pre, which the caller flushes before the line that
// embeds this text — this is what lets a CommandSubstValue or CaseCond
// carry a hoisted argument even though the surrounding `$(...)`/`case`
// itself is a single inline expression.
func (e *emitter) renderCommandInline(cmd ir.Command, pre *[]string, depth int) (string, error) {
	parts := make([]string, 0, len(cmd.Args)+1)
	parts = append(parts, cmd.Name)
	for _, arg := range cmd.Args {
		text, err := e.renderValue(arg, pre, depth)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	for _, r := range cmd.Redirs {
		if r.Target == nil {
			parts = append(parts, r.Op)
			continue
		}
		target, err := e.renderValue(r.Target, pre, depth)
		if err != nil {
			return "", err
		}
		parts = append(parts, r.Op+target)
	}
	return strings.Join(parts, " "), nil
}

func (e *emitter) emitIf(n *ir.If, kind ir.ReturnKind, depth int) error {
	var pre []string
	condText, err := e.condText(n.Cond, &pre, depth)
	if err != nil {
		return err
	}
	e.flushPre(pre, depth)
	e.line(depth, "if %s; then", condText)
	if err := e.emitBlock(n.Then, kind, depth+1); err != nil {
		return err
	}
	if n.Else != nil {
		e.line(depth, "else")
		if err := e.emitBlock(n.Else, kind, depth+1); err != nil {
			return err
		}
	}
	e.line(depth, "fi")
	return nil
}

func (e *emitter) emitWhile(n *ir.While, kind ir.ReturnKind, depth int) error {
	var pre []string
	condText, err := e.condText(n.Cond, &pre, depth)
	if err != nil {
		return err
	}
	if len(pre) > 0 {
		// A condition that needs hoisted setup can't be re-evaluated each
		// iteration via a plain `while <cond>` header, since the setup would
		// only run once. Realize it instead as an unconditional loop guarded
		// by a leading break, with the setup re-run every pass.
		e.line(depth, "while true; do")
		e.flushPre(pre, depth+1)
		e.line(depth+1, "if %s; then", negateCondTextInline(condText))
		e.line(depth+2, "break")
		e.line(depth+1, "fi")
		if err := e.emitBlock(n.Body, kind, depth+1); err != nil {
			return err
		}
		e.line(depth, "done")
		return nil
	}
	e.line(depth, "while %s; do", condText)
	if err := e.emitBlock(n.Body, kind, depth+1); err != nil {
		return err
	}
	e.line(depth, "done")
	return nil
}

// negateCondTextInline wraps already-rendered condition text in `!`. Used
// only for the hoisted-condition while-loop realization, where the
// condition text has no Negate field of its own left to flip.
func negateCondTextInline(condText string) string {
	return "! " + condText
}

func (e *emitter) emitCase(n *ir.Case, kind ir.ReturnKind, depth int) error {
	var pre []string
	scrut, err := e.renderValue(n.Scrutinee, &pre, depth)
	if err != nil {
		return err
	}
	e.flushPre(pre, depth)
	pre = nil
	e.line(depth, "case %s in", scrut)
	for _, arm := range n.Arms {
		armPattern, err := e.patternText(arm.Pattern, &pre, depth)
		if err != nil {
			return err
		}
		e.flushPre(pre, depth)
		pre = nil
		e.line(depth+1, "%s)", armPattern)
		if err := e.emitBlock(arm.Body, kind, depth+2); err != nil {
			return err
		}
		e.line(depth+2, ";;")
	}
	e.line(depth, "esac")
	return nil
}

// emitFor realizes a bounded integer range as `for i in $(seq START END)`.
// seq's own inclusivity (both ends closed) matches RangeSpec.Inclusive
// directly; an exclusive upper bound is adjusted by one. The
// zero-iteration case (!Inclusive && Start == End) has no valid seq
// invocation that iterates zero times, so it is realized instead as a
// dead loop guarded by `if false`, preserving the statement's syntactic
// shape (and any declared loop variable scoping) without ever running it.
func (e *emitter) emitFor(n *ir.For, kind ir.ReturnKind, depth int) error {
	if !n.Range.Inclusive && n.Range.Start == n.Range.End {
		e.line(depth, "if false; then")
		e.line(depth+1, "for %s in \"\"; do", n.Name)
		e.line(depth+2, ":")
		e.line(depth+1, "done")
		e.line(depth, "fi")
		return nil
	}
	end := n.Range.End
	if !n.Range.Inclusive {
		end--
	}
	e.line(depth, "for %s in $(seq %d %d); do", n.Name, n.Range.Start, end)
	if err := e.emitBlock(n.Body, kind, depth+1); err != nil {
		return err
	}
	e.line(depth, "done")
	return nil
}

// emitReturn renders a Return according to the enclosing function's kind.
// Unit functions return bare (no stdout contract); Value functions print
// their result on stdout and exit 0 so a caller can capture it via command
// substitution; Predicate functions convert their Value to a condition and
// communicate it purely through exit status, printing nothing.
func (e *emitter) emitReturn(n *ir.Return, kind ir.ReturnKind, depth int) error {
	switch kind {
	case ir.Unit:
		e.line(depth, "return")
		return nil

	case ir.Value:
		var pre []string
		text, err := e.renderValue(n.Value, &pre, depth)
		if err != nil {
			return err
		}
		e.flushPre(pre, depth)
		e.line(depth, "printf '%%s\\n' %s", text)
		e.line(depth, "return 0")
		return nil

	case ir.Predicate:
		var pre []string
		condText, err := e.valueAsCondText(n.Value, &pre, depth)
		if err != nil {
			return err
		}
		e.flushPre(pre, depth)
		e.line(depth, "if %s; then", condText)
		e.line(depth+1, "return 0")
		e.line(depth, "else")
		e.line(depth+1, "return 1")
		e.line(depth, "fi")
		return nil

	default:
		return errf("<return>", "unhandled ReturnKind %v", kind)
	}
}
