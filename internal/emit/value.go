package emit

import (
	"fmt"
	"strings"

	"github.com/rashlang/rashc/internal/escape"
	"github.com/rashlang/rashc/internal/ir"
)

// renderValue renders v as a shell word usable directly in an argument or
// `name=` position. Boolean-shaped values (ComparisonValue, LogicalValue,
// PredicateCallValue) have no such single-word form — POSIX shell cannot
// combine two computed truth values inline — so renderValue hoists them
// into a scratch-variable assignment appended to *pre (rendered at depth
// immediately before the statement being built) and returns a reference to
// that variable instead. Let and Value-function Return flush *pre before
// their own line; a Predicate-function Return does not go through here for
// its value, rendering it with valueAsCondText instead.
func (e *emitter) renderValue(v ir.ShellValue, pre *[]string, depth int) (string, error) {
	switch n := v.(type) {
	case ir.LitValue:
		return e.renderLiteralText(n), nil

	case ir.VarValue:
		return `"$` + n.Name + `"`, nil

	case ir.ConcatValue:
		return e.renderConcat(n, pre, depth)

	case ir.CommandSubstValue:
		cmdText, err := e.renderCommandInline(n.Cmd, pre, depth)
		if err != nil {
			return "", err
		}
		return `"$(` + cmdText + `)"`, nil

	case ir.ArithValue:
		inner, err := e.arithText(n.Expr, pre, depth)
		if err != nil {
			return "", err
		}
		return `"$((` + inner + `))"`, nil

	case ir.ParamExpandValue:
		if n.Name == trimSentinel {
			target := e.bindTrim(n.Default, pre, depth)
			return `"$` + target + `"`, nil
		}
		def, err := e.concatPart(n.Default, pre, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(`"${%s:-%s}"`, n.Name, def), nil

	case ir.StrLenValue:
		inner, err := e.renderValue(n.Value, pre, depth)
		if err != nil {
			return "", err
		}
		name, ok := bareVarName(inner)
		if !ok {
			name = e.bindScratch(n.Value, pre, depth)
		}
		return `"${#` + name + `}"`, nil

	case ir.ComparisonValue, ir.LogicalValue, ir.PredicateCallValue:
		target := e.bindBool(v, pre, depth)
		return `"$` + target + `"`, nil

	default:
		return "", errf("<value>", "unhandled ShellValue %T", v)
	}
}

// renderLiteralText renders a LitValue directly: bare when it is Constant
// and metacharacter-free, single-quoted otherwise. Constant/Safe literals
// that are NOT bare-safe still route through escape.Quote — the provenance
// tag never substitutes for the quoting contract.
func (e *emitter) renderLiteralText(n ir.LitValue) string {
	if n.Prov == ir.Constant && escape.IsSafeBare(n.Lit.Str) {
		return n.Lit.Str
	}
	return escape.Quote(n.Lit.Str)
}

// bareVarName extracts "name" from a rendered `"$name"` reference, for
// contexts (arithmetic, ${#name}) that need the bare identifier rather than
// a quoted word.
func bareVarName(rendered string) (string, bool) {
	if len(rendered) > 3 && rendered[0] == '"' && rendered[1] == '$' && rendered[len(rendered)-1] == '"' {
		return rendered[2 : len(rendered)-1], true
	}
	return "", false
}

// renderConcat renders a Concat as one double-quoted string, embedding
// variable references in brace form and command substitutions verbatim;
// adjacent literal text is already fused at lowering time (internal/lower's
// fuseConcatParts).
func (e *emitter) renderConcat(n ir.ConcatValue, pre *[]string, depth int) (string, error) {
	var b strings.Builder
	b.WriteByte('"')
	for _, part := range n.Parts {
		text, err := e.concatPart(part, pre, depth)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
	}
	b.WriteByte('"')
	return b.String(), nil
}

func (e *emitter) concatPart(v ir.ShellValue, pre *[]string, depth int) (string, error) {
	switch n := v.(type) {
	case ir.LitValue:
		return escapeForDoubleQuotes(n.Lit.Str), nil
	case ir.VarValue:
		return "${" + n.Name + "}", nil
	case ir.CommandSubstValue:
		cmdText, err := e.renderCommandInline(n.Cmd, pre, depth)
		if err != nil {
			return "", err
		}
		return "$(" + cmdText + ")", nil
	case ir.ConcatValue:
		var b strings.Builder
		for _, p := range n.Parts {
			t, err := e.concatPart(p, pre, depth)
			if err != nil {
				return "", err
			}
			b.WriteString(t)
		}
		return b.String(), nil
	case ir.ParamExpandValue:
		if n.Name == trimSentinel {
			target := e.bindTrim(n.Default, pre, depth)
			return "${" + target + "}", nil
		}
		def, err := e.concatPart(n.Default, pre, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("${%s:-%s}", n.Name, def), nil
	case ir.StrLenValue:
		inner, err := e.renderValue(n.Value, pre, depth)
		if err != nil {
			return "", err
		}
		name, ok := bareVarName(inner)
		if !ok {
			name = e.bindScratch(n.Value, pre, depth)
		}
		return "${#" + name + "}", nil
	default:
		return "", errf("<concat>", "value of type %T cannot appear inside concat", v)
	}
}

// escapeForDoubleQuotes backslash-escapes the characters that remain
// significant inside a double-quoted POSIX string: ", $, `, and \.
func escapeForDoubleQuotes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '$', '`', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// arithText renders an ArithExpr's inner text for `$(( ... ))`, recursing
// without the outer quoting renderValue normally applies (arithmetic
// expansion does its own word handling).
func (e *emitter) arithText(expr ir.ArithExpr, pre *[]string, depth int) (string, error) {
	left, err := e.arithOperand(expr.Left, pre, depth)
	if err != nil {
		return "", err
	}
	right, err := e.arithOperand(expr.Right, pre, depth)
	if err != nil {
		return "", err
	}
	return left + " " + arithOpText(expr.Op) + " " + right, nil
}

func (e *emitter) arithOperand(v ir.ShellValue, pre *[]string, depth int) (string, error) {
	switch n := v.(type) {
	case ir.LitValue:
		return n.Lit.Str, nil
	case ir.VarValue:
		return "$" + n.Name, nil
	case ir.ArithValue:
		inner, err := e.arithText(n.Expr, pre, depth)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	default:
		rendered, err := e.renderValue(v, pre, depth)
		if err != nil {
			return "", err
		}
		return rendered, nil
	}
}

func arithOpText(op ir.ArithOp) string {
	switch op {
	case ir.ArithAdd:
		return "+"
	case ir.ArithSub:
		return "-"
	case ir.ArithMul:
		return "*"
	case ir.ArithDiv:
		return "/"
	case ir.ArithMod:
		return "%"
	default:
		return "+"
	}
}

// trimSentinel marks a ParamExpandValue produced by string_trim rather than
// env_var_or: internal/lower's lowerBuiltinValue stashes the value to trim
// in Default and uses this reserved Name (never a valid shell identifier,
// so it cannot collide with a real env_var_or(name, ...) call).
const trimSentinel = "__trim__"

// bindTrim hoists a string_trim operand into its own variable and rewrites
// it in place via the standard POSIX glob-pattern trim idiom, then returns
// the variable's name. If operand is already a bare variable reference, no
// extra scratch variable is introduced — the trim reassigns that variable
// to itself.
func (e *emitter) bindTrim(operand ir.ShellValue, pre *[]string, depth int) string {
	target := ""
	if vv, ok := operand.(ir.VarValue); ok {
		target = vv.Name
	} else {
		target = e.nextTemp()
		*pre = append(*pre, indented(depth, target+"="+mustRender(e, operand, pre, depth)))
	}
	*pre = append(*pre,
		indented(depth, fmt.Sprintf(`%s=${%s%%"${%s##*[![:space:]]}"}`, target, target, target)),
		indented(depth, fmt.Sprintf(`%s=${%s#"${%s%%%%[![:space:]]*}"}`, target, target, target)),
	)
	return target
}

func mustRender(e *emitter, v ir.ShellValue, pre *[]string, depth int) string {
	text, err := e.renderValue(v, pre, depth)
	if err != nil {
		return escape.Quote("")
	}
	return text
}

// bindScratch hoists an arbitrary value into a fresh scratch variable and
// returns its bare name, for contexts (${#name}) that need a bare
// identifier rather than an inline expression.
func (e *emitter) bindScratch(v ir.ShellValue, pre *[]string, depth int) string {
	name := e.nextTemp()
	text := mustRender(e, v, pre, depth)
	*pre = append(*pre, indented(depth, name+"="+text))
	return name
}

// bindBool hoists a boolean-shaped value (Comparison/Logical/PredicateCall)
// into a fresh scratch variable holding the canonical string "true"/"false"
// and returns its name.
func (e *emitter) bindBool(v ir.ShellValue, pre *[]string, depth int) string {
	name := e.nextTemp()
	*pre = append(*pre, e.boolAssignLines(name, v, depth)...)
	return name
}

func indented(depth int, text string) string {
	return strings.Repeat("\t", depth) + text
}
