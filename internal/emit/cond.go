package emit

import (
	"fmt"
	"strings"

	"github.com/rashlang/rashc/internal/escape"
	"github.com/rashlang/rashc/internal/ir"
)

// condText renders cond as the text that follows `if `/`while ` (everything
// up to, not including, the trailing newline that precedes `then`/`do`). For
// CaseCond it returns a multi-line `case ... esac` command whose own exit
// status the if/while branches on — POSIX `case` has no boolean-test form,
// so the realization is a case statement ending in `true;;`/`false;; esac`
// used as a plain command.
func (e *emitter) condText(cond ir.Cond, pre *[]string, depth int) (string, error) {
	switch c := cond.(type) {
	case ir.TestExpr:
		return e.testExprText(c, pre, depth)

	case ir.CommandCond:
		cmdText, err := e.renderCommandInline(c.Cmd, pre, depth)
		if err != nil {
			return "", err
		}
		if c.Negate {
			return "! " + cmdText, nil
		}
		return cmdText, nil

	case ir.CaseCond:
		return e.caseCondText(c, pre, depth)

	default:
		return "", errf("<cond>", "unhandled Cond %T", cond)
	}
}

// testExprText renders a TestExpr as a POSIX `[ ... ]` invocation. The
// common case — a ComparisonValue used directly as the test's Value — is
// rendered as the matching `[ L op R ]` form rather than round-tripped
// through a boolean scratch variable; every other Bool-shaped value (a bare
// LogicalValue, PredicateCallValue, or VarValue holding "true"/"false")
// falls back to comparing against the literal string "true".
func (e *emitter) testExprText(t ir.TestExpr, pre *[]string, depth int) (string, error) {
	neg := ""
	if t.Negate {
		neg = "! "
	}
	if cmp, ok := t.Value.(ir.ComparisonValue); ok {
		left, err := e.renderValue(cmp.Left, pre, depth)
		if err != nil {
			return "", err
		}
		right, err := e.renderValue(cmp.Right, pre, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s%s %s %s %s %s", neg, e.testOpen(), left, testOpText(cmp.Op), right, e.testClose()), nil
	}
	if lg, ok := t.Value.(ir.LogicalValue); ok {
		return e.logicalCondText(lg, t.Negate, pre, depth)
	}
	rendered, err := e.renderValue(t.Value, pre, depth)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s %s = true %s", neg, e.testOpen(), rendered, e.testClose()), nil
}

// testOpen/testClose return the dialect's test-expression delimiters,
// falling back to the POSIX "[ "/" ]" form when no profile was set (the
// zero-value emitter, used only by tests that construct one directly).
func (e *emitter) testOpen() string {
	if e.profile == nil {
		return "["
	}
	return e.profile.TestOpen
}

func (e *emitter) testClose() string {
	if e.profile == nil {
		return "]"
	}
	return e.profile.TestClose
}

// logicalCondText realizes a LogicalValue as two separate `[ ]` tests
// joined by `&&`/`||` rather than the single-test `-a`/`-o` connective:
// `-a`/`-o` are marked obsolescent by POSIX and flagged by shellcheck
// (SC2166) because their precedence is ambiguous once either side already
// contains `!` or further `-a`/`-o`. Negating the combined expression
// needs a subshell grouping, since `!` only negates a pipeline, not an
// AND-OR list.
func (e *emitter) logicalCondText(lg ir.LogicalValue, negate bool, pre *[]string, depth int) (string, error) {
	left, err := e.boolOperandText(lg.Left, pre, depth)
	if err != nil {
		return "", err
	}
	right, err := e.boolOperandText(lg.Right, pre, depth)
	if err != nil {
		return "", err
	}
	conn := "&&"
	if lg.Op == ir.LogicalOr {
		conn = "||"
	}
	expr := fmt.Sprintf("%s %s %s %s %s %s %s", e.testOpen(), left, e.testClose(), conn, e.testOpen(), right, e.testClose())
	if negate {
		return "! ( " + expr + " )", nil
	}
	return expr, nil
}

func (e *emitter) boolOperandText(v ir.ShellValue, pre *[]string, depth int) (string, error) {
	if cmp, ok := v.(ir.ComparisonValue); ok {
		left, err := e.renderValue(cmp.Left, pre, depth)
		if err != nil {
			return "", err
		}
		right, err := e.renderValue(cmp.Right, pre, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, testOpText(cmp.Op), right), nil
	}
	rendered, err := e.renderValue(v, pre, depth)
	if err != nil {
		return "", err
	}
	return rendered + " = true", nil
}

func testOpText(op ir.CompareOp) string {
	switch op {
	case ir.CmpEq:
		return "-eq"
	case ir.CmpNe:
		return "-ne"
	case ir.CmpLt:
		return "-lt"
	case ir.CmpLe:
		return "-le"
	case ir.CmpGt:
		return "-gt"
	case ir.CmpGe:
		return "-ge"
	case ir.CmpStrEq:
		return "="
	case ir.CmpStrNe:
		return "!="
	default:
		return "-eq"
	}
}

// caseCondText renders a CaseCond as a one-shot `case` command whose exit
// status realizes the match: the matching arm runs `true`, the wildcard
// fallback runs `false`. Negate flips which arm returns which.
func (e *emitter) caseCondText(c ir.CaseCond, pre *[]string, depth int) (string, error) {
	scrut, err := e.renderValue(c.Scrutinee, pre, depth)
	if err != nil {
		return "", err
	}
	matchResult, elseResult := "true", "false"
	if c.Negate {
		matchResult, elseResult = "false", "true"
	}
	pattern, err := e.patternText(c.Pattern, pre, depth)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "case %s in\n", scrut)
	fmt.Fprintf(&b, "%s%s) %s ;;\n", strings.Repeat("\t", depth+1), pattern, matchResult)
	fmt.Fprintf(&b, "%s*) %s ;;\n", strings.Repeat("\t", depth+1), elseResult)
	fmt.Fprintf(&b, "%sesac", strings.Repeat("\t", depth))
	return b.String(), nil
}

// patternText renders a CasePattern's alternatives. A Needle alternative
// wraps the argument in a quoted `*"<value>"*` substring-match glob: quoting
// the embedded value disables glob interpretation of any metacharacter the
// needle's own runtime content happens to contain, per POSIX case-pattern
// quote-removal rules, while the surrounding unquoted `*` still matches any
// prefix/suffix.
func (e *emitter) patternText(p ir.CasePattern, pre *[]string, depth int) (string, error) {
	parts := make([]string, len(p.Alts))
	for i, alt := range p.Alts {
		switch {
		case alt.Wildcard:
			parts[i] = "*"
		case alt.Needle != nil:
			needle, err := e.concatPart(alt.Needle, pre, depth)
			if err != nil {
				return "", err
			}
			parts[i] = `*"` + needle + `"*`
		default:
			parts[i] = escape.CasePattern(alt.Literal)
		}
	}
	return strings.Join(parts, "|"), nil
}

// boolAssignLines synthesizes `name=true`/`name=false` assignment lines for
// a boolean-shaped value with no single-expression POSIX form: an
// if/then/else keyed on the value's condition realization.
func (e *emitter) boolAssignLines(name string, v ir.ShellValue, depth int) []string {
	pre := []string{}
	condText, err := e.valueAsCondText(v, &pre, depth)
	if err != nil {
		condText = "false"
	}
	lines := append([]string{}, pre...)
	ind := strings.Repeat("\t", depth)
	lines = append(lines,
		ind+"if "+condText+"; then",
		ind+"\t"+name+"=true",
		ind+"else",
		ind+"\t"+name+"=false",
		ind+"fi",
	)
	return lines
}

// valueAsCondText renders a Bool-shaped ShellValue (Comparison, Logical, or
// PredicateCall) directly as `if`-condition text, without first hoisting it
// into a scratch boolean — the inverse direction of renderValue's fallback.
func (e *emitter) valueAsCondText(v ir.ShellValue, pre *[]string, depth int) (string, error) {
	switch n := v.(type) {
	case ir.ComparisonValue:
		return e.testExprText(ir.TestExpr{Value: n}, pre, depth)
	case ir.LogicalValue:
		return e.logicalCondText(n, false, pre, depth)
	case ir.PredicateCallValue:
		return e.condText(n.Cond, pre, depth)
	default:
		rendered, err := e.renderValue(v, pre, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s = true %s", e.testOpen(), rendered, e.testClose()), nil
	}
}
