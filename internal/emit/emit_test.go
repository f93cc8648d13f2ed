package emit

import (
	"strings"
	"testing"

	"github.com/rashlang/rashc/internal/dialect"
	"github.com/rashlang/rashc/internal/ir"
)

func mainScript(body ...ir.Stmt) *ir.Script {
	return &ir.Script{Functions: []*ir.Function{{Name: "main", Kind: ir.Unit, Body: body}}}
}

func TestEmitPreludeAndTrailer(t *testing.T) {
	out, err := Emit(mainScript(&ir.Noop{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "#!/bin/sh\n") {
		t.Fatalf("expected shebang prefix, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "main \"$@\"\n") {
		t.Fatalf("expected main trailer, got:\n%s", out)
	}
	if !strings.Contains(out, "main() {") {
		t.Fatalf("expected main() function definition, got:\n%s", out)
	}
	if !strings.Contains(out, "rash_require") {
		t.Fatalf("expected runtime helpers, got:\n%s", out)
	}
}

func TestEmitQuotesUnsafeLiteral(t *testing.T) {
	out, err := Emit(mainScript(&ir.Let{
		Name:  "x",
		Value: ir.LitValue{Lit: ir.Literal{Str: "a;b"}, Prov: ir.NeedsQuote},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `x='a;b'`) {
		t.Fatalf("expected quoted literal assignment, got:\n%s", out)
	}
}

func TestEmitBareSafeConstant(t *testing.T) {
	out, err := Emit(mainScript(&ir.Let{
		Name:  "x",
		Value: ir.LitValue{Lit: ir.Literal{Str: "hello"}, Prov: ir.Constant},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "x=hello\n") {
		t.Fatalf("expected bare constant assignment, got:\n%s", out)
	}
}

func TestEmitNumericComparisonCondition(t *testing.T) {
	cond := ir.TestExpr{Value: ir.ComparisonValue{
		Left:  ir.VarValue{Name: "n", Prov: ir.Safe},
		Op:    ir.CmpEq,
		Right: ir.LitValue{Lit: ir.Literal{Str: "3"}, Prov: ir.Constant},
	}}
	out, err := Emit(mainScript(&ir.If{
		Cond: cond,
		Then: []ir.Stmt{&ir.Noop{}},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `if [ "$n" -eq 3 ]`) {
		t.Fatalf("expected numeric [ ] test, got:\n%s", out)
	}
}

func TestEmitStringComparisonCondition(t *testing.T) {
	cond := ir.TestExpr{Value: ir.ComparisonValue{
		Left:  ir.VarValue{Name: "s", Prov: ir.Safe},
		Op:    ir.CmpStrEq,
		Right: ir.LitValue{Lit: ir.Literal{Str: "hi"}, Prov: ir.Constant},
	}}
	out, err := Emit(mainScript(&ir.If{
		Cond: cond,
		Then: []ir.Stmt{&ir.Noop{}},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `if [ "$s" = hi ]`) {
		t.Fatalf("expected textual [ ] test, got:\n%s", out)
	}
}

func TestEmitForLoopUsesSeq(t *testing.T) {
	out, err := Emit(mainScript(&ir.For{
		Name:  "i",
		Range: ir.RangeSpec{Start: 1, End: 5, Inclusive: true},
		Body:  []ir.Stmt{&ir.Noop{}},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "for i in $(seq 1 5)") {
		t.Fatalf("expected seq-based for loop, got:\n%s", out)
	}
}

func TestEmitForLoopExclusiveAdjustsEnd(t *testing.T) {
	out, err := Emit(mainScript(&ir.For{
		Name:  "i",
		Range: ir.RangeSpec{Start: 0, End: 5, Inclusive: false},
		Body:  []ir.Stmt{&ir.Noop{}},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "for i in $(seq 0 4)") {
		t.Fatalf("expected adjusted exclusive upper bound, got:\n%s", out)
	}
}

func TestEmitForLoopZeroIterationsGuardsWithIfFalse(t *testing.T) {
	out, err := Emit(mainScript(&ir.For{
		Name:  "i",
		Range: ir.RangeSpec{Start: 3, End: 3, Inclusive: false},
		Body:  []ir.Stmt{&ir.Noop{}},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "if false") {
		t.Fatalf("expected dead-loop guard for zero-iteration range, got:\n%s", out)
	}
}

func TestEmitValueReturnPrints(t *testing.T) {
	script := &ir.Script{Functions: []*ir.Function{
		{Name: "greeting", Kind: ir.Value, Body: []ir.Stmt{
			&ir.Return{Value: ir.LitValue{Lit: ir.Literal{Str: "hi"}, Prov: ir.Constant}},
		}},
		{Name: "main", Kind: ir.Unit, Body: []ir.Stmt{&ir.Noop{}}},
	}}
	out, err := Emit(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "printf '%s\\n' hi") || !strings.Contains(out, "return 0") {
		t.Fatalf("expected printf-based value return, got:\n%s", out)
	}
}

func TestEmitPredicateReturnUsesExitStatus(t *testing.T) {
	script := &ir.Script{Functions: []*ir.Function{
		{Name: "isPositive", Kind: ir.Predicate, Body: []ir.Stmt{
			&ir.Return{Value: ir.ComparisonValue{
				Left:  ir.VarValue{Name: "n", Prov: ir.Safe},
				Op:    ir.CmpGt,
				Right: ir.LitValue{Lit: ir.Literal{Str: "0"}, Prov: ir.Constant},
			}},
		}},
		{Name: "main", Kind: ir.Unit, Body: []ir.Stmt{&ir.Noop{}}},
	}}
	out, err := Emit(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `if [ "$n" -gt 0 ]`) {
		t.Fatalf("expected condition-form test in predicate return, got:\n%s", out)
	}
	if !strings.Contains(out, "return 0") || !strings.Contains(out, "return 1") {
		t.Fatalf("expected both exit-status branches, got:\n%s", out)
	}
}

func TestEmitBooleanValueHoistsScratchVariable(t *testing.T) {
	script := mainScript(&ir.Let{
		Name: "flag",
		Value: ir.ComparisonValue{
			Left:  ir.VarValue{Name: "a", Prov: ir.Safe},
			Op:    ir.CmpEq,
			Right: ir.VarValue{Name: "b", Prov: ir.Safe},
		},
	})
	out, err := Emit(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "__rash_t1=true") || !strings.Contains(out, "__rash_t1=false") {
		t.Fatalf("expected hoisted true/false scratch assignment, got:\n%s", out)
	}
	if !strings.Contains(out, "flag=\"$__rash_t1\"") {
		t.Fatalf("expected let bound to hoisted scratch variable, got:\n%s", out)
	}
}

func TestEmitCommandSubstitution(t *testing.T) {
	out, err := Emit(mainScript(&ir.Let{
		Name: "out",
		Value: ir.CommandSubstValue{
			Cmd:  ir.Command{Name: "echo", Args: []ir.ShellValue{ir.LitValue{Lit: ir.Literal{Str: "hi"}, Prov: ir.Constant}}},
			Prov: ir.Safe,
		},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `out="$(echo hi)"`) {
		t.Fatalf("expected inline command substitution, got:\n%s", out)
	}
}

func TestEmitCaseCondRendersGlobMatch(t *testing.T) {
	cond := ir.CaseCond{
		Scrutinee: ir.VarValue{Name: "s", Prov: ir.Safe},
		Pattern:   ir.CasePattern{Alts: []ir.CasePatternAlt{{Wildcard: false, Literal: "abc"}, {Wildcard: true}}},
	}
	out, err := Emit(mainScript(&ir.If{Cond: cond, Then: []ir.Stmt{&ir.Noop{}}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "case \"$s\" in") || !strings.Contains(out, "abc|*) true ;;") {
		t.Fatalf("expected case-based condition realization, got:\n%s", out)
	}
}

func TestEmitParamExpandQuotesMetacharDefaultCorrectly(t *testing.T) {
	out, err := Emit(mainScript(&ir.Let{
		Name: "x",
		Value: ir.ParamExpandValue{
			Name:    "HOME",
			Default: ir.LitValue{Lit: ir.Literal{Str: "a b"}, Prov: ir.NeedsQuote},
			Prov:    ir.NeedsQuote,
		},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `x="${HOME:-a b}"`) {
		t.Fatalf("expected the default embedded literally inside the outer double quotes, got:\n%s", out)
	}
	if strings.Contains(out, `'a b'`) {
		t.Fatalf("default should not carry its own single quotes inside the outer quoting, got:\n%s", out)
	}
}

func TestEmitCaseCondNeedleRendersSubstringGlob(t *testing.T) {
	cond := ir.CaseCond{
		Scrutinee: ir.VarValue{Name: "h", Prov: ir.Safe},
		Pattern:   ir.CasePattern{Alts: []ir.CasePatternAlt{{Needle: ir.VarValue{Name: "n", Prov: ir.Safe}}}},
	}
	out, err := Emit(mainScript(&ir.If{Cond: cond, Then: []ir.Stmt{&ir.Noop{}}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `case "$h" in`) {
		t.Fatalf("expected case on scrutinee, got:\n%s", out)
	}
	if !strings.Contains(out, `*"${n}"*) true ;;`) {
		t.Fatalf("expected quoted substring-match glob built from the needle, got:\n%s", out)
	}
	if strings.ContainsRune(out, 0) {
		t.Fatalf("expected no NUL bytes in emitted output, got:\n%q", out)
	}
}

func TestEmitCaseCondNeedleLiteralWithGlobCharsStaysLiteral(t *testing.T) {
	cond := ir.CaseCond{
		Scrutinee: ir.VarValue{Name: "h", Prov: ir.Safe},
		Pattern: ir.CasePattern{Alts: []ir.CasePatternAlt{
			{Needle: ir.LitValue{Lit: ir.Literal{Str: "a*b"}, Prov: ir.Constant}},
		}},
	}
	out, err := Emit(mainScript(&ir.If{Cond: cond, Then: []ir.Stmt{&ir.Noop{}}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `*"a*b"*) true ;;`) {
		t.Fatalf("expected the needle's own glob metacharacters quoted (matched literally), got:\n%s", out)
	}
}

func TestEmitDialectDefaultMatchesEmit(t *testing.T) {
	script := mainScript(&ir.Noop{})
	plain, err := Emit(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	viaDialect, err := EmitDialect(script, dialect.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plain != viaDialect {
		t.Fatalf("Emit and EmitDialect(Default()) diverged:\n%s\n---\n%s", plain, viaDialect)
	}
	if viaDialect2, err := EmitDialect(script, nil); err != nil || viaDialect2 != plain {
		t.Fatalf("EmitDialect(nil) should fall back to the default profile, got %q, err %v", viaDialect2, err)
	}
}

func TestEmitDialectBashUsesDoubleBracketsAndShebang(t *testing.T) {
	bash, err := dialect.Named(dialect.Bash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cond := ir.TestExpr{Value: ir.ComparisonValue{
		Left:  ir.VarValue{Name: "n", Prov: ir.Safe},
		Op:    ir.CmpEq,
		Right: ir.LitValue{Lit: ir.Literal{Str: "3"}, Prov: ir.Constant},
	}}
	out, err := EmitDialect(mainScript(&ir.If{Cond: cond, Then: []ir.Stmt{&ir.Noop{}}}), bash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "#!/bin/bash\n") {
		t.Fatalf("expected bash shebang, got:\n%s", out)
	}
	if !strings.Contains(out, "set -o pipefail") {
		t.Fatalf("expected pipefail addendum, got:\n%s", out)
	}
	if !strings.Contains(out, `if [[ "$n" -eq 3 ]]`) {
		t.Fatalf("expected [[ ]] test under bash dialect, got:\n%s", out)
	}
}
