package lower

import (
	"testing"

	"github.com/rashlang/rashc/internal/ir"
	"github.com/rashlang/rashc/internal/parser"
)

func mustLower(t *testing.T, src string) *ir.Script {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	script, err := Lower(prog)
	if err != nil {
		t.Fatalf("Lower(%q): %v", src, err)
	}
	return script
}

func mainOf(t *testing.T, script *ir.Script) *ir.Function {
	t.Helper()
	for _, fn := range script.Functions {
		if fn.Name == "main" {
			return fn
		}
	}
	t.Fatal("script has no main function")
	return nil
}

func TestLowerEmptyMain(t *testing.T) {
	script := mustLower(t, `fn main() {}`)
	main := mainOf(t, script)
	if main.Kind != ir.Unit {
		t.Fatalf("expected main classified Unit, got %v", main.Kind)
	}
}

func TestLowerLetBindsSafeBareLiteral(t *testing.T) {
	script := mustLower(t, `fn main() { let name = "World"; echo(name); }`)
	main := mainOf(t, script)
	let, ok := main.Body[0].(*ir.Let)
	if !ok {
		t.Fatalf("expected first statement to be Let, got %T", main.Body[0])
	}
	lit, ok := let.Value.(ir.LitValue)
	if !ok || lit.Lit.Str != "World" || lit.Prov != ir.Constant {
		t.Fatalf("expected bare constant literal \"World\", got %+v", let.Value)
	}
}

func TestLowerBuiltinEchoProducesPrintfShapedExec(t *testing.T) {
	script := mustLower(t, `fn main() { echo("hi"); }`)
	main := mainOf(t, script)
	exec, ok := main.Body[0].(*ir.Exec)
	if !ok {
		t.Fatalf("expected Exec, got %T", main.Body[0])
	}
	if exec.Cmd.Name != "printf" {
		t.Fatalf("expected echo to lower to a printf command, got %q", exec.Cmd.Name)
	}
}

func TestLowerArithmeticWithoutOptimizeStaysSymbolic(t *testing.T) {
	script := mustLower(t, `fn main() { let x = 2 + 3; echo(x); }`)
	main := mainOf(t, script)
	let := main.Body[0].(*ir.Let)
	if _, ok := let.Value.(ir.ArithValue); !ok {
		t.Fatalf("expected unfolded ArithValue without optimize, got %T", let.Value)
	}
}

func TestLowerOptimizedFoldsConstantArithmetic(t *testing.T) {
	prog, err := parser.Parse(`fn main() { let x = 2 + 3 * 4; echo(x); }`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	script, err := LowerOptimized(prog, true)
	if err != nil {
		t.Fatalf("unexpected lower error: %v", err)
	}
	main := mainOf(t, script)
	let := main.Body[0].(*ir.Let)
	lit, ok := let.Value.(ir.LitValue)
	if !ok || lit.Lit.Str != "14" {
		t.Fatalf("expected folded literal 14, got %+v", let.Value)
	}
}

func TestLowerOptimizedLeavesNonConstantExpressionsAlone(t *testing.T) {
	prog, err := parser.Parse(`fn main() { let n = arg(1); let x = n + 1; echo(x); }`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	script, err := LowerOptimized(prog, true)
	if err != nil {
		t.Fatalf("unexpected lower error: %v", err)
	}
	main := mainOf(t, script)
	let := main.Body[1].(*ir.Let)
	if _, ok := let.Value.(ir.ArithValue); !ok {
		t.Fatalf("expected ArithValue for a non-constant operand, got %T", let.Value)
	}
}

func TestLowerOptimizedFoldsConstantComparisonInCondition(t *testing.T) {
	prog, err := parser.Parse(`fn main() { if 1 < 2 { echo("yes"); } }`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	script, err := LowerOptimized(prog, true)
	if err != nil {
		t.Fatalf("unexpected lower error: %v", err)
	}
	main := mainOf(t, script)
	ifStmt, ok := main.Body[0].(*ir.If)
	if !ok {
		t.Fatalf("expected If, got %T", main.Body[0])
	}
	test, ok := ifStmt.Cond.(ir.TestExpr)
	if !ok {
		t.Fatalf("expected TestExpr, got %T", ifStmt.Cond)
	}
	lit, ok := test.Value.(ir.LitValue)
	if !ok || lit.Lit.Str != "true" {
		t.Fatalf("expected condition to fold to literal true, got %+v", test.Value)
	}
}

func TestLowerForRangeFoldsFromConstDecl(t *testing.T) {
	script := mustLower(t, `const N: Integer = 3; fn main() { for i in 0..N { echo(i); } }`)
	main := mainOf(t, script)
	forStmt, ok := main.Body[0].(*ir.For)
	if !ok {
		t.Fatalf("expected For, got %T", main.Body[0])
	}
	if forStmt.Range.Start != 0 || forStmt.Range.End != 3 || forStmt.Range.Inclusive {
		t.Fatalf("unexpected range %+v", forStmt.Range)
	}
}

func TestLowerPredicateFunctionClassifiedCorrectly(t *testing.T) {
	script := mustLower(t, `
		fn isPositive(n: Integer) -> Bool { return n > 0; }
		fn main() { if isPositive(1) { echo("pos"); } }
	`)
	var helper *ir.Function
	for _, fn := range script.Functions {
		if fn.Name == "isPositive" {
			helper = fn
		}
	}
	if helper == nil {
		t.Fatal("expected isPositive in lowered script")
	}
	if helper.Kind != ir.Predicate {
		t.Fatalf("expected Predicate classification, got %v", helper.Kind)
	}
	main := mainOf(t, script)
	ifStmt := main.Body[0].(*ir.If)
	if _, ok := ifStmt.Cond.(ir.CommandCond); !ok {
		t.Fatalf("expected predicate call lowered to CommandCond, got %T", ifStmt.Cond)
	}
}

func TestLowerValueFunctionCallLowersToCommandSubst(t *testing.T) {
	script := mustLower(t, `
		fn greeting() -> String { return "hi"; }
		fn main() { let g = greeting(); echo(g); }
	`)
	main := mainOf(t, script)
	let := main.Body[0].(*ir.Let)
	if _, ok := let.Value.(ir.CommandSubstValue); !ok {
		t.Fatalf("expected CommandSubstValue, got %T", let.Value)
	}
}

func TestLowerUnitFunctionRejectedAsValue(t *testing.T) {
	prog, err := parser.Parse(`
		fn sideEffect() { echo("hi"); }
		fn main() { let x = sideEffect(); }
	`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = Lower(prog)
	le, ok := err.(*Error)
	if !ok || le.Kind != ReturnKindMismatch {
		t.Fatalf("expected ReturnKindMismatch, got %v", err)
	}
}

func TestLowerStringContainsCarriesNeedleOnCasePattern(t *testing.T) {
	script := mustLower(t, `
		fn main() { let h = "haystack"; let n = "stack"; if string_contains(h, n) { echo("yes"); } }
	`)
	main := mainOf(t, script)
	ifStmt, ok := main.Body[2].(*ir.If)
	if !ok {
		t.Fatalf("expected If, got %T", main.Body[2])
	}
	cc, ok := ifStmt.Cond.(ir.CaseCond)
	if !ok {
		t.Fatalf("expected CaseCond, got %T", ifStmt.Cond)
	}
	if len(cc.Pattern.Alts) != 1 {
		t.Fatalf("expected a single pattern alternative, got %+v", cc.Pattern.Alts)
	}
	alt := cc.Pattern.Alts[0]
	if alt.Wildcard || alt.Needle == nil {
		t.Fatalf("expected a non-wildcard alt carrying the needle, got %+v", alt)
	}
	needle, ok := alt.Needle.(ir.VarValue)
	if !ok || needle.Name != "n" {
		t.Fatalf("expected needle to reference var n, got %+v", alt.Needle)
	}
}

func TestLowerInvertedRangeLeftForVerify(t *testing.T) {
	// lower folds the range bounds but does not itself reject start > end;
	// that invariant belongs to internal/verify, not lowering.
	script := mustLower(t, `fn main() { for i in 3..0 { echo(i); } }`)
	main := mainOf(t, script)
	forStmt := main.Body[0].(*ir.For)
	if forStmt.Range.Start != 3 || forStmt.Range.End != 0 {
		t.Fatalf("unexpected range %+v", forStmt.Range)
	}
}
