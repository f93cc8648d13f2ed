package validate

import (
	"testing"

	"github.com/rashlang/rashc/internal/parser"
)

func mustValidate(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return Validate(prog)
}

func TestValidateAcceptsMinimalMain(t *testing.T) {
	if err := mustValidate(t, `fn main() {}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequiresMain(t *testing.T) {
	err := mustValidate(t, `fn helper() {}`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ForbiddenConstruct {
		t.Fatalf("expected ForbiddenConstruct for missing main, got %v", err)
	}
}

func TestValidateRejectsMainWithParams(t *testing.T) {
	err := mustValidate(t, `fn main(x: Integer) {}`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ForbiddenConstruct {
		t.Fatalf("expected ForbiddenConstruct, got %v", err)
	}
}

func TestValidateRejectsDuplicateTopLevel(t *testing.T) {
	err := mustValidate(t, `fn main() {} fn main() {}`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != DuplicateItem {
		t.Fatalf("expected DuplicateItem, got %v", err)
	}
}

func TestValidateRejectsRecursion(t *testing.T) {
	err := mustValidate(t, `
		fn f() { f(); }
		fn main() { f(); }
	`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != Recursion {
		t.Fatalf("expected Recursion, got %v", err)
	}
}

func TestValidateRejectsIndirectRecursion(t *testing.T) {
	err := mustValidate(t, `
		fn a() { b(); }
		fn b() { a(); }
		fn main() { a(); }
	`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != Recursion {
		t.Fatalf("expected Recursion for mutual call cycle, got %v", err)
	}
}

func TestValidateRejectsStringPlus(t *testing.T) {
	err := mustValidate(t, `fn main() { let a = "x" + "y"; }`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ForbiddenConstruct {
		t.Fatalf("expected ForbiddenConstruct for string +, got %v", err)
	}
}

func TestValidateAcceptsConcatForStrings(t *testing.T) {
	if err := mustValidate(t, `fn main() { let a = concat("x", "y"); echo(a); }`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsArithmeticOnBool(t *testing.T) {
	err := mustValidate(t, `fn main() { let a = true + false; }`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != TypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestValidateRejectsBreakOutsideLoop(t *testing.T) {
	err := mustValidate(t, `fn main() { break; }`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ForbiddenConstruct {
		t.Fatalf("expected ForbiddenConstruct for break outside loop, got %v", err)
	}
}

func TestValidateAcceptsBreakInsideWhile(t *testing.T) {
	if err := mustValidate(t, `fn main() { while true { break; } }`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateAcceptsBreakInsideFor(t *testing.T) {
	if err := mustValidate(t, `fn main() { for i in 0..3 { if i == 1 { break; } } }`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsAssignToImmutableLet(t *testing.T) {
	err := mustValidate(t, `fn main() { let x = 1; x = 2; }`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ForbiddenConstruct {
		t.Fatalf("expected ForbiddenConstruct for assign to non-mut let, got %v", err)
	}
}

func TestValidateAcceptsAssignToMutableLet(t *testing.T) {
	if err := mustValidate(t, `fn main() { let mut x = 1; x = 2; echo(string_trim("y")); }`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownName(t *testing.T) {
	err := mustValidate(t, `fn main() { echo(mystery); }`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != UnknownName {
		t.Fatalf("expected UnknownName, got %v", err)
	}
}

func TestValidateRejectsUnknownBuiltin(t *testing.T) {
	err := mustValidate(t, `fn main() { frobnicate("x"); }`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != UnknownName {
		t.Fatalf("expected UnknownName for unregistered call, got %v", err)
	}
}

func TestValidateRejectsBuiltinArityMismatch(t *testing.T) {
	err := mustValidate(t, `fn main() { echo("a", "b"); }`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != TypeMismatch {
		t.Fatalf("expected TypeMismatch for arity mismatch, got %v", err)
	}
}

func TestValidateRejectsNonForldableForRange(t *testing.T) {
	err := mustValidate(t, `
		fn main() { let mut n = 3; for i in 0..n { echo("x"); } }
	`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ForbiddenConstruct {
		t.Fatalf("expected ForbiddenConstruct for non-foldable range bound, got %v", err)
	}
}

func TestValidateAcceptsConstFoldableForRange(t *testing.T) {
	if err := mustValidate(t, `
		const N: Integer = 5;
		fn main() { for i in 0..N { echo("x"); } }
	`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsMatchWithoutWildcardOnInteger(t *testing.T) {
	err := mustValidate(t, `
		fn main() {
			let x = 1;
			match x {
				1 => echo("one"),
				2 => echo("two")
			}
		}
	`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ForbiddenConstruct {
		t.Fatalf("expected ForbiddenConstruct for non-exhaustive match, got %v", err)
	}
}

func TestValidateAcceptsMatchOnBoolWithoutWildcard(t *testing.T) {
	if err := mustValidate(t, `
		fn main() {
			let x = true;
			match x {
				true => echo("t"),
				false => echo("f")
			}
		}
	`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsMatchArmTypeMismatch(t *testing.T) {
	err := mustValidate(t, `
		fn main() {
			let x = 1;
			match x {
				"one" => echo("one"),
				_ => echo("other")
			}
		}
	`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != TypeMismatch {
		t.Fatalf("expected TypeMismatch for pattern/scrutinee mismatch, got %v", err)
	}
}

func TestValidateAcceptsFunctionCallWithMatchingTypes(t *testing.T) {
	if err := mustValidate(t, `
		fn add(a: Integer, b: Integer) -> Integer { return a + b; }
		fn main() { let x = add(1, 2); echo(string_trim("y")); }
	`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsCallArgTypeMismatch(t *testing.T) {
	err := mustValidate(t, `
		fn add(a: Integer, b: Integer) -> Integer { return a + b; }
		fn main() { let x = add(1, "two"); }
	`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != TypeMismatch {
		t.Fatalf("expected TypeMismatch for argument type mismatch, got %v", err)
	}
}

func TestValidateRejectsShadowingFunctionName(t *testing.T) {
	err := mustValidate(t, `
		fn helper() {}
		fn main() { let helper = 1; echo(string_trim("y")); }
	`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ForbiddenConstruct {
		t.Fatalf("expected ForbiddenConstruct for let shadowing a function name, got %v", err)
	}
}

func TestValidateRejectsShellReservedFunctionName(t *testing.T) {
	err := mustValidate(t, `
		fn done() {}
		fn main() {}
	`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ForbiddenConstruct {
		t.Fatalf("expected ForbiddenConstruct for shell-reserved function name, got %v", err)
	}
}

func TestValidateRejectsShellReservedLetName(t *testing.T) {
	err := mustValidate(t, `fn main() { let fi = 1; }`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ForbiddenConstruct {
		t.Fatalf("expected ForbiddenConstruct for shell-reserved let name, got %v", err)
	}
}

func TestValidateRejectsNameCollidingWithBuiltin(t *testing.T) {
	err := mustValidate(t, `
		fn echo(x: Integer) -> Integer { return x; }
		fn main() {}
	`)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ForbiddenConstruct {
		t.Fatalf("expected ForbiddenConstruct for function name colliding with a built-in, got %v", err)
	}
}
