package verify

import (
	"testing"

	"github.com/rashlang/rashc/internal/ir"
)

func mainScript(body ...ir.Stmt) *ir.Script {
	return &ir.Script{Functions: []*ir.Function{{Name: "main", Kind: ir.Unit, Body: body}}}
}

func TestVerifyAcceptsEmptyMain(t *testing.T) {
	if err := Verify(mainScript(&ir.Noop{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyRejectsMissingMain(t *testing.T) {
	script := &ir.Script{Functions: []*ir.Function{{Name: "helper", Kind: ir.Unit}}}
	if err := Verify(script); err == nil {
		t.Fatalf("expected error for script with no main")
	}
}

func TestVerifyAcceptsQuotedLet(t *testing.T) {
	script := mainScript(&ir.Let{Name: "x", Value: ir.VarValue{Name: "1", Prov: ir.NeedsQuote}})
	if err := Verify(script); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyRejectsUnsafeConstant(t *testing.T) {
	script := mainScript(&ir.Let{Name: "x", Value: ir.LitValue{Lit: ir.Literal{Str: "a;b"}, Prov: ir.Constant}})
	err := Verify(script)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != InjectionRisk {
		t.Fatalf("expected InjectionRisk, got %v", err)
	}
}

func TestVerifyRejectsUnsafeCaseCondNeedle(t *testing.T) {
	cond := ir.CaseCond{
		Scrutinee: ir.VarValue{Name: "h", Prov: ir.Safe},
		Pattern: ir.CasePattern{Alts: []ir.CasePatternAlt{
			{Needle: ir.LitValue{Lit: ir.Literal{Str: "a;b"}, Prov: ir.Constant}},
		}},
	}
	script := mainScript(&ir.If{Cond: cond, Then: []ir.Stmt{&ir.Noop{}}})
	err := Verify(script)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != InjectionRisk {
		t.Fatalf("expected InjectionRisk for an unsafe needle literal, got %v", err)
	}
}

func TestVerifyRejectsDuplicateFunctionNames(t *testing.T) {
	fn := &ir.Function{Name: "helper", Kind: ir.Unit}
	main := &ir.Function{Name: "main", Kind: ir.Unit}
	script := &ir.Script{Functions: []*ir.Function{fn, fn, main}}
	err := Verify(script)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != NonDeterministic {
		t.Fatalf("expected NonDeterministic, got %v", err)
	}
}

func TestVerifyRejectsBareReturnFromValueFunction(t *testing.T) {
	fn := &ir.Function{Name: "helper", Kind: ir.Value, Body: []ir.Stmt{&ir.Return{}}}
	main := &ir.Function{Name: "main", Kind: ir.Unit}
	script := &ir.Script{Functions: []*ir.Function{fn, main}}
	err := Verify(script)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ReturnKindMismatch {
		t.Fatalf("expected ReturnKindMismatch, got %v", err)
	}
}

func TestVerifyRejectsValueReturnFromUnitFunction(t *testing.T) {
	script := mainScript(&ir.Return{Value: ir.LitValue{Lit: ir.Literal{Str: "1"}, Prov: ir.Constant}})
	err := Verify(script)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ReturnKindMismatch {
		t.Fatalf("expected ReturnKindMismatch, got %v", err)
	}
}

func TestVerifyRejectsCallKindMismatch(t *testing.T) {
	fn := &ir.Function{Name: "helper", Kind: ir.Predicate}
	main := &ir.Function{Name: "main", Kind: ir.Unit, Body: []ir.Stmt{
		&ir.Exec{Cmd: ir.Command{Name: "helper"}},
	}}
	script := &ir.Script{Functions: []*ir.Function{fn, main}}
	err := Verify(script)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ReturnKindMismatch {
		t.Fatalf("expected ReturnKindMismatch, got %v", err)
	}
}

func TestVerifyRejectsInvertedRange(t *testing.T) {
	script := mainScript(&ir.For{Name: "i", Range: ir.RangeSpec{Start: 5, End: 1}, Body: []ir.Stmt{&ir.Noop{}}})
	err := Verify(script)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != TerminationBound {
		t.Fatalf("expected TerminationBound, got %v", err)
	}
}

func TestVerifyAcceptsCommandSubstValueFunction(t *testing.T) {
	fn := &ir.Function{Name: "greeting", Kind: ir.Value}
	main := &ir.Function{Name: "main", Kind: ir.Unit, Body: []ir.Stmt{
		&ir.Let{Name: "g", Value: ir.CommandSubstValue{
			Cmd:  ir.Command{Name: "greeting"},
			Prov: ir.NeedsQuote,
		}},
	}}
	script := &ir.Script{Functions: []*ir.Function{fn, main}}
	if err := Verify(script); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyLevelStructuralSkipsInjectionRisk(t *testing.T) {
	script := mainScript(&ir.Let{Name: "x", Value: ir.LitValue{Lit: ir.Literal{Str: "a;b"}, Prov: ir.Constant}})
	if err := VerifyLevel(script, Structural); err != nil {
		t.Fatalf("Structural level should skip injection-safety checks, got: %v", err)
	}
	if err := VerifyLevel(script, Full); err == nil {
		t.Fatal("Full level should still reject the unsafe constant")
	}
}

func TestVerifyLevelStructuralSkipsDuplicateFunctionNames(t *testing.T) {
	fn := &ir.Function{Name: "helper", Kind: ir.Unit}
	main := &ir.Function{Name: "main", Kind: ir.Unit}
	script := &ir.Script{Functions: []*ir.Function{fn, fn, main}}
	if err := VerifyLevel(script, Structural); err != nil {
		t.Fatalf("Structural level should skip the duplicate-name check, got: %v", err)
	}
	if err := VerifyLevel(script, Full); err == nil {
		t.Fatal("Full level should still reject duplicate function names")
	}
}

func TestVerifyLevelStructuralStillCatchesTerminationBound(t *testing.T) {
	script := mainScript(&ir.For{Name: "i", Range: ir.RangeSpec{Start: 5, End: 1}, Body: []ir.Stmt{&ir.Noop{}}})
	err := VerifyLevel(script, Structural)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != TerminationBound {
		t.Fatalf("expected TerminationBound at Structural level, got %v", err)
	}
}

func TestVerifyLevelStructuralStillCatchesReturnKindMismatch(t *testing.T) {
	script := mainScript(&ir.Return{Value: ir.LitValue{Lit: ir.Literal{Str: "1"}, Prov: ir.Constant}})
	err := VerifyLevel(script, Structural)
	ve, ok := err.(*Error)
	if !ok || ve.Kind != ReturnKindMismatch {
		t.Fatalf("expected ReturnKindMismatch at Structural level, got %v", err)
	}
}

func TestVerifyLevelStructuralStillRequiresMain(t *testing.T) {
	script := &ir.Script{Functions: []*ir.Function{{Name: "helper", Kind: ir.Unit}}}
	if err := VerifyLevel(script, Structural); err == nil {
		t.Fatal("expected error for script with no main, even at Structural level")
	}
}
