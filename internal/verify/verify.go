// Package verify performs a single read-only pass over a lowered ShellIR,
// confirming the invariants internal/lower is supposed to have established
// already: every literal claiming to need no quoting really is safe bare,
// every call site agrees with its callee's return classification, and the
// tree has no pathological depth an emitter's recursive descent could choke
// on. Verification never mutates the IR and never repairs it — any
// violation is a bug earlier in the pipeline, surfaced here as a typed
// VerificationError.
package verify

import (
	"github.com/rashlang/rashc/internal/escape"
	"github.com/rashlang/rashc/internal/ir"
)

// maxDepth bounds the recursion the emitter's own descent may need to go to.
// No restricted-language program that passed validation can nest this deep
// (block nesting is bounded by source size long before it gets here); this
// exists to give pathological or hand-built IR a deterministic failure
// instead of a stack overflow downstream in internal/emit.
const maxDepth = 512

// Level selects how much of the invariant surface Verify checks.
// internal/pipeline maps its four surface-facing verify_level names onto
// these two: "basic" runs Structural, "strict" and "paranoid" both run
// Full (paranoid adds an external re-parse step pipeline performs itself,
// since it needs internal/emit's output text, not just the IR).
type Level int

const (
	// Structural checks only termination bound and return-kind coherence —
	// the invariants a malformed or hand-built IR tree could violate
	// regardless of what values it carries.
	Structural Level = iota
	// Full runs every check Structural does, plus injection-safety
	// (literal/variable quoting provenance) and the deterministic-dispatch
	// check (no duplicate function names).
	Full
)

// Verify checks script against every IR invariant and returns the first
// violation found, or nil. Equivalent to VerifyLevel(script, Full).
func Verify(script *ir.Script) error {
	return VerifyLevel(script, Full)
}

// VerifyLevel checks script at the given Level and returns the first
// violation found, or nil.
func VerifyLevel(script *ir.Script, level Level) error {
	v := &verifier{funcs: map[string]*ir.Function{}, level: level}
	for _, fn := range script.Functions {
		if _, dup := v.funcs[fn.Name]; dup {
			if level >= Full {
				return errf(NonDeterministic, fn.Name, "duplicate function name %q breaks deterministic dispatch", fn.Name)
			}
		} else {
			v.funcs[fn.Name] = fn
		}
	}

	if _, ok := v.funcs["main"]; !ok {
		return errf(TerminationBound, "<script>", "script declares no main function")
	}
	for _, fn := range script.Functions {
		if err := v.checkBlock(fn.Name, fn.Body, fn.Kind, 1); err != nil {
			return err
		}
	}
	return nil
}

type verifier struct {
	funcs map[string]*ir.Function
	level Level
}

func (v *verifier) checkBlock(node string, stmts []ir.Stmt, kind ir.ReturnKind, depth int) error {
	if depth > maxDepth {
		return errf(TerminationBound, node, "block nesting exceeds %d levels", maxDepth)
	}
	for _, st := range stmts {
		if err := v.checkStmt(node, st, kind, depth); err != nil {
			return err
		}
	}
	return nil
}

func (v *verifier) checkStmt(node string, st ir.Stmt, kind ir.ReturnKind, depth int) error {
	switch n := st.(type) {
	case *ir.Let:
		return v.checkValue(node, n.Value, depth)
	case *ir.Exec:
		return v.checkCommand(node, n.Cmd, depth)
	case *ir.If:
		if err := v.checkCond(node, n.Cond, depth); err != nil {
			return err
		}
		if err := v.checkBlock(node, n.Then, kind, depth+1); err != nil {
			return err
		}
		if n.Else != nil {
			return v.checkBlock(node, n.Else, kind, depth+1)
		}
		return nil
	case *ir.Case:
		if err := v.checkValue(node, n.Scrutinee, depth); err != nil {
			return err
		}
		if len(n.Arms) == 0 {
			return errf(TerminationBound, node, "case has no arms")
		}
		for _, arm := range n.Arms {
			if err := v.checkBlock(node, arm.Body, kind, depth+1); err != nil {
				return err
			}
		}
		return nil
	case *ir.While:
		if err := v.checkCond(node, n.Cond, depth); err != nil {
			return err
		}
		return v.checkBlock(node, n.Body, kind, depth+1)
	case *ir.For:
		if n.Range.Start > n.Range.End {
			return errf(TerminationBound, node, "range start %d exceeds end %d", n.Range.Start, n.Range.End)
		}
		return v.checkBlock(node, n.Body, kind, depth+1)
	case *ir.Return:
		if kind == ir.Unit && n.Value != nil {
			return errf(ReturnKindMismatch, node, "Unit function returns a value")
		}
		if kind != ir.Unit && n.Value == nil {
			return errf(ReturnKindMismatch, node, "%s function has a bare return", kind)
		}
		if n.Value != nil {
			return v.checkValue(node, n.Value, depth)
		}
		return nil
	case *ir.Break, *ir.Continue, *ir.Noop:
		return nil
	default:
		return errf(TerminationBound, node, "unhandled statement node")
	}
}

// checkCommand verifies a Command's arguments and, when it invokes a user
// function, that the call shape agrees with the callee's classification.
func (v *verifier) checkCommand(node string, cmd ir.Command, depth int) error {
	if depth > maxDepth {
		return errf(TerminationBound, node, "expression nesting exceeds %d levels", maxDepth)
	}
	for _, a := range cmd.Args {
		if err := v.checkValue(node, a, depth+1); err != nil {
			return err
		}
	}
	for _, r := range cmd.Redirs {
		if r.Target != nil {
			if err := v.checkValue(node, r.Target, depth+1); err != nil {
				return err
			}
		}
	}
	if fn, ok := v.funcs[cmd.Name]; ok && fn.Kind != ir.Unit {
		return errf(ReturnKindMismatch, node, "%q is classified %s but is invoked as a bare statement", cmd.Name, fn.Kind)
	}
	return nil
}

func (v *verifier) checkValue(node string, val ir.ShellValue, depth int) error {
	if depth > maxDepth {
		return errf(TerminationBound, node, "value nesting exceeds %d levels", maxDepth)
	}
	switch n := val.(type) {
	case ir.LitValue:
		if v.level >= Full && n.Prov != ir.NeedsQuote && !escape.IsSafeBare(n.Lit.Str) {
			return errf(InjectionRisk, node,
				"literal %q claims provenance %v but is not safe to emit unquoted", n.Lit.Str, n.Prov)
		}
		return nil
	case ir.VarValue:
		if v.level >= Full && !escape.IsSafeBare(n.Name) && n.Name != "@" && n.Name != "#" && n.Name != "?" {
			return errf(InjectionRisk, node, "variable name %q is not a valid shell reference", n.Name)
		}
		return nil
	case ir.ConcatValue:
		for _, p := range n.Parts {
			if err := v.checkValue(node, p, depth+1); err != nil {
				return err
			}
		}
		return nil
	case ir.CommandSubstValue:
		if fn, ok := v.funcs[n.Cmd.Name]; ok && fn.Kind != ir.Value {
			return errf(ReturnKindMismatch, node, "%q is classified %s but is used as a value via command substitution", n.Cmd.Name, fn.Kind)
		}
		return v.checkCommandArgsOnly(node, n.Cmd, depth+1)
	case ir.ArithValue:
		if err := v.checkValue(node, n.Expr.Left, depth+1); err != nil {
			return err
		}
		return v.checkValue(node, n.Expr.Right, depth+1)
	case ir.ComparisonValue:
		if err := v.checkValue(node, n.Left, depth+1); err != nil {
			return err
		}
		return v.checkValue(node, n.Right, depth+1)
	case ir.LogicalValue:
		if err := v.checkValue(node, n.Left, depth+1); err != nil {
			return err
		}
		return v.checkValue(node, n.Right, depth+1)
	case ir.ParamExpandValue:
		return v.checkValue(node, n.Default, depth+1)
	case ir.StrLenValue:
		return v.checkValue(node, n.Value, depth+1)
	case ir.PredicateCallValue:
		return v.checkCond(node, n.Cond, depth+1)
	default:
		return errf(TerminationBound, node, "unhandled value node")
	}
}

// checkCommandArgsOnly walks a command's arguments/redirs without re-running
// the bare-statement Unit check (checkCommand), since a CommandSubstValue's
// inner command is invoked as a value, not a statement.
func (v *verifier) checkCommandArgsOnly(node string, cmd ir.Command, depth int) error {
	for _, a := range cmd.Args {
		if err := v.checkValue(node, a, depth+1); err != nil {
			return err
		}
	}
	for _, r := range cmd.Redirs {
		if r.Target != nil {
			if err := v.checkValue(node, r.Target, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *verifier) checkCond(node string, cond ir.Cond, depth int) error {
	if depth > maxDepth {
		return errf(TerminationBound, node, "condition nesting exceeds %d levels", maxDepth)
	}
	switch n := cond.(type) {
	case ir.TestExpr:
		return v.checkValue(node, n.Value, depth+1)
	case ir.CommandCond:
		if fn, ok := v.funcs[n.Cmd.Name]; ok && fn.Kind != ir.Predicate {
			return errf(ReturnKindMismatch, node, "%q is classified %s but is used as a condition", n.Cmd.Name, fn.Kind)
		}
		return v.checkCommandArgsOnly(node, n.Cmd, depth+1)
	case ir.CaseCond:
		if err := v.checkValue(node, n.Scrutinee, depth+1); err != nil {
			return err
		}
		for _, alt := range n.Pattern.Alts {
			if alt.Needle == nil {
				continue
			}
			if err := v.checkValue(node, alt.Needle, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		return errf(TerminationBound, node, "unhandled condition node")
	}
}
