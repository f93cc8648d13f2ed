// Package lower translates a validated AST into ShellIR (internal/ir):
// desugaring high-level forms, resolving built-ins against the closed
// registry (internal/builtins), and deciding each function's return
// communication mechanism once.
package lower

import (
	"fmt"
	"strconv"

	"github.com/rashlang/rashc/internal/ast"
	"github.com/rashlang/rashc/internal/builtins"
	"github.com/rashlang/rashc/internal/constfold"
	"github.com/rashlang/rashc/internal/escape"
	"github.com/rashlang/rashc/internal/ir"
)

type lowerer struct {
	consts   constfold.Consts
	funcs    map[string]*ast.Function
	kinds    map[string]ir.ReturnKind
	types    *typeScope
	optimize bool
}

// Lower assumes prog already passed validate.Validate; it does not re-derive
// scoping or type information, only the facts it needs for desugaring.
// Equivalent to LowerOptimized(prog, false).
func Lower(prog *ast.Program) (*ir.Script, error) {
	return LowerOptimized(prog, false)
}

// LowerOptimized lowers prog the same way Lower does, but when optimize is
// true also folds binary/unary sub-expressions that turn out to be
// compile-time constants (not just the `const` declarations and `for`
// ranges constant-folding already covers unconditionally) straight into
// literals, rather than emitting the arithmetic/comparison IR node and
// letting the shell recompute it at runtime. Off by default: spec.md's
// config surface treats this as an opt-in, since always-on folding would
// make two structurally different programs that happen to fold to the
// same literal emit identical output, which strict determinism mode is
// meant to let a caller avoid.
func LowerOptimized(prog *ast.Program, optimize bool) (*ir.Script, error) {
	l := &lowerer{consts: constfold.Consts{}, funcs: map[string]*ast.Function{}, optimize: optimize}
	for _, item := range prog.Items {
		switch n := item.(type) {
		case *ast.Const:
			v, err := constfold.Eval(n.Value, l.consts)
			if err != nil {
				return nil, &Error{Kind: RangeOverflow, Span: n.SpanVal, Message: err.Error()}
			}
			l.consts[n.NameStr] = v
		case *ast.Function:
			l.funcs[n.NameStr] = n
		}
	}
	l.kinds = classifyReturnKinds(prog)

	// main is lowered like any other function (so a bare `return` inside it
	// behaves as an early exit from main rather than from the whole script);
	// the emitter invokes it via a fixed `main "$@"` trailer so positional
	// parameters (arg/args/arg_count) resolve to the script's own arguments.
	script := &ir.Script{}
	for _, item := range prog.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}
		lf, err := l.lowerFunction(fn)
		if err != nil {
			return nil, err
		}
		script.Functions = append(script.Functions, lf)
	}
	return script, nil
}

func (l *lowerer) lowerFunction(fn *ast.Function) (*ir.Function, error) {
	l.types = newTypeScope()
	for _, p := range fn.Params {
		l.types.bind(p.Name, p.Type)
	}
	body, err := l.lowerBlock(fn.Body)
	if err != nil {
		return nil, err
	}
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
	}
	return &ir.Function{
		Name:    fn.NameStr,
		Params:  params,
		Body:    body,
		Kind:    l.kinds[fn.NameStr],
		SpanVal: fn.SpanVal,
	}, nil
}

func (l *lowerer) lowerBlock(b *ast.Block) ([]ir.Stmt, error) {
	l.types.push()
	defer l.types.pop()
	var out []ir.Stmt
	for _, st := range b.Stmts {
		ss, err := l.lowerStmt(st)
		if err != nil {
			return nil, err
		}
		out = append(out, ss...)
	}
	return out, nil
}

func (l *lowerer) lowerStmt(st ast.Stmt) ([]ir.Stmt, error) {
	switch n := st.(type) {
	case *ast.Let:
		v, err := l.lowerValue(n.Value)
		if err != nil {
			return nil, err
		}
		l.types.bind(n.Name, l.typeOf(n.Value))
		return []ir.Stmt{&ir.Let{Name: n.Name, Value: v}}, nil

	case *ast.Assign:
		v, err := l.lowerValue(n.Value)
		if err != nil {
			return nil, err
		}
		return []ir.Stmt{&ir.Let{Name: n.Name, Value: v}}, nil

	case *ast.ExprStmt:
		return l.lowerExprStmt(n.Value)

	case *ast.If:
		cond, err := l.lowerCond(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.lowerBlock(n.Then)
		if err != nil {
			return nil, err
		}
		var els []ir.Stmt
		if n.Else != nil {
			els, err = l.lowerBlock(n.Else)
			if err != nil {
				return nil, err
			}
		}
		return []ir.Stmt{&ir.If{Cond: cond, Then: then, Else: els}}, nil

	case *ast.While:
		cond, err := l.lowerCond(n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := l.lowerBlock(n.Body)
		if err != nil {
			return nil, err
		}
		return []ir.Stmt{&ir.While{Cond: cond, Body: body}}, nil

	case *ast.For:
		rs, err := l.lowerRange(n.Start, n.End, n.Inclusive)
		if err != nil {
			return nil, err
		}
		l.types.push()
		l.types.bind(n.Name, ast.TypeInteger)
		body, err := l.lowerBlock(n.Body)
		l.types.pop()
		if err != nil {
			return nil, err
		}
		return []ir.Stmt{&ir.For{Name: n.Name, Range: rs, Body: body}}, nil

	case *ast.Match:
		return l.lowerMatch(n)

	case *ast.Break:
		return []ir.Stmt{&ir.Break{}}, nil
	case *ast.Continue:
		return []ir.Stmt{&ir.Continue{}}, nil

	case *ast.Return:
		if n.Value == nil {
			return []ir.Stmt{&ir.Return{}}, nil
		}
		v, err := l.lowerValue(n.Value)
		if err != nil {
			return nil, err
		}
		return []ir.Stmt{&ir.Return{Value: v}}, nil

	case *ast.BlockStmt:
		return l.lowerBlock(n.Body)
	}
	return nil, fmt.Errorf("lower: unhandled statement %T", st)
}

// lowerExprStmt lowers an expression used purely for its side effect (a
// bare call). Any produced value is discarded.
func (l *lowerer) lowerExprStmt(e ast.Expr) ([]ir.Stmt, error) {
	call, ok := e.(*ast.Call)
	if !ok {
		// Not callable in statement position by the grammar in practice, but
		// fall back to evaluating and discarding rather than failing closed.
		if _, err := l.lowerValue(e); err != nil {
			return nil, err
		}
		return []ir.Stmt{&ir.Noop{}}, nil
	}
	cmd, err := l.lowerCallToCommand(call)
	if err != nil {
		return nil, err
	}
	return []ir.Stmt{&ir.Exec{Cmd: cmd}}, nil
}

func (l *lowerer) lowerRange(startE, endE ast.Expr, inclusive bool) (ir.RangeSpec, error) {
	start, err := constfold.Eval(startE, l.consts)
	if err != nil {
		return ir.RangeSpec{}, &Error{Kind: RangeOverflow, Span: startE.Span(), Message: err.Error()}
	}
	end, err := constfold.Eval(endE, l.consts)
	if err != nil {
		return ir.RangeSpec{}, &Error{Kind: RangeOverflow, Span: endE.Span(), Message: err.Error()}
	}
	if start.Kind != ast.LitInt || end.Kind != ast.LitInt {
		return ir.RangeSpec{}, &Error{Kind: RangeOverflow, Span: startE.Span(), Message: "range bounds must fold to Integer"}
	}
	return ir.RangeSpec{Start: start.Int32(), End: end.Int32(), Inclusive: inclusive}, nil
}

func (l *lowerer) lowerMatch(m *ast.Match) ([]ir.Stmt, error) {
	scrut, err := l.lowerValue(m.Scrutinee)
	if err != nil {
		return nil, err
	}
	scrutType := l.typeOf(m.Scrutinee)
	var arms []ir.CaseArm
	for _, arm := range m.Arms {
		switch pat := arm.Pattern.(type) {
		case *ast.WildcardPattern:
			body, err := l.lowerBlock(arm.Body)
			if err != nil {
				return nil, err
			}
			arms = append(arms, ir.CaseArm{Pattern: ir.CasePattern{Alts: []ir.CasePatternAlt{{Wildcard: true}}}, Body: body})
		case *ast.NamePattern:
			l.types.push()
			l.types.bind(pat.Ident, scrutType)
			body, err := l.lowerBlock(arm.Body)
			l.types.pop()
			if err != nil {
				return nil, err
			}
			bind := &ir.Let{Name: pat.Ident, Value: scrut}
			arms = append(arms, ir.CaseArm{
				Pattern: ir.CasePattern{Alts: []ir.CasePatternAlt{{Wildcard: true}}},
				Body:    append([]ir.Stmt{bind}, body...),
			})
		case *ast.LitPattern:
			body, err := l.lowerBlock(arm.Body)
			if err != nil {
				return nil, err
			}
			lit := litPatternText(pat.Lit)
			arms = append(arms, ir.CaseArm{Pattern: ir.CasePattern{Alts: []ir.CasePatternAlt{{Literal: lit}}}, Body: body})
		}
	}
	return []ir.Stmt{&ir.Case{Scrutinee: scrut, Arms: arms}}, nil
}

func litPatternText(lit *ast.Lit) string {
	switch lit.Kind {
	case ast.LitBool:
		if lit.Bool {
			return "true"
		}
		return "false"
	case ast.LitInt:
		return strconv.Itoa(int(lit.Int))
	default:
		return lit.Str
	}
}

// lowerValue produces the ShellValue for e when e is used as a plain value
// (assigned, passed as an argument, compared, etc.).
func (l *lowerer) lowerValue(e ast.Expr) (ir.ShellValue, error) {
	switch n := e.(type) {
	case *ast.Lit:
		return l.lowerLit(n), nil

	case *ast.Name:
		if v, ok := l.consts[n.Ident]; ok {
			return constValue(v), nil
		}
		return ir.VarValue{Name: n.Ident, Prov: ir.NeedsQuote}, nil

	case *ast.Paren:
		return l.lowerValue(n.Inner)

	case *ast.Unary:
		if l.optimize {
			if folded, ok := l.tryFold(n); ok {
				return folded, nil
			}
		}
		operand, err := l.lowerValue(n.Operand)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case ast.UnaryNot:
			return ir.ComparisonValue{Left: operand, Op: ir.CmpStrEq, Right: ir.LitValue{Lit: ir.Literal{Str: "false"}, Prov: ir.Constant}, Prov: ir.NeedsQuote}, nil
		case ast.UnaryNeg:
			return ir.ArithValue{Expr: ir.ArithExpr{Op: ir.ArithSub, Left: ir.LitValue{Lit: ir.Literal{Str: "0"}, Prov: ir.Constant}, Right: operand}, Prov: ir.NeedsQuote}, nil
		}

	case *ast.Binary:
		if l.optimize {
			if folded, ok := l.tryFold(n); ok {
				return folded, nil
			}
		}
		return l.lowerBinaryValue(n)

	case *ast.Call:
		return l.lowerCallValue(n)

	case *ast.Range:
		return nil, fmt.Errorf("lower: range expression reached value lowering")
	}
	return nil, fmt.Errorf("lower: unhandled expression %T", e)
}

func (l *lowerer) lowerLit(n *ast.Lit) ir.ShellValue {
	switch n.Kind {
	case ast.LitBool:
		s := "false"
		if n.Bool {
			s = "true"
		}
		return ir.LitValue{Lit: ir.Literal{Str: s}, Prov: ir.Constant}
	case ast.LitInt:
		return ir.LitValue{Lit: ir.Literal{Str: strconv.Itoa(int(n.Int))}, Prov: ir.Constant}
	default: // LitString
		if escape.IsSafeBare(n.Str) {
			return ir.LitValue{Lit: ir.Literal{Str: n.Str}, Prov: ir.Constant}
		}
		return ir.LitValue{Lit: ir.Literal{Str: n.Str}, Prov: ir.NeedsQuote}
	}
}

// tryFold attempts to evaluate e entirely at compile time against the
// already-folded top-level constants in scope. Only called when the
// optimize option is set; a local variable reference anywhere in e makes
// constfold.Eval return ErrNotConst, so this never folds across anything
// that would need runtime state.
func (l *lowerer) tryFold(e ast.Expr) (ir.ShellValue, bool) {
	v, err := constfold.Eval(e, l.consts)
	if err != nil {
		return nil, false
	}
	return constValue(v), true
}

func constValue(v constfold.Value) ir.ShellValue {
	switch v.Kind {
	case ast.LitBool:
		s := "false"
		if v.Bool {
			s = "true"
		}
		return ir.LitValue{Lit: ir.Literal{Str: s}, Prov: ir.Constant}
	case ast.LitInt:
		return ir.LitValue{Lit: ir.Literal{Str: strconv.FormatInt(v.Int, 10)}, Prov: ir.Constant}
	default:
		if escape.IsSafeBare(v.Str) {
			return ir.LitValue{Lit: ir.Literal{Str: v.Str}, Prov: ir.Constant}
		}
		return ir.LitValue{Lit: ir.Literal{Str: v.Str}, Prov: ir.NeedsQuote}
	}
}

// equalityOp picks the POSIX-correct form for `==`/`!=`: validate already
// requires both operands share a type, so inspecting the left operand alone
// is enough to decide numeric (`-eq`/`-ne`) vs textual (`=`/`!=`) comparison.
func (l *lowerer) equalityOp(left ast.Expr, numeric, textual ir.CompareOp) ir.CompareOp {
	if l.typeOf(left) == ast.TypeInteger {
		return numeric
	}
	return textual
}

func (l *lowerer) lowerBinaryValue(n *ast.Binary) (ir.ShellValue, error) {
	left, err := l.lowerValue(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := l.lowerValue(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.OpAdd:
		return ir.ArithValue{Expr: ir.ArithExpr{Op: ir.ArithAdd, Left: left, Right: right}, Prov: ir.NeedsQuote}, nil
	case ast.OpSub:
		return ir.ArithValue{Expr: ir.ArithExpr{Op: ir.ArithSub, Left: left, Right: right}, Prov: ir.NeedsQuote}, nil
	case ast.OpMul:
		return ir.ArithValue{Expr: ir.ArithExpr{Op: ir.ArithMul, Left: left, Right: right}, Prov: ir.NeedsQuote}, nil
	case ast.OpDiv:
		return ir.ArithValue{Expr: ir.ArithExpr{Op: ir.ArithDiv, Left: left, Right: right}, Prov: ir.NeedsQuote}, nil
	case ast.OpMod:
		return ir.ArithValue{Expr: ir.ArithExpr{Op: ir.ArithMod, Left: left, Right: right}, Prov: ir.NeedsQuote}, nil
	case ast.OpEq:
		return ir.ComparisonValue{Left: left, Op: l.equalityOp(n.Left, ir.CmpEq, ir.CmpStrEq), Right: right, Prov: ir.NeedsQuote}, nil
	case ast.OpNe:
		return ir.ComparisonValue{Left: left, Op: l.equalityOp(n.Left, ir.CmpNe, ir.CmpStrNe), Right: right, Prov: ir.NeedsQuote}, nil
	case ast.OpLt:
		return ir.ComparisonValue{Left: left, Op: ir.CmpLt, Right: right, Prov: ir.NeedsQuote}, nil
	case ast.OpLe:
		return ir.ComparisonValue{Left: left, Op: ir.CmpLe, Right: right, Prov: ir.NeedsQuote}, nil
	case ast.OpGt:
		return ir.ComparisonValue{Left: left, Op: ir.CmpGt, Right: right, Prov: ir.NeedsQuote}, nil
	case ast.OpGe:
		return ir.ComparisonValue{Left: left, Op: ir.CmpGe, Right: right, Prov: ir.NeedsQuote}, nil
	case ast.OpAnd:
		return ir.LogicalValue{Op: ir.LogicalAnd, Left: left, Right: right, Prov: ir.NeedsQuote}, nil
	case ast.OpOr:
		return ir.LogicalValue{Op: ir.LogicalOr, Left: left, Right: right, Prov: ir.NeedsQuote}, nil
	}
	return nil, fmt.Errorf("lower: unhandled binary operator")
}

// lowerCond lowers e, which is known to sit directly in If/While condition
// position, to an ir.Cond — preferring the cheaper CommandCond/CaseCond
// shapes over a generic ComparisonValue wrapped in TestExpr whenever e is a
// predicate call.
func (l *lowerer) lowerCond(e ast.Expr) (ir.Cond, error) {
	if u, ok := e.(*ast.Unary); ok && u.Op == ast.UnaryNot {
		inner, err := l.lowerCond(u.Operand)
		if err != nil {
			return nil, err
		}
		return negateCond(inner), nil
	}
	if call, ok := e.(*ast.Call); ok {
		if cond, handled, err := l.lowerPredicateCond(call); handled {
			return cond, err
		}
		// A non-predicate call used as a condition is a Value-kind function
		// (or value-kind builtin) misused in boolean position.
		return nil, &Error{Kind: ReturnKindMismatch, Span: call.SpanVal,
			Message: fmt.Sprintf("%q does not produce a boolean exit status and cannot be used directly as a condition", call.Callee)}
	}
	v, err := l.lowerValue(e)
	if err != nil {
		return nil, err
	}
	return ir.TestExpr{Value: v}, nil
}

func negateCond(c ir.Cond) ir.Cond {
	switch n := c.(type) {
	case ir.CommandCond:
		return ir.CommandCond{Cmd: n.Cmd, Negate: !n.Negate}
	case ir.CaseCond:
		return ir.CaseCond{Scrutinee: n.Scrutinee, Pattern: n.Pattern, Negate: !n.Negate}
	case ir.TestExpr:
		return ir.TestExpr{Value: n.Value, Negate: !n.Negate}
	default:
		return c
	}
}

// lowerPredicateCond handles calls whose canonical shape is a condition:
// predicate built-ins and user functions classified ir.Predicate. handled
// is false when call is not one of those (caller then reports
// ReturnKindMismatch or treats it as a plain value).
func (l *lowerer) lowerPredicateCond(call *ast.Call) (ir.Cond, bool, error) {
	if fn, ok := l.funcs[call.Callee]; ok {
		if l.kinds[call.Callee] != ir.Predicate {
			return nil, false, nil
		}
		args, err := l.lowerArgs(call.Args)
		if err != nil {
			return nil, true, err
		}
		_ = fn
		return ir.CommandCond{Cmd: ir.Command{Name: call.Callee, Args: args}}, true, nil
	}
	bi, ok := builtins.Lookup(call.Callee)
	if !ok {
		return nil, true, &Error{Kind: UnknownBuiltin, Span: call.SpanVal, Message: fmt.Sprintf("%q is not a registered built-in", call.Callee)}
	}
	if bi.Return != ast.TypeBool {
		return nil, false, nil
	}
	return l.lowerPredicateBuiltinCond(call)
}

func (l *lowerer) lowerArgs(args []ast.Expr) ([]ir.ShellValue, error) {
	out := make([]ir.ShellValue, len(args))
	for i, a := range args {
		v, err := l.lowerValue(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// lowerCallToCommand lowers call as a bare statement: the canonical Exec
// shape for builtins, or a direct invocation for user functions.
func (l *lowerer) lowerCallToCommand(call *ast.Call) (ir.Command, error) {
	if _, ok := l.funcs[call.Callee]; ok {
		args, err := l.lowerArgs(call.Args)
		if err != nil {
			return ir.Command{}, err
		}
		return ir.Command{Name: call.Callee, Args: args}, nil
	}
	return l.lowerBuiltinCommand(call)
}

// lowerCallValue lowers call used in value position.
func (l *lowerer) lowerCallValue(call *ast.Call) (ir.ShellValue, error) {
	if _, ok := l.funcs[call.Callee]; ok {
		args, err := l.lowerArgs(call.Args)
		if err != nil {
			return nil, err
		}
		switch l.kinds[call.Callee] {
		case ir.Unit:
			return nil, &Error{Kind: ReturnKindMismatch, Span: call.SpanVal, Message: fmt.Sprintf("%q returns Unit and cannot be used as a value", call.Callee)}
		case ir.Predicate:
			return ir.PredicateCallValue{Cond: ir.CommandCond{Cmd: ir.Command{Name: call.Callee, Args: args}}, Prov: ir.NeedsQuote}, nil
		default:
			return ir.CommandSubstValue{Cmd: ir.Command{Name: call.Callee, Args: args}, Prov: ir.NeedsQuote}, nil
		}
	}
	return l.lowerBuiltinValue(call)
}
