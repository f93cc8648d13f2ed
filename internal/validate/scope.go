package validate

import (
	"fmt"

	"github.com/rashlang/rashc/internal/ast"
	"github.com/rashlang/rashc/internal/builtins"
	"github.com/rashlang/rashc/internal/constfold"
)

type binding struct {
	typ     ast.Type
	mutable bool
}

// funcChecker type-checks and scope-checks a single function body. A fresh
// funcChecker is created per function; top-level lookups (other functions,
// consts) go through the shared validator.
type funcChecker struct {
	v         *validator
	fn        *ast.Function
	scopes    []map[string]binding
	loopDepth int
}

func (fc *funcChecker) pushScope() { fc.scopes = append(fc.scopes, map[string]binding{}) }
func (fc *funcChecker) popScope()  { fc.scopes = fc.scopes[:len(fc.scopes)-1] }

func (fc *funcChecker) bind(name string, t ast.Type, mutable bool) {
	fc.scopes[len(fc.scopes)-1][name] = binding{typ: t, mutable: mutable}
}

func (fc *funcChecker) lookup(name string) (binding, bool) {
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		if b, ok := fc.scopes[i][name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

func (fc *funcChecker) checkBlock(b *ast.Block) error {
	fc.pushScope()
	defer fc.popScope()
	for _, st := range b.Stmts {
		if err := fc.checkStmt(st); err != nil {
			return err
		}
	}
	return nil
}

func (fc *funcChecker) checkStmt(st ast.Stmt) error {
	switch n := st.(type) {
	case *ast.Let:
		if _, isFn := fc.v.funcs[n.Name]; isFn {
			return &Error{Kind: ForbiddenConstruct, Span: n.SpanVal,
				Message: fmt.Sprintf("let binding %q may not shadow a function name", n.Name)}
		}
		if err := fc.v.checkName(n.Name, n.SpanVal); err != nil {
			return err
		}
		t, err := fc.inferExpr(n.Value)
		if err != nil {
			return err
		}
		fc.bind(n.Name, t, n.Mutable)
		return nil

	case *ast.Assign:
		b, ok := fc.lookup(n.Name)
		if !ok {
			return &Error{Kind: UnknownName, Span: n.SpanVal, Message: fmt.Sprintf("assignment to undeclared name %q", n.Name)}
		}
		if !b.mutable {
			return &Error{Kind: ForbiddenConstruct, Span: n.SpanVal, Message: fmt.Sprintf("%q is not declared mutable (missing let mut)", n.Name)}
		}
		t, err := fc.inferExpr(n.Value)
		if err != nil {
			return err
		}
		if t != b.typ {
			return &Error{Kind: TypeMismatch, Span: n.SpanVal, Message: fmt.Sprintf("cannot assign %s to %q of type %s", t, n.Name, b.typ)}
		}
		return nil

	case *ast.ExprStmt:
		_, err := fc.inferExpr(n.Value)
		return err

	case *ast.If:
		t, err := fc.inferExpr(n.Cond)
		if err != nil {
			return err
		}
		if t != ast.TypeBool {
			return &Error{Kind: TypeMismatch, Span: n.Cond.Span(), Message: "if condition must be Bool"}
		}
		if err := fc.checkBlock(n.Then); err != nil {
			return err
		}
		if n.Else != nil {
			if err := fc.checkBlock(n.Else); err != nil {
				return err
			}
		}
		return nil

	case *ast.While:
		t, err := fc.inferExpr(n.Cond)
		if err != nil {
			return err
		}
		if t != ast.TypeBool {
			return &Error{Kind: TypeMismatch, Span: n.Cond.Span(), Message: "while condition must be Bool"}
		}
		fc.loopDepth++
		err = fc.checkBlock(n.Body)
		fc.loopDepth--
		return err

	case *ast.For:
		if err := fc.v.checkName(n.Name, n.SpanVal); err != nil {
			return err
		}
		if err := fc.checkRangeBound(n.Start); err != nil {
			return err
		}
		if err := fc.checkRangeBound(n.End); err != nil {
			return err
		}
		fc.pushScope()
		fc.bind(n.Name, ast.TypeInteger, false)
		fc.loopDepth++
		for _, st := range n.Body.Stmts {
			if err := fc.checkStmt(st); err != nil {
				fc.loopDepth--
				fc.popScope()
				return err
			}
		}
		fc.loopDepth--
		fc.popScope()
		return nil

	case *ast.Match:
		return fc.checkMatch(n)

	case *ast.Break:
		if fc.loopDepth == 0 {
			return &Error{Kind: ForbiddenConstruct, Span: n.SpanVal, Message: "break outside a loop"}
		}
		return nil

	case *ast.Continue:
		if fc.loopDepth == 0 {
			return &Error{Kind: ForbiddenConstruct, Span: n.SpanVal, Message: "continue outside a loop"}
		}
		return nil

	case *ast.Return:
		if n.Value != nil {
			if _, err := fc.inferExpr(n.Value); err != nil {
				return err
			}
		}
		return nil

	case *ast.BlockStmt:
		return fc.checkBlock(n.Body)
	}
	return fmt.Errorf("validate: unhandled statement %T", st)
}

// checkRangeBound requires a for-range endpoint to be an Integer-typed
// expression the validator can constant-fold.
func (fc *funcChecker) checkRangeBound(e ast.Expr) error {
	t, err := fc.inferExpr(e)
	if err != nil {
		return err
	}
	if t != ast.TypeInteger {
		return &Error{Kind: TypeMismatch, Span: e.Span(), Message: "for-range bound must be Integer"}
	}
	if _, err := constfold.Eval(e, fc.v.consts); err != nil {
		return &Error{Kind: ForbiddenConstruct, Span: e.Span(),
			Message: fmt.Sprintf("for-range bound must be a compile-time constant: %v", err)}
	}
	return nil
}

func (fc *funcChecker) checkMatch(m *ast.Match) error {
	scrutType, err := fc.inferExpr(m.Scrutinee)
	if err != nil {
		return err
	}
	if len(m.Arms) == 0 {
		return &Error{Kind: ForbiddenConstruct, Span: m.SpanVal, Message: "match must have at least one arm"}
	}
	hasWildcard := false
	for _, arm := range m.Arms {
		if _, ok := arm.Pattern.(*ast.WildcardPattern); ok {
			hasWildcard = true
		}
		if err := fc.checkPattern(arm.Pattern, scrutType); err != nil {
			return err
		}
		fc.pushScope()
		if np, ok := arm.Pattern.(*ast.NamePattern); ok {
			if err := fc.v.checkName(np.Ident, np.SpanVal); err != nil {
				fc.popScope()
				return err
			}
			fc.bind(np.Ident, scrutType, false)
		}
		for _, st := range arm.Body.Stmts {
			if err := fc.checkStmt(st); err != nil {
				fc.popScope()
				return err
			}
		}
		fc.popScope()
	}
	if scrutType != ast.TypeBool && !hasWildcard {
		return &Error{Kind: ForbiddenConstruct, Span: m.SpanVal,
			Message: "match over a non-Bool scrutinee requires a final wildcard (_) arm"}
	}
	return nil
}

func (fc *funcChecker) checkPattern(p ast.Pattern, scrutType ast.Type) error {
	switch pat := p.(type) {
	case *ast.WildcardPattern, *ast.NamePattern:
		return nil
	case *ast.LitPattern:
		var litType ast.Type
		switch pat.Lit.Kind {
		case ast.LitBool:
			litType = ast.TypeBool
		case ast.LitInt:
			litType = ast.TypeInteger
		case ast.LitString:
			litType = ast.TypeString
		}
		if litType != scrutType {
			return &Error{Kind: TypeMismatch, Span: pat.Span(),
				Message: fmt.Sprintf("pattern type %s does not match scrutinee type %s", litType, scrutType)}
		}
		return nil
	}
	return fmt.Errorf("validate: unhandled pattern %T", p)
}

// inferExpr computes the static type of e, enforcing the subset's typing
// rules: arithmetic on Integer, logical operators on Bool, string `+`
// forbidden.
func (fc *funcChecker) inferExpr(e ast.Expr) (ast.Type, error) {
	switch n := e.(type) {
	case *ast.Lit:
		switch n.Kind {
		case ast.LitBool:
			return ast.TypeBool, nil
		case ast.LitInt:
			return ast.TypeInteger, nil
		case ast.LitString:
			return ast.TypeString, nil
		}
	case *ast.Name:
		if b, ok := fc.lookup(n.Ident); ok {
			return b.typ, nil
		}
		if v, ok := fc.v.consts[n.Ident]; ok {
			switch v.Kind {
			case ast.LitBool:
				return ast.TypeBool, nil
			case ast.LitInt:
				return ast.TypeInteger, nil
			case ast.LitString:
				return ast.TypeString, nil
			}
		}
		return ast.TypeUnknown, &Error{Kind: UnknownName, Span: n.SpanVal, Message: fmt.Sprintf("undeclared name %q", n.Ident)}
	case *ast.Paren:
		return fc.inferExpr(n.Inner)
	case *ast.Unary:
		t, err := fc.inferExpr(n.Operand)
		if err != nil {
			return ast.TypeUnknown, err
		}
		switch n.Op {
		case ast.UnaryNot:
			if t != ast.TypeBool {
				return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: n.SpanVal, Message: "! requires Bool"}
			}
			return ast.TypeBool, nil
		case ast.UnaryNeg:
			if t != ast.TypeInteger {
				return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: n.SpanVal, Message: "unary - requires Integer"}
			}
			return ast.TypeInteger, nil
		}
	case *ast.Binary:
		return fc.inferBinary(n)
	case *ast.Call:
		return fc.inferCall(n)
	case *ast.Range:
		return ast.TypeUnknown, &Error{Kind: ForbiddenConstruct, Span: n.SpanVal, Message: "range expressions are only allowed as a for-loop's iteration source"}
	}
	return ast.TypeUnknown, fmt.Errorf("validate: unhandled expression %T", e)
}

func (fc *funcChecker) inferBinary(n *ast.Binary) (ast.Type, error) {
	lt, err := fc.inferExpr(n.Left)
	if err != nil {
		return ast.TypeUnknown, err
	}
	rt, err := fc.inferExpr(n.Right)
	if err != nil {
		return ast.TypeUnknown, err
	}

	switch n.Op {
	case ast.OpAnd, ast.OpOr:
		if lt != ast.TypeBool || rt != ast.TypeBool {
			return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: n.SpanVal, Message: "&& and || require Bool operands"}
		}
		return ast.TypeBool, nil

	case ast.OpAdd:
		if lt == ast.TypeString && rt == ast.TypeString {
			return ast.TypeUnknown, &Error{Kind: ForbiddenConstruct, Span: n.SpanVal,
				Message: "string concatenation via + is forbidden; use the built-in concat(...)"}
		}
		if lt != ast.TypeInteger || rt != ast.TypeInteger {
			return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: n.SpanVal, Message: "+ requires Integer operands (use concat for String)"}
		}
		return ast.TypeInteger, nil

	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if lt != ast.TypeInteger || rt != ast.TypeInteger {
			return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: n.SpanVal, Message: "arithmetic operators require Integer operands"}
		}
		return ast.TypeInteger, nil

	case ast.OpEq, ast.OpNe:
		if lt != rt {
			return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: n.SpanVal, Message: "== and != require operands of the same type"}
		}
		return ast.TypeBool, nil

	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if lt != ast.TypeInteger || rt != ast.TypeInteger {
			return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: n.SpanVal, Message: "ordering comparisons require Integer operands"}
		}
		return ast.TypeBool, nil
	}
	return ast.TypeUnknown, fmt.Errorf("validate: unhandled binary operator")
}

func (fc *funcChecker) inferCall(n *ast.Call) (ast.Type, error) {
	if sig, ok := fc.v.funcs[n.Callee]; ok {
		if len(n.Args) != len(sig.fn.Params) {
			return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: n.SpanVal,
				Message: fmt.Sprintf("%q expects %d argument(s), got %d", n.Callee, len(sig.fn.Params), len(n.Args))}
		}
		for i, a := range n.Args {
			at, err := fc.inferExpr(a)
			if err != nil {
				return ast.TypeUnknown, err
			}
			want := sig.fn.Params[i].Type
			if at != want {
				return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: a.Span(),
					Message: fmt.Sprintf("argument %d to %q: expected %s, got %s", i+1, n.Callee, want, at)}
			}
		}
		return sig.fn.ReturnType, nil
	}

	bi, ok := builtins.Lookup(n.Callee)
	if !ok {
		return ast.TypeUnknown, &Error{Kind: UnknownName, Span: n.SpanVal,
			Message: fmt.Sprintf("%q is neither a user function nor a recognized built-in", n.Callee)}
	}
	if !bi.Variadic && len(n.Args) != bi.Arity {
		return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: n.SpanVal,
			Message: fmt.Sprintf("%q expects %d argument(s), got %d", n.Callee, bi.Arity, len(n.Args))}
	}
	if bi.Variadic && len(n.Args) < bi.Arity {
		return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: n.SpanVal,
			Message: fmt.Sprintf("%q expects at least %d argument(s), got %d", n.Callee, bi.Arity, len(n.Args))}
	}
	for i, a := range n.Args {
		at, err := fc.inferExpr(a)
		if err != nil {
			return ast.TypeUnknown, err
		}
		want := bi.ArgType(i)
		if want != ast.TypeUnknown && at != want {
			return ast.TypeUnknown, &Error{Kind: TypeMismatch, Span: a.Span(),
				Message: fmt.Sprintf("argument %d to %q: expected %s, got %s", i+1, n.Callee, want, at)}
		}
	}
	return bi.Return, nil
}
