package lower

import (
	"github.com/rashlang/rashc/internal/ast"
	"github.com/rashlang/rashc/internal/builtins"
)

// typeScope re-derives static types during lowering, scoped exactly like the
// validator's binding stack (internal/validate/scope.go): lowering runs on
// an already-validated program, so this never rejects anything, it only
// needs enough information to pick the correct POSIX comparison operator
// (string `=`/`!=` vs numeric `-eq`/`-ne`) for `==`/`!=`, since that decision
// is erased once operands become plain ShellValues.
type typeScope struct {
	scopes []map[string]ast.Type
}

func newTypeScope() *typeScope { return &typeScope{scopes: []map[string]ast.Type{{}}} }

func (s *typeScope) push() { s.scopes = append(s.scopes, map[string]ast.Type{}) }
func (s *typeScope) pop()  { s.scopes = s.scopes[:len(s.scopes)-1] }

func (s *typeScope) bind(name string, t ast.Type) {
	s.scopes[len(s.scopes)-1][name] = t
}

func (s *typeScope) lookup(name string) (ast.Type, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if t, ok := s.scopes[i][name]; ok {
			return t, true
		}
	}
	return ast.TypeUnknown, false
}

// typeOf infers e's static type using the current scope, the lowerer's
// top-level consts, and user/builtin function signatures. Every expression
// shape here has already passed validate.Validate, so unresolvable cases
// fall back to TypeUnknown rather than erroring.
func (l *lowerer) typeOf(e ast.Expr) ast.Type {
	switch n := e.(type) {
	case *ast.Lit:
		switch n.Kind {
		case ast.LitBool:
			return ast.TypeBool
		case ast.LitInt:
			return ast.TypeInteger
		default:
			return ast.TypeString
		}
	case *ast.Name:
		if t, ok := l.types.lookup(n.Ident); ok {
			return t
		}
		if _, ok := l.consts[n.Ident]; ok {
			return l.constType(n.Ident)
		}
		return ast.TypeUnknown
	case *ast.Paren:
		return l.typeOf(n.Inner)
	case *ast.Unary:
		switch n.Op {
		case ast.UnaryNot:
			return ast.TypeBool
		default:
			return ast.TypeInteger
		}
	case *ast.Binary:
		switch n.Op {
		case ast.OpAnd, ast.OpOr, ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
			return ast.TypeBool
		default:
			return ast.TypeInteger
		}
	case *ast.Call:
		if fn, ok := l.funcs[n.Callee]; ok {
			return fn.ReturnType
		}
		if bi, ok := builtins.Lookup(n.Callee); ok {
			return bi.Return
		}
	}
	return ast.TypeUnknown
}

func (l *lowerer) constType(name string) ast.Type {
	switch l.consts[name].Kind {
	case ast.LitBool:
		return ast.TypeBool
	case ast.LitInt:
		return ast.TypeInteger
	default:
		return ast.TypeString
	}
}
