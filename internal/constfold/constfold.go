// Package constfold evaluates the constant integer/bool/string
// sub-expressions the restricted language allows at compile time: literals,
// named constants, and closed arithmetic/comparison over them. Both the
// validator (to check a `for` range is foldable at all) and the lowering
// stage (to build a RangeSpec and detect overflow) share this single
// evaluator rather than each implementing their own partial copy.
package constfold

import (
	"fmt"
	"math"

	"github.com/rashlang/rashc/internal/ast"
)

// Value is a folded constant of one of the three primitive kinds.
type Value struct {
	Kind ast.LitKind
	Bool bool
	Int  int64 // widened; callers check int32 range themselves
	Str  string
}

// Consts maps top-level constant names to their already-folded value.
type Consts map[string]Value

// ErrNotConst is returned when an expression is not foldable (contains a
// name reference that is not a known constant, or a call).
var ErrNotConst = fmt.Errorf("expression is not a compile-time constant")

// ErrOverflow is returned when an intermediate or final integer result
// would not fit in the target 32-bit signed range.
type ErrOverflow struct {
	Op string
}

func (e *ErrOverflow) Error() string { return fmt.Sprintf("constant arithmetic overflow in %s", e.Op) }

// Eval folds e using consts for name lookups. Arithmetic is computed in
// int64 and every unary-minus and binary arithmetic result is checked
// against the int32 range, returning *ErrOverflow when it does not fit;
// callers that need the int32 result call Value.Int32().
func Eval(e ast.Expr, consts Consts) (Value, error) {
	switch n := e.(type) {
	case *ast.Lit:
		switch n.Kind {
		case ast.LitBool:
			return Value{Kind: ast.LitBool, Bool: n.Bool}, nil
		case ast.LitInt:
			return Value{Kind: ast.LitInt, Int: int64(n.Int)}, nil
		case ast.LitString:
			return Value{Kind: ast.LitString, Str: n.Str}, nil
		}
	case *ast.Name:
		if v, ok := consts[n.Ident]; ok {
			return v, nil
		}
		return Value{}, ErrNotConst
	case *ast.Paren:
		return Eval(n.Inner, consts)
	case *ast.Unary:
		v, err := Eval(n.Operand, consts)
		if err != nil {
			return Value{}, err
		}
		switch n.Op {
		case ast.UnaryNeg:
			if v.Kind != ast.LitInt {
				return Value{}, ErrNotConst
			}
			v.Int = -v.Int
			if v.Int < math.MinInt32 || v.Int > math.MaxInt32 {
				return Value{}, &ErrOverflow{Op: "unary -"}
			}
			return v, nil
		case ast.UnaryNot:
			if v.Kind != ast.LitBool {
				return Value{}, ErrNotConst
			}
			v.Bool = !v.Bool
			return v, nil
		}
	case *ast.Binary:
		l, err := Eval(n.Left, consts)
		if err != nil {
			return Value{}, err
		}
		r, err := Eval(n.Right, consts)
		if err != nil {
			return Value{}, err
		}
		return evalBinary(n.Op, l, r)
	}
	return Value{}, ErrNotConst
}

func evalBinary(op ast.BinaryOp, l, r Value) (Value, error) {
	switch op {
	case ast.OpAnd, ast.OpOr:
		if l.Kind != ast.LitBool || r.Kind != ast.LitBool {
			return Value{}, ErrNotConst
		}
		if op == ast.OpAnd {
			return Value{Kind: ast.LitBool, Bool: l.Bool && r.Bool}, nil
		}
		return Value{Kind: ast.LitBool, Bool: l.Bool || r.Bool}, nil
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return evalCompare(op, l, r)
	}
	if l.Kind != ast.LitInt || r.Kind != ast.LitInt {
		return Value{}, ErrNotConst
	}
	var out int64
	switch op {
	case ast.OpAdd:
		out = l.Int + r.Int
	case ast.OpSub:
		out = l.Int - r.Int
	case ast.OpMul:
		out = l.Int * r.Int
	case ast.OpDiv:
		if r.Int == 0 {
			return Value{}, fmt.Errorf("division by zero in constant expression")
		}
		out = l.Int / r.Int
	case ast.OpMod:
		if r.Int == 0 {
			return Value{}, fmt.Errorf("modulo by zero in constant expression")
		}
		out = l.Int % r.Int
	default:
		return Value{}, ErrNotConst
	}
	if out < math.MinInt32 || out > math.MaxInt32 {
		return Value{}, &ErrOverflow{Op: "integer arithmetic"}
	}
	return Value{Kind: ast.LitInt, Int: out}, nil
}

func evalCompare(op ast.BinaryOp, l, r Value) (Value, error) {
	if l.Kind != r.Kind {
		return Value{}, ErrNotConst
	}
	var cmp int
	switch l.Kind {
	case ast.LitInt:
		switch {
		case l.Int < r.Int:
			cmp = -1
		case l.Int > r.Int:
			cmp = 1
		}
	case ast.LitString:
		switch {
		case l.Str < r.Str:
			cmp = -1
		case l.Str > r.Str:
			cmp = 1
		}
	case ast.LitBool:
		if l.Bool == r.Bool {
			cmp = 0
		} else if !l.Bool && r.Bool {
			cmp = -1
		} else {
			cmp = 1
		}
	}
	var b bool
	switch op {
	case ast.OpEq:
		b = cmp == 0
	case ast.OpNe:
		b = cmp != 0
	case ast.OpLt:
		b = cmp < 0
	case ast.OpLe:
		b = cmp <= 0
	case ast.OpGt:
		b = cmp > 0
	case ast.OpGe:
		b = cmp >= 0
	}
	return Value{Kind: ast.LitBool, Bool: b}, nil
}

// Int32 returns v as an int32, assuming the caller already knows v.Kind is
// LitInt and fits (Eval never returns an out-of-range LitInt).
func (v Value) Int32() int32 { return int32(v.Int) }
