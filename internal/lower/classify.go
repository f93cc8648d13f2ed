package lower

import (
	"github.com/rashlang/rashc/internal/ast"
	"github.com/rashlang/rashc/internal/ir"
)

// classifyReturnKinds decides, once per function, how it communicates its
// result to a caller. A function declared to return Unit always
// communicates nothing (ir.Unit). A function declared to return Integer or
// String always communicates through stdout, since only a boolean-shaped
// result can ride an exit status (ir.Value). A function declared to return
// Bool rides the exit status (ir.Predicate) unless some call site uses its
// result as a plain value (bound to a let, passed as an argument, compared,
// etc.), in which case every call to it must agree and it becomes ir.Value.
func classifyReturnKinds(prog *ast.Program) map[string]ir.ReturnKind {
	kinds := map[string]ir.ReturnKind{}
	boolFuncs := map[string]bool{}

	for _, item := range prog.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}
		switch fn.ReturnType {
		case ast.TypeUnit:
			kinds[fn.NameStr] = ir.Unit
		case ast.TypeBool:
			boolFuncs[fn.NameStr] = true
			kinds[fn.NameStr] = ir.Predicate // provisional; flipped below if misused
		default:
			kinds[fn.NameStr] = ir.Value
		}
	}
	if len(boolFuncs) == 0 {
		return kinds
	}

	// valuePositionCalls collects every *ast.Call reachable from a non-
	// condition context: every expression node except the direct Cond of an
	// If/While. We over-approximate by visiting the whole program and
	// excluding exactly the nodes that are a condition expression itself.
	conditionExprs := map[ast.Expr]bool{}
	for _, item := range prog.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}
		markConditions(fn.Body, conditionExprs)
	}

	for _, item := range prog.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}
		tmp := &ast.Program{Items: []ast.Item{fn}}
		ast.Visit(tmp, func(n any) {
			call, ok := n.(*ast.Call)
			if !ok {
				return
			}
			if !boolFuncs[call.Callee] {
				return
			}
			if !conditionExprs[call] {
				kinds[call.Callee] = ir.Value
			}
		})
	}
	return kinds
}

// markConditions marks every expression that sits directly in If/While
// condition position (unwrapping a leading logical-not) so classification
// can tell a predicate use from a value use.
func markConditions(b *ast.Block, marks map[ast.Expr]bool) {
	for _, st := range b.Stmts {
		switch n := st.(type) {
		case *ast.If:
			markCond(n.Cond, marks)
			markConditions(n.Then, marks)
			if n.Else != nil {
				markConditions(n.Else, marks)
			}
		case *ast.While:
			markCond(n.Cond, marks)
			markConditions(n.Body, marks)
		case *ast.For:
			markConditions(n.Body, marks)
		case *ast.Match:
			for _, arm := range n.Arms {
				markConditions(arm.Body, marks)
			}
		case *ast.BlockStmt:
			markConditions(n.Body, marks)
		}
	}
}

func markCond(e ast.Expr, marks map[ast.Expr]bool) {
	marks[e] = true
	if u, ok := e.(*ast.Unary); ok && u.Op == ast.UnaryNot {
		markCond(u.Operand, marks)
	}
}
