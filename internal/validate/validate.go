// Package validate enforces the restricted-language rules that are not
// expressible in the grammar itself: recursion bounds, type constraints, and
// name rules.
package validate

import (
	"fmt"
	"sort"

	"github.com/rashlang/rashc/internal/ast"
	"github.com/rashlang/rashc/internal/builtins"
	"github.com/rashlang/rashc/internal/constfold"
	"github.com/rashlang/rashc/internal/span"
)

// funcSig is the validator's view of a function's interface.
type funcSig struct {
	fn     *ast.Function
	params map[string]ast.Type
}

// Validate checks prog against every restricted-language rule and returns
// the first violation found, or nil if prog is well-formed. Like every
// stage in this pipeline, validation halts at the first error.
func Validate(prog *ast.Program) error {
	v := &validator{
		consts:  constfold.Consts{},
		funcs:   map[string]*funcSig{},
		seenTop: map[string]span.Span{},
	}
	return v.run(prog)
}

type validator struct {
	consts  constfold.Consts
	funcs   map[string]*funcSig
	seenTop map[string]span.Span
	mainFn  *ast.Function
}

func (v *validator) run(prog *ast.Program) error {
	// Pass 1: collect top-level names, detect duplicates, seed constants.
	for _, item := range prog.Items {
		if prior, ok := v.seenTop[item.Name()]; ok {
			return &Error{Kind: DuplicateItem, Span: item.Span(),
				Message: fmt.Sprintf("%q is already declared at %s", item.Name(), prior)}
		}
		v.seenTop[item.Name()] = item.Span()
		if err := v.checkName(item.Name(), item.Span()); err != nil {
			return err
		}

		switch n := item.(type) {
		case *ast.Function:
			sig := &funcSig{fn: n, params: map[string]ast.Type{}}
			for _, p := range n.Params {
				if err := v.checkName(p.Name, p.Span); err != nil {
					return err
				}
				sig.params[p.Name] = p.Type
			}
			v.funcs[n.NameStr] = sig
			if n.NameStr == "main" {
				v.mainFn = n
			}
		case *ast.Const:
			if err := v.checkType(n.Type, n.SpanVal); err != nil {
				return err
			}
			val, err := constfold.Eval(n.Value, v.consts)
			if err != nil {
				return &Error{Kind: ForbiddenConstruct, Span: n.SpanVal,
					Message: fmt.Sprintf("top-level const %q must be a compile-time constant: %v", n.NameStr, err)}
			}
			if err := v.checkConstType(n, val); err != nil {
				return err
			}
			v.consts[n.NameStr] = val
		}
	}

	if v.mainFn == nil {
		return &Error{Kind: ForbiddenConstruct, Message: "program must declare exactly one top-level function named \"main\""}
	}
	if len(v.mainFn.Params) != 0 {
		return &Error{Kind: ForbiddenConstruct, Span: v.mainFn.SpanVal, Message: "\"main\" must take zero parameters"}
	}
	if v.mainFn.ReturnType != ast.TypeUnit {
		return &Error{Kind: ForbiddenConstruct, Span: v.mainFn.SpanVal, Message: "\"main\" must return Unit"}
	}

	// Pass 2: per-function body checks (types, scoping, loop/return placement).
	for _, item := range prog.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}
		if err := v.checkType(fn.ReturnType, fn.SpanVal); err != nil {
			return err
		}
		fc := &funcChecker{v: v, fn: fn, scopes: []map[string]binding{{}}}
		for _, p := range fn.Params {
			if err := v.checkType(p.Type, p.Span); err != nil {
				return err
			}
			fc.bind(p.Name, p.Type, false)
		}
		if err := fc.checkBlock(fn.Body); err != nil {
			return err
		}
	}

	// Pass 3: whole-program call graph must be acyclic (no recursion,
	// direct or transitive).
	if err := v.checkNoRecursion(); err != nil {
		return err
	}

	return nil
}

// checkName rejects a declared name (function, param, const) that collides
// with a shell keyword/special parameter or with the fixed built-in
// namespace: both would make the name ambiguous or unsafe once lowered into
// emitted shell text.
func (v *validator) checkName(name string, sp span.Span) error {
	if isShellReserved(name) {
		return &Error{Kind: ForbiddenConstruct, Span: sp,
			Message: fmt.Sprintf("%q is a shell-reserved word and cannot be used as a name", name)}
	}
	if _, ok := builtins.Lookup(name); ok {
		return &Error{Kind: ForbiddenConstruct, Span: sp,
			Message: fmt.Sprintf("%q collides with a built-in function and cannot be used as a name", name)}
	}
	return nil
}

func (v *validator) checkType(t ast.Type, sp span.Span) error {
	if t == ast.TypeUnknown {
		return &Error{Kind: ForbiddenConstruct, Span: sp,
			Message: "type is not one of Bool, Integer, String, Unit (Option<T> and Result<T,E> are recognized syntactically but not supported, and unknown type names are rejected)"}
	}
	return nil
}

func (v *validator) checkConstType(c *ast.Const, val constfold.Value) error {
	var ok bool
	switch c.Type {
	case ast.TypeBool:
		ok = val.Kind == ast.LitBool
	case ast.TypeInteger:
		ok = val.Kind == ast.LitInt
	case ast.TypeString:
		ok = val.Kind == ast.LitString
	}
	if !ok {
		return &Error{Kind: TypeMismatch, Span: c.SpanVal,
			Message: fmt.Sprintf("const %q declared as %s but initializer has a different type", c.NameStr, c.Type)}
	}
	return nil
}

// checkNoRecursion performs a topological check over the user-function call
// graph: no function may call itself, directly or transitively.
func (v *validator) checkNoRecursion() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var visit func(name string, via span.Span) error
	visit = func(name string, via span.Span) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return &Error{Kind: Recursion, Span: via, Message: fmt.Sprintf("call graph cycle involving %q", name)}
		}
		color[name] = gray
		sig, ok := v.funcs[name]
		if ok {
			for _, callee := range calledUserFuncs(sig.fn, v.funcs) {
				if err := visit(callee, via); err != nil {
					return err
				}
			}
		}
		color[name] = black
		return nil
	}
	names := make([]string, 0, len(v.funcs))
	for name := range v.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := visit(name, v.funcs[name].fn.SpanVal); err != nil {
			return err
		}
	}
	return nil
}

// calledUserFuncs collects the set of user-function names called anywhere in
// fn's body, using the shared work-stack AST visitor.
func calledUserFuncs(fn *ast.Function, funcs map[string]*funcSig) []string {
	seen := map[string]bool{}
	var out []string
	tmp := &ast.Program{Items: []ast.Item{fn}}
	ast.Visit(tmp, func(n any) {
		call, ok := n.(*ast.Call)
		if !ok {
			return
		}
		if _, isUser := funcs[call.Callee]; isUser && !seen[call.Callee] {
			seen[call.Callee] = true
			out = append(out, call.Callee)
		}
	})
	return out
}
