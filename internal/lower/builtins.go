package lower

import (
	"fmt"

	"github.com/rashlang/rashc/internal/ast"
	"github.com/rashlang/rashc/internal/builtins"
	"github.com/rashlang/rashc/internal/ir"
)

// lowerBuiltinCommand produces the canonical Exec shape for a built-in call
// used as a bare statement.
func (l *lowerer) lowerBuiltinCommand(call *ast.Call) (ir.Command, error) {
	bi, ok := builtins.Lookup(call.Callee)
	if !ok {
		return ir.Command{}, &Error{Kind: UnknownBuiltin, Span: call.SpanVal, Message: fmt.Sprintf("%q is not a registered built-in", call.Callee)}
	}
	if err := l.checkArity(call, bi); err != nil {
		return ir.Command{}, err
	}
	args, err := l.lowerArgs(call.Args)
	if err != nil {
		return ir.Command{}, err
	}

	switch call.Callee {
	case "echo", "println!":
		return ir.Command{Name: "printf", Args: []ir.ShellValue{litStr("%s\n"), args[0]}}, nil
	case "cat":
		return ir.Command{Name: "cat", Args: args}, nil
	case "mkdir_p":
		return ir.Command{Name: "mkdir", Args: []ir.ShellValue{litStr("-p"), args[0]}}, nil
	case "rm_f":
		return ir.Command{Name: "rm", Args: []ir.ShellValue{litStr("-f"), args[0]}}, nil
	case "cp":
		return ir.Command{Name: "cp", Args: args}, nil
	case "mv":
		return ir.Command{Name: "mv", Args: args}, nil
	case "chmod":
		return ir.Command{Name: "chmod", Args: args}, nil
	case "fs_write_file":
		return ir.Command{Name: "printf", Args: []ir.ShellValue{litStr("%s"), args[1]}, Redirs: []ir.Redirect{{Op: ">", Target: args[0]}}}, nil
	case "exit":
		if _, err := literalIntArg(call, 0); err != nil {
			return ir.Command{}, err
		}
		return ir.Command{Name: "exit", Args: args}, nil
	case "path_exists", "file_exists", "command_exists", "fs_exists", "string_contains":
		return ir.Command{}, &Error{Kind: ReturnKindMismatch, Span: call.SpanVal,
			Message: fmt.Sprintf("%q is a predicate and cannot be used as a bare statement", call.Callee)}
	default:
		return ir.Command{}, &Error{Kind: ReturnKindMismatch, Span: call.SpanVal,
			Message: fmt.Sprintf("%q produces a value and cannot be used as a bare statement", call.Callee)}
	}
}

// lowerBuiltinValue produces the ShellValue shape for a built-in call used
// in value position.
func (l *lowerer) lowerBuiltinValue(call *ast.Call) (ir.ShellValue, error) {
	bi, ok := builtins.Lookup(call.Callee)
	if !ok {
		return nil, &Error{Kind: UnknownBuiltin, Span: call.SpanVal, Message: fmt.Sprintf("%q is not a registered built-in", call.Callee)}
	}
	if err := l.checkArity(call, bi); err != nil {
		return nil, err
	}
	args, err := l.lowerArgs(call.Args)
	if err != nil {
		return nil, err
	}

	switch call.Callee {
	case "env":
		name, err := literalStringArg(call, 0)
		if err != nil {
			return nil, err
		}
		return ir.VarValue{Name: name, Prov: ir.NeedsQuote}, nil
	case "env_var_or":
		name, err := literalStringArg(call, 0)
		if err != nil {
			return nil, err
		}
		return ir.ParamExpandValue{Name: name, Default: args[1], Prov: ir.NeedsQuote}, nil
	case "arg":
		n, err := literalIntArg(call, 0)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, &Error{Kind: ArgumentArity, Span: call.SpanVal, Message: "arg(n) requires n >= 1"}
		}
		return ir.VarValue{Name: fmt.Sprintf("%d", n), Prov: ir.NeedsQuote}, nil
	case "args":
		return ir.VarValue{Name: "@", Prov: ir.NeedsQuote}, nil
	case "arg_count":
		return ir.VarValue{Name: "#", Prov: ir.NeedsQuote}, nil
	case "exit_code":
		return ir.VarValue{Name: "?", Prov: ir.NeedsQuote}, nil
	case "concat":
		return ir.ConcatValue{Parts: fuseConcatParts(args), Prov: ir.NeedsQuote}, nil
	case "string_trim":
		return ir.ParamExpandValue{Name: "__trim__", Default: args[0], Prov: ir.NeedsQuote}, nil
	case "string_len":
		return ir.StrLenValue{Value: args[0], Prov: ir.NeedsQuote}, nil
	case "fs_read_file":
		return ir.CommandSubstValue{Cmd: ir.Command{Name: "cat", Args: []ir.ShellValue{args[0]}}, Prov: ir.NeedsQuote}, nil
	case "path_exists", "file_exists", "command_exists", "fs_exists", "string_contains":
		cond, _, err := l.lowerPredicateBuiltinCond(call)
		if err != nil {
			return nil, err
		}
		return ir.PredicateCallValue{Cond: cond, Prov: ir.NeedsQuote}, nil
	default:
		return nil, &Error{Kind: ReturnKindMismatch, Span: call.SpanVal,
			Message: fmt.Sprintf("%q cannot be used as a value", call.Callee)}
	}
}

// lowerPredicateBuiltinCond lowers a Bool-returning built-in to its
// canonical Cond shape, for both direct condition position and
// PredicateCallValue wrapping.
func (l *lowerer) lowerPredicateBuiltinCond(call *ast.Call) (ir.Cond, bool, error) {
	bi, ok := builtins.Lookup(call.Callee)
	if !ok {
		return nil, true, &Error{Kind: UnknownBuiltin, Span: call.SpanVal, Message: fmt.Sprintf("%q is not a registered built-in", call.Callee)}
	}
	if bi.Return != ast.TypeBool {
		return nil, false, nil
	}
	if err := l.checkArity(call, bi); err != nil {
		return nil, true, err
	}
	args, err := l.lowerArgs(call.Args)
	if err != nil {
		return nil, true, err
	}

	switch call.Callee {
	case "path_exists", "fs_exists":
		return ir.CommandCond{Cmd: ir.Command{Name: "test", Args: []ir.ShellValue{litStr("-e"), args[0]}}}, true, nil
	case "file_exists":
		return ir.CommandCond{Cmd: ir.Command{Name: "test", Args: []ir.ShellValue{litStr("-f"), args[0]}}}, true, nil
	case "command_exists":
		return ir.CommandCond{Cmd: ir.Command{
			Name: "command",
			Args: []ir.ShellValue{litStr("-v"), args[0]},
			Redirs: []ir.Redirect{
				{Op: ">", Target: litStr("/dev/null")},
				{Op: "2>&1"},
			},
		}}, true, nil
	case "string_contains":
		return ir.CaseCond{
			Scrutinee: args[0],
			Pattern:   ir.CasePattern{Alts: []ir.CasePatternAlt{{Needle: args[1]}}},
		}, true, nil
	}
	return nil, false, nil
}

func litStr(s string) ir.ShellValue {
	return ir.LitValue{Lit: ir.Literal{Str: s}, Prov: ir.Constant}
}

func (l *lowerer) checkArity(call *ast.Call, bi builtins.Builtin) error {
	if bi.Variadic {
		if len(call.Args) < bi.Arity {
			return &Error{Kind: ArgumentArity, Span: call.SpanVal,
				Message: fmt.Sprintf("%q expects at least %d argument(s), got %d", call.Callee, bi.Arity, len(call.Args))}
		}
		return nil
	}
	if len(call.Args) != bi.Arity {
		return &Error{Kind: ArgumentArity, Span: call.SpanVal,
			Message: fmt.Sprintf("%q expects %d argument(s), got %d", call.Callee, bi.Arity, len(call.Args))}
	}
	return nil
}

// literalStringArg requires call's i'th argument to be a string literal,
// returning its raw text (used for env/env_var_or's variable name, which
// must be a plain identifier known at lowering time).
func literalStringArg(call *ast.Call, i int) (string, error) {
	lit, ok := call.Args[i].(*ast.Lit)
	if !ok || lit.Kind != ast.LitString {
		return "", &Error{Kind: ArgumentArity, Span: call.Args[i].Span(),
			Message: fmt.Sprintf("%q requires a string literal argument", call.Callee)}
	}
	return lit.Str, nil
}

// literalIntArg requires call's i'th argument to be an integer literal,
// returning its value (used for arg(n) and exit(code), both of which the
// registry requires a literal for).
func literalIntArg(call *ast.Call, i int) (int32, error) {
	lit, ok := call.Args[i].(*ast.Lit)
	if !ok || lit.Kind != ast.LitInt {
		return 0, &Error{Kind: ArgumentArity, Span: call.Args[i].Span(),
			Message: fmt.Sprintf("%q requires an integer literal argument", call.Callee)}
	}
	return lit.Int, nil
}

// fuseConcatParts merges adjacent Constant literals so Concat emits the
// fewest possible quoted segments.
func fuseConcatParts(parts []ir.ShellValue) []ir.ShellValue {
	var out []ir.ShellValue
	for _, p := range parts {
		lit, ok := p.(ir.LitValue)
		if !ok || lit.Prov != ir.Constant {
			out = append(out, p)
			continue
		}
		if n := len(out); n > 0 {
			if prev, ok := out[n-1].(ir.LitValue); ok && prev.Prov == ir.Constant {
				out[n-1] = ir.LitValue{Lit: ir.Literal{Str: prev.Lit.Str + lit.Lit.Str}, Prov: ir.Constant}
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
