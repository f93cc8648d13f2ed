// Package builtins is the closed, compile-time-constant registry of
// built-in function calls the lowering stage recognizes. Any call whose
// callee is neither a user function nor a name in this registry fails
// validation with UnknownName.
package builtins

import "github.com/rashlang/rashc/internal/ast"

// Builtin describes one registry entry: its arity/argument kinds and its
// result type. ArgTypes is consulted positionally; for a Variadic builtin the
// last entry in ArgTypes applies to every argument at or past Arity.
type Builtin struct {
	Name     string
	Arity    int // minimum argument count
	Variadic bool
	ArgTypes []ast.Type
	Return   ast.Type
}

// ArgType returns the expected type of the i'th (0-indexed) argument, or
// TypeUnknown if i has no fixed expectation (never the case in this
// registry, but kept for callers that index defensively).
func (b Builtin) ArgType(i int) ast.Type {
	if i < len(b.ArgTypes) {
		return b.ArgTypes[i]
	}
	if b.Variadic && len(b.ArgTypes) > 0 {
		return b.ArgTypes[len(b.ArgTypes)-1]
	}
	return ast.TypeUnknown
}

var registry = map[string]Builtin{
	"echo":             {Name: "echo", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeUnit},
	"println!":         {Name: "println!", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeUnit},
	"cat":              {Name: "cat", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeUnit},
	"env":              {Name: "env", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeString},
	"env_var_or":       {Name: "env_var_or", Arity: 2, ArgTypes: []ast.Type{ast.TypeString, ast.TypeString}, Return: ast.TypeString},
	"arg":              {Name: "arg", Arity: 1, ArgTypes: []ast.Type{ast.TypeInteger}, Return: ast.TypeString},
	"args":             {Name: "args", Arity: 0, Return: ast.TypeString},
	"arg_count":        {Name: "arg_count", Arity: 0, Return: ast.TypeInteger},
	"exit_code":        {Name: "exit_code", Arity: 0, Return: ast.TypeInteger},
	"mkdir_p":          {Name: "mkdir_p", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeUnit},
	"rm_f":             {Name: "rm_f", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeUnit},
	"cp":               {Name: "cp", Arity: 2, ArgTypes: []ast.Type{ast.TypeString, ast.TypeString}, Return: ast.TypeUnit},
	"mv":               {Name: "mv", Arity: 2, ArgTypes: []ast.Type{ast.TypeString, ast.TypeString}, Return: ast.TypeUnit},
	"chmod":            {Name: "chmod", Arity: 2, ArgTypes: []ast.Type{ast.TypeString, ast.TypeString}, Return: ast.TypeUnit},
	"path_exists":      {Name: "path_exists", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeBool},
	"file_exists":      {Name: "file_exists", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeBool},
	"command_exists":   {Name: "command_exists", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeBool},
	"concat":           {Name: "concat", Arity: 2, Variadic: true, ArgTypes: []ast.Type{ast.TypeString, ast.TypeString}, Return: ast.TypeString},
	"string_trim":      {Name: "string_trim", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeString},
	"string_contains":  {Name: "string_contains", Arity: 2, ArgTypes: []ast.Type{ast.TypeString, ast.TypeString}, Return: ast.TypeBool},
	"string_len":       {Name: "string_len", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeInteger},
	"fs_exists":        {Name: "fs_exists", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeBool},
	"fs_read_file":     {Name: "fs_read_file", Arity: 1, ArgTypes: []ast.Type{ast.TypeString}, Return: ast.TypeString},
	"fs_write_file":    {Name: "fs_write_file", Arity: 2, ArgTypes: []ast.Type{ast.TypeString, ast.TypeString}, Return: ast.TypeUnit},
	"exit":             {Name: "exit", Arity: 1, ArgTypes: []ast.Type{ast.TypeInteger}, Return: ast.TypeUnit},
}

// Lookup returns the registry entry for name, if any.
func Lookup(name string) (Builtin, bool) {
	b, ok := registry[name]
	return b, ok
}

// Names returns every registered built-in name in a fixed, deterministic
// order (the order of the order table below, not alphabetical), for callers
// that need to enumerate the closed set.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, n := range order {
		out = append(out, n)
	}
	return out
}

// order fixes enumeration order so callers never iterate the map directly:
// this table is a closed-world constant, not an unordered set.
var order = []string{
	"echo", "println!", "cat", "env", "env_var_or", "arg", "args", "arg_count",
	"exit_code", "mkdir_p", "rm_f", "cp", "mv", "chmod", "path_exists",
	"file_exists", "command_exists", "concat", "string_trim", "string_contains",
	"string_len", "fs_exists", "fs_read_file", "fs_write_file", "exit",
}
