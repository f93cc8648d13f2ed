package lint

import (
	"strings"

	"github.com/rashlang/rashc/internal/makefile"
)

// MakefileRule is a pure check over a parsed Makefile AST.
type MakefileRule struct {
	ID       string
	Severity Severity
	Check    func(f *makefile.File) []Diagnostic
}

// MakefileRules is the fixed, closed-world rule table run by LintMakefile.
var MakefileRules = []MakefileRule{
	{ID: "MAKE001", Severity: Warn, Check: checkWildcardUnsorted},
	{ID: "MAKE002", Severity: Warn, Check: checkMissingPhony},
	{ID: "MAKE003", Severity: Warn, Check: checkShellDateInValue},
	{ID: "MAKE004", Severity: Warn, Check: checkRecipeMkdirWithoutP},
	{ID: "MAKE005", Severity: Warn, Check: checkRecipeRmWithoutF},
}

// LintMakefile parses src and runs every MakefileRule over it.
func LintMakefile(path, src string) (*Report, error) {
	f, err := makefile.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	report := &Report{Path: path}
	for _, rule := range MakefileRules {
		for _, d := range rule.Check(f) {
			d.Rule = rule.ID
			d.Severity = rule.Severity
			report.Diagnostics = append(report.Diagnostics, d)
		}
	}
	return report, nil
}

func walkMakefileNodes(nodes []makefile.Node, visit func(makefile.Node)) {
	for _, n := range nodes {
		visit(n)
		if c, ok := n.(*makefile.Conditional); ok {
			walkMakefileNodes(c.Then, visit)
			walkMakefileNodes(c.Else, visit)
		}
	}
}

// checkWildcardUnsorted flags a $(wildcard ...) call not wrapped in
// $(sort ...); directory iteration order is filesystem-dependent and
// non-deterministic across runs/machines.
func checkWildcardUnsorted(f *makefile.File) []Diagnostic {
	var out []Diagnostic
	walkMakefileNodes(f.Nodes, func(n makefile.Node) {
		va, ok := n.(*makefile.VarAssign)
		if !ok {
			return
		}
		idx := 0
		for {
			i := strings.Index(va.Value[idx:], "$(wildcard")
			if i == -1 {
				return
			}
			abs := idx + i
			if !isSortWrapped(va.Value, abs) {
				out = append(out, Diagnostic{
					Message: "$(wildcard ...) is not wrapped in $(sort ...); result order is filesystem-dependent",
					Line: va.Line, Fix: Safe, FixText: "wrap in $(sort ...)",
				})
			}
			idx = abs + len("$(wildcard")
		}
	})
	return out
}

// isSortWrapped reports whether the $(wildcard occurrence starting at idx
// is immediately preceded (ignoring whitespace/parens) by "$(sort".
func isSortWrapped(s string, idx int) bool {
	before := strings.TrimRight(s[:idx], " \t(")
	return strings.HasSuffix(before, "$(sort")
}

// checkMissingPhony flags a single-target rule whose target is one of the
// conventional convenience names in commonPhonyNames (all, clean, test, ...)
// and that isn't already declared .PHONY. The recipe is not inspected.
func checkMissingPhony(f *makefile.File) []Diagnostic {
	phony := map[string]bool{}
	walkMakefileNodes(f.Nodes, func(n makefile.Node) {
		if p, ok := n.(*makefile.PhonyDecl); ok {
			for _, name := range p.Names {
				phony[name] = true
			}
		}
	})
	commonPhonyNames := map[string]bool{
		"all": true, "clean": true, "test": true, "install": true,
		"fmt": true, "lint": true, "build": true, "run": true, "check": true,
	}
	var out []Diagnostic
	walkMakefileNodes(f.Nodes, func(n makefile.Node) {
		rule, ok := n.(*makefile.Rule)
		if !ok || len(rule.Targets) != 1 {
			return
		}
		target := rule.Targets[0]
		if phony[target] || !commonPhonyNames[target] {
			return
		}
		out = append(out, Diagnostic{
			Message: "target \"" + target + "\" looks like a phony convenience target but is not declared in .PHONY",
			Line: rule.Line, Fix: SafeWithAssumptions, FixText: "add to .PHONY",
		})
	})
	return out
}

// checkShellDateInValue flags a !=-assignment (GNU Make's shell-assignment
// operator) or a $(shell ...) call whose command text invokes `date`.
func checkShellDateInValue(f *makefile.File) []Diagnostic {
	var out []Diagnostic
	walkMakefileNodes(f.Nodes, func(n makefile.Node) {
		va, ok := n.(*makefile.VarAssign)
		if !ok {
			return
		}
		isShellAssign := va.Op == makefile.OpShell
		hasShellCall := strings.Contains(va.Value, "$(shell")
		if !isShellAssign && !hasShellCall {
			return
		}
		if strings.Contains(va.Value, "date") {
			out = append(out, Diagnostic{
				Message: "variable captures shell output invoking date; value is non-deterministic across runs",
				Line: va.Line, Fix: NoFix,
			})
		}
	})
	return out
}

// checkRecipeMkdirWithoutP flags a recipe line invoking mkdir without -p.
func checkRecipeMkdirWithoutP(f *makefile.File) []Diagnostic {
	return checkRecipeMissingFlag(f, "mkdir", "-p", "mkdir without -p is not idempotent")
}

// checkRecipeRmWithoutF flags a recipe line invoking rm without -f.
func checkRecipeRmWithoutF(f *makefile.File) []Diagnostic {
	return checkRecipeMissingFlag(f, "rm", "-f", "rm without -f is not idempotent")
}

func checkRecipeMissingFlag(f *makefile.File, cmd, flag, msg string) []Diagnostic {
	var out []Diagnostic
	walkMakefileNodes(f.Nodes, func(n makefile.Node) {
		rule, ok := n.(*makefile.Rule)
		if !ok {
			return
		}
		for _, rl := range rule.Recipe {
			fields := strings.Fields(rl.Text)
			if len(fields) == 0 || fields[0] != cmd {
				continue
			}
			has := false
			for _, a := range fields[1:] {
				if a == flag {
					has = true
					break
				}
			}
			if !has {
				out = append(out, Diagnostic{
					Message: msg,
					Line: rl.Line, Fix: SafeWithAssumptions, FixText: "add " + flag,
				})
			}
		}
	})
	return out
}
