package makefile

import (
	"strings"
	"testing"
)

func TestStripShellComment(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"foo", "foo"},
		{"foo # bar", "foo "},
		{`foo '# bar'`, `foo '# bar'`},
		{`foo "# bar"`, `foo "# bar"`},
	} {
		if got := stripShellComment(tc.in); got != tc.want {
			t.Errorf("stripShellComment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseSimpleAssign(t *testing.T) {
	f, err := Parse(strings.NewReader("CC := gcc\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(f.Nodes))
	}
	va, ok := f.Nodes[0].(*VarAssign)
	if !ok || va.Name != "CC" || va.Op != OpSimple || va.Value != "gcc" {
		t.Fatalf("unexpected node: %+v", f.Nodes[0])
	}
}

func TestParseRuleWithRecipe(t *testing.T) {
	src := "all: main.o\n\t@echo building\n\trm -f out\n"
	f, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rule, ok := f.Nodes[0].(*Rule)
	if !ok {
		t.Fatalf("expected a Rule node, got %T", f.Nodes[0])
	}
	if len(rule.Targets) != 1 || rule.Targets[0] != "all" {
		t.Fatalf("unexpected targets: %v", rule.Targets)
	}
	if len(rule.Prereqs) != 1 || rule.Prereqs[0] != "main.o" {
		t.Fatalf("unexpected prereqs: %v", rule.Prereqs)
	}
	if len(rule.Recipe) != 2 {
		t.Fatalf("expected 2 recipe lines, got %d", len(rule.Recipe))
	}
	if !rule.Recipe[0].Silent || rule.Recipe[0].Text != "echo building" {
		t.Fatalf("unexpected first recipe line: %+v", rule.Recipe[0])
	}
}

func TestParsePreservesNestedExpansionText(t *testing.T) {
	src := "SRCS := $(sort $(wildcard *.c))\n"
	f, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	va := f.Nodes[0].(*VarAssign)
	if va.Value != "$(sort $(wildcard *.c))" {
		t.Fatalf("expected nested expansion preserved verbatim, got %q", va.Value)
	}
}

func TestParseConditional(t *testing.T) {
	src := "ifeq ($(OS),Linux)\nLIB := so\nelse\nLIB := dylib\nendif\n"
	f, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cond, ok := f.Nodes[0].(*Conditional)
	if !ok {
		t.Fatalf("expected Conditional, got %T", f.Nodes[0])
	}
	if cond.Kind != "ifeq" {
		t.Fatalf("unexpected kind: %s", cond.Kind)
	}
	if len(cond.Then) != 1 || len(cond.Else) != 1 {
		t.Fatalf("expected one node per branch, got then=%d else=%d", len(cond.Then), len(cond.Else))
	}
}

func TestParsePhony(t *testing.T) {
	f, err := Parse(strings.NewReader(".PHONY: clean all\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, ok := f.Nodes[0].(*PhonyDecl)
	if !ok || len(p.Names) != 2 {
		t.Fatalf("unexpected node: %+v", f.Nodes[0])
	}
}
