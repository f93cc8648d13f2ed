package rash

import (
	"strings"
	"testing"
)

func TestTranspileDefaultDialect(t *testing.T) {
	res, err := Transpile(`fn main() { echo("hi"); }`, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Dialect != POSIX {
		t.Fatalf("expected posix default, got %q", res.Dialect)
	}
	if !strings.Contains(res.Script, "printf '%s\\n' hi") {
		t.Fatalf("expected lowered echo, got:\n%s", res.Script)
	}
}

func TestTranspileBashDialect(t *testing.T) {
	res, err := Transpile(`fn main() {}`, Config{Dialect: Bash})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Dialect != Bash {
		t.Fatalf("expected bash, got %q", res.Dialect)
	}
}

func TestLintSurfacesMkdirDiagnostic(t *testing.T) {
	report, err := Lint("mkdir /tmp/x\n", SourceShell, LintOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Diagnostics) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
}

func TestPurifyAppliesSafeFix(t *testing.T) {
	rewrite, err := Purify("mkdir /tmp/x\n", SourceShell, PurifyOptions{ApplySafeFixes: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rewrite.Text, "-p") {
		t.Fatalf("expected -p fix applied, got:\n%s", rewrite.Text)
	}
}

func TestTranspilePropagatesErrors(t *testing.T) {
	if _, err := Transpile(`fn main( {`, Config{}); err == nil {
		t.Fatal("expected a parse error to propagate")
	}
}
