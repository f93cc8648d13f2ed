package pipeline

import (
	"strings"
	"testing"

	"github.com/rashlang/rashc/internal/dialect"
)

func TestTranspileDefaultProducesPOSIXScript(t *testing.T) {
	res, err := Transpile(`fn main() { echo("hi"); }`, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Dialect != dialect.POSIX {
		t.Fatalf("expected default dialect posix, got %q", res.Dialect)
	}
	if !strings.HasPrefix(res.Script, "#!/bin/sh\n") {
		t.Fatalf("expected posix shebang, got:\n%s", res.Script)
	}
	if !strings.Contains(res.Script, "printf '%s\\n' hi") {
		t.Fatalf("expected echo lowered to printf, got:\n%s", res.Script)
	}
}

func TestTranspileBashDialectUsesDoubleBracketsAndPipefail(t *testing.T) {
	res, err := Transpile(`fn main() { let n = 3; if n > 0 { echo("pos"); } }`, Config{Dialect: dialect.Bash})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.Script, "#!/bin/bash\n") {
		t.Fatalf("expected bash shebang, got:\n%s", res.Script)
	}
	if !strings.Contains(res.Script, "set -o pipefail") {
		t.Fatalf("expected pipefail addendum, got:\n%s", res.Script)
	}
	if !strings.Contains(res.Script, "[[") {
		t.Fatalf("expected [[ ]] test form under bash dialect, got:\n%s", res.Script)
	}
}

func TestTranspileRejectsUnknownDialect(t *testing.T) {
	_, err := Transpile(`fn main() {}`, Config{Dialect: "zsh"})
	if err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestTranspileRejectsUnknownVerifyLevel(t *testing.T) {
	_, err := Transpile(`fn main() {}`, Config{VerifyLevel: "ludicrous"})
	if err == nil {
		t.Fatal("expected error for unknown verify level")
	}
}

func TestTranspileVerifyNoneSkipsVerification(t *testing.T) {
	res, err := Transpile(`fn main() { echo("hi"); }`, Config{VerifyLevel: VerifyNone})
	if err != nil {
		t.Fatalf("unexpected error under verify_level none: %v", err)
	}
	if res == nil || res.Script == "" {
		t.Fatal("expected a rendered script")
	}
}

func TestTranspileParanoidReparsesAsValidPOSIX(t *testing.T) {
	res, err := Transpile(`fn main() { for i in 0..3 { echo(i); } }`, Config{VerifyLevel: VerifyParanoid})
	if err != nil {
		t.Fatalf("unexpected error under verify_level paranoid: %v", err)
	}
	if err := assertParsesAsPOSIX(res.Script); err != nil {
		t.Fatalf("paranoid output should already be valid POSIX, got parse error: %v", err)
	}
}

func TestTranspileOptimizeFoldsConstantArithmetic(t *testing.T) {
	res, err := Transpile(`fn main() { let x = 2 + 3 * 4; echo(x); }`, Config{Optimize: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Script, "x=14\n") {
		t.Fatalf("expected constant-folded assignment x=14, got:\n%s", res.Script)
	}
}

func TestTranspileWithoutOptimizeKeepsArithmeticSymbolic(t *testing.T) {
	res, err := Transpile(`fn main() { let x = 2 + 3 * 4; echo(x); }`, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(res.Script, "x=14\n") {
		t.Fatalf("did not expect constant folding without Optimize, got:\n%s", res.Script)
	}
}

func TestTranspilePropagatesParseErrors(t *testing.T) {
	if _, err := Transpile(`fn main( {`, Config{}); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestTranspilePropagatesValidationErrors(t *testing.T) {
	if _, err := Transpile(`fn helper() {}`, Config{}); err == nil {
		t.Fatal("expected a validation error for a program with no main")
	}
}

func TestLintShellFiltersByRule(t *testing.T) {
	report, err := Lint("mkdir /tmp/x\n", SourceShell, LintOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Diagnostics) == 0 {
		t.Fatal("expected at least one diagnostic for mkdir without -p")
	}
	rule := report.Diagnostics[0].Rule
	filtered, err := Lint("mkdir /tmp/x\n", SourceShell, LintOptions{Rules: []string{"nonexistent-rule"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics once filtered to an unrelated rule, got %v", filtered.Diagnostics)
	}
	kept, err := Lint("mkdir /tmp/x\n", SourceShell, LintOptions{Rules: []string{rule}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kept.Diagnostics) == 0 {
		t.Fatalf("expected the diagnostic to survive filtering to its own rule %q", rule)
	}
}

func TestLintRejectsAssumptionFixesWithoutSafeFixes(t *testing.T) {
	_, err := Lint("mkdir /tmp/x\n", SourceShell, LintOptions{ApplyAssumptionFixes: true})
	if err == nil {
		t.Fatal("expected error when apply_assumption_fixes is set without apply_safe_fixes")
	}
}

func TestPurifyShellAppliesRewriteWhenSafeFixesRequested(t *testing.T) {
	rewrite, err := Purify("mkdir /tmp/x\n", SourceShell, PurifyOptions{ApplySafeFixes: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rewrite.Text, "-p") {
		t.Fatalf("expected purified text to add -p, got:\n%s", rewrite.Text)
	}
}

func TestPurifyShellPreviewLeavesSourceUntouchedWithoutSafeFixes(t *testing.T) {
	src := "mkdir /tmp/x\n"
	rewrite, err := Purify(src, SourceShell, PurifyOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rewrite.Text != src {
		t.Fatalf("expected unmodified text in preview mode, got:\n%s", rewrite.Text)
	}
}

func TestPurifyMakefileNotesDescribeUnresolvedDateCapture(t *testing.T) {
	src := "BUILD_DATE := $(shell date)\n\nall:\n\techo $(BUILD_DATE)\n"
	rewrite, err := Purify(src, SourceMakefile, PurifyOptions{ApplySafeFixes: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rewrite.Notes) == 0 {
		t.Fatal("expected a note describing the unresolved date capture")
	}
}
