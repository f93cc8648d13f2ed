package pipeline

import (
	"fmt"

	"github.com/rashlang/rashc/internal/lint"
)

// SourceKind tells Lint/Purify which front-end to parse source with:
// shell source goes through internal/shellfront (mvdan.cc/sh/v3/syntax),
// Makefile source through internal/makefile's hand-written parser.
type SourceKind int

const (
	SourceShell SourceKind = iota
	SourceMakefile
)

// OutputFormat selects how a CLI caller renders a LintOptions-driven
// Report; Lint itself always returns the same *lint.Report regardless —
// formatting the three ways spec.md §6.1 names (human, json, sarif) is a
// presentation concern the CLI (cmd/rashc) owns, not this package.
type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"
)

// LintOptions is spec.md §6.1's LintOptions record.
type LintOptions struct {
	// Rules restricts which rule ids' diagnostics are kept; empty means
	// every rule internal/lint implements for the given SourceKind.
	Rules []string
	// ApplySafeFixes and ApplyAssumptionFixes govern the CLI's `--fix`
	// flow (cmd/rashc), which applies a fix by running Purify and taking
	// its rewritten text — Lint itself never mutates source, consistent
	// with spec.md's LintReport carrying only diagnostics. Kept here
	// because ApplyAssumptionFixes requires ApplySafeFixes per spec.md's
	// table, and that dependency is simplest to validate once, in Lint,
	// alongside the rest of LintOptions.
	ApplySafeFixes       bool
	ApplyAssumptionFixes bool
	OutputFormat         OutputFormat
}

// Lint runs source through the rule surface for kind and returns every
// matching Diagnostic, filtered to opts.Rules when non-empty.
func Lint(source string, kind SourceKind, opts LintOptions) (*lint.Report, error) {
	if opts.ApplyAssumptionFixes && !opts.ApplySafeFixes {
		return nil, fmt.Errorf("pipeline: apply_assumption_fixes requires apply_safe_fixes")
	}
	var report *lint.Report
	var err error
	switch kind {
	case SourceShell:
		report, err = lint.LintShell("<source>", source)
	case SourceMakefile:
		report, err = lint.LintMakefile("<source>", source)
	default:
		return nil, fmt.Errorf("pipeline: unknown source kind %d", kind)
	}
	if err != nil {
		return nil, err
	}
	if len(opts.Rules) > 0 {
		report = filterRules(report, opts.Rules)
	}
	return report, nil
}

func filterRules(report *lint.Report, rules []string) *lint.Report {
	allowed := make(map[string]bool, len(rules))
	for _, r := range rules {
		allowed[r] = true
	}
	kept := report.Diagnostics[:0:0]
	for _, d := range report.Diagnostics {
		if allowed[d.Rule] {
			kept = append(kept, d)
		}
	}
	return &lint.Report{Path: report.Path, Diagnostics: kept}
}
