// Package rash is the public entry point: transpile, lint, and purify,
// exactly the three calls spec.md §6.1 names. It is a thin adapter over
// internal/pipeline — the package boundary that lets everything under
// internal/ change shape freely while external callers (cmd/rashc, and any
// other Go program importing this module) get a small, stable surface.
package rash

import (
	"github.com/rashlang/rashc/internal/dialect"
	"github.com/rashlang/rashc/internal/lint"
	"github.com/rashlang/rashc/internal/pipeline"
)

// Re-exported so callers never need to import internal/pipeline or
// internal/dialect directly.
type (
	Config        = pipeline.Config
	VerifyLevel   = pipeline.VerifyLevel
	SourceKind    = pipeline.SourceKind
	LintOptions   = pipeline.LintOptions
	PurifyOptions = pipeline.PurifyOptions
	OutputFormat  = pipeline.OutputFormat
	Rewrite       = pipeline.Rewrite
	Dialect       = dialect.Name
)

const (
	VerifyNone     = pipeline.VerifyNone
	VerifyBasic    = pipeline.VerifyBasic
	VerifyStrict   = pipeline.VerifyStrict
	VerifyParanoid = pipeline.VerifyParanoid

	SourceShell    = pipeline.SourceShell
	SourceMakefile = pipeline.SourceMakefile

	FormatHuman = pipeline.FormatHuman
	FormatJSON  = pipeline.FormatJSON
	FormatSARIF = pipeline.FormatSARIF

	POSIX = dialect.POSIX
	Bash  = dialect.Bash
	Dash  = dialect.Dash
	Ash   = dialect.Ash
)

// Result is spec.md §6.1's Result<Script, Error>: the rendered shell text,
// the dialect actually used, and the non-fatal diagnostics accumulated
// while producing it. The pipeline stages currently halt at the first
// error rather than accumulating non-fatal ones, so Diagnostics is always
// empty today; the field is kept on Result because spec.md's Script type
// names it, and a future relaxation of lower/verify to collect warnings
// alongside a successful lowering has somewhere to report them without
// another breaking change to this surface.
type Result struct {
	Script      string
	Dialect     Dialect
	Diagnostics []lint.Diagnostic
}

// Transpile compiles source (restricted-language text) into shell script
// text under cfg.
func Transpile(source string, cfg Config) (*Result, error) {
	res, err := pipeline.Transpile(source, cfg)
	if err != nil {
		return nil, err
	}
	return &Result{Script: res.Script, Dialect: res.Dialect}, nil
}

// Lint runs source (shell or Makefile text, per kind) through the rule
// surface and returns every matching diagnostic.
func Lint(source string, kind SourceKind, opts LintOptions) (*lint.Report, error) {
	return pipeline.Lint(source, kind, opts)
}

// Purify rewrites source (shell or Makefile text, per kind) to its
// idempotent, deterministic, well-quoted form.
func Purify(source string, kind SourceKind, opts PurifyOptions) (*Rewrite, error) {
	return pipeline.Purify(source, kind, opts)
}
