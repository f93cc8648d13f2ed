// Package pipeline wires the compiler stages (internal/parser,
// internal/validate, internal/lower, internal/verify, internal/emit) into
// the three entry points spec.md §6.1 names: Transpile, Lint, Purify. Lint
// and Purify live in their own files (lint.go, purify.go) in this package
// since both reuse Transpile's source-kind detection and Config surface;
// this file owns Transpile and the verify-level mapping every entry point
// shares.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/rashlang/rashc/internal/dialect"
	"github.com/rashlang/rashc/internal/emit"
	"github.com/rashlang/rashc/internal/ir"
	"github.com/rashlang/rashc/internal/lower"
	"github.com/rashlang/rashc/internal/parser"
	"github.com/rashlang/rashc/internal/validate"
	"github.com/rashlang/rashc/internal/verify"

	"mvdan.cc/sh/v3/syntax"
)

// VerifyLevel names the four surface-facing verifier strictness levels
// spec.md §6.1's Config.verify_level recognizes. It is distinct from
// verify.Level (which only has two gears, Structural and Full) because
// "none" and "paranoid" are pipeline-level decisions — skipping
// verification entirely, or adding the emitted-text re-parse step below —
// that internal/verify itself has no way to express from inside the IR.
type VerifyLevel string

const (
	VerifyNone     VerifyLevel = "none"
	VerifyBasic    VerifyLevel = "basic"
	VerifyStrict   VerifyLevel = "strict"
	VerifyParanoid VerifyLevel = "paranoid"
)

// Config is spec.md §6.1's Config record, recognized by Transpile.
type Config struct {
	// Dialect selects the emission profile (internal/dialect). Empty
	// selects dialect.POSIX, the default and the only dialect Transpile's
	// own Paranoid re-parse step (and spec.md §8 property 3) hold to.
	Dialect dialect.Name
	// VerifyLevel controls which verify.VerifyLevel gear runs, and whether
	// Transpile additionally re-parses its own output. Empty selects
	// VerifyStrict.
	VerifyLevel VerifyLevel
	// Optimize enables internal/lower's constant-folding of arbitrary
	// binary/unary sub-expressions, not just `const` decls and `for`
	// ranges. Off by default for strict determinism (spec.md §6.1).
	Optimize bool
}

// Result is spec.md §6.1's Result<Script, Error>: Script is realized here
// as the rendered shell text plus the dialect profile actually used.
type Result struct {
	Script  string
	Dialect dialect.Name
}

// Transpile runs source through every stage in order — parse, validate,
// lower, verify (at the configured level), emit — halting at the first
// error, consistent with every stage already halting at its own first
// violation (internal/validate, internal/lower, internal/verify all
// document this). "none" verify level permits emission from unverified
// IR; this is intentionally only reachable through Transpile directly and
// never through the `build` CLI command (cmd/rashc), which always
// requires at least VerifyBasic.
func Transpile(source string, cfg Config) (*Result, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	if err := validate.Validate(prog); err != nil {
		return nil, err
	}
	script, err := lower.LowerOptimized(prog, cfg.Optimize)
	if err != nil {
		return nil, err
	}
	if err := runVerify(script, cfg.VerifyLevel); err != nil {
		return nil, err
	}

	dialectName := cfg.Dialect
	if dialectName == "" {
		dialectName = dialect.POSIX
	}
	profile, err := dialect.Named(dialectName)
	if err != nil {
		return nil, err
	}
	out, err := emit.EmitDialect(script, profile)
	if err != nil {
		return nil, err
	}

	if cfg.VerifyLevel == VerifyParanoid {
		if err := assertParsesAsPOSIX(out); err != nil {
			return nil, fmt.Errorf("pipeline: paranoid verify: %w", err)
		}
	}

	return &Result{Script: out, Dialect: dialectName}, nil
}

// runVerify maps the four spec-facing VerifyLevel names onto
// verify.VerifyLevel's two gears, or skips verification entirely for
// VerifyNone. Paranoid's extra re-parse step happens in Transpile itself
// (after emission), since it needs internal/emit's output text, not the IR.
func runVerify(script *ir.Script, level VerifyLevel) error {
	switch level {
	case VerifyNone:
		return nil
	case VerifyBasic:
		return verify.VerifyLevel(script, verify.Structural)
	case "", VerifyStrict, VerifyParanoid:
		return verify.VerifyLevel(script, verify.Full)
	default:
		return fmt.Errorf("pipeline: unknown verify_level %q (use none|basic|strict|paranoid)", level)
	}
}

// assertParsesAsPOSIX re-parses text under mvdan.cc/sh/v3/syntax's strict
// POSIX variant — a cheap in-process substitute for shelling out to an
// external shellcheck binary, per spec.md §6.1's paranoid description.
// Only meaningful against posix-dialect output; running it against a bash
// or ash profile's emitted text would fail on constructs the dialect
// legitimately introduced (`[[ ]]`, `set -o pipefail`), which is why
// paranoid and non-posix dialects are not combined by the CLI surface.
func assertParsesAsPOSIX(text string) error {
	p := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	_, err := p.Parse(strings.NewReader(text), "<emitted>")
	return err
}
