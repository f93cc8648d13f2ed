package pipeline

import (
	"fmt"

	"github.com/rashlang/rashc/internal/purify"
)

// PurifyOptions is spec.md §6.1's PurifyOptions record. internal/purify's
// rewrites are all the "Safe" tier — deterministic, assumption-free, and
// idempotent by construction (purify(purify(x)) == purify(x), checked in
// internal/purify's own tests) — so ApplyAssumptionFixes has nothing to
// gate yet; it is accepted for forward compatibility with a future
// assumption-tier rewrite and rejected unless ApplySafeFixes is also set,
// mirroring LintOptions' identical dependency.
type PurifyOptions struct {
	ApplySafeFixes       bool
	ApplyAssumptionFixes bool
	Report               bool
}

// Rewrite is spec.md §6.1's Rewrite: the purified text plus the notes
// (internal/purify.Note) describing what the purifier left for a human to
// resolve; the rewrites it applied are not listed.
type Rewrite struct {
	Text  string
	Notes []purify.Note
}

// Purify rewrites source under kind's front-end and returns the result.
// When opts.ApplySafeFixes is false, Purify still runs the full analysis
// but returns the original source as Text — the report is non-destructive
// preview output a caller can inspect before opting in.
func Purify(source string, kind SourceKind, opts PurifyOptions) (*Rewrite, error) {
	if opts.ApplyAssumptionFixes && !opts.ApplySafeFixes {
		return nil, fmt.Errorf("pipeline: apply_assumption_fixes requires apply_safe_fixes")
	}
	var text string
	var notes []purify.Note
	var err error
	switch kind {
	case SourceShell:
		text, notes, err = purify.ShellSource("<source>", source)
	case SourceMakefile:
		text, notes, err = purify.MakefileSource(source)
	default:
		return nil, fmt.Errorf("pipeline: unknown source kind %d", kind)
	}
	if err != nil {
		return nil, err
	}
	if !opts.ApplySafeFixes {
		return &Rewrite{Text: source, Notes: notes}, nil
	}
	return &Rewrite{Text: text, Notes: notes}, nil
}
