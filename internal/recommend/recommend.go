// Package recommend implements `rashc lint --recommend`: a read-only pass
// that predicts which rule groups are likely to fire heavily on a given
// input before the caller commits to a full lint run.
package recommend

import (
	"sort"
	"strings"

	"github.com/rashlang/rashc/internal/lint"
)

// Group is one of the rule-id prefixes spec.md's rule surface uses:
// SC (shellcheck-style portability), DET (non-determinism), IDEM
// (idempotency), SEC (injection/arbitrary-execution risk), MAKE
// (Makefile-specific).
type Group string

const (
	GroupPortability Group = "SC"
	GroupDeterminism Group = "DET"
	GroupIdempotency Group = "IDEM"
	GroupSecurity    Group = "SEC"
	GroupMakefile    Group = "MAKE"
)

// Tier buckets a group's predicted hit density into a recommendation a
// human reads in one glance, the same low/medium/high staging
// AnalyzeScript's complexity buckets used for profile recommendations.
type Tier string

const (
	TierNone   Tier = "none"   // group never fired
	TierLow    Tier = "low"    // fired, but rarely relative to input size
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// GroupSummary is one rule group's predicted density.
type GroupSummary struct {
	Group Group
	Hits  int
	Tier  Tier
}

// Recommendation is the result of one Analyze call.
type Recommendation struct {
	LineCount int
	Groups    []GroupSummary
}

// Analyze runs report's full rule surface over source (already linted
// into report by the caller, since recommend has no opinion on SourceKind
// detection — that's cmd/rashc's job) and buckets the hits by group and
// density. It never suppresses or filters diagnostics itself; it is
// advisory only, exactly as spec.md's `--recommend` flag is documented:
// a preview of what a full run would emphasize, not a replacement for one.
func Analyze(source string, report *lint.Report) *Recommendation {
	lines := strings.Count(source, "\n") + 1
	counts := map[Group]int{}
	for _, d := range report.Diagnostics {
		counts[groupOf(d.Rule)]++
	}

	groups := make([]GroupSummary, 0, len(counts))
	for g, n := range counts {
		groups = append(groups, GroupSummary{Group: g, Hits: n, Tier: tierFor(n, lines)})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })

	return &Recommendation{LineCount: lines, Groups: groups}
}

func groupOf(rule string) Group {
	switch {
	case strings.HasPrefix(rule, "SC"):
		return GroupPortability
	case strings.HasPrefix(rule, "DET"):
		return GroupDeterminism
	case strings.HasPrefix(rule, "IDEM"):
		return GroupIdempotency
	case strings.HasPrefix(rule, "SEC"):
		return GroupSecurity
	case strings.HasPrefix(rule, "MAKE"):
		return GroupMakefile
	default:
		return Group(rule)
	}
}

// tierFor buckets hits-per-line into a Tier. Thresholds are density, not
// raw counts, so a 500-line Makefile with 10 IDEM hits doesn't read as
// "high" just because the absolute number looks big next to a 10-line
// script with 2 hits — the same reasoning AnalyzeScript applied to
// LineCount/FunctionCount thresholds, adapted to a ratio since lint rule
// hits scale with input size in a way obfuscation technique counts don't.
func tierFor(hits, lines int) Tier {
	if hits == 0 {
		return TierNone
	}
	density := float64(hits) / float64(lines)
	switch {
	case density >= 0.1:
		return TierHigh
	case density >= 0.03:
		return TierMedium
	default:
		return TierLow
	}
}
