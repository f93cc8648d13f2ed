package recommend

import (
	"testing"

	"github.com/rashlang/rashc/internal/lint"
)

func TestGroupOfPrefixes(t *testing.T) {
	cases := map[string]Group{
		"SC2086":  GroupPortability,
		"DET001":  GroupDeterminism,
		"IDEM002": GroupIdempotency,
		"SEC001":  GroupSecurity,
		"MAKE003": GroupMakefile,
	}
	for rule, want := range cases {
		if got := groupOf(rule); got != want {
			t.Errorf("groupOf(%q) = %q, want %q", rule, got, want)
		}
	}
}

func TestAnalyzeBucketsHitsByGroup(t *testing.T) {
	report := &lint.Report{
		Diagnostics: []lint.Diagnostic{
			{Rule: "IDEM001"},
			{Rule: "IDEM001"},
			{Rule: "SEC001"},
		},
	}
	rec := Analyze("line1\nline2\nline3\n", report)
	var idem, sec *GroupSummary
	for i := range rec.Groups {
		switch rec.Groups[i].Group {
		case GroupIdempotency:
			idem = &rec.Groups[i]
		case GroupSecurity:
			sec = &rec.Groups[i]
		}
	}
	if idem == nil || idem.Hits != 2 {
		t.Fatalf("expected 2 idempotency hits, got %+v", idem)
	}
	if sec == nil || sec.Hits != 1 {
		t.Fatalf("expected 1 security hit, got %+v", sec)
	}
}

func TestTierForDensityThresholds(t *testing.T) {
	if tierFor(0, 100) != TierNone {
		t.Fatal("expected none for zero hits")
	}
	if tierFor(1, 100) != TierLow {
		t.Fatal("expected low for a sparse hit")
	}
	if tierFor(5, 100) != TierMedium {
		t.Fatal("expected medium at 0.05 density")
	}
	if tierFor(20, 100) != TierHigh {
		t.Fatal("expected high at 0.2 density")
	}
}

func TestAnalyzeOmitsGroupsWithNoHits(t *testing.T) {
	rec := Analyze("one line\n", &lint.Report{})
	if len(rec.Groups) != 0 {
		t.Fatalf("expected no groups for a clean report, got %+v", rec.Groups)
	}
}
