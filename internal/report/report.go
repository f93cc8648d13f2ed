// Package report summarizes one transpile/lint/purify/make invocation:
// byte sizes, a duration, an entropy reading on the input, and — for
// lint-shaped operations — diagnostic counts by severity plus a rule-hit
// histogram. cmd/rashc builds one of these per invocation and either
// prints it (Print) or marshals it (ToJSON) depending on --format.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rashlang/rashc/internal/lint"
)

// Report is the JSON-and-stderr-summarized result of one CLI invocation.
type Report struct {
	Operation  string        `json:"operation"`
	InputPath  string        `json:"inputPath,omitempty"`
	OutputPath string        `json:"outputPath,omitempty"`
	InputSize  int           `json:"inputSize"`
	OutputSize int           `json:"outputSize,omitempty"`
	Duration   time.Duration `json:"duration"`

	SeverityCounts map[string]int `json:"severityCounts,omitempty"`
	RuleHits       map[string]int `json:"ruleHits,omitempty"`

	Entropy    float64 `json:"entropy"`
	LooksPacked bool   `json:"looksPacked,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

// New builds a Report for a transpile/purify-shaped run: input and output
// text, plus how long the run took. Entropy is computed over input since
// that is what the SEC* advisory hint judges (see metrics.go).
func New(operation, inputPath, outputPath, input, output string, dur time.Duration) *Report {
	m := ComputeMetrics(input)
	return &Report{
		Operation:   operation,
		InputPath:   inputPath,
		OutputPath:  outputPath,
		InputSize:   len(input),
		OutputSize:  len(output),
		Duration:    dur,
		Entropy:     m.Entropy,
		LooksPacked: LooksPacked(m),
	}
}

// WithLintReport fills in SeverityCounts and RuleHits from a *lint.Report,
// and (when the input already looks packed) appends the SEC* advisory
// warning a lint-shaped operation surfaces to the user.
func (r *Report) WithLintReport(lr *lint.Report) *Report {
	if lr == nil {
		return r
	}
	counts := lr.CountBySeverity()
	r.SeverityCounts = make(map[string]int, len(counts))
	for sev, n := range counts {
		r.SeverityCounts[sev.String()] = n
	}
	r.RuleHits = lr.RuleHits()
	if r.LooksPacked {
		r.Warnings = append(r.Warnings, fmt.Sprintf(
			"SEC: input entropy %.2f bits/symbol is unusually high for plain source; it may already contain packed or obfuscated payloads worth reviewing", r.Entropy))
	}
	return r
}

// ToJSON returns the report as indented JSON, for --format json.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Print writes a colored, human-facing summary to stderr. No-op when
// quiet is true.
func Print(r *Report, quiet bool) {
	if quiet {
		return
	}
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintf(os.Stderr, "%s%s=== rashc %s report ===%s\n", Bold, Cyan, r.Operation, Reset)
	if r.InputPath != "" {
		fmt.Fprintf(os.Stderr, "%sInput:%s    %s\n", Yellow, Reset, r.InputPath)
	}
	if r.OutputPath != "" {
		fmt.Fprintf(os.Stderr, "%sOutput:%s   %s\n", Yellow, Reset, r.OutputPath)
	}
	fmt.Fprintf(os.Stderr, "%sInput size:%s  %d bytes\n", Yellow, Reset, r.InputSize)
	if r.OutputSize > 0 {
		fmt.Fprintf(os.Stderr, "%sOutput size:%s %d bytes\n", Yellow, Reset, r.OutputSize)
	}
	fmt.Fprintf(os.Stderr, "%sEntropy:%s   %.2f bits/symbol\n", Yellow, Reset, r.Entropy)
	if len(r.SeverityCounts) > 0 {
		fmt.Fprintf(os.Stderr, "%sDiagnostics:%s", Yellow, Reset)
		for _, sev := range []string{"error", "warn", "info"} {
			if n, ok := r.SeverityCounts[sev]; ok && n > 0 {
				fmt.Fprintf(os.Stderr, " %s%s=%d%s", severityColor(sev), sev, n, Reset)
			}
		}
		fmt.Fprintln(os.Stderr, "")
	}
	if len(r.RuleHits) > 0 {
		fmt.Fprintf(os.Stderr, "%sRules fired:%s %d distinct\n", Yellow, Reset, len(r.RuleHits))
	}
	fmt.Fprintf(os.Stderr, "%sDuration:%s  %s\n", Yellow, Reset, r.Duration.Round(time.Microsecond))
	if len(r.Warnings) > 0 {
		fmt.Fprintf(os.Stderr, "%sWarnings:%s\n", Red, Reset)
		for _, w := range r.Warnings {
			fmt.Fprintf(os.Stderr, "  - %s\n", w)
		}
	}
	fmt.Fprintf(os.Stderr, "%s%s========================%s\n", Bold, Cyan, Reset)
}

func severityColor(sev string) string {
	switch sev {
	case "error":
		return Red
	case "warn":
		return Yellow
	default:
		return Gray
	}
}
