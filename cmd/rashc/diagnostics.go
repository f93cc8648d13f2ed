package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rashlang/rashc/internal/lint"
)

// printDiagnostics renders report's diagnostics in the requested format to
// stdout. "human" mirrors Diagnostic.String(); "json" is a plain array of
// diagnostics; "sarif" is a minimal SARIF 2.1.0 document, enough for a CI
// system to ingest without needing every optional SARIF field populated.
func printDiagnostics(r *lint.Report, format string) error {
	switch strings.ToLower(format) {
	case "", "human":
		for _, d := range r.Diagnostics {
			fmt.Println(d.String())
		}
		return nil
	case "json":
		data, err := json.MarshalIndent(r.Diagnostics, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	case "sarif":
		data, err := json.MarshalIndent(toSARIF(r), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	default:
		return fmt.Errorf("rashc: unknown --format %q (use human|json|sarif)", format)
	}
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type sarifResult struct {
	RuleID    string            `json:"ruleId"`
	Level     string            `json:"level"`
	Message   sarifMessage      `json:"message"`
	Locations []sarifLocation   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
}

func toSARIF(r *lint.Report) sarifLog {
	results := make([]sarifResult, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		results = append(results, sarifResult{
			RuleID:  d.Rule,
			Level:   sarifLevel(d.Severity),
			Message: sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifact{URI: r.Path},
					Region:           sarifRegion{StartLine: d.Line, StartColumn: d.Column},
				},
			}},
		})
	}
	return sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "rashc", Version: version}},
			Results: results,
		}},
	}
}

func sarifLevel(s lint.Severity) string {
	switch s {
	case lint.Error:
		return "error"
	case lint.Warn:
		return "warning"
	default:
		return "note"
	}
}
