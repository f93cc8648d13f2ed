package main

import "github.com/rashlang/rashc/internal/lint"

// Exit codes, per the CLI contract: 0 success, 1 warnings under strict
// mode, 2 errors. The core packages never call os.Exit themselves —
// cmd/rashc inspects whatever pkg/rash returned and decides.
const (
	ExitSuccess  = 0
	ExitWarnings = 1
	ExitErrors   = 2
)

// exitCode is set by whichever subcommand ran and read back by main after
// root.Execute returns, since cobra's RunE only reports success/failure as
// an error, not a three-way exit code.
var exitCode = ExitSuccess

// lintExitCode derives the exit code the CLI contract wants from a
// *lint.Report: any Error-severity diagnostic is a hard failure, any
// Warn-severity diagnostic (with no errors) is a warning, otherwise clean.
func lintExitCode(report *lint.Report) int {
	if report.HasErrors() {
		return ExitErrors
	}
	if report.CountBySeverity()[lint.Warn] > 0 {
		return ExitWarnings
	}
	return ExitSuccess
}
