package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rashlang/rashc/internal/recommend"
	"github.com/rashlang/rashc/internal/report"
	"github.com/rashlang/rashc/pkg/rash"
)

func newLintCmd() *cobra.Command {
	var (
		fix       bool
		fixAssume bool
		rules     string
		recommendOnly bool
	)
	cmd := &cobra.Command{
		Use:   "lint input",
		Short: "Report style, determinism, and safety issues in shell or Makefile source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(args[0], fix, fixAssume, rules, recommendOnly)
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "Apply Safe fixes via purify and overwrite input in place.")
	cmd.Flags().BoolVar(&fixAssume, "fix-assumptions", false, "Also apply Safe-with-assumptions fixes; requires --fix.")
	cmd.Flags().StringVar(&rules, "rules", "", "Comma-separated rule ids to restrict diagnostics to.")
	cmd.Flags().BoolVar(&recommendOnly, "recommend", false, "Print which rule groups are likely to fire heavily, without a full report.")
	return cmd
}

func runLint(inputPath string, fix, fixAssume bool, rules string, recommendOnly bool) error {
	logger := newLogger()
	defer logger.Sync()

	source, err := readFileOrStdin(inputPath)
	if err != nil {
		exitCode = ExitErrors
		return err
	}
	kind := detectSourceKind(inputPath)

	opts := rash.LintOptions{ApplySafeFixes: fix, ApplyAssumptionFixes: fixAssume}
	if rules != "" {
		opts.Rules = strings.Split(rules, ",")
	}

	start := time.Now()
	lr, err := rash.Lint(source, kind, opts)
	duration := time.Since(start)
	if err != nil {
		logger.Error("lint failed", zapErr(err))
		exitCode = ExitErrors
		return err
	}

	if recommendOnly {
		rec := recommend.Analyze(source, lr)
		for _, g := range rec.Groups {
			fmt.Printf("%s: %d hit(s) across %d lines (%s)\n", g.Group, g.Hits, rec.LineCount, g.Tier)
		}
		exitCode = ExitSuccess
		return nil
	}

	if fix {
		rewrite, err := rash.Purify(source, kind, rash.PurifyOptions{ApplySafeFixes: true, ApplyAssumptionFixes: fixAssume})
		if err != nil {
			exitCode = ExitErrors
			return err
		}
		if err := writeBackInPlace(inputPath, rewrite.Text); err != nil {
			exitCode = ExitErrors
			return err
		}
	}

	if err := printDiagnostics(lr, flags.format); err != nil {
		exitCode = ExitErrors
		return err
	}

	rep := report.New("lint", inputPath, "", source, "", duration).WithLintReport(lr)
	report.Print(rep, flags.quiet)
	exitCode = lintExitCode(lr)
	return nil
}
