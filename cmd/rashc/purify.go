package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rashlang/rashc/internal/report"
	"github.com/rashlang/rashc/pkg/rash"
)

func newPurifyCmd() *cobra.Command {
	var (
		fix        bool
		fixAssume  bool
		outputPath string
		showReport bool
	)
	cmd := &cobra.Command{
		Use:   "purify input",
		Short: "Rewrite shell or Makefile source to its deterministic, idempotent form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurify(args[0], outputPath, fix, fixAssume, showReport)
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "Apply the rewrite rather than only previewing it.")
	cmd.Flags().BoolVar(&fixAssume, "fix-assumptions", false, "Also apply Safe-with-assumptions fixes; requires --fix.")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the rewrite here instead of overwriting input.")
	cmd.Flags().BoolVar(&showReport, "report", false, "Print the run report even when --quiet would otherwise suppress it.")
	return cmd
}

func runPurify(inputPath, outputPath string, fix, fixAssume, showReport bool) error {
	logger := newLogger()
	defer logger.Sync()

	source, err := readFileOrStdin(inputPath)
	if err != nil {
		exitCode = ExitErrors
		return err
	}
	kind := detectSourceKind(inputPath)

	start := time.Now()
	rewrite, err := rash.Purify(source, kind, rash.PurifyOptions{ApplySafeFixes: fix, ApplyAssumptionFixes: fixAssume})
	duration := time.Since(start)
	if err != nil {
		logger.Error("purify failed", zapErr(err))
		exitCode = ExitErrors
		return err
	}

	switch {
	case outputPath != "":
		if err := writeBackInPlace(outputPath, rewrite.Text); err != nil {
			exitCode = ExitErrors
			return err
		}
	case fix:
		if err := writeBackInPlace(inputPath, rewrite.Text); err != nil {
			exitCode = ExitErrors
			return err
		}
	default:
		fmt.Print(rewrite.Text)
	}

	for _, note := range rewrite.Notes {
		fmt.Printf("note: line %d: %s\n", note.Line, note.Message)
	}

	rep := report.New("purify", inputPath, outputPath, source, rewrite.Text, duration)
	report.Print(rep, flags.quiet && !showReport)
	exitCode = ExitSuccess
	return nil
}
