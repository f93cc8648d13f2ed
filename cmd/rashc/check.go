package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rashlang/rashc/internal/report"
	"github.com/rashlang/rashc/pkg/rash"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check input",
		Short: "Validate and verify input without emitting a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	}
}

func runCheck(inputPath string) error {
	logger := newLogger()
	defer logger.Sync()

	source, err := readFileOrStdin(inputPath)
	if err != nil {
		exitCode = ExitErrors
		return err
	}
	cfg, err := configFromFlags()
	if err != nil {
		exitCode = ExitErrors
		return err
	}

	start := time.Now()
	result, err := rash.Transpile(source, cfg)
	duration := time.Since(start)
	if err != nil {
		logger.Error("check failed", zapErr(err))
		exitCode = ExitErrors
		return err
	}

	rep := report.New("check", inputPath, "", source, result.Script, duration)
	report.Print(rep, flags.quiet)
	exitCode = ExitSuccess
	return nil
}
