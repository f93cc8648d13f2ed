package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rashlang/rashc/internal/dialect"
	"github.com/rashlang/rashc/internal/report"
	"github.com/rashlang/rashc/pkg/rash"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build input output",
		Short: "Transpile input into a POSIX (or dialect) shell script at output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], args[1])
		},
	}
	return cmd
}

func runBuild(inputPath, outputPath string) error {
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
	// build never runs under verify-level none: emitting unverified shell
	// to disk is reserved for the lint/purify preview paths.
	if cfg.VerifyLevel == rash.VerifyNone {
		cfg.VerifyLevel = rash.VerifyBasic
	}

	start := time.Now()
	result, err := rash.Transpile(source, cfg)
	duration := time.Since(start)
	if err != nil {
		logger.Error("transpile failed", zapErr(err))
		exitCode = ExitErrors
		return err
	}

	if outputPath == "-" || outputPath == "" {
		fmt.Print(result.Script)
	} else if err := os.WriteFile(outputPath, []byte(result.Script), 0o644); err != nil {
		exitCode = ExitErrors
		return fmt.Errorf("rashc: writing %s: %w", outputPath, err)
	}

	rep := report.New("build", inputPath, outputPath, source, result.Script, duration)
	report.Print(rep, flags.quiet)
	exitCode = ExitSuccess
	return nil
}

func configFromFlags() (rash.Config, error) {
	d := dialect.Name(flags.dialect)
	if _, err := dialect.Named(d); err != nil {
		return rash.Config{}, err
	}
	return rash.Config{
		Dialect:     d,
		VerifyLevel: rash.VerifyLevel(flags.verifyLevel),
		Optimize:    flags.optimize,
	}, nil
}
