package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rashlang/rashc/internal/obslog"
)

// globalFlags holds the persistent flag values every subcommand reads.
// Defaults are first set by viper from an optional .rashc.yaml, then
// overridden by whatever flags the invocation actually passed — viper's
// own precedence chain, per SPEC_FULL.md's configuration section.
type globalFlags struct {
	dialect     string
	verifyLevel string
	optimize    bool
	quiet       bool
	format      string
	logLevel    string
	env         string
}

var flags globalFlags

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rashc",
		Short:         "Transpile a restricted language into portable POSIX shell",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.dialect, "dialect", "posix", "Emission dialect: posix|bash|dash|ash.")
	pf.StringVar(&flags.verifyLevel, "verify-level", "strict", "Verifier strictness: none|basic|strict|paranoid.")
	pf.BoolVar(&flags.optimize, "optimize", false, "Fold compile-time-constant expressions during lowering.")
	pf.BoolVar(&flags.quiet, "quiet", false, "Suppress the stderr run report.")
	pf.StringVar(&flags.format, "format", "human", "Diagnostics format: human|json|sarif.")
	pf.StringVar(&flags.logLevel, "log-level", "", "Override RASHC_LOG_LEVEL for this invocation.")
	pf.StringVar(&flags.env, "env", "", "Override RASHC_ENV for this invocation.")

	root.AddCommand(
		newBuildCmd(),
		newCheckCmd(),
		newLintCmd(),
		newPurifyCmd(),
		newMakeCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads an optional .rashc.yaml from the current directory and
// lets it supply defaults for any persistent flag the user didn't pass
// explicitly on the command line — flags always win.
func loadConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetConfigName(".rashc")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("rashc: reading .rashc.yaml: %w", err)
		}
		return nil
	}
	for _, name := range []string{"dialect", "verify-level", "format", "log-level", "env"} {
		if cmd.Flags().Changed(name) {
			continue
		}
		if val := v.GetString(strings.ReplaceAll(name, "-", "_")); val != "" {
			cmd.Flags().Set(name, val)
		}
	}
	if !cmd.Flags().Changed("optimize") && v.IsSet("optimize") {
		flags.optimize = v.GetBool("optimize")
	}
	return nil
}

func newLogger() *zap.Logger {
	cfg := obslog.FromEnviron()
	if flags.logLevel != "" {
		cfg.Level = flags.logLevel
	}
	if flags.env != "" {
		cfg.Env = flags.env
	}
	return obslog.New(cfg)
}

// maxInputSize is a safety limit against a runaway stdin pipe or an
// accidentally-huge file, the same 100 MB ceiling a prior version of
// this reader enforced on script input.
const maxInputSize = 100 * 1024 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readFileOrStdin reads path (or stdin for "-"/""), strips a leading
// UTF-8 BOM, and rejects non-UTF-8 or oversized input — restricted-
// language, shell, and Makefile source are all plain UTF-8 text subject
// to the same BOM/size/encoding pitfalls any text-ingesting CLI needs to
// guard against.
func readFileOrStdin(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" || path == "" {
		data, err = io.ReadAll(io.LimitReader(os.Stdin, maxInputSize+1))
		if err != nil {
			return "", fmt.Errorf("rashc: reading stdin: %w", err)
		}
	} else {
		fi, statErr := os.Stat(path)
		if statErr != nil {
			return "", fmt.Errorf("rashc: reading %s: %w", path, statErr)
		}
		if fi.IsDir() {
			return "", fmt.Errorf("rashc: %s is a directory, not a file", path)
		}
		if fi.Size() > maxInputSize {
			return "", fmt.Errorf("rashc: %s is too large (%d bytes, max %d)", path, fi.Size(), maxInputSize)
		}
		data, err = os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("rashc: reading %s: %w", path, err)
		}
	}
	if len(data) > maxInputSize {
		return "", fmt.Errorf("rashc: input too large (>%d bytes, safety limit)", maxInputSize)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("rashc: input is not valid UTF-8")
	}
	return string(data), nil
}
