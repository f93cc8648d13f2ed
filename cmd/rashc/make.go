package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rashlang/rashc/internal/makefile"
	"github.com/rashlang/rashc/internal/report"
	"github.com/rashlang/rashc/pkg/rash"
)

func newMakeCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "make",
		Short: "Parse and lint Makefiles directly",
	}
	root.AddCommand(newMakeParseCmd(), newMakeLintCmd())
	return root
}

func newMakeParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse file",
		Short: "Parse file and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMakeParse(args[0])
		},
	}
}

func runMakeParse(path string) error {
	source, err := readFileOrStdin(path)
	if err != nil {
		exitCode = ExitErrors
		return err
	}
	f, err := makefile.Parse(strings.NewReader(source))
	if err != nil {
		exitCode = ExitErrors
		return err
	}
	switch strings.ToLower(flags.format) {
	case "", "human":
		fmt.Print(makefile.Print(f))
	case "json":
		data, err := json.MarshalIndent(summarizeNodes(f.Nodes), "", "  ")
		if err != nil {
			exitCode = ExitErrors
			return err
		}
		fmt.Println(string(data))
	default:
		exitCode = ExitErrors
		return fmt.Errorf("rashc: make parse does not support --format %q (use human|json)", flags.format)
	}
	exitCode = ExitSuccess
	return nil
}

// nodeSummary is a flattened, JSON-friendly view of a makefile.Node —
// makefile.Node is a closed interface with no type discriminator of its
// own, so `make parse --format json` needs a concrete shape to marshal.
type nodeSummary struct {
	Kind    string   `json:"kind"`
	Line    int      `json:"line"`
	Name    string   `json:"name,omitempty"`
	Op      string   `json:"op,omitempty"`
	Value   string   `json:"value,omitempty"`
	Targets []string `json:"targets,omitempty"`
	Prereqs []string `json:"prereqs,omitempty"`
	Names   []string `json:"names,omitempty"`
}

func summarizeNodes(nodes []makefile.Node) []nodeSummary {
	out := make([]nodeSummary, 0, len(nodes))
	for _, n := range nodes {
		switch v := n.(type) {
		case *makefile.VarAssign:
			out = append(out, nodeSummary{Kind: "assign", Line: v.Line, Name: v.Name, Op: v.Op.String(), Value: v.Value})
		case *makefile.Rule:
			out = append(out, nodeSummary{Kind: "rule", Line: v.Line, Targets: v.Targets, Prereqs: v.Prereqs})
		case *makefile.Conditional:
			out = append(out, nodeSummary{Kind: "conditional", Line: v.Line, Value: v.Cond})
		case *makefile.Include:
			out = append(out, nodeSummary{Kind: "include", Line: v.Line, Value: v.Path})
		case *makefile.PhonyDecl:
			out = append(out, nodeSummary{Kind: "phony", Line: v.Line, Names: v.Names})
		}
	}
	return out
}

func newMakeLintCmd() *cobra.Command {
	var (
		fix       bool
		fixAssume bool
		rules     string
	)
	cmd := &cobra.Command{
		Use:   "lint file",
		Short: "Lint a Makefile's non-determinism and idempotency patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMakeLint(args[0], fix, fixAssume, rules)
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "Apply Safe fixes via purify and overwrite file in place.")
	cmd.Flags().BoolVar(&fixAssume, "fix-assumptions", false, "Also apply Safe-with-assumptions fixes; requires --fix.")
	cmd.Flags().StringVar(&rules, "rules", "", "Comma-separated rule ids to restrict diagnostics to.")
	return cmd
}

func runMakeLint(path string, fix, fixAssume bool, rules string) error {
	logger := newLogger()
	defer logger.Sync()

	source, err := readFileOrStdin(path)
	if err != nil {
		exitCode = ExitErrors
		return err
	}

	opts := rash.LintOptions{ApplySafeFixes: fix, ApplyAssumptionFixes: fixAssume}
	if rules != "" {
		opts.Rules = strings.Split(rules, ",")
	}

	lr, err := rash.Lint(source, rash.SourceMakefile, opts)
	if err != nil {
		logger.Error("make lint failed", zapErr(err))
		exitCode = ExitErrors
		return err
	}

	if fix {
		rewrite, err := rash.Purify(source, rash.SourceMakefile, rash.PurifyOptions{ApplySafeFixes: true, ApplyAssumptionFixes: fixAssume})
		if err != nil {
			exitCode = ExitErrors
			return err
		}
		if err := writeBackInPlace(path, rewrite.Text); err != nil {
			exitCode = ExitErrors
			return err
		}
	}

	if err := printDiagnostics(lr, flags.format); err != nil {
		exitCode = ExitErrors
		return err
	}

	rep := report.New("make-lint", path, "", source, "", 0).WithLintReport(lr)
	report.Print(rep, flags.quiet)
	exitCode = lintExitCode(lr)
	return nil
}
