package lint

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/rashlang/rashc/internal/shellfront"
)

// ShellRule is a pure check over a parsed shell file.
type ShellRule struct {
	ID       string
	Severity Severity
	Check    func(f *syntax.File) []Diagnostic
}

// ShellRules is the fixed, closed-world rule table run by LintShell.
var ShellRules = []ShellRule{
	{ID: "SC2086", Severity: Error, Check: checkUnquotedParamExpansion},
	{ID: "SC2002", Severity: Warn, Check: checkUselessEcho},
	{ID: "SC2046", Severity: Error, Check: checkUnquotedCommandSubst},
	{ID: "DET001", Severity: Warn, Check: checkRandomVariable},
	{ID: "DET002", Severity: Warn, Check: checkProcessIDVariable},
	{ID: "DET003", Severity: Warn, Check: checkTimestampCommand},
	{ID: "IDEM001", Severity: Warn, Check: checkMkdirWithoutP},
	{ID: "IDEM002", Severity: Warn, Check: checkRmWithoutF},
	{ID: "IDEM003", Severity: Warn, Check: checkLnSWithoutF},
	{ID: "SEC001", Severity: Error, Check: checkEvalUsage},
	{ID: "SEC002", Severity: Error, Check: checkCurlPipeShell},
}

// LintShell parses src and runs every ShellRule over it, in table order.
func LintShell(path, src string) (*Report, error) {
	f, err := shellfront.ParseString(path, src)
	if err != nil {
		return nil, err
	}
	report := &Report{Path: path}
	for _, rule := range ShellRules {
		for _, d := range rule.Check(f) {
			d.Rule = rule.ID
			d.Severity = rule.Severity
			report.Diagnostics = append(report.Diagnostics, d)
		}
	}
	return report, nil
}

func pos(p syntax.Pos) (int, int) {
	return int(p.Line()), int(p.Col())
}

// checkUnquotedParamExpansion flags a bare `$name`/`${name}` word part
// used directly as (or inside) a command argument word with no
// surrounding double quotes — the classic word-splitting/glob hazard.
func checkUnquotedParamExpansion(f *syntax.File) []Diagnostic {
	var out []Diagnostic
	shellfront.Walk(f, func(n syntax.Node) bool {
		call, ok := n.(*syntax.CallExpr)
		if !ok {
			return true
		}
		for i, w := range call.Args {
			if i == 0 || len(w.Parts) != 1 {
				continue // command name itself, or a word with surrounding text/quotes
			}
			p, ok := w.Parts[0].(*syntax.ParamExp)
			if !ok {
				continue
			}
			line, col := pos(w.Pos())
			suggestion := `"${` + p.Param.Value + `}"`
			if p.Short {
				suggestion = `"$` + p.Param.Value + `"`
			}
			out = append(out, Diagnostic{
				Message:  "parameter expansion used without double quotes; word-splitting and globbing apply",
				Line:     line, Column: col,
				Fix: Safe, FixText: "wrap in double quotes: " + suggestion,
			})
		}
		return true
	})
	return out
}

// checkUselessEcho flags `echo` immediately piped into `cat` with no other
// purpose (`echo "$x" | cat`), a no-op pipeline.
func checkUselessEcho(f *syntax.File) []Diagnostic {
	var out []Diagnostic
	shellfront.Walk(f, func(n syntax.Node) bool {
		bc, ok := n.(*syntax.BinaryCmd)
		if !ok || bc.Op != syntax.Pipe {
			return true
		}
		left, lok := bc.X.Cmd.(*syntax.CallExpr)
		right, rok := bc.Y.Cmd.(*syntax.CallExpr)
		if !lok || !rok {
			return true
		}
		lname, _ := shellfront.CallName(left)
		rname, _ := shellfront.CallName(right)
		if lname == "echo" && rname == "cat" && len(right.Args) == 1 {
			line, col := pos(bc.Pos())
			out = append(out, Diagnostic{
				Message: "useless use of cat after echo",
				Line: line, Column: col, Fix: Safe, FixText: "remove the pipe to cat",
			})
		}
		return true
	})
	return out
}

// checkUnquotedCommandSubst flags a command substitution used as a bare
// (unquoted) word, parallel to checkUnquotedParamExpansion.
func checkUnquotedCommandSubst(f *syntax.File) []Diagnostic {
	var out []Diagnostic
	shellfront.Walk(f, func(n syntax.Node) bool {
		call, ok := n.(*syntax.CallExpr)
		if !ok {
			return true
		}
		for i, w := range call.Args {
			if i == 0 || len(w.Parts) != 1 {
				continue
			}
			if _, ok := w.Parts[0].(*syntax.CmdSubst); ok {
				line, col := pos(w.Pos())
				out = append(out, Diagnostic{
					Message: "command substitution used without double quotes",
					Line: line, Column: col, Fix: Safe, FixText: "wrap in double quotes",
				})
			}
		}
		return true
	})
	return out
}

// checkRandomVariable flags any reference to $RANDOM, a non-deterministic
// bash builtin variable.
func checkRandomVariable(f *syntax.File) []Diagnostic {
	var out []Diagnostic
	for _, p := range shellfront.ParamExpansions(f) {
		if p.Param != nil && p.Param.Value == "RANDOM" {
			line, col := pos(p.Pos())
			out = append(out, Diagnostic{
				Message: "$RANDOM is non-deterministic",
				Line: line, Column: col, Fix: NoFix,
				FixText: "use a deterministic identifier scheme instead (counter, content hash)",
			})
		}
	}
	return out
}

// checkProcessIDVariable flags $$ (current PID) and $! (last background PID).
func checkProcessIDVariable(f *syntax.File) []Diagnostic {
	var out []Diagnostic
	for _, p := range shellfront.ParamExpansions(f) {
		if p.Param == nil {
			continue
		}
		if p.Param.Value == "$" || p.Param.Value == "!" {
			line, col := pos(p.Pos())
			out = append(out, Diagnostic{
				Message: "process-id variable is non-deterministic across runs",
				Line: line, Column: col, Fix: NoFix,
			})
		}
	}
	return out
}

var timestampCommands = map[string]bool{
	"date": true, "now": true,
}

// checkTimestampCommand flags calls to commands whose output varies by
// wall-clock time.
func checkTimestampCommand(f *syntax.File) []Diagnostic {
	var out []Diagnostic
	for _, c := range shellfront.Calls(f) {
		name, ok := shellfront.CallName(c)
		if !ok || !timestampCommands[name] {
			continue
		}
		line, col := pos(c.Pos())
		out = append(out, Diagnostic{
			Message: "call to " + name + " is non-deterministic",
			Line: line, Column: col, Fix: NoFix,
		})
	}
	return out
}

func hasFlag(args []*syntax.Word, flag string) bool {
	for _, w := range args {
		if v, ok := shellfront.LiteralWord(w); ok && v == flag {
			return true
		}
	}
	return false
}

// checkMkdirWithoutP flags `mkdir` invocations missing `-p`, which fail on
// a second run if the directory already exists.
func checkMkdirWithoutP(f *syntax.File) []Diagnostic {
	return checkMissingFlag(f, "mkdir", "-p", "mkdir without -p is not idempotent")
}

// checkRmWithoutF flags `rm` invocations missing `-f`.
func checkRmWithoutF(f *syntax.File) []Diagnostic {
	return checkMissingFlag(f, "rm", "-f", "rm without -f is not idempotent")
}

// checkLnSWithoutF flags `ln -s` invocations missing `-f`.
func checkLnSWithoutF(f *syntax.File) []Diagnostic {
	var out []Diagnostic
	for _, c := range shellfront.Calls(f) {
		name, ok := shellfront.CallName(c)
		if !ok || name != "ln" || len(c.Args) < 2 {
			continue
		}
		if !hasFlag(c.Args[1:], "-s") {
			continue
		}
		if hasFlag(c.Args[1:], "-f") || hasFlag(c.Args[1:], "-sf") {
			continue
		}
		line, col := pos(c.Pos())
		out = append(out, Diagnostic{
			Message: "ln -s without -f is not idempotent",
			Line: line, Column: col, Fix: SafeWithAssumptions, FixText: "add -f",
		})
	}
	return out
}

func checkMissingFlag(f *syntax.File, cmd, flag, msg string) []Diagnostic {
	var out []Diagnostic
	for _, c := range shellfront.Calls(f) {
		name, ok := shellfront.CallName(c)
		if !ok || name != cmd || len(c.Args) < 2 {
			continue
		}
		if hasFlag(c.Args[1:], flag) {
			continue
		}
		line, col := pos(c.Pos())
		out = append(out, Diagnostic{
			Message: msg,
			Line: line, Column: col, Fix: SafeWithAssumptions, FixText: "add " + flag,
		})
	}
	return out
}

// checkEvalUsage flags `eval`, which can execute arbitrary constructed text.
func checkEvalUsage(f *syntax.File) []Diagnostic {
	var out []Diagnostic
	for _, c := range shellfront.Calls(f) {
		if name, ok := shellfront.CallName(c); ok && name == "eval" {
			line, col := pos(c.Pos())
			out = append(out, Diagnostic{
				Message: "eval executes constructed text; injection hazard",
				Line: line, Column: col, Fix: NoFix,
			})
		}
	}
	return out
}

// checkCurlPipeShell flags the `curl ... | sh` / `wget -O- ... | sh` idiom:
// executing unreviewed remote content.
func checkCurlPipeShell(f *syntax.File) []Diagnostic {
	var out []Diagnostic
	shellfront.Walk(f, func(n syntax.Node) bool {
		bc, ok := n.(*syntax.BinaryCmd)
		if !ok || bc.Op != syntax.Pipe {
			return true
		}
		left, lok := bc.X.Cmd.(*syntax.CallExpr)
		right, rok := bc.Y.Cmd.(*syntax.CallExpr)
		if !lok || !rok {
			return true
		}
		lname, _ := shellfront.CallName(left)
		rname, _ := shellfront.CallName(right)
		if (lname == "curl" || lname == "wget") && (rname == "sh" || rname == "bash" || strings.HasSuffix(rname, "sh")) {
			line, col := pos(bc.Pos())
			out = append(out, Diagnostic{
				Message: "piping remote content directly into a shell is an injection hazard",
				Line: line, Column: col, Fix: NoFix,
			})
		}
		return true
	})
	return out
}
