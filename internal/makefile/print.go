package makefile

import "strings"

// Print renders f back to Makefile text. Used by the purifier to
// re-emit a rewritten AST; comments and blank-line layout from the
// original source are not preserved — only the constructs this package
// models (assignments, rules, recipes, conditionals, includes, .PHONY).
func Print(f *File) string {
	var b strings.Builder
	printNodes(&b, f.Nodes)
	return b.String()
}

func printNodes(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		printNode(b, n)
	}
}

func printNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *VarAssign:
		b.WriteString(v.Name)
		b.WriteByte(' ')
		b.WriteString(v.Op.String())
		b.WriteByte(' ')
		b.WriteString(v.Value)
		b.WriteByte('\n')

	case *Rule:
		b.WriteString(strings.Join(v.Targets, " "))
		b.WriteString(": ")
		b.WriteString(strings.Join(v.Prereqs, " "))
		if len(v.OrderOnlyPrereqs) > 0 {
			b.WriteString(" | ")
			b.WriteString(strings.Join(v.OrderOnlyPrereqs, " "))
		}
		b.WriteByte('\n')
		for _, rl := range v.Recipe {
			b.WriteByte('\t')
			if rl.Silent {
				b.WriteByte('@')
			}
			if rl.Ignore {
				b.WriteByte('-')
			}
			if rl.Always {
				b.WriteByte('+')
			}
			b.WriteString(rl.Text)
			b.WriteByte('\n')
		}

	case *Conditional:
		b.WriteString(v.Kind)
		b.WriteByte(' ')
		b.WriteString(v.Cond)
		b.WriteByte('\n')
		printNodes(b, v.Then)
		if len(v.Else) > 0 {
			b.WriteString("else\n")
			printNodes(b, v.Else)
		}
		b.WriteString("endif\n")

	case *Include:
		if v.Optional {
			b.WriteString("-include ")
		} else {
			b.WriteString("include ")
		}
		b.WriteString(v.Path)
		b.WriteByte('\n')

	case *PhonyDecl:
		b.WriteString(".PHONY: ")
		b.WriteString(strings.Join(v.Names, " "))
		b.WriteByte('\n')
	}
}
