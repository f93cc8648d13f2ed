package makefile

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseError reports a line the parser could not make sense of.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("makefile:%d: %s", e.Line, e.Message)
}

// rawLine is one logical (continuation-joined) line with its starting
// line number and whether the Makefile itself wrote it with a leading tab
// (GNU Make's sole recipe marker).
type rawLine struct {
	text     string
	line     int
	hasTab   bool
}

// Parse reads Makefile source and returns its parsed structure.
func Parse(r io.Reader) (*File, error) {
	lines, err := joinContinuations(r)
	if err != nil {
		return nil, err
	}
	p := &parser{lines: lines}
	return p.parseFile()
}

// joinContinuations splits r into logical lines, folding any physical line
// ending in an unescaped backslash into the next one (GNU Make's line
// continuation rule applies uniformly to both directive and recipe lines).
func joinContinuations(r io.Reader) ([]rawLine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []rawLine
	var pending strings.Builder
	pendingStart := 0
	pendingTab := false
	lineNo := 0

	flush := func() {
		if pending.Len() > 0 || pendingStart != 0 {
			out = append(out, rawLine{text: pending.String(), line: pendingStart, hasTab: pendingTab})
			pending.Reset()
			pendingStart = 0
			pendingTab = false
		}
	}

	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		tab := strings.HasPrefix(text, "\t")
		if tab {
			text = text[1:]
		}
		if pendingStart == 0 {
			pendingStart = lineNo
			pendingTab = tab
		}
		if strings.HasSuffix(text, "\\") && !strings.HasSuffix(text, "\\\\") {
			pending.WriteString(strings.TrimSuffix(text, "\\"))
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(text)
		flush()
	}
	flush()
	return out, scanner.Err()
}

// stripShellComment returns s with everything from the first unquoted,
// unescaped '#' removed — grounded on google/kati's stripShellComment,
// which tracks single/double/backtick quote state so a '#' inside a
// recipe's quoted shell text is not mistaken for a Make comment marker.
func stripShellComment(s string) string {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch quote {
		case '\'':
			if c == '\'' {
				quote = 0
			}
		case '"', '`':
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
		default:
			switch c {
			case '\'', '"', '`':
				quote = c
			case '#':
				return s[:i]
			}
		}
	}
	return s
}

// stripMakeComment strips a Makefile-level comment from a non-recipe
// line: '#' always starts a comment there unless escaped with a
// backslash (Make directives are not shell text, so no quote-awareness
// applies).
func stripMakeComment(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '#' {
			b.WriteByte('#')
			i++
			continue
		}
		if s[i] == '#' {
			break
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

type parser struct {
	lines []rawLine
	pos   int
}

func (p *parser) parseFile() (*File, error) {
	nodes, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}
	return &File{Nodes: nodes}, nil
}

// parseBlock parses nodes until EOF or, when inConditional, until an
// else/endif directive (left unconsumed for the caller to interpret).
func (p *parser) parseBlock(inConditional bool) ([]Node, error) {
	var nodes []Node
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]

		if ln.hasTab {
			return nil, &ParseError{Line: ln.line, Message: "recipe line outside of a rule"}
		}

		trimmed := strings.TrimSpace(stripMakeComment(ln.text))
		if trimmed == "" {
			p.pos++
			continue
		}

		if inConditional && (trimmed == "else" || strings.HasPrefix(trimmed, "else ") ||
			trimmed == "endif") {
			return nodes, nil
		}

		switch {
		case strings.HasPrefix(trimmed, "ifeq") || strings.HasPrefix(trimmed, "ifneq") ||
			strings.HasPrefix(trimmed, "ifdef") || strings.HasPrefix(trimmed, "ifndef"):
			cond, err := p.parseConditional(trimmed, ln.line)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, cond)

		case strings.HasPrefix(trimmed, "include ") || strings.HasPrefix(trimmed, "-include ") ||
			strings.HasPrefix(trimmed, "sinclude "):
			nodes = append(nodes, parseInclude(trimmed, ln.line))
			p.pos++

		case strings.HasPrefix(trimmed, ".PHONY:") || strings.HasPrefix(trimmed, ".PHONY :"):
			nodes = append(nodes, parsePhony(trimmed, ln.line))
			p.pos++

		default:
			if op, idx, ok := findAssignOp(trimmed); ok {
				nodes = append(nodes, parseAssign(trimmed, op, idx, ln.line))
				p.pos++
				continue
			}
			rule, err := p.parseRule(trimmed, ln.line)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, rule)
		}
	}
	return nodes, nil
}

func (p *parser) parseConditional(header string, line int) (*Conditional, error) {
	kind, cond, _ := strings.Cut(header, " ")
	kind = strings.TrimSpace(kind)
	cond = strings.TrimSpace(cond)
	p.pos++

	then, err := p.parseBlock(true)
	if err != nil {
		return nil, err
	}
	c := &Conditional{Kind: kind, Cond: cond, Then: then, Line: line}

	if p.pos >= len(p.lines) {
		return nil, &ParseError{Line: line, Message: "unterminated " + kind + " (missing endif)"}
	}
	directive := strings.TrimSpace(stripMakeComment(p.lines[p.pos].text))
	if directive == "endif" {
		p.pos++
		return c, nil
	}
	// else branch, possibly "else ifeq ..." (re-enter as a nested conditional)
	p.pos++
	if strings.HasPrefix(directive, "else ") {
		rest := strings.TrimSpace(strings.TrimPrefix(directive, "else"))
		p.pos--
		p.lines[p.pos].text = rest
		nested, err := p.parseBlock(true)
		if err != nil {
			return nil, err
		}
		c.Else = nested
	} else {
		elseBody, err := p.parseBlock(true)
		if err != nil {
			return nil, err
		}
		c.Else = elseBody
	}

	if p.pos >= len(p.lines) {
		return nil, &ParseError{Line: line, Message: "unterminated " + kind + " (missing endif)"}
	}
	if strings.TrimSpace(stripMakeComment(p.lines[p.pos].text)) == "endif" {
		p.pos++
	}
	return c, nil
}

func parseInclude(line string, lineNo int) *Include {
	optional := false
	rest := line
	switch {
	case strings.HasPrefix(rest, "-include "):
		optional = true
		rest = strings.TrimPrefix(rest, "-include ")
	case strings.HasPrefix(rest, "sinclude "):
		optional = true
		rest = strings.TrimPrefix(rest, "sinclude ")
	default:
		rest = strings.TrimPrefix(rest, "include ")
	}
	return &Include{Path: strings.TrimSpace(rest), Optional: optional, Line: lineNo}
}

func parsePhony(line string, lineNo int) *PhonyDecl {
	_, rest, _ := strings.Cut(line, ":")
	return &PhonyDecl{Names: strings.Fields(rest), Line: lineNo}
}

// findAssignOp locates the first top-level (not inside a $(...) call)
// occurrence of one of the five assignment operators, longest first so
// ":=" is not mistaken for a rule-separating ":".
func findAssignOp(s string) (AssignOp, int, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '{':
			depth++
		case ')', '}':
			if depth > 0 {
				depth--
			}
		}
		if depth != 0 {
			continue
		}
		switch {
		case strings.HasPrefix(s[i:], "::="):
			return OpSimple, i, true
		case strings.HasPrefix(s[i:], ":="):
			return OpSimple, i, true
		case strings.HasPrefix(s[i:], "?="):
			return OpConditional, i, true
		case strings.HasPrefix(s[i:], "+="):
			return OpAppend, i, true
		case strings.HasPrefix(s[i:], "!="):
			return OpShell, i, true
		case s[i] == '=':
			return OpRecursive, i, true
		case s[i] == ':':
			// A bare ':' before any assignment operator marks a rule header,
			// not an assignment — stop looking.
			return 0, 0, false
		}
	}
	return 0, 0, false
}

func parseAssign(s string, op AssignOp, idx int, lineNo int) *VarAssign {
	name := strings.TrimSpace(s[:idx])
	opLen := len(op.String())
	value := strings.TrimSpace(s[idx+opLen:])
	return &VarAssign{Name: name, Op: op, Value: value, Line: lineNo}
}

func (p *parser) parseRule(header string, lineNo int) (*Rule, error) {
	targetsPart, rest, ok := strings.Cut(header, ":")
	if !ok {
		return nil, &ParseError{Line: lineNo, Message: "expected ':' in rule header: " + header}
	}
	prereqPart := rest
	orderOnly := ""
	if idx := strings.Index(rest, "|"); idx != -1 {
		prereqPart = rest[:idx]
		orderOnly = rest[idx+1:]
	}
	rule := &Rule{
		Targets: strings.Fields(targetsPart),
		Prereqs: strings.Fields(prereqPart),
		Line:    lineNo,
	}
	if orderOnly != "" {
		rule.OrderOnlyPrereqs = strings.Fields(orderOnly)
	}
	p.pos++

	for p.pos < len(p.lines) && p.lines[p.pos].hasTab {
		rl := p.lines[p.pos]
		text := rl.text
		rline := RecipeLine{Line: rl.line}
		for len(text) > 0 {
			switch text[0] {
			case '@':
				rline.Silent = true
				text = text[1:]
				continue
			case '-':
				rline.Ignore = true
				text = text[1:]
				continue
			case '+':
				rline.Always = true
				text = text[1:]
				continue
			}
			break
		}
		rline.Text = text
		rule.Recipe = append(rule.Recipe, rline)
		p.pos++
	}
	return rule, nil
}
