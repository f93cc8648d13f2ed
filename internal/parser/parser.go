// Package parser is a hand-written recursive-descent parser over the
// restricted-language lexer (internal/lexer). It is deliberately not built
// on a parser-generator or macro framework: the subset is small enough that
// a straight-line descent is clearer and lets every rejection carry a
// precise span.
package parser

import (
	"fmt"
	"math"

	"github.com/rashlang/rashc/internal/ast"
	"github.com/rashlang/rashc/internal/lexer"
	"github.com/rashlang/rashc/internal/span"
)

// Parser holds the token stream and current lookahead.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse tokenizes and parses src into a Program, or returns the first
// *SyntaxError / *UnsupportedConstruct / *lexer.Error encountered. Parsing
// never recovers from an error: the pipeline aborts at the first one.
func Parse(src string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseProgram()
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peekKind() lexer.Kind { return p.toks[p.pos].Kind }

func (p *Parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos+n]
}

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if p.peekKind() != k {
		return lexer.Token{}, &SyntaxError{Span: p.cur().Span, Expected: k.String(), Found: p.describeCur()}
	}
	return p.advance(), nil
}

func (p *Parser) describeCur() string {
	t := p.cur()
	if t.Kind == lexer.EOF {
		return "end of input"
	}
	if t.Text != "" {
		return fmt.Sprintf("%q", t.Text)
	}
	return t.Kind.String()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.peekKind() != lexer.EOF {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		prog.Items = append(prog.Items, item)
	}
	return prog, nil
}

func (p *Parser) parseItem() (ast.Item, error) {
	switch p.peekKind() {
	case lexer.KwFn:
		return p.parseFunction()
	case lexer.KwConst:
		return p.parseConst()
	default:
		return nil, &SyntaxError{Span: p.cur().Span, Expected: "'fn' or 'const'", Found: p.describeCur()}
	}
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	start := p.cur().Span.Start
	if _, err := p.expect(lexer.KwFn); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if p.peekKind() == lexer.Lt {
		return nil, &UnsupportedConstruct{Span: p.cur().Span, Kind: "generic parameters"}
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var params []ast.Param
	for p.peekKind() != lexer.RParen {
		if len(params) > 0 {
			if _, err := p.expect(lexer.Comma); err != nil {
				return nil, err
			}
			if p.peekKind() == lexer.RParen {
				break
			}
		}
		pname, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		ptype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname.Text, Type: ptype, Span: pname.Span})
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	retType := ast.TypeUnit
	if p.peekKind() == lexer.ThinArrow {
		p.advance()
		retType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Function{
		NameStr:    nameTok.Text,
		Params:     params,
		ReturnType: retType,
		Body:       body,
		SpanVal:    span.Span{Start: start, End: body.SpanVal.End},
	}, nil
}

func (p *Parser) parseConst() (*ast.Const, error) {
	start := p.cur().Span.Start
	p.advance() // const
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.Semi)
	if err != nil {
		return nil, err
	}
	return &ast.Const{NameStr: nameTok.Text, Type: ty, Value: val, SpanVal: span.Span{Start: start, End: semi.Span.End}}, nil
}

// parseType recognizes the four primitive type names plus the syntactic
// shape of Option<T> / Result<T,E> so the validator (not the parser) can
// reject them with a precise ForbiddenConstruct error.
func (p *Parser) parseType() (ast.Type, error) {
	tok, err := p.expect(lexer.Ident)
	if err != nil {
		return ast.TypeUnknown, err
	}
	if p.peekKind() == lexer.Lt {
		// Option<T> / Result<T, E> — syntactically legal, validated later.
		p.advance()
		if _, err := p.parseType(); err != nil {
			return ast.TypeUnknown, err
		}
		for p.peekKind() == lexer.Comma {
			p.advance()
			if _, err := p.parseType(); err != nil {
				return ast.TypeUnknown, err
			}
		}
		if p.peekKind() != lexer.Gt {
			return ast.TypeUnknown, &SyntaxError{Span: p.cur().Span, Expected: "'>'", Found: p.describeCur()}
		}
		p.advance()
		return ast.TypeUnknown, nil // flagged by the validator, never a usable type
	}
	switch tok.Text {
	case "Bool":
		return ast.TypeBool, nil
	case "Integer":
		return ast.TypeInteger, nil
	case "String":
		return ast.TypeString, nil
	case "Unit":
		return ast.TypeUnit, nil
	default:
		return ast.TypeUnknown, nil // validator reports ForbiddenConstruct
	}
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	start, err := p.expect(lexer.LBrace)
	if err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.peekKind() != lexer.RBrace {
		st, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	end, err := p.expect(lexer.RBrace)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Stmts: stmts, SpanVal: span.Span{Start: start.Span.Start, End: end.Span.End}}, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.peekKind() {
	case lexer.KwLet:
		return p.parseLet()
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwFor:
		return p.parseFor()
	case lexer.KwMatch:
		return p.parseMatch()
	case lexer.KwBreak:
		tok := p.advance()
		semi, err := p.expect(lexer.Semi)
		if err != nil {
			return nil, err
		}
		return &ast.Break{SpanVal: span.Span{Start: tok.Span.Start, End: semi.Span.End}}, nil
	case lexer.KwContinue:
		tok := p.advance()
		semi, err := p.expect(lexer.Semi)
		if err != nil {
			return nil, err
		}
		return &ast.Continue{SpanVal: span.Span{Start: tok.Span.Start, End: semi.Span.End}}, nil
	case lexer.KwReturn:
		return p.parseReturn()
	case lexer.LBrace:
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Body: b, SpanVal: b.SpanVal}, nil
	case lexer.Ident:
		// Disambiguate `name = expr;` (Assign) from an expression statement.
		if p.peekAt(1).Kind == lexer.Assign {
			return p.parseAssign()
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseLet() (*ast.Let, error) {
	start := p.cur().Span.Start
	p.advance() // let
	mut := false
	if p.peekKind() == lexer.KwMut {
		mut = true
		p.advance()
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.Semi)
	if err != nil {
		return nil, err
	}
	return &ast.Let{Name: name.Text, Mutable: mut, Value: val, SpanVal: span.Span{Start: start, End: semi.Span.End}}, nil
}

func (p *Parser) parseAssign() (*ast.Assign, error) {
	name := p.advance()
	p.advance() // '='
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.Semi)
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Name: name.Text, Value: val, SpanVal: span.Span{Start: name.Span.Start, End: semi.Span.End}}, nil
}

func (p *Parser) parseExprStmt() (*ast.ExprStmt, error) {
	start := p.cur().Span.Start
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.Semi)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Value: e, SpanVal: span.Span{Start: start, End: semi.Span.End}}, nil
}

func (p *Parser) parseIf() (*ast.If, error) {
	start := p.cur().Span.Start
	p.advance() // if
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBlock *ast.Block
	end := then.SpanVal.End
	if p.peekKind() == lexer.KwElse {
		p.advance()
		if p.peekKind() == lexer.KwIf {
			inner, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			elseBlock = &ast.Block{Stmts: []ast.Stmt{inner}, SpanVal: inner.SpanVal}
		} else {
			elseBlock, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		}
		end = elseBlock.SpanVal.End
	}
	return &ast.If{Cond: cond, Then: then, Else: elseBlock, SpanVal: span.Span{Start: start, End: end}}, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	start := p.cur().Span.Start
	p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, SpanVal: span.Span{Start: start, End: body.SpanVal.End}}, nil
}

func (p *Parser) parseFor() (*ast.For, error) {
	start := p.cur().Span.Start
	p.advance() // for
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KwIn); err != nil {
		return nil, err
	}
	startExpr, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}
	inclusive := false
	switch p.peekKind() {
	case lexer.DotDot:
		p.advance()
	case lexer.DotDotEq:
		inclusive = true
		p.advance()
	default:
		return nil, &SyntaxError{Span: p.cur().Span, Expected: "'..' or '..='", Found: p.describeCur()}
	}
	endExpr, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.For{
		Name: name.Text, Start: startExpr, End: endExpr, Inclusive: inclusive, Body: body,
		SpanVal: span.Span{Start: start, End: body.SpanVal.End},
	}, nil
}

func (p *Parser) parseMatch() (*ast.Match, error) {
	start := p.cur().Span.Start
	p.advance() // match
	scrutinee, err := p.parseMatchScrutinee()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	var arms []ast.MatchArm
	for p.peekKind() != lexer.RBrace {
		arm, err := p.parseMatchArm()
		if err != nil {
			return nil, err
		}
		arms = append(arms, arm)
		if p.peekKind() == lexer.Comma {
			p.advance()
		}
	}
	end, err := p.expect(lexer.RBrace)
	if err != nil {
		return nil, err
	}
	return &ast.Match{Scrutinee: scrutinee, Arms: arms, SpanVal: span.Span{Start: start, End: end.Span.End}}, nil
}

// parseMatchScrutinee accepts only a bare name or literal as a scrutinee.
func (p *Parser) parseMatchScrutinee() (ast.Expr, error) {
	switch p.peekKind() {
	case lexer.Ident:
		tok := p.advance()
		return &ast.Name{Ident: tok.Text, SpanVal: tok.Span}, nil
	case lexer.IntLit, lexer.StringLit, lexer.KwTrue, lexer.KwFalse:
		return p.parsePrimary()
	default:
		return nil, &SyntaxError{Span: p.cur().Span, Expected: "name or literal", Found: p.describeCur()}
	}
}

func (p *Parser) parseMatchArm() (ast.MatchArm, error) {
	pat, err := p.parsePattern()
	if err != nil {
		return ast.MatchArm{}, err
	}
	if _, err := p.expect(lexer.Arrow); err != nil {
		return ast.MatchArm{}, err
	}
	var body *ast.Block
	if p.peekKind() == lexer.LBrace {
		body, err = p.parseBlock()
		if err != nil {
			return ast.MatchArm{}, err
		}
	} else {
		start := p.cur().Span.Start
		e, err := p.parseExpr()
		if err != nil {
			return ast.MatchArm{}, err
		}
		body = &ast.Block{
			Stmts:   []ast.Stmt{&ast.ExprStmt{Value: e, SpanVal: e.Span()}},
			SpanVal: span.Span{Start: start, End: e.Span().End},
		}
	}
	return ast.MatchArm{Pattern: pat, Body: body, SpanVal: span.Span{Start: pat.Span().Start, End: body.SpanVal.End}}, nil
}

func (p *Parser) parsePattern() (ast.Pattern, error) {
	switch p.peekKind() {
	case lexer.Underscore:
		tok := p.advance()
		return &ast.WildcardPattern{SpanVal: tok.Span}, nil
	case lexer.IntLit, lexer.StringLit, lexer.KwTrue, lexer.KwFalse:
		e, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		lit, ok := e.(*ast.Lit)
		if !ok {
			return nil, &SyntaxError{Span: e.Span(), Expected: "literal pattern", Found: "expression"}
		}
		return &ast.LitPattern{Lit: lit}, nil
	case lexer.Minus:
		// negative integer literal pattern, e.g. `-1 => ...`
		minus := p.advance()
		if p.peekKind() != lexer.IntLit {
			return nil, &SyntaxError{Span: p.cur().Span, Expected: "integer literal", Found: p.describeCur()}
		}
		digits := p.advance()
		e, err := negatedIntLiteral(minus, digits)
		if err != nil {
			return nil, err
		}
		return &ast.LitPattern{Lit: e.(*ast.Lit)}, nil
	case lexer.Ident:
		tok := p.advance()
		return &ast.NamePattern{Ident: tok.Text, SpanVal: tok.Span}, nil
	default:
		return nil, &SyntaxError{Span: p.cur().Span, Expected: "pattern", Found: p.describeCur()}
	}
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	start := p.cur().Span.Start
	p.advance() // return
	var val ast.Expr
	if p.peekKind() != lexer.Semi {
		var err error
		val, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	semi, err := p.expect(lexer.Semi)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: val, SpanVal: span.Span{Start: start, End: semi.Span.End}}, nil
}

// ---- Expressions, precedence climbing, lowest to highest ----

func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peekKind() == lexer.OrOr {
		op := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.OpOr, Left: left, Right: right, SpanVal: span.Span{Start: left.Span().Start, End: right.Span().End}}
		_ = op
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	for p.peekKind() == lexer.AndAnd {
		p.advance()
		right, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.OpAnd, Left: left, Right: right, SpanVal: span.Span{Start: left.Span().Start, End: right.Span().End}}
	}
	return left, nil
}

var cmpOps = map[lexer.Kind]ast.BinaryOp{
	lexer.Eq: ast.OpEq, lexer.Ne: ast.OpNe,
	lexer.Lt: ast.OpLt, lexer.Le: ast.OpLe,
	lexer.Gt: ast.OpGt, lexer.Ge: ast.OpGe,
}

func (p *Parser) parseCmp() (ast.Expr, error) {
	left, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}
	if op, ok := cmpOps[p.peekKind()]; ok {
		p.advance()
		right, err := p.parseAddExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, SpanVal: span.Span{Start: left.Span().Start, End: right.Span().End}}
	}
	return left, nil
}

func (p *Parser) parseAddExpr() (ast.Expr, error) {
	left, err := p.parseMulExpr()
	if err != nil {
		return nil, err
	}
	for p.peekKind() == lexer.Plus || p.peekKind() == lexer.Minus {
		opTok := p.advance()
		right, err := p.parseMulExpr()
		if err != nil {
			return nil, err
		}
		op := ast.OpAdd
		if opTok.Kind == lexer.Minus {
			op = ast.OpSub
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, SpanVal: span.Span{Start: left.Span().Start, End: right.Span().End}}
	}
	return left, nil
}

func (p *Parser) parseMulExpr() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peekKind() == lexer.Star || p.peekKind() == lexer.Slash || p.peekKind() == lexer.Percent {
		opTok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		var op ast.BinaryOp
		switch opTok.Kind {
		case lexer.Star:
			op = ast.OpMul
		case lexer.Slash:
			op = ast.OpDiv
		default:
			op = ast.OpMod
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, SpanVal: span.Span{Start: left.Span().Start, End: right.Span().End}}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.peekKind() {
	case lexer.Not:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.UnaryNot, Operand: operand, SpanVal: span.Span{Start: tok.Span.Start, End: operand.Span().End}}, nil
	case lexer.Minus:
		tok := p.advance()
		// `-2147483648` is folded directly into a single Lit here rather
		// than Unary(Neg, Lit(2147483648)): the digits alone don't fit a
		// signed 32-bit literal, so intLiteral would reject them before the
		// negation ever applies. i32::MIN reaches the same value through the
		// identifier path in parseIdentExpr.
		if p.peekKind() == lexer.IntLit {
			digits := p.advance()
			lit, err := negatedIntLiteral(tok, digits)
			if err != nil {
				return nil, err
			}
			return lit, nil
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.UnaryNeg, Operand: operand, SpanVal: span.Span{Start: tok.Span.Start, End: operand.Span().End}}, nil
	default:
		return p.parsePrimary()
	}
}

// negatedIntLiteral parses digits as the magnitude of a negative signed
// 32-bit literal, allowing the one magnitude (2147483648) that has no
// positive i32 representation.
func negatedIntLiteral(minus, digits lexer.Token) (ast.Expr, error) {
	var v int64
	for _, c := range digits.Text {
		v = v*10 + int64(c-'0')
		if v > -int64(math.MinInt32) {
			return nil, &SyntaxError{Span: digits.Span, Expected: "integer literal fitting in signed 32 bits", Found: fmt.Sprintf("-%s", digits.Text)}
		}
	}
	neg := -v
	if neg < math.MinInt32 {
		return nil, &SyntaxError{Span: digits.Span, Expected: "integer literal fitting in signed 32 bits", Found: fmt.Sprintf("-%s", digits.Text)}
	}
	return &ast.Lit{Kind: ast.LitInt, Int: int32(neg), SpanVal: span.Span{Start: minus.Span.Start, End: digits.Span.End}}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.IntLit:
		p.advance()
		return p.intLiteral(tok)
	case lexer.StringLit:
		p.advance()
		return &ast.Lit{Kind: ast.LitString, Str: tok.Text, SpanVal: tok.Span}, nil
	case lexer.KwTrue:
		p.advance()
		return &ast.Lit{Kind: ast.LitBool, Bool: true, SpanVal: tok.Span}, nil
	case lexer.KwFalse:
		p.advance()
		return &ast.Lit{Kind: ast.LitBool, Bool: false, SpanVal: tok.Span}, nil
	case lexer.LParen:
		return p.parseParen()
	case lexer.Ident:
		return p.parseIdentExpr()
	default:
		return nil, &SyntaxError{Span: tok.Span, Expected: "expression", Found: p.describeCur()}
	}
}

// intLiteral parses a decimal integer literal, enforcing that it fits in a
// signed 32-bit range.
func (p *Parser) intLiteral(tok lexer.Token) (ast.Expr, error) {
	var v int64
	for _, c := range tok.Text {
		v = v*10 + int64(c-'0')
		if v > math.MaxInt32+1 {
			return nil, &SyntaxError{Span: tok.Span, Expected: "integer literal fitting in signed 32 bits", Found: fmt.Sprintf("%q", tok.Text)}
		}
	}
	if v > math.MaxInt32 {
		return nil, &SyntaxError{Span: tok.Span, Expected: "integer literal fitting in signed 32 bits", Found: fmt.Sprintf("%q", tok.Text)}
	}
	return &ast.Lit{Kind: ast.LitInt, Int: int32(v), SpanVal: tok.Span}, nil
}

// parseIdentExpr handles bare names, `i32::MIN`/`i32::MAX`, and calls.
// i32::MIN/MAX are recognized here rather than in the lexer, as literal
// constants that sidestep the negation-of-2^31 edge case at parse time;
// this needs two identifier tokens and a "::" look-alike, which we model
// as two Colon tokens.
func (p *Parser) parseIdentExpr() (ast.Expr, error) {
	tok := p.advance()
	if tok.Text == "i32" && p.peekKind() == lexer.Colon && p.peekAt(1).Kind == lexer.Colon {
		p.advance()
		p.advance()
		member, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		end := member.Span.End
		switch member.Text {
		case "MIN":
			return &ast.Lit{Kind: ast.LitInt, Int: math.MinInt32, SpanVal: span.Span{Start: tok.Span.Start, End: end}}, nil
		case "MAX":
			return &ast.Lit{Kind: ast.LitInt, Int: math.MaxInt32, SpanVal: span.Span{Start: tok.Span.Start, End: end}}, nil
		default:
			return nil, &SyntaxError{Span: member.Span, Expected: "'MIN' or 'MAX'", Found: fmt.Sprintf("%q", member.Text)}
		}
	}
	// The lexer fuses "println!" into a single Ident token; any other
	// identifier directly followed by '!' is an unsupported macro
	// invocation.
	if p.peekKind() == lexer.Not {
		return nil, &UnsupportedConstruct{Span: p.cur().Span, Kind: fmt.Sprintf("macro invocation %s!", tok.Text)}
	}
	if p.peekKind() == lexer.LParen {
		return p.parseCall(tok)
	}
	return &ast.Name{Ident: tok.Text, SpanVal: tok.Span}, nil
}

func (p *Parser) parseCall(callee lexer.Token) (ast.Expr, error) {
	p.advance() // '('
	var args []ast.Expr
	for p.peekKind() != lexer.RParen {
		if len(args) > 0 {
			if _, err := p.expect(lexer.Comma); err != nil {
				return nil, err
			}
			if p.peekKind() == lexer.RParen {
				break
			}
		}
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	end, err := p.expect(lexer.RParen)
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee.Text, Args: args, SpanVal: span.Span{Start: callee.Span.Start, End: end.Span.End}}, nil
}

// parseParen parses a parenthesized expression and rejects tuple literals:
// a comma after the first expression means `(a, b)`, which this subset
// has no type for.
func (p *Parser) parseParen() (ast.Expr, error) {
	start := p.advance() // '('
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peekKind() == lexer.Comma {
		return nil, &UnsupportedConstruct{Span: p.cur().Span, Kind: "tuple literal"}
	}
	end, err := p.expect(lexer.RParen)
	if err != nil {
		return nil, err
	}
	return &ast.Paren{Inner: inner, SpanVal: span.Span{Start: start.Span.Start, End: end.Span.End}}, nil
}
