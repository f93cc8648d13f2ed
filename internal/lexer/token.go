// Package lexer tokenizes the restricted language's source text. It never
// recognizes constructs outside the subset; the parser relies on the lexer
// only ever emitting a token from this closed set.
package lexer

import "github.com/rashlang/rashc/internal/span"

// Kind enumerates every token the grammar recognizes.
type Kind int

const (
	EOF Kind = iota
	Ident
	IntLit
	StringLit

	// Keywords
	KwFn
	KwLet
	KwMut
	KwIf
	KwElse
	KwWhile
	KwFor
	KwIn
	KwMatch
	KwBreak
	KwContinue
	KwReturn
	KwTrue
	KwFalse
	KwConst

	// Punctuation / operators
	LParen
	RParen
	LBrace
	RBrace
	Comma
	Colon
	Semi
	Arrow    // =>
	ThinArrow // ->
	Assign
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	AndAnd
	OrOr
	Not
	Plus
	Minus
	Star
	Slash
	Percent
	DotDot
	DotDotEq
	Underscore
	Bang // not produced by the lexer: println! lexes as one Ident, any other '!' as Not
)

var keywords = map[string]Kind{
	"fn":       KwFn,
	"let":      KwLet,
	"mut":      KwMut,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"in":       KwIn,
	"match":    KwMatch,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"true":     KwTrue,
	"false":    KwFalse,
	"const":    KwConst,
}

// Token is a single lexeme with its source span.
type Token struct {
	Kind Kind
	Text string // raw source text (idents, keywords) or decoded value (strings)
	Span span.Span
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case IntLit:
		return "integer literal"
	case StringLit:
		return "string literal"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case Comma:
		return "','"
	case Colon:
		return "':'"
	case Semi:
		return "';'"
	case Arrow:
		return "'=>'"
	case ThinArrow:
		return "'->'"
	case Assign:
		return "'='"
	case Eq:
		return "'=='"
	case Ne:
		return "'!='"
	case Lt:
		return "'<'"
	case Le:
		return "'<='"
	case Gt:
		return "'>'"
	case Ge:
		return "'>='"
	case AndAnd:
		return "'&&'"
	case OrOr:
		return "'||'"
	case Not:
		return "'!'"
	case Plus:
		return "'+'"
	case Minus:
		return "'-'"
	case Star:
		return "'*'"
	case Slash:
		return "'/'"
	case Percent:
		return "'%'"
	case DotDot:
		return "'..'"
	case DotDotEq:
		return "'..='"
	case Underscore:
		return "'_'"
	case Bang:
		return "'!'"
	default:
		return "keyword"
	}
}
