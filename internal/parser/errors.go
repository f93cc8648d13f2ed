package parser

import (
	"fmt"

	"github.com/rashlang/rashc/internal/span"
)

// SyntaxError reports a token the grammar did not expect at that position.
type SyntaxError struct {
	Span     span.Span
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: expected %s, found %s", e.Span, e.Expected, e.Found)
}

// UnsupportedConstruct reports a construct that exists in the source
// language at large but was deliberately excluded from this subset:
// generics, lifetimes, pattern destructuring, tuples, arrays, closures,
// await, unsafe, attributes, and macros other than println!.
type UnsupportedConstruct struct {
	Span span.Span
	Kind string
}

func (e *UnsupportedConstruct) Error() string {
	return fmt.Sprintf("%s: unsupported construct: %s is outside the supported language subset", e.Span, e.Kind)
}
