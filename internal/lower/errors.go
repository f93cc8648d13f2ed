package lower

import (
	"fmt"

	"github.com/rashlang/rashc/internal/span"
)

// Kind enumerates the LoweringError kinds.
type Kind int

const (
	UnknownBuiltin Kind = iota
	ArgumentArity
	ReturnKindMismatch
	RangeOverflow
)

func (k Kind) String() string {
	switch k {
	case UnknownBuiltin:
		return "UnknownBuiltin"
	case ArgumentArity:
		return "ArgumentArity"
	case ReturnKindMismatch:
		return "ReturnKindMismatch"
	case RangeOverflow:
		return "RangeOverflow"
	default:
		return "Unknown"
	}
}

// Error is a LoweringError: a kind, a source span, and a message.
type Error struct {
	Kind    Kind
	Span    span.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Span, e.Kind, e.Message)
}
