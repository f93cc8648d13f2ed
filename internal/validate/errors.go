package validate

import (
	"fmt"

	"github.com/rashlang/rashc/internal/span"
)

// Kind enumerates the ValidationError kinds.
type Kind int

const (
	Recursion Kind = iota
	TypeMismatch
	UnknownName
	DuplicateItem
	OutOfRangeLiteral
	ForbiddenConstruct
)

func (k Kind) String() string {
	switch k {
	case Recursion:
		return "Recursion"
	case TypeMismatch:
		return "TypeMismatch"
	case UnknownName:
		return "UnknownName"
	case DuplicateItem:
		return "DuplicateItem"
	case OutOfRangeLiteral:
		return "OutOfRangeLiteral"
	case ForbiddenConstruct:
		return "ForbiddenConstruct"
	default:
		return "Unknown"
	}
}

// Error is a ValidationError: a kind, a source span, and a message.
type Error struct {
	Kind    Kind
	Span    span.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Span, e.Kind, e.Message)
}
