package verify

import "fmt"

// Kind enumerates the VerificationError kinds.
type Kind int

const (
	InjectionRisk Kind = iota
	NonDeterministic
	TerminationBound
	ReturnKindMismatch
)

func (k Kind) String() string {
	switch k {
	case InjectionRisk:
		return "InjectionRisk"
	case NonDeterministic:
		return "NonDeterministic"
	case TerminationBound:
		return "TerminationBound"
	case ReturnKindMismatch:
		return "ReturnKindMismatch"
	default:
		return "Unknown"
	}
}

// Error is a VerificationError: the violated invariant plus a description of
// the offending node (IR carries no source spans, so the node is identified
// by the function it occurs in and a short structural description).
type Error struct {
	Kind Kind
	Node string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Node, e.Kind, e.Message)
}

func errf(kind Kind, node, format string, args ...any) *Error {
	return &Error{Kind: kind, Node: node, Message: fmt.Sprintf(format, args...)}
}
