package emit

import "fmt"

// Error reports an IR shape the emitter has no rendering rule for. Emission
// is total for IR that has passed internal/verify, so this only fires on a
// genuine earlier-stage bug, never on a well-formed program.
type Error struct {
	Node    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Node, e.Message)
}

func errf(node, format string, args ...any) *Error {
	return &Error{Node: node, Message: fmt.Sprintf(format, args...)}
}
