package expr

import "fmt"

// ParseError indicates a malformed expression. It aborts the whole call that
// submitted the expression; it is never absorbed per record.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed expression at position %d: %s", e.Pos, e.Msg)
}

// TypeMismatchError indicates an evaluation failure for a single record,
// e.g. ordering a string against a date. Views absorb it: the record is
// excluded from filtered results or shown empty in formula columns.
type TypeMismatchError struct {
	Left  Kind
	Right Kind
	Op    string
}

func (e *TypeMismatchError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("type mismatch: cannot apply %s to %s and %s", e.Op, e.Left, e.Right)
	}
	return fmt.Sprintf("type mismatch: cannot compare %s with %s", e.Left, e.Right)
}

// EvalError wraps evaluation failures that are not type mismatches, such as
// calling an unknown function. Like TypeMismatchError it is absorbed per
// record during view materialization.
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string { return e.Msg }
