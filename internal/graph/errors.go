package graph

import "fmt"

// DuplicateIdentifierError is returned when a note is created with a
// permalink that is already taken.
type DuplicateIdentifierError struct {
	Permalink string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate identifier: %q already exists", e.Permalink)
}

// NotFoundError is returned when an operation targets a permalink that is
// not in the index.
type NotFoundError struct {
	Permalink string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("note %q not found", e.Permalink)
}
