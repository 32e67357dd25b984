package library

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means a book has no copies left to issue.
	ErrUnavailable = errors.New("no copies available")
	// ErrAlreadyReturned means a return was attempted on a closed record.
	ErrAlreadyReturned = errors.New("record already returned")
	// ErrAuthFailed covers bad credentials and one-time-code mismatches.
	ErrAuthFailed = errors.New("invalid credentials")
)

// ValidationError reports a missing required field or a duplicate unique key.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// NotFoundError reports an identifier that does not reference an entity.
type NotFoundError struct {
	Kind string // "student", "book" or "record"
	ID   int
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %d not found", e.Kind, e.ID) }
