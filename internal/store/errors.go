package store

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned by backends when an id does not resolve.
var ErrRecordNotFound = errors.New("record not found")

// Entity kinds, used in errors and reservation keys.
const (
	KindPlayer = "player"
	KindGame   = "game"
)

// NotFoundError reports a referenced player or game id that does not exist.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// PersistenceError reports a failed backend round trip. Local state is unchanged.
type PersistenceError struct {
	Op   string
	Kind string
	ID   int64
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("persist %s %s %d: %v", e.Op, e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("persist %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ConflictError reports a mutation refused because another one on the same entity is
// still in flight.
type ConflictError struct {
	Kind string
	ID   int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d is being modified by another operation", e.Kind, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
