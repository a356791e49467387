package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrInvalidState       = errors.New("invalid state")
	ErrConflict           = errors.New("concurrent modification")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
)

// TransitionError reports a status move that is not in the transition table.
type TransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *TransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot move order from %q to %q: %q has no legal transitions", e.From, e.To, e.From)
	}
	return fmt.Sprintf("cannot move order from %q to %q: allowed next statuses are %s", e.From, e.To, strings.Join(e.Allowed, ", "))
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// StateError reports an action attempted while the order status disallows it.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return e.Reason
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}

// NewStateError builds a StateError with a formatted reason.
func NewStateError(format string, args ...any) error {
	return &StateError{Reason: fmt.Sprintf(format, args...)}
}
