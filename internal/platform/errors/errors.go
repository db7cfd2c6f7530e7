package apperrors

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrNotFound               = errors.New("not found")
	ErrUnauthenticated        = errors.New("not signed in")
	ErrNoActiveSession        = errors.New("no active session")
	ErrActiveSessionExists    = errors.New("active session already exists")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrLookupUnavailable      = errors.New("lookup unavailable")
)

// Error tags a failure with one of the sentinel kinds above while keeping the cause.
type Error struct {
	Kind  error
	Op    string
	Cause error
}

func (e *Error) Error() string {
	switch {
	case e.Cause == nil:
		return e.Op + ": " + e.Kind.Error()
	case e.Op == "":
		return e.Kind.Error() + ": " + e.Cause.Error()
	default:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Cause.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func Wrap(kind error, op string, cause error) error {
	if cause == nil {
		return nil
	}
	var existing *Error
	if errors.As(cause, &existing) && existing.Kind == kind {
		return cause
	}
	return &Error{Kind: kind, Op: op, Cause: cause}
}

// Invalid reports a rejected input with a human readable reason.
func Invalid(reason string) error {
	return &Error{Kind: ErrInvalidInput, Op: reason}
}
