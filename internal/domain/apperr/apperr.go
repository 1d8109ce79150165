// Package apperr defines the stable error taxonomy shared by all services.
// Handlers map kinds to HTTP statuses; anything without a kind is treated
// as an internal error and never shown to callers verbatim.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInternal is the zero value: an unexpected store or system error.
	KindInternal Kind = iota
	// KindNotFound signals a missing user or post.
	KindNotFound
	// KindConflict signals a duplicate follow/like or an already-undone one,
	// and moderation transitions out of a terminal status.
	KindConflict
	// KindInvalid signals a self-follow/self-unfollow.
	KindInvalid
	// KindForbidden signals a failed role check.
	KindForbidden
	// KindTransient signals an aborted store transaction; the whole
	// operation is safe to retry.
	KindTransient
	// KindValidation signals malformed input such as bad pagination values.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid_operation"
	case KindForbidden:
		return "forbidden"
	case KindTransient:
		return "transient"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Error carries a kind, a caller-facing message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain; unknown errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
