package apperror

import (
	"errors"
	"strings"
)

// Kind classifies an AppError. The transport layer maps each kind to a status code.
type Kind int

const (
	KindInternal     Kind = iota // unclassified / infrastructure failure
	KindValidation               // malformed input shape or type
	KindNotFound                 // referenced entity is absent
	KindConflict                 // unique field taken or slot already booked
	KindRange                    // end <= start
	KindTemporal                 // creation with a past instant
	KindInvalidState             // transition not allowed from the current state
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRange:
		return "range"
	case KindTemporal:
		return "temporal"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "internal"
	}
}

// AppError is a domain error carrying its kind and a user-facing message.
type AppError struct {
	Kind    Kind   // Classification used to pick the response status
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a kind and message.
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Validation builds a KindValidation error whose message is the violations joined by ", ".
func Validation(violations ...string) *AppError {
	if len(violations) == 0 {
		return New(KindValidation, "invalid request")
	}
	return New(KindValidation, strings.Join(violations, ", "))
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
