package service

import (
	"errors"

	"github.com/geocoder89/heartspace/internal/validation"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is the failure type returned by every service operation. Message is
// safe to show to callers; Err, when set, is the underlying cause and is not.
type Error struct {
	Kind    Kind
	Message string
	Fields  []validation.FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(message string, fields []validation.FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func ConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func AuthError(message string, cause error) *Error {
	return &Error{Kind: KindAuth, Message: message, Err: cause}
}

func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InternalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf reports the kind of err; errors not produced by this package are
// internal.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}
