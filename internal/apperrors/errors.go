package apperrors

import (
	"errors"
	"net/http"
)

// Kind tags an Error with its place in the taxonomy. Values mirror the
// procedure-level error codes clients branch on.
type Kind string

const (
	KindConflict     Kind = "CONFLICT"
	KindBadRequest   Kind = "BAD_REQUEST"
	KindNotFound     Kind = "NOT_FOUND"
	KindForbidden    Kind = "FORBIDDEN"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindDelivery     Kind = "DELIVERY"
	KindHash         Kind = "HASH"
	KindInternal     Kind = "INTERNAL"
)

// Error is a tagged error variant. Cause optionally carries a structured
// payload for flows that intentionally branch on it (the unverified-login
// ForbiddenError carries the email so the client can route back to
// verification).
type Error struct {
	Kind    Kind
	Message string
	Cause   any
}

func (e *Error) Error() string { return e.Message }

// ForbiddenCause is the payload attached to an unverified-login rejection.
type ForbiddenCause struct {
	Email string `json:"email"`
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden builds the unverified-account rejection. email is returned to
// the client inside the cause payload.
func Forbidden(message, email string) *Error {
	return &Error{Kind: KindForbidden, Message: message, Cause: ForbiddenCause{Email: email}}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Delivery(message string) *Error {
	return &Error{Kind: KindDelivery, Message: message}
}

func Hash(message string) *Error {
	return &Error{Kind: KindHash, Message: message}
}

func Internal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}

// KindOf returns the taxonomy tag of err, or KindInternal for errors that
// did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps a Kind to its response status code. Delivery and Hash
// errors are internal conditions and are never surfaced as themselves.
func HTTPStatus(k Kind) int {
	switch k {
	case KindConflict:
		return http.StatusConflict
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
