// Package apperr holds the error taxonomy shared by services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindInternal          Kind = "internal"
)

// Error is an application error with the HTTP code it maps to.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Data    any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, code int, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, message, nil)
}

func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(KindConflict, http.StatusConflict, message, nil)
}

// ConflictBadRequest is a state conflict that is reported with 400, such as
// paying an already paid order or checking out an unavailable item.
func ConflictBadRequest(message string) *Error {
	return New(KindConflict, http.StatusBadRequest, message, nil)
}

func InsufficientFunds(message string) *Error {
	return New(KindInsufficientFunds, http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, http.StatusForbidden, message, nil)
}

func Internal(message string, err error) *Error {
	return New(KindInternal, http.StatusInternalServerError, message, err)
}

// WithData attaches a payload that is returned in the error envelope.
func (e *Error) WithData(data any) *Error {
	e.Data = data
	return e
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
