// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers; handlers map it to an HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindNotFound
	KindValidation
	KindConflict
)

const (
	CodeInvalidPayload     = "invalid_payload"
	CodeValidation         = "validation_error"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeUnitOccupied       = "unit_occupied"
	CodeUnitNotAvailable   = "unit_not_available"
	CodeSlotOccupied       = "parking_slot_occupied"
	CodeRowVersionConflict = "row_version_conflict"
	CodeInternal           = "internal_server_error"
)

// ErrRowVersionConflict is returned by versioned updates that matched no row.
var ErrRowVersionConflict = errors.New("row_version_conflict")

// Error is a structured error returned by the service layer.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Fields holds field-level messages for validation errors.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status for the error kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindUnauthorized:
		if e.Code == CodeForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Code: CodeUnauthorized, Message: msg}
}

// Forbidden is the Unauthorized kind for an authenticated caller that lacks
// the capability or does not own the target society.
func Forbidden(msg string, err error) *Error {
	return &Error{Kind: KindUnauthorized, Code: CodeForbidden, Message: msg, Err: err}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: what + " not found"}
}

// Validation wraps field-level violations.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: "validation failed", Fields: fields}
}

// Conflict reports a resource that changed state under the caller.
func Conflict(code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: msg, Err: err}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// Wrap passes *Error values through and turns anything else into an internal
// error with msg.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	return Internal(msg, err)
}
