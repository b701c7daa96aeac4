// Package apperr defines the error type every API handler reports through.
//
// Handlers and helpers return *Error for anything the client should see with a
// specific status. Any other error reaching the response layer is treated as
// an unexpected server failure (500).
package apperr

import (
	"errors"
	"net/http"
)

// Error carries an HTTP status and a client-safe message.
type Error struct {
	Status  int
	Message string
	Err     error // underlying cause, logged but never sent to the client
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with the given status and message.
func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

// Wrap builds an Error that keeps err as its cause.
func Wrap(status int, msg string, err error) *Error {
	return &Error{Status: status, Message: msg, Err: err}
}

// BadRequest is a validation failure (400).
func BadRequest(msg string) *Error { return New(http.StatusBadRequest, msg) }

// Unauthorized is a missing or invalid credential (401).
func Unauthorized(msg string) *Error { return New(http.StatusUnauthorized, msg) }

// Forbidden is an authenticated caller without permission (403).
func Forbidden(msg string) *Error { return New(http.StatusForbidden, msg) }

// NotFound is a referenced document that does not exist (404).
func NotFound(msg string) *Error { return New(http.StatusNotFound, msg) }

// Conflict is a uniqueness violation. The API reports these as 400.
func Conflict(msg string) *Error { return New(http.StatusBadRequest, msg) }

// TooManyRequests is a rate-limited caller (429).
func TooManyRequests(msg string) *Error { return New(http.StatusTooManyRequests, msg) }

// Internal wraps an unexpected failure (500).
func Internal(err error) *Error {
	return Wrap(http.StatusInternalServerError, "internal server error", err)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusOf returns the HTTP status for err, 500 when err is not an *Error.
func StatusOf(err error) int {
	if e, ok := As(err); ok {
		return e.Status
	}
	return http.StatusInternalServerError
}
