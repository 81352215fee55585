// Package apperr defines the error kinds shared by every domain package.
// Handlers translate a Kind into an HTTP status; the message is safe to show.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindAuthRequired    Kind = "authentication_required"
	KindValidation      Kind = "validation_error"
	KindRouting         Kind = "routing_restricted"
	KindInsufficient    Kind = "insufficient_balance"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindPersistence     Kind = "persistence_error"
	KindExternalService Kind = "external_service_error"
)

type Error struct {
	Kind    Kind
	Message string
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

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func AuthRequired() *Error {
	return New(KindAuthRequired, "authentication required")
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func Routing(format string, args ...interface{}) *Error {
	return New(KindRouting, fmt.Sprintf(format, args...))
}

func Insufficient(format string, args ...interface{}) *Error {
	return New(KindInsufficient, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

// Persistence hides the driver error behind a generic message; the cause is kept for logs.
func Persistence(message string, err error) *Error {
	return Wrap(KindPersistence, message, err)
}

func External(message string, err error) *Error {
	return Wrap(KindExternalService, message, err)
}

// KindOf returns the kind of the first *Error in the chain, or KindPersistence
// for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
