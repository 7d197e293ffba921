// Package common defines shared constants and sentinel errors used across
// the server and the CLI client of gophtasks. Callers should use errors.Is
// and errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Token errors (malformed, badly signed or expired envelope).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Login failure. Carried inside a ValidationError so the transport can
	// report it against the email field.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError is a per-field rejection of client input. Fields keeps the
// messages for every failing field; field order is preserved so the first
// failure can be reported as the summary message.
type ValidationError struct {
	Fields map[string][]string
	order  []string
	cause  error
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// FieldError builds a ValidationError holding a single message.
func FieldError(field, msg string) *ValidationError {
	e := NewValidationError()
	e.Add(field, msg)
	return e
}

// Add appends msg to the messages of field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Has reports whether field already has at least one message.
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// WithCause attaches an underlying sentinel so errors.Is can see through.
func (e *ValidationError) WithCause(err error) *ValidationError {
	e.cause = err
	return e
}

// Count returns the total number of messages across all fields.
func (e *ValidationError) Count() int {
	n := 0
	for _, msgs := range e.Fields {
		n += len(msgs)
	}
	return n
}

// Message returns the first message followed by a count of the remaining ones,
// e.g. "The name field is required. (and 2 more errors)".
func (e *ValidationError) Message() string {
	if !e.HasErrors() {
		return "The given data was invalid."
	}

	first := e.Fields[e.order[0]][0]
	switch rest := e.Count() - 1; rest {
	case 0:
		return first
	case 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Message()
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

// OrNil returns e as an error when it holds messages and nil otherwise.
// It avoids the typed-nil trap when returning *ValidationError as error.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}
