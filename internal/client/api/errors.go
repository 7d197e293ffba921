package api

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthenticated")
	ErrForbidden    = errors.New("forbidden")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// ValidationError is a 422 response: a summary message plus per-field
// messages.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Details renders every field message on its own line, fields sorted.
func (e *ValidationError) Details() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for _, f := range fields {
		for _, msg := range e.Fields[f] {
			b.WriteString(f)
			b.WriteString(": ")
			b.WriteString(msg)
			b.WriteString("\n")
		}
	}
	return b.String()
}
