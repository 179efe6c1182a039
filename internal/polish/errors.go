package polish

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoResult is returned by Download under MissingError when no session result exists.
var ErrNoResult = errors.New("no polished cv available")

// FieldError describes one rejected input field.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
	Limit int    `json:"limit,omitempty"`
}

func (f FieldError) message() string {
	switch f.Issue {
	case "required":
		return f.Field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %d characters", f.Field, f.Limit)
	default:
		return f.Field + " is invalid"
	}
}

// ValidationError lists every invalid field of a polish request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.message())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// RenderError wraps a PDF rendering failure.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render pdf: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }

// StoreError wraps a session store failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "session store " + e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }
