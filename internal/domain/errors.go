package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is returned before any request leaves the process.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from the backend or the identity provider.
// Body holds the raw response so callers can inspect server-side details.
type APIError struct {
	Source  string // "backend" or "identity"
	Method  string
	Path    string
	Status  int
	Message string
	Body    []byte
}

func (e APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Method == "" {
		return fmt.Sprintf("%s: status %d: %s", e.source(), e.Status, msg)
	}
	return fmt.Sprintf("%s: %s %s: status %d: %s", e.source(), e.Method, e.Path, e.Status, msg)
}

func (e APIError) source() string {
	if e.Source == "" {
		return "backend"
	}
	return e.Source
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

// IsUnauthorized reports a 401/403 from the backend or identity provider.
func IsUnauthorized(err error) bool {
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

// StatusOf returns the HTTP status carried by an APIError in err's chain, or 0.
func StatusOf(err error) int {
	var target APIError
	if errors.As(err, &target) {
		return target.Status
	}
	return 0
}
