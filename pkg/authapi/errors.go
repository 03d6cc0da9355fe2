package authapi

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when the backend answers with a non-success status.
type StatusError struct {
	StatusCode int
	Detail     string // "detail" field of the error body, if any
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("auth api returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("auth api returned %d: %s", e.StatusCode, e.Detail)
}

// Unauthorized reports whether the backend rejected the token itself.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsUnauthorized reports whether err carries a StatusError for a rejected token.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Unauthorized()
}

// errorBody matches the error shape the backend uses for HTTP exceptions.
type errorBody struct {
	Detail string `json:"detail"`
}
