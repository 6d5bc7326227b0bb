package msr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tartampluch/hpde-analytics/internal/config"
)

// Sentinel errors for missing identifiers.
var (
	ErrEventIDRequired = errors.New(config.ErrEventIDRequired)
	ErrOrgIDRequired   = errors.New(config.ErrOrgIDRequired)
)

// APIError is returned when the API answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Retryable reports whether the request may succeed on a later attempt.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// Unauthorized reports whether the tokens were rejected.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func newAPIError(status int, endpoint, body string) *APIError {
	var msg string
	switch {
	case status == http.StatusUnauthorized:
		msg = config.ErrUnauthorized
	case status == http.StatusForbidden:
		msg = config.ErrForbidden
	case status == http.StatusNotFound:
		msg = fmt.Sprintf("%s: %s", config.ErrNotFound, endpoint)
	case status >= http.StatusInternalServerError:
		msg = fmt.Sprintf("%s: %d", config.ErrServerStatus, status)
	default:
		msg = fmt.Sprintf("%s %d", config.ErrStatus, status)
	}
	return &APIError{StatusCode: status, Body: body, Message: msg}
}

// IsUnauthorized reports whether err carries a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}
