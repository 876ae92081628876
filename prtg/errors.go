package prtg

import "fmt"

// AuthenticationError indicates the server rejected the API token (HTTP 401).
// It is never retried; the user has to fix their credentials.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// Kind returns the error kind discriminator.
func (e *AuthenticationError) Kind() string { return "AuthenticationError" }

// NotFoundError indicates a missing resource: an HTTP 404, or an empty result
// set for a lookup that targeted a specific object ID.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Kind returns the error kind discriminator.
func (e *NotFoundError) Kind() string { return "NotFoundError" }

// APIError covers every other >=400 response, plus semantically failed 2xx
// responses such as a move operation whose body lacks the "ok" marker.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// Kind returns the error kind discriminator.
func (e *APIError) Kind() string { return "APIError" }

func newAPIError(statusCode int, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("API error: %d - %s", statusCode, body),
	}
}

// TransportError wraps DNS, connection, TLS and timeout failures. GET
// requests have already been through the retry policy by the time one of
// these surfaces.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string { return e.Message }

func (e *TransportError) Unwrap() error { return e.Err }

// Kind returns the error kind discriminator.
func (e *TransportError) Kind() string { return "TransportError" }

// DateRangeError indicates a historic-data date range that exceeds the
// server-side limits. It is raised locally, before any request is issued.
type DateRangeError struct {
	Message string
}

func (e *DateRangeError) Error() string { return e.Message }

// Kind returns the error kind discriminator.
func (e *DateRangeError) Kind() string { return "DateRangeError" }
