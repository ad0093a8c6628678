package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError is returned when the HTTP call could not complete:
// DNS, connection, TLS, timeout or cancellation.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrTransport, e.Method, e.URL, e.Err)
}

// Is reports TransportError as an ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the response status code falls
// outside of 200-299. Body holds the raw response body.
type StatusError struct {
	StatusCode int
	Body       string
	Err        error
}

// NewStatusError classifies statusCode, joining [ErrAuthFailure] or
// [ErrNotFound] onto [ErrUnexpectedStatusCode] where they apply.
func NewStatusError(statusCode int, body string) *StatusError {
	err := ErrUnexpectedStatusCode
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		err = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
	case http.StatusNotFound:
		err = fmt.Errorf("%w: %w", ErrNotFound, ErrUnexpectedStatusCode)
	}

	return &StatusError{
		StatusCode: statusCode,
		Body:       body,
		Err:        err,
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode returns the status code carried by err, or 0 when err
// is not a [StatusError].
func StatusCode(err error) int {
	var se *StatusError
	if !errors.As(err, &se) {
		return 0
	}
	return se.StatusCode
}
