// Package errs defines the error taxonomy shared by the dispatcher,
// the connectors and the client facade.
//
// Three kinds of failure exist:
//
//   - [ErrInvalidArgument]: a call was rejected before any network activity.
//     Matched by [*ArgumentError] and [FieldErrors].
//   - [ErrTransport]: the HTTP exchange could not complete. Matched by
//     [*TransportError], which also unwraps to the underlying cause.
//   - [ErrUnexpectedStatusCode]: a response arrived with a status outside
//     200-299. Matched by [*StatusError], which carries the raw body.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	// ErrInvalidArgument is matched by every validation failure.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTransport is matched by every [TransportError].
	ErrTransport = errors.New("transport failure")
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [StatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the shop
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
	// ErrNotFound is joined with [ErrUnexpectedStatusCode] on 404 Not Found.
	ErrNotFound = errors.New("not found")
)

// ArgumentError reports a single missing or invalid argument. Err
// optionally holds the failure that made the argument unusable.
type ArgumentError struct {
	Arg      string
	Message  string
	Err      error
	FuncName string
	FileName string
}

// InvalidArgument constructs an ArgumentError recording the caller.
func InvalidArgument(arg, message string) *ArgumentError {
	pc, filename, line, _ := runtime.Caller(1)

	var funcName string
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
	}

	return &ArgumentError{
		Arg:      arg,
		Message:  message,
		FuncName: funcName,
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// WrapInvalidArgument constructs an ArgumentError around cause.
func WrapInvalidArgument(arg string, cause error) *ArgumentError {
	pc, filename, line, _ := runtime.Caller(1)

	var funcName string
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
	}

	return &ArgumentError{
		Arg:      arg,
		Message:  cause.Error(),
		Err:      cause,
		FuncName: funcName,
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidArgument, e.Arg, e.Message)
}

// Is reports ArgumentError as an ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// /////////////////////////////////////////////////////////////////////////////////////////////

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return fmt.Sprintf("%v: %s", ErrInvalidArgument, strings.Join(parts, "; "))
}

// Is reports FieldErrors as an ErrInvalidArgument.
func (fe FieldErrors) Is(target error) bool {
	return target == ErrInvalidArgument
}

// MarshalJSON encodes the field errors as a plain list.
func (fe FieldErrors) MarshalJSON() ([]byte, error) {
	return json.Marshal([]FieldError(fe))
}

// Fields returns the fields that failed validation
func (fe FieldErrors) Fields() map[string]string {
	m := make(map[string]string)
	for _, fld := range fe {
		m[fld.Field] = fld.Err
	}
	return m
}

// IsFieldErrors checks if an error of type FieldErrors exists.
func IsFieldErrors(err error) bool {
	var fe FieldErrors
	return errors.As(err, &fe)
}

// GetFieldErrors returns the FieldErrors in err's chain, if any.
func GetFieldErrors(err error) FieldErrors {
	var fe FieldErrors
	if !errors.As(err, &fe) {
		return nil
	}
	return fe
}
