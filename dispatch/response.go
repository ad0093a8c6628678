package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Response is a buffered 2xx response. The body is parsed as JSON when
// possible; otherwise the response is "raw" and its value is the body
// as a string.
type Response struct {
	StatusCode int
	Header     http.Header

	body  []byte
	value any
	raw   bool
}

func newResponse(statusCode int, header http.Header, body []byte, useNumber bool) *Response {
	r := &Response{
		StatusCode: statusCode,
		Header:     header,
		body:       body,
	}

	value, err := parseJSON(body, useNumber)
	if err != nil {
		r.raw = true
		return r
	}

	r.value = value
	return r
}

// Value returns the parsed JSON value (map[string]any, []any, string,
// float64 or json.Number, bool, nil) or, for raw responses, the body string.
func (r *Response) Value() any {
	if r.raw {
		return string(r.body)
	}
	return r.value
}

// IsRaw reports whether the body could not be parsed as JSON.
func (r *Response) IsRaw() bool { return r.raw }

// Bytes returns the raw response body.
func (r *Response) Bytes() []byte { return r.body }

// String returns the raw response body as a string.
func (r *Response) String() string { return string(r.body) }

// Object returns the parsed value as a JSON object.
func (r *Response) Object() (map[string]any, bool) {
	m, ok := r.Value().(map[string]any)
	return m, ok
}

// Array returns the parsed value as a JSON array.
func (r *Response) Array() ([]any, bool) {
	a, ok := r.Value().([]any)
	return a, ok
}

// Decode unmarshals the body into dest, which must be a pointer.
func (r *Response) Decode(dest any) error {
	if r.raw {
		return fmt.Errorf("decoding body: %w", ErrRawBody)
	}

	if err := json.Unmarshal(r.body, dest); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}

	return nil
}

// ErrRawBody is returned by [Response.Decode] when the body is not JSON.
var ErrRawBody = errors.New("response body is not JSON")

// parseJSON decodes body as exactly one JSON value.
func parseJSON(body []byte, useNumber bool) (any, error) {
	d := json.NewDecoder(bytes.NewReader(body))
	if useNumber {
		d.UseNumber()
	}

	var v any
	if err := d.Decode(&v); err != nil {
		return nil, err
	}

	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}

	return v, nil
}
