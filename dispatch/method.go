package dispatch

import (
	"net/http"
)

// Method is an HTTP verb accepted by the shop API.
type Method int

const (
	MethodGet Method = iota + 1
	MethodPost
	MethodPut
	MethodPatch
	MethodDelete
)

// String returns the HTTP method name, or "" for an unknown Method.
func (m Method) String() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	case MethodPut:
		return http.MethodPut
	case MethodPatch:
		return http.MethodPatch
	case MethodDelete:
		return http.MethodDelete
	default:
		return ""
	}
}

func (m Method) valid() bool {
	return m.String() != ""
}

// requiresData reports whether requests with m must carry a payload.
func (m Method) requiresData() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch:
		return true
	default:
		return false
	}
}

// BodyKind selects how a request payload is encoded.
type BodyKind int

const (
	BodyQuery BodyKind = iota + 1
	BodyJSON
	BodyMultipart
)

func (k BodyKind) String() string {
	switch k {
	case BodyQuery:
		return "query-string"
	case BodyJSON:
		return "json-body"
	case BodyMultipart:
		return "multipart-form"
	default:
		return "unknown"
	}
}

// BodyKindFor maps a method onto its payload encoding. Form uploads
// are always multipart, GET carries its payload in the query string and
// every other method sends JSON.
func BodyKindFor(m Method, form bool) BodyKind {
	switch {
	case form:
		return BodyMultipart
	case m == MethodGet:
		return BodyQuery
	default:
		return BodyJSON
	}
}
