// Package getopts translates listing modifiers (pagination, field
// selection and sorting) into the query parameters understood by the
// shop API.
package getopts

import (
	"maps"
	"strings"
)

// Query parameter keys written by Parse.
const (
	KeyPerPage = "per_page"
	KeyPage    = "page"
	KeyFields  = "fields"
	KeySort    = "sort"
)

// Direction is the token prefixed to a field name in the sort parameter.
type Direction string

const (
	Ascending  Direction = "+"
	Descending Direction = "-"
)

// Sort orders a listing by Field.
type Sort struct {
	Field     string
	Direction Direction
}

// Asc sorts field ascending.
func Asc(field string) Sort { return Sort{Field: field, Direction: Ascending} }

// Desc sorts field descending.
func Desc(field string) Sort { return Sort{Field: field, Direction: Descending} }

// GetOptions modifies a listing request. Every field is optional and
// zero values are treated as absent.
type GetOptions struct {
	EntriesPerPage int
	Page           int
	// Minimize restricts the response to the named fields.
	Minimize []string
	// Sort is applied in slice order.
	Sort []Sort
}

// Parse converts opts into query parameters. A nil opts yields an empty,
// non-nil map. Absent or unusable fields are dropped rather than reported.
func Parse(opts *GetOptions) map[string]any {
	params := make(map[string]any)
	if opts == nil {
		return params
	}

	if opts.EntriesPerPage > 0 {
		params[KeyPerPage] = opts.EntriesPerPage
	}

	if opts.Page > 0 {
		params[KeyPage] = opts.Page
	}

	if len(opts.Minimize) > 0 {
		params[KeyFields] = strings.Join(opts.Minimize, ",")
	}

	if sort := joinSort(opts.Sort); sort != "" {
		params[KeySort] = sort
	}

	return params
}

// Merge returns Parse(opts) with extra copied over it.
func Merge(opts *GetOptions, extra map[string]any) map[string]any {
	params := Parse(opts)
	maps.Copy(params, extra)
	return params
}

func joinSort(sorts []Sort) string {
	parts := make([]string, 0, len(sorts))
	for _, s := range sorts {
		if s.Field == "" {
			continue
		}
		parts = append(parts, string(s.Direction)+s.Field)
	}

	return strings.Join(parts, ",")
}
