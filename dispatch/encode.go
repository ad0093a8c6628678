package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/google/go-querystring/query"
)

// IsObject reports whether data can be sent as query data: a non-nil
// map keyed by strings, a struct, or a pointer to either.
func IsObject(data any) bool {
	v, ok := deref(data)
	if !ok {
		return false
	}

	switch v.Kind() {
	case reflect.Map:
		return !v.IsNil() && v.Type().Key().Kind() == reflect.String
	case reflect.Struct:
		return true
	default:
		return false
	}
}

// IsBody reports whether data can be sent as a JSON body: anything
// [IsObject] accepts, or a non-nil slice or array.
func IsBody(data any) bool {
	if IsObject(data) {
		return true
	}

	v, ok := deref(data)
	if !ok {
		return false
	}

	switch v.Kind() {
	case reflect.Slice:
		return !v.IsNil()
	case reflect.Array:
		return true
	default:
		return false
	}
}

// deref follows pointers and interfaces, failing on nil.
func deref(data any) (reflect.Value, bool) {
	v := reflect.ValueOf(data)
	if !v.IsValid() {
		return v, false
	}

	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v, false
		}
		v = v.Elem()
	}

	return v, true
}

// isNil reports whether data is absent: a nil interface, or a nil
// pointer, map or slice hidden behind one.
func isNil(data any) bool {
	if data == nil {
		return true
	}

	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// encodeQuery renders data as url.Values. Maps are encoded key by key
// with slices becoming repeated keys, structs use their `url` tags.
func encodeQuery(data any) (url.Values, error) {
	if isNil(data) {
		return url.Values{}, nil
	}

	v := reflect.Indirect(reflect.ValueOf(data))
	if v.Kind() == reflect.Struct {
		vals, err := query.Values(data)
		if err != nil {
			return nil, fmt.Errorf("encoding query struct: %w", err)
		}
		return vals, nil
	}

	type pair struct {
		key string
		val reflect.Value
	}

	pairs := make([]pair, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		pairs = append(pairs, pair{key: iter.Key().String(), val: iter.Value()})
	}
	slices.SortFunc(pairs, func(a, b pair) int { return strings.Compare(a.key, b.key) })

	vals := url.Values{}
	for _, p := range pairs {
		elem := p.val
		for elem.Kind() == reflect.Interface || elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				break
			}
			elem = elem.Elem()
		}

		switch elem.Kind() {
		case reflect.Interface, reflect.Pointer:
			continue
		case reflect.Slice, reflect.Array:
			for i := range elem.Len() {
				item := reflect.Indirect(elem.Index(i))
				if item.Kind() == reflect.Interface && !item.IsNil() {
					item = reflect.Indirect(item.Elem())
				}
				if !isScalar(item) {
					return nil, fmt.Errorf("query value %q[%d]: unsupported %s", p.key, i, item.Kind())
				}
				vals.Add(p.key, fmt.Sprint(item.Interface()))
			}
		default:
			if !isScalar(elem) {
				return nil, fmt.Errorf("query value %q: unsupported %s", p.key, elem.Kind())
			}
			vals.Add(p.key, fmt.Sprint(elem.Interface()))
		}
	}

	return vals, nil
}

// isScalar reports whether v renders as a single query value.
func isScalar(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// encodeJSON renders data as a JSON body. A nil payload produces no body.
func encodeJSON(data any) (io.Reader, error) {
	if isNil(data) {
		return nil, nil
	}

	var payload bytes.Buffer
	if err := json.NewEncoder(&payload).Encode(data); err != nil {
		return nil, fmt.Errorf("encoding request payload: %w", err)
	}

	return &payload, nil
}
