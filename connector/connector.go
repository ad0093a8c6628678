// Package connector provides one connector per shop resource. Every
// connector builds routes, validates its inputs and delegates to a
// single [Requester], normally a *dispatch.Dispatcher.
//
// Invalid input is rejected with an error matching
// errs.ErrInvalidArgument before the Requester is called.
package connector

import (
	"context"
	"fmt"
	"reflect"

	"github.com/adamwoolhether/shopapi/dispatch"
	"github.com/adamwoolhether/shopapi/errs"
	"github.com/adamwoolhether/shopapi/getopts"
	"github.com/adamwoolhether/shopapi/internal/validate"
)

// Requester is the capability set a connector needs from the dispatcher.
type Requester interface {
	Get(ctx context.Context, route string, data any) (*dispatch.Response, error)
	Post(ctx context.Context, route string, data any) (*dispatch.Response, error)
	Put(ctx context.Context, route string, data any) (*dispatch.Response, error)
	Patch(ctx context.Context, route string, data any) (*dispatch.Response, error)
	Delete(ctx context.Context, route string, data any) (*dispatch.Response, error)
	UploadFile(ctx context.Context, route, filePath, fileName string, opts ...dispatch.UploadOption) (*dispatch.Response, error)
}

var _ Requester = (*dispatch.Dispatcher)(nil)

// Router supplies the main route of a resource.
type Router interface {
	Route() string
}

// Route is a fixed resource route such as "/addresses".
type Route string

// Route implements [Router].
func (r Route) Route() string { return string(r) }

// Endpoint implements the operations shared by every resource: create,
// list, get by ID, update, delete and search.
type Endpoint struct {
	requester Requester
	router    Router
}

// NewEndpoint binds a Requester to a resource route.
func NewEndpoint(r Requester, router Router) (*Endpoint, error) {
	if isNil(r) {
		return nil, errs.InvalidArgument("requester", "missing or invalid request dispatcher")
	}
	if isNil(router) || router.Route() == "" {
		return nil, errs.InvalidArgument("router", "missing or invalid route")
	}

	return &Endpoint{
		requester: r,
		router:    router,
	}, nil
}

// Route returns the resource's main route.
func (e *Endpoint) Route() string {
	return e.router.Route()
}

// Create creates a new entry of the resource.
func (e *Endpoint) Create(ctx context.Context, data any) (*dispatch.Response, error) {
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return e.requester.Post(ctx, e.Route(), data)
}

// Get returns all entries of the resource, modified by opts. A nil opts
// lists with the shop's defaults.
func (e *Endpoint) Get(ctx context.Context, opts *getopts.GetOptions) (*dispatch.Response, error) {
	return e.requester.Get(ctx, e.Route(), getopts.Parse(opts))
}

// GetByID returns a single entry.
func (e *Endpoint) GetByID(ctx context.Context, id int) (*dispatch.Response, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}

	return e.requester.Get(ctx, e.sub(id), nil)
}

// Update replaces an entry.
func (e *Endpoint) Update(ctx context.Context, id int, data any) (*dispatch.Response, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return e.requester.Put(ctx, e.sub(id), data)
}

// Delete deletes an entry.
func (e *Endpoint) Delete(ctx context.Context, id int) (*dispatch.Response, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}

	return e.requester.Delete(ctx, e.sub(id), nil)
}

// Search returns the entries matching term.
func (e *Endpoint) Search(ctx context.Context, term string) (*dispatch.Response, error) {
	if term == "" {
		return nil, errs.InvalidArgument("term", "missing or invalid search term")
	}

	return e.requester.Get(ctx, e.Route(), map[string]any{"q": term})
}

// sub returns the route of the entry with the given ID, followed by
// any further path segments.
func (e *Endpoint) sub(id int, segments ...any) string {
	route := fmt.Sprintf("%s/%d", e.Route(), id)
	for _, s := range segments {
		route += fmt.Sprintf("/%v", s)
	}
	return route
}

// /////////////////////////////////////////////////////////////////////////////////////////////

func checkID(arg string, id int) error {
	return validate.Var(arg, id, "gt=0")
}

func checkData(arg string, data any) error {
	if !dispatch.IsBody(data) {
		return errs.InvalidArgument(arg, "missing or invalid data")
	}
	return nil
}

func checkString(arg, value string) error {
	return validate.Var(arg, value, "required")
}

// isNil catches both a nil interface and a typed nil pointer behind one.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

type namedID struct {
	arg string
	id  int
}

func named(arg string, id int) namedID { return namedID{arg: arg, id: id} }

// checkIDs reports the first ID that fails checkID.
func checkIDs(ids ...namedID) error {
	for _, n := range ids {
		if err := checkID(n.arg, n.id); err != nil {
			return err
		}
	}
	return nil
}
