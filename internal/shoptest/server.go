// Package shoptest runs an in-memory shop API for tests.
//
// Top-level collections (/addresses, /products, ...) support create, list
// with ?q= search and paging, get by id, update and delete. Every other
// route is echoed back so tests can check what a client sent, as are
// lists filtered by unknown parameters and creates that are not JSON.
package shoptest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/adamwoolhether/shopapi/dispatch"
)

// Default credentials accepted by the server.
const (
	DefaultUser     = "admin"
	DefaultPassword = "secret"
)

// Request is a request as received by the server.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Body        []byte
}

// Server is a running fake shop. URL is the shop root, without
// [dispatch.APIPath].
type Server struct {
	URL      string
	User     string
	Password string

	srv   *httptest.Server
	store *store

	mu       sync.Mutex
	requests []Request
}

type options struct {
	logger   *slog.Logger
	user     string
	password string
}

// Option configures a Server.
type Option func(*options)

// WithLogger logs served requests to log.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithCredentials replaces the default credentials.
func WithCredentials(user, password string) Option {
	return func(o *options) {
		o.user = user
		o.password = password
	}
}

// NewServer starts a Server that is closed when tb finishes.
func NewServer(tb testing.TB, optFns ...Option) *Server {
	tb.Helper()

	opts := options{
		logger:   slog.New(slog.DiscardHandler),
		user:     DefaultUser,
		password: DefaultPassword,
	}
	for _, opt := range optFns {
		opt(&opts)
	}

	s := &Server{
		User:     opts.user,
		Password: opts.password,
		store:    newStore(),
	}

	a := newApp(opts.logger, nil,
		logger(opts.logger),
		errorsMW(opts.logger),
		s.record,
		panics(),
		basicAuth(opts.user, opts.password),
	)

	const root = dispatch.APIPath
	a.handle("GET "+root+"/{resource}", s.list)
	a.handle("POST "+root+"/{resource}", s.create)
	a.handle("GET "+root+"/{resource}/{id}", s.get)
	a.handle("PUT "+root+"/{resource}/{id}", s.update)
	a.handle("DELETE "+root+"/{resource}/{id}", s.delete)
	a.handle(root+"/{path...}", s.echo)

	s.srv = httptest.NewServer(a)
	s.URL = s.srv.URL
	tb.Cleanup(s.srv.Close)

	return s
}

// Seed stores obj in resource and returns its id.
func (s *Server) Seed(resource string, obj map[string]any) int {
	return s.store.create(resource, obj)["id"].(int)
}

// Requests returns every request received so far, in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.requests)
}

// LastRequest returns the most recent request, or false if none arrived.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) record(next handler) handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return newError(http.StatusBadRequest, "reading body: %v", err)
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.Query(),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		s.mu.Unlock()

		return next(ctx, w, r)
	}
}

// =============================================================================
// Handlers

// listParams are the query parameters the store understands.
var listParams = []string{"q", "page", "per_page", "fields", "sort"}

func (s *Server) list(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	for k := range q {
		if !slices.Contains(listParams, k) {
			return s.echo(ctx, w, r)
		}
	}

	perPage, err := intParam(q, "per_page", 0)
	if err != nil {
		return err
	}
	page, err := intParam(q, "page", 1)
	if err != nil {
		return err
	}

	items := s.store.list(r.PathValue("resource"), q.Get("q"))

	if perPage > 0 {
		start := min((page-1)*perPage, len(items))
		end := min(start+perPage, len(items))
		items = items[start:end]
	}

	return respond(ctx, w, http.StatusOK, items)
}

func (s *Server) create(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return s.echo(ctx, w, r)
	}

	obj, err := decodeObject(r)
	if err != nil {
		return err
	}

	return respond(ctx, w, http.StatusCreated, s.store.create(r.PathValue("resource"), obj))
}

func (s *Server) get(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resource, id, err := target(r)
	if err != nil {
		return err
	}

	obj, ok := s.store.get(resource, id)
	if !ok {
		return newError(http.StatusNotFound, "%s %d not found", resource, id)
	}

	return respond(ctx, w, http.StatusOK, obj)
}

func (s *Server) update(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resource, id, err := target(r)
	if err != nil {
		return err
	}

	obj, err := decodeObject(r)
	if err != nil {
		return err
	}

	updated, ok := s.store.update(resource, id, obj)
	if !ok {
		return newError(http.StatusNotFound, "%s %d not found", resource, id)
	}

	return respond(ctx, w, http.StatusOK, updated)
}

func (s *Server) delete(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resource, id, err := target(r)
	if err != nil {
		return err
	}

	if !s.store.delete(resource, id) {
		return newError(http.StatusNotFound, "%s %d not found", resource, id)
	}

	return respond(ctx, w, http.StatusNoContent, nil)
}

// echoed describes a request the store does not model.
type echoed struct {
	Method string            `json:"method"`
	Path   string            `json:"path"`
	Query  map[string]string `json:"query,omitempty"`
	Body   any               `json:"body,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Files  map[string]string `json:"files,omitempty"`
}

func (s *Server) echo(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	e := echoed{
		Method: r.Method,
		Path:   strings.TrimPrefix(r.URL.Path, dispatch.APIPath),
	}

	if q := r.URL.Query(); len(q) > 0 {
		e.Query = make(map[string]string, len(q))
		for k := range q {
			e.Query[k] = q.Get(k)
		}
	}

	switch ct := r.Header.Get("Content-Type"); {
	case strings.HasPrefix(ct, "multipart/form-data"):
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			return newError(http.StatusBadRequest, "parsing form: %v", err)
		}
		e.Fields = make(map[string]string)
		for k, v := range r.MultipartForm.Value {
			e.Fields[k] = v[0]
		}
		e.Files = make(map[string]string)
		for k, v := range r.MultipartForm.File {
			e.Files[k] = v[0].Filename
		}

	case strings.HasPrefix(ct, "application/json"):
		if err := json.NewDecoder(r.Body).Decode(&e.Body); err != nil {
			return newError(http.StatusBadRequest, "decoding body: %v", err)
		}
	}

	return respond(ctx, w, http.StatusOK, e)
}

// =============================================================================
// Helpers

func target(r *http.Request) (string, int, error) {
	resource := r.PathValue("resource")

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return "", 0, newError(http.StatusNotFound, "%s %q not found", resource, r.PathValue("id"))
	}

	return resource, id, nil
}

func decodeObject(r *http.Request) (map[string]any, error) {
	var obj map[string]any
	if err := json.NewDecoder(r.Body).Decode(&obj); err != nil || obj == nil {
		return nil, newError(http.StatusBadRequest, "request body must be a JSON object")
	}

	return obj, nil
}

func intParam(q url.Values, key string, fallback int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, newError(http.StatusBadRequest, "%s must be a positive integer", key)
	}

	return n, nil
}

// =============================================================================
// Store

type store struct {
	mu   sync.Mutex
	next map[string]int
	data map[string]map[int]map[string]any
}

func newStore() *store {
	return &store{
		next: make(map[string]int),
		data: make(map[string]map[int]map[string]any),
	}
}

func (st *store) create(resource string, obj map[string]any) map[string]any {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.next[resource]++
	id := st.next[resource]

	stored := maps.Clone(obj)
	if stored == nil {
		stored = make(map[string]any)
	}
	stored["id"] = id

	if st.data[resource] == nil {
		st.data[resource] = make(map[int]map[string]any)
	}
	st.data[resource][id] = stored

	return maps.Clone(stored)
}

func (st *store) get(resource string, id int) (map[string]any, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	obj, ok := st.data[resource][id]
	return maps.Clone(obj), ok
}

// list returns the objects of resource ordered by id. A non-empty term
// keeps only objects with a string value containing it, ignoring case.
func (st *store) list(resource, term string) []map[string]any {
	st.mu.Lock()
	defer st.mu.Unlock()

	term = strings.ToLower(term)

	items := make([]map[string]any, 0, len(st.data[resource]))
	for _, id := range slices.Sorted(maps.Keys(st.data[resource])) {
		obj := st.data[resource][id]
		if term != "" && !matches(obj, term) {
			continue
		}
		items = append(items, maps.Clone(obj))
	}

	return items
}

func (st *store) update(resource string, id int, changes map[string]any) (map[string]any, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	obj, ok := st.data[resource][id]
	if !ok {
		return nil, false
	}

	maps.Copy(obj, changes)
	obj["id"] = id

	return maps.Clone(obj), true
}

func (st *store) delete(resource string, id int) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.data[resource][id]; !ok {
		return false
	}
	delete(st.data[resource], id)

	return true
}

func matches(obj map[string]any, term string) bool {
	for _, v := range obj {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}
