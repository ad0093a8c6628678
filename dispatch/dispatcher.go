package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/purell"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/shopapi/errs"
	"github.com/adamwoolhether/shopapi/internal/validate"
)

const (
	// APIVersion is the shop API version the dispatcher talks to.
	APIVersion = "2"
	// APIPath is the versioned controller path appended to the shop URL.
	APIPath = "/api.php/v" + APIVersion
	// Version is the client library version.
	Version = "0.1.0"
	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "shopapi-go/" + Version

	tracerName = "github.com/adamwoolhether/shopapi/dispatch"
)

// Config identifies the shop and the API user.
type Config struct {
	URL      string `json:"url" validate:"required,http_url"`
	User     string `json:"user" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Dispatcher performs every request against the shop API. It is safe
// for concurrent use; its state is never modified after Build.
type Dispatcher struct {
	c         *http.Client
	baseURL   string
	user      string
	password  string
	useNumber bool
	logger    *slog.Logger
	tracer    trace.Tracer
}

// Build validates cfg and constructs a Dispatcher for it.
func Build(cfg Config, optFns ...Option) (*Dispatcher, error) {
	if err := validate.Check(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	base, err := BaseURL(cfg.URL)
	if err != nil {
		return nil, errs.WrapInvalidArgument("url", err)
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("%w: applying dispatcher option: %w", errs.ErrInvalidArgument, err)
		}
	}

	d := &Dispatcher{
		c:         &http.Client{},
		baseURL:   base,
		user:      cfg.User,
		password:  cfg.Password,
		useNumber: opts.useJSONNumber,
		logger:    slog.Default(),
		tracer:    noop.NewTracerProvider().Tracer(tracerName),
	}

	if opts.client != nil {
		hc := *opts.client
		d.c = &hc
	}

	if opts.logger != nil {
		d.logger = opts.logger
	}

	if opts.timeout != nil {
		d.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		d.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}

	headers := make(http.Header)
	for k, v := range opts.headers {
		headers.Set(k, v)
	}
	headers.Set("User-Agent", DefaultUserAgent)
	if opts.userAgent != "" {
		headers.Set("User-Agent", opts.userAgent)
	}
	transport = headerTransport{headers: headers, base: transport}

	if opts.tracerProvider != nil {
		d.tracer = opts.tracerProvider.Tracer(tracerName)
		prop := opts.propagator
		if prop == nil {
			prop = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
		}
		transport = otelhttp.NewTransport(transport,
			otelhttp.WithTracerProvider(opts.tracerProvider),
			otelhttp.WithPropagators(prop),
		)
	}
	d.c.Transport = transport

	return d, nil
}

// BaseURL normalizes the shop URL and appends [APIPath].
func BaseURL(shopURL string) (string, error) {
	normalized, err := purell.NormalizeURLString(shopURL,
		purell.FlagsSafe|purell.FlagRemoveTrailingSlash|purell.FlagRemoveDuplicateSlashes|purell.FlagRemoveFragment)
	if err != nil {
		return "", fmt.Errorf("normalizing shop url: %w", err)
	}

	return normalized + APIPath, nil
}

// URL returns the absolute URL for route.
func (d *Dispatcher) URL(route string) string {
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return d.baseURL + route
}

// Get performs a GET request. data, if given, is sent as the query string.
func (d *Dispatcher) Get(ctx context.Context, route string, data any) (*Response, error) {
	return d.Do(ctx, MethodGet, route, data)
}

// Post performs a POST request with data as JSON body.
func (d *Dispatcher) Post(ctx context.Context, route string, data any) (*Response, error) {
	return d.Do(ctx, MethodPost, route, data)
}

// Put performs a PUT request with data as JSON body.
func (d *Dispatcher) Put(ctx context.Context, route string, data any) (*Response, error) {
	return d.Do(ctx, MethodPut, route, data)
}

// Patch performs a PATCH request with data as JSON body.
func (d *Dispatcher) Patch(ctx context.Context, route string, data any) (*Response, error) {
	return d.Do(ctx, MethodPatch, route, data)
}

// Delete performs a DELETE request. data, if given, is sent as JSON body.
func (d *Dispatcher) Delete(ctx context.Context, route string, data any) (*Response, error) {
	return d.Do(ctx, MethodDelete, route, data)
}

// Do validates its arguments and performs a single request. POST, PUT
// and PATCH require data; GET and DELETE accept nil. GET data must be an
// object, JSON bodies may also be arrays. Validation
// failures match [errs.ErrInvalidArgument] and happen before any I/O.
func (d *Dispatcher) Do(ctx context.Context, method Method, route string, data any) (*Response, error) {
	if !method.valid() {
		return nil, errs.InvalidArgument("method", fmt.Sprintf("unsupported method %d", method))
	}

	if route == "" {
		return nil, errs.InvalidArgument("route", "missing or invalid route")
	}

	kind := BodyKindFor(method, false)

	valid := IsBody
	if kind == BodyQuery {
		valid = IsObject
	}

	switch {
	case method.requiresData() && !valid(data):
		return nil, errs.InvalidArgument("data", "missing or invalid request data")
	case !method.requiresData() && !isNil(data) && !valid(data):
		return nil, errs.InvalidArgument("data", "invalid request data")
	}

	return d.perform(ctx, request{
		route:   route,
		method:  method,
		kind:    kind,
		payload: data,
	})
}

// request describes a single call. It lives only for the duration of perform.
type request struct {
	route   string
	method  Method
	kind    BodyKind
	payload any
}

// perform composes, sends and settles one request.
func (d *Dispatcher) perform(ctx context.Context, r request) (*Response, error) {
	ctx, span := d.tracer.Start(ctx, "dispatch."+strings.ToLower(r.method.String()),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", r.method.String()),
			attribute.String("shop.route", r.route),
			attribute.String("shop.body_kind", r.kind.String()),
		),
	)
	defer span.End()

	req, err := d.newRequest(ctx, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "composing request")
		return nil, err
	}

	start := time.Now()
	d.logger.DebugContext(ctx, "dispatching request", "method", req.Method, "route", r.route, "body", r.kind.String())

	resp, err := d.exec(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if sc := errs.StatusCode(err); sc != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", sc))
		}
		d.logger.DebugContext(ctx, "request failed", "method", req.Method, "route", r.route, "since", time.Since(start).String(), "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode), attribute.Bool("shop.raw_body", resp.IsRaw()))
	d.logger.DebugContext(ctx, "request completed", "method", req.Method, "route", r.route, "statusCode", resp.StatusCode, "since", time.Since(start).String())

	return resp, nil
}

// newRequest builds the *http.Request for r, choosing the body encoding
// from r.kind and attaching basic auth.
func (d *Dispatcher) newRequest(ctx context.Context, r request) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
		rawQuery    string
	)

	switch r.kind {
	case BodyQuery:
		vals, err := encodeQuery(r.payload)
		if err != nil {
			return nil, errs.WrapInvalidArgument("data", err)
		}
		rawQuery = vals.Encode()

	case BodyJSON:
		payload, err := encodeJSON(r.payload)
		if err != nil {
			return nil, errs.WrapInvalidArgument("data", err)
		}
		if payload != nil {
			body = payload
			contentType = "application/json"
		}

	case BodyMultipart:
		f, ok := r.payload.(*form)
		if !ok {
			return nil, errs.InvalidArgument("data", "multipart payload must be a form")
		}
		body = f.body
		contentType = f.contentType
	}

	target := d.URL(r.route)
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, r.method.String(), target, body)
	if err != nil {
		return nil, errs.WrapInvalidArgument("route", fmt.Errorf("instantiating request: %w", err))
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.SetBasicAuth(d.user, d.password)

	return req, nil
}

// exec runs the request, buffers the body and settles the outcome:
// transport failures and non-2xx statuses become errors, anything else
// becomes a Response.
func (d *Dispatcher) exec(req *http.Request) (*Response, error) {
	resp, err := d.c.Do(req)
	if err != nil {
		return nil, &errs.TransportError{
			Method: req.Method,
			URL:    req.URL.Redacted(),
			Err:    err,
		}
	}

	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			d.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			d.logger.Error("failed to close response body", "error", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.TransportError{
			Method: req.Method,
			URL:    req.URL.Redacted(),
			Err:    fmt.Errorf("reading response body: %w", err),
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return nil, errs.NewStatusError(resp.StatusCode, string(b))
	}

	return newResponse(resp.StatusCode, resp.Header, b, d.useNumber), nil
}
