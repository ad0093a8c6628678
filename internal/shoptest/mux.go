package shoptest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// handler is a http.Handler that returns an error.
type handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// middleware chains handlers together.
type middleware func(handler) handler

// app routes requests to handlers wrapped in a shared middleware stack.
type app struct {
	mux    *http.ServeMux
	mw     []middleware
	logger *slog.Logger
	tracer trace.Tracer
}

func newApp(logger *slog.Logger, tracer trace.Tracer, mw ...middleware) *app {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("shoptest")
	}

	return &app{
		mux:    http.NewServeMux(),
		mw:     mw,
		logger: logger,
		tracer: tracer,
	}
}

func (a *app) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// handle registers fn for pattern, a net/http ServeMux pattern.
func (a *app) handle(pattern string, fn handler) {
	fn = wrap(a.mw, fn)

	h := func(w http.ResponseWriter, r *http.Request) {
		ctx, span := a.tracer.Start(r.Context(), "shoptest.handler")
		span.SetAttributes(attribute.String("path", r.RequestURI))
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		if !span.SpanContext().TraceID().IsValid() {
			traceID = uuid.New().String()
		}

		v := values{
			TraceID: traceID,
			Now:     time.Now().UTC(),
		}

		r = r.WithContext(context.WithValue(ctx, valuesKey, &v))

		if err := fn(r.Context(), w, r); err != nil {
			a.logger.Error("shoptest", "handle", err)
		}
	}

	a.mux.HandleFunc(pattern, h)
}

// wrap middleware around the handler and execute in order given.
func wrap(mw []middleware, h handler) handler {
	for _, mwFn := range slices.Backward(mw) {
		if mwFn != nil {
			h = mwFn(h)
		}
	}

	return h
}

type ctxKey int

const valuesKey ctxKey = 1

// values are shared across a request's middleware for logging.
type values struct {
	TraceID    string
	Now        time.Time
	StatusCode int
}

func getValues(ctx context.Context) *values {
	v, ok := ctx.Value(valuesKey).(*values)
	if !ok {
		return &values{
			TraceID: uuid.Nil.String(),
			Now:     time.Now(),
		}
	}

	return v
}

func setStatusCode(ctx context.Context, statusCode int) {
	if v, ok := ctx.Value(valuesKey).(*values); ok {
		v.StatusCode = statusCode
	}
}

// apiError is a recognized error carrying the status code to respond with.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return e.Message
}

func newError(code int, format string, args ...any) *apiError {
	return &apiError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
