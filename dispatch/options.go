package dispatch

import (
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/shopapi/errs"
)

// Option is a functional option for configuring a [Dispatcher] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	headers           map[string]string
	noFollowRedirects bool
	useJSONNumber     bool
	logger            *slog.Logger
	tracerProvider    trace.TracerProvider
	propagator        propagation.TextMapPropagator
}

// WithClient replaces the default [http.Client] used by the [Dispatcher].
// The client is copied; the caller's value is never modified.
func WithClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		o.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
// Without it the dispatcher sets no timeout of its own.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithUserAgent replaces the default User-Agent sent with every request.
func WithUserAgent(header string) Option {
	return func(o *options) error {
		if header == "" {
			return errors.New("user agent must not be empty")
		}
		o.userAgent = header
		return nil
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) error {
		if o.headers == nil {
			o.headers = make(map[string]string, len(headers))
		}
		maps.Copy(o.headers, headers)
		return nil
	}
}

// WithNoFollowRedirects prevents the [Dispatcher] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(o *options) error {
		o.noFollowRedirects = true
		return nil
	}
}

// WithJSONNumber makes parsed response values use [json.Number]
// instead of float64, preserving number precision.
func WithJSONNumber() Option {
	return func(o *options) error {
		o.useJSONNumber = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Dispatcher].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithTracerProvider enables a span per request and propagates the trace
// context to the shop through the request headers.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		o.tracerProvider = tp
		return nil
	}
}

// WithPropagator sets how the trace context is written to request
// headers when tracing is enabled. The default sends W3C traceparent and
// baggage headers.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(o *options) error {
		if p == nil {
			return errors.New("propagator must not be nil")
		}
		o.propagator = p
		return nil
	}
}

// headerTransport is an http.RoundTripper, enabling the persistent
// default headers, User-Agent included. Headers already set on a request
// win, so Content-Type always matches the body.
type headerTransport struct {
	headers http.Header
	base    http.RoundTripper
}

func (ht headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	for k, v := range ht.headers {
		if _, ok := cpy.Header[k]; ok {
			continue
		}
		cpy.Header[k] = v
	}
	return ht.base.RoundTrip(cpy)
}

// UploadOption is a functional option for [Dispatcher.UploadFile].
type UploadOption func(*uploadOpts) error

type uploadOpts struct {
	fileField     string
	fileNameField string
}

// WithFileField names the multipart field carrying the file content.
// Defaults to "file".
func WithFileField(name string) UploadOption {
	return func(o *uploadOpts) error {
		if name == "" {
			return errs.InvalidArgument("fileField", "must not be empty")
		}
		o.fileField = name
		return nil
	}
}

// WithFileNameField names the multipart field carrying the file name.
// Defaults to "filename".
func WithFileNameField(name string) UploadOption {
	return func(o *uploadOpts) error {
		if name == "" {
			return errs.InvalidArgument("fileNameField", "must not be empty")
		}
		o.fileNameField = name
		return nil
	}
}
