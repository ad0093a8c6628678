package shoptest

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"
)

func logger(log *slog.Logger) middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v := getValues(ctx)

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path = fmt.Sprintf("%s?%s", path, r.URL.RawQuery)
			}

			log.Debug("request started", "trace_id", v.TraceID, "method", r.Method, "path", path)

			err := next(ctx, w, r)

			log.Debug("request completed", "trace_id", v.TraceID, "method", r.Method, "path", path, "statusCode", v.StatusCode, "since", time.Since(v.Now).String())

			return err
		}
	}
}

// errorsMW turns errors coming out of the call chain into JSON responses.
// Unrecognized errors are reported as 500 with a generic message.
func errorsMW(log *slog.Logger) middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := next(ctx, w, r)
			if err == nil {
				return nil
			}

			apiErr, ok := errors.AsType[*apiError](err)
			if !ok {
				log.Error(err.Error(), "trace_id", getValues(ctx).TraceID)
				apiErr = newError(http.StatusInternalServerError, "%s", http.StatusText(http.StatusInternalServerError))
			}

			return respond(ctx, w, apiErr.Code, apiErr)
		}
	}
}

func panics() middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(debug.Stack()))
				}
			}()

			return next(ctx, w, r)
		}
	}
}

// basicAuth rejects requests whose credentials do not match.
func basicAuth(user, password string) middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			u, p, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 ||
				subtle.ConstantTimeCompare([]byte(p), []byte(password)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="shop"`)
				return newError(http.StatusUnauthorized, "invalid credentials")
			}

			return next(ctx, w, r)
		}
	}
}

// respond writes data as JSON with statusCode.
func respond(ctx context.Context, w http.ResponseWriter, statusCode int, data any) error {
	setStatusCode(ctx, statusCode)

	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err = w.Write(jsonData); err != nil {
		return err
	}

	return nil
}
