// Package dispatch performs every HTTP call against the shop API.
//
// A [Dispatcher] is built once from a [Config] and is read-only afterwards,
// so it can be shared by any number of goroutines. Each call issues exactly
// one request:
//
//   - GET sends its data as a query string.
//   - POST, PUT, PATCH and DELETE send their data as a JSON body.
//   - [Dispatcher.UploadFile] streams a file as multipart/form-data.
//
// Every request carries HTTP Basic auth and the configured User-Agent.
//
// Arguments are validated before any I/O, and failures match
// [errs.ErrInvalidArgument]. A response with a status outside 200-299 is
// returned as an [*errs.StatusError] carrying the body. A 2xx body that
// is not valid JSON is not an error: the [Response] is marked raw and its
// value is the body string.
//
// Options are passed to [Build] as functional options:
//
//	d, err := dispatch.Build(dispatch.Config{
//		URL:      "https://shop.example.com",
//		User:     "admin",
//		Password: "secret",
//	}, dispatch.WithTimeout(30*time.Second), dispatch.WithLogger(logger))
//
// [Async] runs a call in its own goroutine and returns a [Pending] that
// settles once.
package dispatch
