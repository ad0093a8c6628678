package dispatch

import (
	"context"
)

// Pending is the asynchronous result of a single dispatcher call. It
// settles exactly once, with either a Response or an error.
type Pending struct {
	done chan struct{}
	resp *Response
	err  error
}

// Async runs fn in its own goroutine and returns immediately. The
// returned Pending settles when fn returns.
//
//	p := dispatch.Async(ctx, func(ctx context.Context) (*dispatch.Response, error) {
//		return d.Get(ctx, "/addresses", nil)
//	})
//	resp, err := p.Wait()
func Async(ctx context.Context, fn func(context.Context) (*Response, error)) *Pending {
	p := &Pending{done: make(chan struct{})}

	go func() {
		defer close(p.done)
		p.resp, p.err = fn(ctx)
	}()

	return p
}

// Done returns a channel that is closed when the call settles.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the call settles and returns its outcome.
func (p *Pending) Wait() (*Response, error) {
	<-p.done
	return p.resp, p.err
}

// Err blocks until the call settles and returns its error.
func (p *Pending) Err() error {
	<-p.done
	return p.err
}
