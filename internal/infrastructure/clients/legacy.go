package clients

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Callback is the signature of the legacy transport's completion callback.
// Exactly one of err / (status, body) is meaningful per invocation, but a
// misbehaving transport may invoke it more than once.
type Callback func(err error, status int, body []byte)

type settlement struct {
	status int
	body   []byte
	err    error
}

// Settler bridges the legacy callback transport into the single-resolution
// contract of Client.Do. The first Resolve or Reject wins; every later
// invocation is discarded, so a call settles at most once.
type Settler struct {
	once sync.Once
	ch   chan settlement
}

// NewSettler returns a settler ready to accept one settlement
func NewSettler() *Settler {
	return &Settler{ch: make(chan settlement, 1)}
}

// Resolve settles the call successfully
func (s *Settler) Resolve(status int, body []byte) {
	s.once.Do(func() {
		s.ch <- settlement{status: status, body: body}
	})
}

// Reject settles the call with an error
func (s *Settler) Reject(err error) {
	s.once.Do(func() {
		s.ch <- settlement{err: err}
	})
}

// Callback adapts the settler into the legacy callback signature
func (s *Settler) Callback() Callback {
	return func(err error, status int, body []byte) {
		if err != nil {
			s.Reject(err)
			return
		}
		s.Resolve(status, body)
	}
}

// Wait blocks until the call settles or the context is done
func (s *Settler) Wait(ctx context.Context) (int, []byte, error) {
	select {
	case out := <-s.ch:
		return out.status, out.body, out.err
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

// LegacyStatuses is the accepted status set of the callback-era transport.
// Modern calls accept any 2xx; legacy callers pinned {200, 202}.
var LegacyStatuses = []int{200, 202}

// StartCallback issues the call on the callback transport. The outcome is
// delivered through cb once the exchange finishes, never by return value.
func (c *Client) StartCallback(ctx context.Context, req Request, cb Callback) {
	go func() {
		status, body, err := c.send(ctx, req)
		cb(err, status, body)
	}()
}

// DoLegacy funnels a callback-based call into the same classification and
// result contract as Client.Do. The start function kicks off the legacy
// transport with the settler's callback.
func (c *Client) DoLegacy(ctx context.Context, req Request, start func(cb Callback)) (*Response, error) {
	settler := NewSettler()
	start(settler.Callback())

	status, body, err := settler.Wait(ctx)
	if err != nil {
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			return nil, err
		}
		return nil, &TransportError{
			Service:       c.service,
			Description:   req.Description,
			CorrelationID: req.CorrelationID,
			Err:           err,
		}
	}

	accept := req.Accept
	if len(accept) == 0 {
		accept = LegacyStatuses
	}
	if !statusAccepted(status, accept) {
		return nil, &UnexpectedStatusError{
			Service:       c.service,
			Description:   req.Description,
			CorrelationID: req.CorrelationID,
			Status:        status,
		}
	}

	result := &Response{Status: status, Body: body}
	if req.Transform != nil {
		data, err := req.Transform(body)
		if err != nil {
			return nil, fmt.Errorf("%s: transforming %s response: %w", c.service, req.Description, err)
		}
		result.Data = data
	}
	return result, nil
}
