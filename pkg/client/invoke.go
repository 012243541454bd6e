package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/ticketflow/notify-go/pkg/log"
	"github.com/ticketflow/notify-go/pkg/wire"
)

// InvokeError is a server-side invoke failure.
type InvokeError struct {
	Method  string
	Message string
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("client: invoke %q failed: %s", e.Method, e.Message)
}

// Invoke sends a remote call over the open channel and waits for the
// correlated result. The channel must be Connected; otherwise the call fails
// immediately with ErrNotConnected and no network I/O happens. Calls are
// never queued while disconnected.
func (c *Client) Invoke(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if !c.manager.IsConnected() {
		return nil, fmt.Errorf("%w: cannot invoke %q", ErrNotConnected, method)
	}

	c.mu.Lock()
	conn := c.conn
	connID := c.connID
	c.mu.Unlock()
	if conn == nil {
		return nil, fmt.Errorf("%w: cannot invoke %q", ErrNotConnected, method)
	}

	inv := wire.Invocation{
		ID:     uuid.NewString(),
		Method: method,
		Args:   args,
	}
	data, err := wire.EncodeInvocation(inv)
	if err != nil {
		return nil, err
	}

	ch := make(chan *wire.Result, 1)
	c.mu.Lock()
	c.pending[inv.ID] = ch
	c.mu.Unlock()

	cleanup := func() {
		c.mu.Lock()
		delete(c.pending, inv.ID)
		c.mu.Unlock()
	}

	if err := conn.Send(data); err != nil {
		cleanup()
		return nil, fmt.Errorf("client: sending invoke %q: %w", method, err)
	}
	c.logger.Log(log.OutboundMessage(connID, wire.TypeInvoke, method, len(data)))

	select {
	case r, ok := <-ch:
		if !ok {
			// Connection epoch ended before the result arrived.
			return nil, fmt.Errorf("%w: connection lost during invoke %q", ErrNotConnected, method)
		}
		if r.Error != "" {
			return nil, &InvokeError{Method: method, Message: r.Error}
		}
		return r.Value, nil
	case <-ctx.Done():
		cleanup()
		return nil, ctx.Err()
	}
}

// resolvePending hands a result to the waiting invoke, if any. Results
// without a waiter (late arrivals after timeout) are dropped.
func (c *Client) resolvePending(r *wire.Result) {
	c.mu.Lock()
	ch, ok := c.pending[r.ID]
	if ok {
		delete(c.pending, r.ID)
	}
	c.mu.Unlock()

	if ok {
		ch <- r
	}
}

// failPending aborts every in-flight invoke when a connection epoch ends.
func (c *Client) failPending() {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]chan *wire.Result)
	c.mu.Unlock()

	for _, ch := range pending {
		close(ch)
	}
}
