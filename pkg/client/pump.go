package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ticketflow/notify-go/pkg/connection"
	"github.com/ticketflow/notify-go/pkg/log"
	"github.com/ticketflow/notify-go/pkg/notify"
	"github.com/ticketflow/notify-go/pkg/transport"
	"github.com/ticketflow/notify-go/pkg/wire"
)

// dial establishes one physical connection. Called by the connection manager
// for the initial connect and every reconnection attempt; the credential is
// resolved fresh for each handshake.
func (c *Client) dial(ctx context.Context) (connection.Handle, error) {
	token, err := c.handshakeToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("client: resolving credential: %w", err)
	}

	conn, err := c.dialer.Dial(ctx, token)
	if err != nil {
		return nil, err
	}

	connID := uuid.NewString()

	c.mu.Lock()
	c.conn = conn
	c.connID = connID
	c.mu.Unlock()

	go c.pump(conn, connID)

	return conn, nil
}

// handshakeToken resolves the bearer credential for one handshake.
func (c *Client) handshakeToken(ctx context.Context) (string, error) {
	if c.tokens != nil {
		return c.tokens.Token(ctx)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionToken, nil
}

// pump is the per-epoch reader: it drains the transport's message stream and
// exits when the connection terminates. Frame handling never blocks on
// subscriber callbacks; notifications go through the delivery queue.
func (c *Client) pump(conn *transport.Conn, connID string) {
	for data := range conn.Messages() {
		c.handleFrame(connID, data)
	}

	// Connection epoch over: in-flight invokes can never complete.
	c.failPending()

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
}

// handleFrame decodes one inbound frame and routes it by envelope type.
// Unknown types are skipped for forward compatibility.
func (c *Client) handleFrame(connID string, data []byte) {
	env, err := wire.DecodeEnvelope(data)
	if err != nil {
		c.logger.Log(log.Failure(connID, err.Error(), "decode"))
		return
	}

	switch env.Type {
	case wire.TypeNotification:
		n, err := wire.DecodeNotification(env.Payload)
		if err != nil {
			c.logger.Log(log.Failure(connID, err.Error(), "decode notification"))
			return
		}
		c.logger.Log(log.InboundMessage(connID, env.Type, n.Category.String(), len(data)))
		c.enqueue(n)

	case wire.TypeResult:
		r, err := wire.DecodeResult(env.Payload)
		if err != nil {
			c.logger.Log(log.Failure(connID, err.Error(), "decode result"))
			return
		}
		c.logger.Log(log.InboundMessage(connID, env.Type, "", len(data)))
		c.resolvePending(r)
	}
}

// enqueue places a notification on the delivery queue. When the queue is
// full the oldest pending notification is dropped: delivery is at-most-once
// and a stalled subscriber must not wedge the transport.
func (c *Client) enqueue(n notify.Notification) {
	if c.closed.Load() {
		return
	}

	select {
	case c.deliveries <- n:
		return
	default:
	}

	select {
	case dropped := <-c.deliveries:
		c.logger.Log(log.Failure(c.currentConnID(),
			"delivery queue full, dropping oldest notification",
			dropped.Category.String()))
	default:
	}

	select {
	case c.deliveries <- n:
	default:
	}
}

// deliveryLoop is the single dispatch goroutine. Per-epoch ordering is the
// queue order; subscriber latency shows up here, never on the transport.
func (c *Client) deliveryLoop() {
	for {
		select {
		case <-c.quit:
			return
		case n := <-c.deliveries:
			c.dispatcher.Dispatch(n)
		}
	}
}
