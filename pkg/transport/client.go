package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Transport defaults.
const (
	DefaultHandshakeTimeout = 15 * time.Second
	DefaultPingInterval     = 30 * time.Second
	DefaultPongTimeout      = 60 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
	DefaultMaxMessageSize   = 64 * 1024
)

// Dialer establishes authenticated WebSocket connections to the push
// endpoint. The zero value is not usable; URL is required.
type Dialer struct {
	// URL is the push endpoint (ws:// or wss://).
	URL string

	// HandshakeTimeout bounds the WebSocket upgrade (default: 15s).
	HandshakeTimeout time.Duration

	// PingInterval is the keep-alive ping cadence (default: 30s).
	PingInterval time.Duration

	// PongTimeout is how long to wait for any inbound traffic before the
	// connection is considered dead (default: 60s).
	PongTimeout time.Duration

	// WriteTimeout bounds each frame write (default: 10s).
	WriteTimeout time.Duration

	// MaxMessageSize caps inbound frames (default: 64KB).
	MaxMessageSize int64

	// Header carries extra handshake headers, if any.
	Header http.Header
}

// Dial connects to the push endpoint, authenticating with the given bearer
// token. The token is fixed for the lifetime of the returned Conn.
func (d *Dialer) Dial(ctx context.Context, token string) (*Conn, error) {
	if d.URL == "" {
		return nil, fmt.Errorf("transport: endpoint URL is required")
	}

	handshakeTimeout := d.HandshakeTimeout
	if handshakeTimeout == 0 {
		handshakeTimeout = DefaultHandshakeTimeout
	}

	header := http.Header{}
	for k, vs := range d.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	wsDialer := &websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	ws, resp, err := wsDialer.DialContext(ctx, d.URL, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("transport: handshake failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("transport: dial failed: %w", err)
	}
	if resp != nil {
		resp.Body.Close()
	}

	conn := newConn(ws, connConfig{
		pingInterval:   orDefault(d.PingInterval, DefaultPingInterval),
		pongTimeout:    orDefault(d.PongTimeout, DefaultPongTimeout),
		writeTimeout:   orDefault(d.WriteTimeout, DefaultWriteTimeout),
		maxMessageSize: orDefaultInt64(d.MaxMessageSize, DefaultMaxMessageSize),
	})

	return conn, nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d == 0 {
		return fallback
	}
	return d
}

func orDefaultInt64(n, fallback int64) int64 {
	if n == 0 {
		return fallback
	}
	return n
}
