package transport

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrConnectionClosed is reported on Done() after an explicit Close.
var ErrConnectionClosed = errors.New("transport: connection closed")

type connConfig struct {
	pingInterval   time.Duration
	pongTimeout    time.Duration
	writeTimeout   time.Duration
	maxMessageSize int64
}

// Conn is one physical connection to the push endpoint. It owns a receive
// pump and a keep-alive pinger; both exit when the connection terminates.
type Conn struct {
	ws  *websocket.Conn
	cfg connConfig

	messages chan []byte
	done     chan error

	reportOnce sync.Once
	closeOnce  sync.Once
	closed     chan struct{}

	writeMu sync.Mutex
}

func newConn(ws *websocket.Conn, cfg connConfig) *Conn {
	c := &Conn{
		ws:       ws,
		cfg:      cfg,
		messages: make(chan []byte, 32),
		done:     make(chan error, 1),
		closed:   make(chan struct{}),
	}

	ws.SetReadLimit(cfg.maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(cfg.pongTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(cfg.pongTimeout))
	})

	go c.readLoop()
	go c.pingLoop()

	return c
}

// Send writes one frame. Safe for concurrent use.
func (c *Conn) Send(data []byte) error {
	select {
	case <-c.closed:
		return ErrConnectionClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(c.cfg.writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Messages returns the inbound frame stream. The channel is closed when the
// connection terminates.
func (c *Conn) Messages() <-chan []byte {
	return c.messages
}

// Done reports the terminal error exactly once: ErrConnectionClosed after an
// explicit Close, otherwise the read failure that dropped the connection.
func (c *Conn) Done() <-chan error {
	return c.done
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

// Close tears the connection down. Idempotent.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.report(ErrConnectionClosed)

		// Best-effort close frame so the server can distinguish a clean
		// shutdown from a drop.
		c.writeMu.Lock()
		c.ws.SetWriteDeadline(time.Now().Add(time.Second))
		c.ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()

		err = c.ws.Close()
	})
	return err
}

func (c *Conn) report(err error) {
	c.reportOnce.Do(func() {
		c.done <- err
	})
}

// readLoop is the single reader for the connection. A read error means the
// connection is gone; the error is surfaced on Done().
func (c *Conn) readLoop() {
	defer close(c.messages)

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
				// Explicit close already reported.
			default:
				c.report(err)
			}
			return
		}

		select {
		case c.messages <- data:
		case <-c.closed:
			return
		}
	}
}

// pingLoop sends keep-alive pings until the connection terminates.
func (c *Conn) pingLoop() {
	ticker := time.NewTicker(c.cfg.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			c.ws.SetWriteDeadline(time.Now().Add(c.cfg.writeTimeout))
			err := c.ws.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
