package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ticketflow/notify-go/pkg/connection"
	"github.com/ticketflow/notify-go/pkg/dispatch"
	"github.com/ticketflow/notify-go/pkg/log"
	"github.com/ticketflow/notify-go/pkg/notify"
	"github.com/ticketflow/notify-go/pkg/transport"
	"github.com/ticketflow/notify-go/pkg/wire"
)

// Client errors.
var (
	// ErrNotConnected is returned by Invoke when the channel is not in the
	// Connected state. The call fails fast without any network I/O.
	ErrNotConnected = errors.New("client: not connected")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("client: closed")
)

// DefaultQueueSize is the delivery queue depth between the transport receive
// pump and the dispatch goroutine.
const DefaultQueueSize = 64

// Config configures a Client. Endpoint is required; everything else has
// usable defaults.
type Config struct {
	// Endpoint is the push endpoint URL (ws:// or wss://).
	Endpoint string

	// TokenSource, when set, is consulted for the bearer credential at every
	// handshake (initial and reconnect). When nil, the token passed to
	// Connect is reused for reconnections within the session.
	TokenSource TokenSource

	// Backoff is the reconnection policy. Zero fields take defaults.
	Backoff connection.Policy

	// Logger receives channel events. Nil disables channel logging.
	Logger log.Logger

	// QueueSize bounds the delivery queue (default: 64).
	QueueSize int

	// Dialer overrides transport tuning. The URL field is ignored; Endpoint
	// wins. Mainly used by tests to shrink keep-alive timeouts.
	Dialer *transport.Dialer
}

// Client is the realtime notification channel. All methods are safe for
// concurrent use.
type Client struct {
	dialer     *transport.Dialer
	manager    *connection.Manager
	dispatcher *dispatch.Dispatcher
	logger     log.Logger
	tokens     TokenSource

	mu           sync.Mutex
	sessionToken string
	conn         *transport.Conn
	connID       string
	pending      map[string]chan *wire.Result

	deliveries chan notify.Notification
	quit       chan struct{}
	closed     atomic.Bool

	obs observers
}

// observers holds the application-level lifecycle callbacks.
type observers struct {
	mu sync.Mutex
	cb callbacks
}

type callbacks struct {
	stateChange  func(old, new connection.State)
	connected    func()
	reconnected  func()
	reconnecting func(attempt int, delay time.Duration)
	closedFn     func(reason error)
}

// New creates a client. The connection is not established until Connect.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("client: endpoint is required")
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	dialer := &transport.Dialer{}
	if cfg.Dialer != nil {
		*dialer = *cfg.Dialer
	}
	dialer.URL = cfg.Endpoint

	c := &Client{
		dialer:     dialer,
		logger:     log.OrNoop(cfg.Logger),
		tokens:     cfg.TokenSource,
		pending:    make(map[string]chan *wire.Result),
		deliveries: make(chan notify.Notification, queueSize),
		quit:       make(chan struct{}),
	}
	c.dispatcher = dispatch.NewDispatcher(c.logger)
	c.manager = connection.NewManagerWithPolicy(c.dial, cfg.Backoff)

	c.manager.OnStateChange(func(old, new connection.State) {
		c.logger.Log(log.StateChanged(c.currentConnID(), old.String(), new.String(), ""))
		if fn := c.obs.get().stateChange; fn != nil {
			fn(old, new)
		}
	})
	c.manager.OnConnected(func() {
		if fn := c.obs.get().connected; fn != nil {
			fn()
		}
	})
	c.manager.OnReconnected(func() {
		if fn := c.obs.get().reconnected; fn != nil {
			fn()
		}
	})
	c.manager.OnReconnecting(func(attempt int, delay time.Duration) {
		if fn := c.obs.get().reconnecting; fn != nil {
			fn(attempt, delay)
		}
	})
	c.manager.OnClosed(func(reason error) {
		if reason != nil {
			c.logger.Log(log.Failure(c.currentConnID(), reason.Error(), "reconnect"))
		}
		if fn := c.obs.get().closedFn; fn != nil {
			fn(reason)
		}
	})

	go c.deliveryLoop()

	return c, nil
}

// Connect establishes the channel using token as the session credential. It
// is a no-op (not an error) when a connect is already in flight or the
// channel is already connected. A handshake failure is returned to the
// caller and never retried automatically.
func (c *Client) Connect(ctx context.Context, token string) error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.mu.Lock()
	c.sessionToken = token
	c.mu.Unlock()

	return c.manager.Connect(ctx)
}

// Disconnect tears the channel down. Idempotent; no automatic reconnection
// follows an explicit disconnect.
func (c *Client) Disconnect() {
	c.manager.Disconnect()
}

// Close disconnects and releases the client. The client cannot be reused.
func (c *Client) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.manager.Disconnect()
	c.dispatcher.Clear()
	close(c.quit)
}

// Subscribe registers handler for a category, or for every category via
// notify.Wildcard. Cancel the returned handle to unregister.
func (c *Client) Subscribe(category notify.Category, handler dispatch.Handler) (*dispatch.Subscription, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return c.dispatcher.Subscribe(category, handler)
}

// State returns the current lifecycle state. Pure observation.
func (c *Client) State() connection.State {
	return c.manager.State()
}

// IsConnected reports whether the channel is established. Pure observation.
func (c *Client) IsConnected() bool {
	return c.manager.IsConnected()
}

// OnStateChange registers a callback for every lifecycle transition.
func (c *Client) OnStateChange(fn func(old, new connection.State)) {
	c.obs.mu.Lock()
	defer c.obs.mu.Unlock()
	c.obs.cb.stateChange = fn
}

// OnConnected registers a callback fired on every established connection.
func (c *Client) OnConnected(fn func()) {
	c.obs.mu.Lock()
	defer c.obs.mu.Unlock()
	c.obs.cb.connected = fn
}

// OnReconnected registers a callback fired when a dropped connection is
// re-established.
func (c *Client) OnReconnected(fn func()) {
	c.obs.mu.Lock()
	defer c.obs.mu.Unlock()
	c.obs.cb.reconnected = fn
}

// OnReconnecting registers a callback fired before each reconnection delay.
func (c *Client) OnReconnecting(fn func(attempt int, delay time.Duration)) {
	c.obs.mu.Lock()
	defer c.obs.mu.Unlock()
	c.obs.cb.reconnecting = fn
}

// OnClosed registers a callback fired when the channel reaches Closed. The
// reason is nil for an explicit disconnect.
func (c *Client) OnClosed(fn func(reason error)) {
	c.obs.mu.Lock()
	defer c.obs.mu.Unlock()
	c.obs.cb.closedFn = fn
}

func (o *observers) get() callbacks {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cb
}

func (c *Client) currentConnID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connID
}
