package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrWindowExceeded is the close reason when a reconnection episode exhausts
// the configured window without re-establishing the connection.
var ErrWindowExceeded = errors.New("connection: reconnect window exceeded")

// Handle is the manager's view of one physical connection. The manager owns
// the handle exclusively: no other code may close it.
type Handle interface {
	// Done reports the terminal error for the connection.
	Done() <-chan error

	// Close tears the connection down. Must be idempotent.
	Close() error
}

// ConnectFunc establishes one physical connection. It is called for the
// initial connect and for every reconnection attempt.
type ConnectFunc func(ctx context.Context) (Handle, error)

// Manager owns one logical connection to the push endpoint and drives its
// lifecycle: single-flight connects, drop detection, and bounded automatic
// reconnection.
type Manager struct {
	mu sync.Mutex

	state  State
	handle Handle

	// epoch increments on every established connection so a stale watch
	// goroutine cannot react to a connection it no longer supervises.
	epoch uint64

	connect ConnectFunc
	policy  Policy
	backoff *Backoff

	// episodeCancel aborts the active reconnection episode, if any.
	episodeCancel context.CancelFunc

	onStateChange  func(old, new State)
	onConnected    func()
	onReconnected  func()
	onReconnecting func(attempt int, delay time.Duration)
	onClosed       func(reason error)
}

// NewManager creates a manager with the default reconnection policy.
func NewManager(connect ConnectFunc) *Manager {
	return NewManagerWithPolicy(connect, Policy{})
}

// NewManagerWithPolicy creates a manager with an explicit policy.
func NewManagerWithPolicy(connect ConnectFunc, policy Policy) *Manager {
	policy = policy.withDefaults()
	return &Manager{
		state:   StateIdle,
		connect: connect,
		policy:  policy,
		backoff: NewBackoff(policy),
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsConnected reports whether the connection is established.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateConnected
}

// Attempts returns the reconnection attempt count of the current episode.
func (m *Manager) Attempts() int {
	return m.backoff.Attempts()
}

// Connect establishes the connection. It is a no-op (not an error) when a
// connect is already in flight or the connection is already established;
// exactly one physical handshake happens no matter how many callers race.
// An initial connect failure is returned to the caller and never retried
// automatically.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	switch m.state {
	case StateConnected, StateConnecting, StateReconnecting:
		m.mu.Unlock()
		return nil
	}
	prev := m.state
	m.state = StateConnecting
	m.mu.Unlock()

	m.notifyStateChange(prev, StateConnecting)

	h, err := m.connect(ctx)

	m.mu.Lock()
	if m.state != StateConnecting {
		// Disconnect raced the handshake. The connect is not cancellable in
		// isolation; release whatever it produced once it settles.
		m.mu.Unlock()
		if h != nil {
			h.Close()
		}
		return err
	}

	if err != nil {
		m.state = prev
		m.mu.Unlock()
		m.notifyStateChange(StateConnecting, prev)
		return err
	}

	m.handle = h
	m.state = StateConnected
	m.backoff.Reset()
	m.epoch++
	epoch := m.epoch
	m.mu.Unlock()

	m.notifyStateChange(StateConnecting, StateConnected)
	m.notifyConnected(false)

	go m.watch(h, epoch)
	return nil
}

// Disconnect tears the connection down and transitions to Closed. Idempotent:
// calling it when already closed is a no-op. The transport handle is released
// unconditionally.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return
	}
	prev := m.state
	m.state = StateClosed
	h := m.handle
	m.handle = nil
	cancel := m.episodeCancel
	m.episodeCancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if h != nil {
		h.Close()
	}

	m.notifyStateChange(prev, StateClosed)
	m.notifyClosed(nil)
}

// watch supervises one connection epoch and starts reconnection when the
// connection drops unexpectedly.
func (m *Manager) watch(h Handle, epoch uint64) {
	err := <-h.Done()

	m.mu.Lock()
	if m.epoch != epoch || m.state != StateConnected {
		// Explicit disconnect or a newer epoch took over.
		m.mu.Unlock()
		return
	}
	m.state = StateReconnecting
	m.handle = nil
	ctx, cancel := context.WithCancel(context.Background())
	m.episodeCancel = cancel
	m.mu.Unlock()

	m.notifyStateChange(StateConnected, StateReconnecting)
	m.reconnect(ctx, err)
}

// reconnect retries with capped exponential backoff until it succeeds, the
// episode is cancelled, or the cumulative elapsed time would exceed the
// policy window.
func (m *Manager) reconnect(ctx context.Context, cause error) {
	start := time.Now()

	for {
		delay := m.backoff.Next()
		attempt := m.backoff.Attempts()

		if time.Since(start)+delay > m.policy.Window {
			m.giveUp(cause)
			return
		}

		m.notifyReconnecting(attempt, delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		m.mu.Lock()
		if m.state != StateReconnecting {
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()

		attemptCtx, cancel := context.WithTimeout(ctx, m.policy.AttemptTimeout)
		h, err := m.connect(attemptCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		m.mu.Lock()
		if m.state != StateReconnecting {
			m.mu.Unlock()
			h.Close()
			return
		}
		m.handle = h
		m.state = StateConnected
		m.backoff.Reset()
		m.epoch++
		epoch := m.epoch
		epCancel := m.episodeCancel
		m.episodeCancel = nil
		m.mu.Unlock()

		if epCancel != nil {
			epCancel()
		}

		m.notifyStateChange(StateReconnecting, StateConnected)
		m.notifyConnected(true)

		go m.watch(h, epoch)
		return
	}
}

func (m *Manager) giveUp(cause error) {
	m.mu.Lock()
	if m.state != StateReconnecting {
		m.mu.Unlock()
		return
	}
	m.state = StateClosed
	cancel := m.episodeCancel
	m.episodeCancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	m.notifyStateChange(StateReconnecting, StateClosed)
	m.notifyClosed(fmt.Errorf("%w (last error: %v)", ErrWindowExceeded, cause))
}

// OnStateChange sets a callback for every state transition.
func (m *Manager) OnStateChange(fn func(old, new State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

// OnConnected sets a callback fired on every established connection,
// including reconnections.
func (m *Manager) OnConnected(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onConnected = fn
}

// OnReconnected sets a callback fired only when a dropped connection is
// re-established.
func (m *Manager) OnReconnected(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReconnected = fn
}

// OnReconnecting sets a callback fired before each reconnection delay.
func (m *Manager) OnReconnecting(fn func(attempt int, delay time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReconnecting = fn
}

// OnClosed sets a callback fired when the manager reaches Closed. The reason
// is nil for an explicit disconnect and ErrWindowExceeded (wrapped) when the
// reconnection window was exhausted.
func (m *Manager) OnClosed(fn func(reason error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClosed = fn
}

func (m *Manager) notifyStateChange(old, new State) {
	m.mu.Lock()
	fn := m.onStateChange
	m.mu.Unlock()
	if fn != nil {
		fn(old, new)
	}
}

func (m *Manager) notifyConnected(reconnect bool) {
	m.mu.Lock()
	connected := m.onConnected
	reconnected := m.onReconnected
	m.mu.Unlock()
	if connected != nil {
		connected()
	}
	if reconnect && reconnected != nil {
		reconnected()
	}
}

func (m *Manager) notifyReconnecting(attempt int, delay time.Duration) {
	m.mu.Lock()
	fn := m.onReconnecting
	m.mu.Unlock()
	if fn != nil {
		fn(attempt, delay)
	}
}

func (m *Manager) notifyClosed(reason error) {
	m.mu.Lock()
	fn := m.onClosed
	m.mu.Unlock()
	if fn != nil {
		fn(reason)
	}
}
