package connection

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeHandle is a controllable Handle for manager tests.
type fakeHandle struct {
	done      chan error
	closeOnce sync.Once
	closed    atomic.Bool
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{done: make(chan error, 1)}
}

func (h *fakeHandle) Done() <-chan error {
	return h.done
}

func (h *fakeHandle) Close() error {
	h.closed.Store(true)
	h.closeOnce.Do(func() {
		h.done <- errors.New("closed")
	})
	return nil
}

// drop simulates an unexpected connection loss.
func (h *fakeHandle) drop(err error) {
	h.closeOnce.Do(func() {
		h.done <- err
	})
}

// fastPolicy keeps reconnection tests quick and deterministic.
func fastPolicy() Policy {
	return Policy{
		Base:           10 * time.Millisecond,
		Cap:            40 * time.Millisecond,
		Multiplier:     2.0,
		Jitter:         0,
		Window:         2 * time.Second,
		AttemptTimeout: 1 * time.Second,
	}
}

func waitForState(t *testing.T, m *Manager, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("State() = %v, want %v", m.State(), want)
}

func TestManager(t *testing.T) {
	t.Run("InitialState", func(t *testing.T) {
		m := NewManager(func(ctx context.Context) (Handle, error) {
			return newFakeHandle(), nil
		})

		if m.State() != StateIdle {
			t.Errorf("Initial state = %v, want StateIdle", m.State())
		}
		if m.IsConnected() {
			t.Error("IsConnected() = true, want false")
		}
	})

	t.Run("SuccessfulConnect", func(t *testing.T) {
		var connectCalled bool
		m := NewManager(func(ctx context.Context) (Handle, error) {
			connectCalled = true
			return newFakeHandle(), nil
		})
		defer m.Disconnect()

		var connectedCalled bool
		m.OnConnected(func() {
			connectedCalled = true
		})

		if err := m.Connect(context.Background()); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}

		if !connectCalled {
			t.Error("Connect function was not called")
		}
		if !connectedCalled {
			t.Error("OnConnected callback was not called")
		}
		if m.State() != StateConnected {
			t.Errorf("State() = %v, want StateConnected", m.State())
		}
	})

	t.Run("FailedConnect", func(t *testing.T) {
		expectedErr := errors.New("connection failed")
		m := NewManager(func(ctx context.Context) (Handle, error) {
			return nil, expectedErr
		})

		err := m.Connect(context.Background())
		if !errors.Is(err, expectedErr) {
			t.Errorf("Connect() error = %v, want %v", err, expectedErr)
		}

		// Initial connect failure must not trigger automatic retries.
		if m.State() != StateIdle {
			t.Errorf("State() = %v, want StateIdle", m.State())
		}
	})

	t.Run("ConnectIsSingleFlight", func(t *testing.T) {
		var connectCount atomic.Int32
		m := NewManager(func(ctx context.Context) (Handle, error) {
			connectCount.Add(1)
			return newFakeHandle(), nil
		})
		defer m.Disconnect()

		if err := m.Connect(context.Background()); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}

		// A second connect on an established connection is a silent no-op.
		if err := m.Connect(context.Background()); err != nil {
			t.Errorf("Second Connect() error = %v, want nil", err)
		}

		if n := connectCount.Load(); n != 1 {
			t.Errorf("Connect function called %d times, want 1", n)
		}
	})

	t.Run("ConcurrentConnect", func(t *testing.T) {
		var connectCount atomic.Int32
		m := NewManager(func(ctx context.Context) (Handle, error) {
			connectCount.Add(1)
			time.Sleep(20 * time.Millisecond) // Hold the handshake open
			return newFakeHandle(), nil
		})
		defer m.Disconnect()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.Connect(context.Background())
			}()
		}
		wg.Wait()

		waitForState(t, m, StateConnected)

		if n := connectCount.Load(); n != 1 {
			t.Errorf("Connect function called %d times, want 1", n)
		}
	})

	t.Run("Disconnect", func(t *testing.T) {
		h := newFakeHandle()
		m := NewManager(func(ctx context.Context) (Handle, error) {
			return h, nil
		})

		m.Connect(context.Background())

		var closedReason error
		var closedCalled bool
		m.OnClosed(func(reason error) {
			closedCalled = true
			closedReason = reason
		})

		m.Disconnect()

		if !closedCalled {
			t.Error("OnClosed callback was not called")
		}
		if closedReason != nil {
			t.Errorf("OnClosed reason = %v, want nil for explicit disconnect", closedReason)
		}
		if m.State() != StateClosed {
			t.Errorf("State() = %v, want StateClosed", m.State())
		}
		if !h.closed.Load() {
			t.Error("Transport handle was not released")
		}
	})

	t.Run("DisconnectIdempotent", func(t *testing.T) {
		m := NewManager(func(ctx context.Context) (Handle, error) {
			return newFakeHandle(), nil
		})

		m.Connect(context.Background())

		var closedCount atomic.Int32
		m.OnClosed(func(error) {
			closedCount.Add(1)
		})

		m.Disconnect()
		m.Disconnect()
		m.Disconnect()

		if n := closedCount.Load(); n != 1 {
			t.Errorf("OnClosed called %d times, want 1", n)
		}
	})

	t.Run("DisconnectWithoutConnect", func(t *testing.T) {
		m := NewManager(func(ctx context.Context) (Handle, error) {
			return newFakeHandle(), nil
		})

		// Must not panic or error
		m.Disconnect()

		if m.State() != StateClosed {
			t.Errorf("State() = %v, want StateClosed", m.State())
		}
	})

	t.Run("ConnectAfterClosed", func(t *testing.T) {
		m := NewManager(func(ctx context.Context) (Handle, error) {
			return newFakeHandle(), nil
		})
		defer m.Disconnect()

		m.Connect(context.Background())
		m.Disconnect()

		if err := m.Connect(context.Background()); err != nil {
			t.Fatalf("Connect() after close error = %v", err)
		}
		if m.State() != StateConnected {
			t.Errorf("State() = %v, want StateConnected", m.State())
		}
	})

	t.Run("StateChangeCallback", func(t *testing.T) {
		m := NewManager(func(ctx context.Context) (Handle, error) {
			return newFakeHandle(), nil
		})

		var mu sync.Mutex
		var transitions []struct{ old, new State }
		m.OnStateChange(func(old, new State) {
			mu.Lock()
			transitions = append(transitions, struct{ old, new State }{old, new})
			mu.Unlock()
		})

		m.Connect(context.Background())
		m.Disconnect()

		expected := []struct{ old, new State }{
			{StateIdle, StateConnecting},
			{StateConnecting, StateConnected},
			{StateConnected, StateClosed},
		}

		mu.Lock()
		defer mu.Unlock()
		if len(transitions) != len(expected) {
			t.Fatalf("Got %d transitions, want %d", len(transitions), len(expected))
		}
		for i, exp := range expected {
			if transitions[i].old != exp.old || transitions[i].new != exp.new {
				t.Errorf("Transition %d: got %v->%v, want %v->%v",
					i, transitions[i].old, transitions[i].new, exp.old, exp.new)
			}
		}
	})
}

func TestManagerReconnect(t *testing.T) {
	t.Run("AutoReconnectOnDrop", func(t *testing.T) {
		var mu sync.Mutex
		var handles []*fakeHandle
		m := NewManagerWithPolicy(func(ctx context.Context) (Handle, error) {
			h := newFakeHandle()
			mu.Lock()
			handles = append(handles, h)
			mu.Unlock()
			return h, nil
		}, fastPolicy())
		defer m.Disconnect()

		var reconnected atomic.Bool
		m.OnReconnected(func() {
			reconnected.Store(true)
		})

		if err := m.Connect(context.Background()); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}

		mu.Lock()
		first := handles[0]
		mu.Unlock()
		first.drop(errors.New("connection reset"))

		waitForState(t, m, StateConnected)

		if !reconnected.Load() {
			t.Error("OnReconnected callback was not called")
		}

		mu.Lock()
		n := len(handles)
		mu.Unlock()
		if n != 2 {
			t.Errorf("Connect function called %d times, want 2", n)
		}

		// Backoff counter resets on a successful reconnect.
		if m.Attempts() != 0 {
			t.Errorf("Attempts() = %d after successful reconnect, want 0", m.Attempts())
		}
	})

	t.Run("ReconnectingCallback", func(t *testing.T) {
		var connectCount atomic.Int32
		m := NewManagerWithPolicy(func(ctx context.Context) (Handle, error) {
			if connectCount.Add(1) < 3 {
				if connectCount.Load() == 1 {
					return newFakeHandle(), nil
				}
				return nil, errors.New("not yet")
			}
			return newFakeHandle(), nil
		}, fastPolicy())
		defer m.Disconnect()

		var mu sync.Mutex
		var delays []time.Duration
		m.OnReconnecting(func(attempt int, delay time.Duration) {
			mu.Lock()
			delays = append(delays, delay)
			mu.Unlock()
		})

		m.Connect(context.Background())

		m.mu.Lock()
		held := m.handle.(*fakeHandle)
		m.mu.Unlock()
		held.drop(errors.New("gone"))

		waitForState(t, m, StateConnected)

		mu.Lock()
		defer mu.Unlock()
		if len(delays) != 2 {
			t.Fatalf("OnReconnecting called %d times, want 2 (delays: %v)", len(delays), delays)
		}
		if delays[0] != 10*time.Millisecond || delays[1] != 20*time.Millisecond {
			t.Errorf("Delays = %v, want [10ms 20ms]", delays)
		}
	})

	t.Run("WindowExhausted", func(t *testing.T) {
		var connectCount atomic.Int32
		policy := fastPolicy()
		policy.Window = 50 * time.Millisecond

		m := NewManagerWithPolicy(func(ctx context.Context) (Handle, error) {
			if connectCount.Add(1) == 1 {
				return newFakeHandle(), nil
			}
			return nil, errors.New("endpoint down")
		}, policy)

		closedCh := make(chan error, 1)
		m.OnClosed(func(reason error) {
			closedCh <- reason
		})

		m.Connect(context.Background())

		m.mu.Lock()
		held := m.handle.(*fakeHandle)
		m.mu.Unlock()
		held.drop(errors.New("gone"))

		select {
		case reason := <-closedCh:
			if !errors.Is(reason, ErrWindowExceeded) {
				t.Errorf("Close reason = %v, want ErrWindowExceeded", reason)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Manager did not give up within the window")
		}

		if m.State() != StateClosed {
			t.Errorf("State() = %v, want StateClosed", m.State())
		}
	})

	t.Run("WindowExhaustedReleasesEpisode", func(t *testing.T) {
		m := NewManagerWithPolicy(func(ctx context.Context) (Handle, error) {
			return nil, errors.New("endpoint down")
		}, fastPolicy())

		cancelled := make(chan struct{})
		m.mu.Lock()
		m.state = StateReconnecting
		m.episodeCancel = func() { close(cancelled) }
		m.mu.Unlock()

		m.giveUp(errors.New("gone"))

		select {
		case <-cancelled:
		default:
			t.Error("episode context was not cancelled on give-up")
		}
		if m.State() != StateClosed {
			t.Errorf("State() = %v, want StateClosed", m.State())
		}
		m.mu.Lock()
		if m.episodeCancel != nil {
			t.Error("episodeCancel not cleared after give-up")
		}
		m.mu.Unlock()
	})

	t.Run("DisconnectDuringReconnect", func(t *testing.T) {
		var connectCount atomic.Int32
		m := NewManagerWithPolicy(func(ctx context.Context) (Handle, error) {
			if connectCount.Add(1) == 1 {
				return newFakeHandle(), nil
			}
			return nil, errors.New("still down")
		}, fastPolicy())

		m.Connect(context.Background())

		m.mu.Lock()
		held := m.handle.(*fakeHandle)
		m.mu.Unlock()
		held.drop(errors.New("gone"))

		waitForState(t, m, StateReconnecting)
		m.Disconnect()

		if m.State() != StateClosed {
			t.Errorf("State() = %v, want StateClosed", m.State())
		}

		// No further attempts after the episode is cancelled.
		settled := connectCount.Load()
		time.Sleep(100 * time.Millisecond)
		if connectCount.Load() != settled {
			t.Error("Reconnection attempts continued after Disconnect")
		}
	})
}
