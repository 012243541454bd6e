package session

import (
	"context"
	"sync"
)

// Channel is the slice of the notification client the shim drives.
// *client.Client satisfies it.
type Channel interface {
	Connect(ctx context.Context, token string) error
	Disconnect()
}

// Shim enforces the session boundary contract: Connect exactly once per
// authentication epoch, Disconnect on logout. Safe for concurrent use.
type Shim struct {
	mu            sync.Mutex
	channel       Channel
	authenticated bool

	// connecting guards the window between the authenticated check and the
	// Connect call so racing login reports still produce one handshake.
	connecting bool
}

// NewShim creates a shim driving the given channel.
func NewShim(channel Channel) *Shim {
	return &Shim{channel: channel}
}

// LoginSucceeded connects the channel with the freshly issued token. Calling
// it again without an intervening Logout is a no-op, so an application that
// fires duplicate login events still produces exactly one connect. A
// handshake failure is returned and leaves the shim unauthenticated; the
// next successful login may try again.
func (s *Shim) LoginSucceeded(ctx context.Context, token string) error {
	s.mu.Lock()
	if s.authenticated || s.connecting {
		s.mu.Unlock()
		return nil
	}
	s.connecting = true
	s.mu.Unlock()

	err := s.channel.Connect(ctx, token)

	s.mu.Lock()
	s.connecting = false
	if err == nil {
		s.authenticated = true
	}
	s.mu.Unlock()
	return err
}

// Logout disconnects the channel and re-arms the shim for the next login.
// Idempotent.
func (s *Shim) Logout() {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return
	}
	s.authenticated = false
	s.mu.Unlock()

	s.channel.Disconnect()
}

// Authenticated reports whether a login epoch is active.
func (s *Shim) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}
