// Package connection provides lifecycle management for the notification
// channel.
//
// This package handles:
//   - Connection state tracking (Idle → Connecting → Connected →
//     Reconnecting → Closed)
//   - Exponential backoff with jitter for reconnection attempts
//   - A bounded retry window so an unreachable server does not spin forever
//   - Exclusive ownership of the transport handle
//
// # Connect vs Reconnect
//
// An initial Connect failure is surfaced to the caller and never retried
// automatically; the caller decides whether to try again. Only a drop of an
// already-established connection triggers automatic reconnection. This keeps
// bad credentials from causing retry storms while still riding out transient
// network blips.
//
// # Reconnection Strategy
//
// When an established connection drops, the manager retries with capped
// exponential backoff:
//
//	delay(n) = min(base * 2^n, cap) + random(0, delay * jitter)
//
// Attempts continue while the total elapsed reconnection time stays under
// the configured window (default one minute). Once the window is exceeded
// the manager transitions to Closed and an explicit Connect is required to
// resume. Any successful reconnection resets both the attempt counter and
// the window tracker.
package connection
