// Package transport provides the WebSocket transport underneath the
// notification channel.
//
// The transport layer handles:
//   - WebSocket handshake with bearer-token authentication
//   - Serialized frame writes with deadlines
//   - A single receive pump per physical connection
//   - Keep-alive ping/pong for connection liveness
//   - Drop detection surfaced through Done()
//
// # Authentication
//
// The bearer credential is attached once, at handshake time, as an
// Authorization header. It is never renegotiated for the lifetime of the
// connection; a refreshed token takes effect only on the next dial.
//
// # Keep-Alive
//
// Liveness is monitored with WebSocket control frames:
//   - Ping interval: 30 seconds
//   - Pong timeout: 60 seconds
//
// A missed pong expires the read deadline, which fails the receive pump and
// reports the drop on Done().
//
// # Ownership
//
// A Conn is owned by exactly one connection manager. The receive pump is the
// only reader; Send is safe for concurrent use.
package transport
