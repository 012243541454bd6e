// Package wire defines the JSON message format exchanged over the
// notification channel.
//
// Every frame on the wire is an envelope:
//
//	{"type": "<message type>", "payload": { ... }}
//
// # Message Types
//
//   - notification: server → client push. Payload carries the category,
//     title, message, opaque data, and an ISO-8601 timestamp.
//   - invoke: client → server remote call. Payload carries a correlation ID,
//     a method name, and positional arguments.
//   - result: server → client reply to an invoke, correlated by ID.
//
// Unknown envelope types are skipped by receivers for forward compatibility.
//
// # Timestamps
//
// Notification timestamps are RFC 3339 strings on the wire and decoded to
// time.Time. A missing or malformed timestamp is a decode error; the server
// always stamps events.
package wire
