package wire

import "encoding/json"

// Envelope is the outer frame for every wire message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Envelope type names.
const (
	TypeNotification = "notification"
	TypeInvoke       = "invoke"
	TypeResult       = "result"
)

// NotificationPayload is the wire shape of a server push.
type NotificationPayload struct {
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// Invocation is a client-to-server remote call.
type Invocation struct {
	// ID correlates the eventual Result with this call (UUID string).
	ID string `json:"id"`

	// Method is the server-side method name.
	Method string `json:"method"`

	// Args are the positional arguments, JSON-encoded as-is.
	Args []any `json:"args,omitempty"`
}

// Result is the server's reply to an Invocation.
type Result struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value,omitempty"`
	Error string          `json:"error,omitempty"`
}
