package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ticketflow/notify-go/pkg/notify"
)

// DecodeEnvelope parses the outer frame. The payload is left raw for
// type-specific decoding.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("envelope missing type")
	}
	return &env, nil
}

// DecodeNotification converts a notification payload into the domain model.
// The category must be one of the fixed set and the timestamp must be a
// valid RFC 3339 string.
func DecodeNotification(payload json.RawMessage) (notify.Notification, error) {
	var p NotificationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return notify.Notification{}, fmt.Errorf("malformed notification payload: %w", err)
	}

	category, err := notify.ParseCategory(p.Type)
	if err != nil {
		return notify.Notification{}, err
	}

	ts, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		return notify.Notification{}, fmt.Errorf("malformed notification timestamp %q: %w", p.Timestamp, err)
	}

	return notify.Notification{
		Category:  category,
		Title:     p.Title,
		Message:   p.Message,
		Data:      p.Data,
		Timestamp: ts,
	}, nil
}

// EncodeNotification builds a notification envelope. Used by the simulator
// and by tests; the production client only receives notifications.
func EncodeNotification(n notify.Notification) ([]byte, error) {
	payload, err := json.Marshal(NotificationPayload{
		Type:      n.Category.String(),
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		Timestamp: n.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: TypeNotification, Payload: payload})
}

// EncodeInvocation builds an invoke envelope.
func EncodeInvocation(inv Invocation) ([]byte, error) {
	if inv.ID == "" {
		return nil, fmt.Errorf("invocation missing correlation ID")
	}
	if inv.Method == "" {
		return nil, fmt.Errorf("invocation missing method name")
	}
	payload, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("failed to encode invocation args: %w", err)
	}
	return json.Marshal(Envelope{Type: TypeInvoke, Payload: payload})
}

// DecodeResult parses an invoke reply.
func DecodeResult(payload json.RawMessage) (*Result, error) {
	var r Result
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("malformed result payload: %w", err)
	}
	if r.ID == "" {
		return nil, fmt.Errorf("result missing correlation ID")
	}
	return &r, nil
}

// EncodeResult builds a result envelope. Used by the simulator and tests.
func EncodeResult(r Result) ([]byte, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: TypeResult, Payload: payload})
}

// DecodeInvocation parses an invoke payload. Server-side helper for the
// simulator and test server.
func DecodeInvocation(payload json.RawMessage) (*Invocation, error) {
	var inv Invocation
	if err := json.Unmarshal(payload, &inv); err != nil {
		return nil, fmt.Errorf("malformed invocation payload: %w", err)
	}
	if inv.ID == "" {
		return nil, fmt.Errorf("invocation missing correlation ID")
	}
	return &inv, nil
}
