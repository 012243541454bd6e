package log

import "time"

// Event represents a channel log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the connection epoch (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Kind classifies the event.
	Kind Kind `cbor:"4,keyasint"`

	// RemoteAddr is the peer address, when known.
	RemoteAddr string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (exactly one is set).
	StateChange *StateChangeEvent `cbor:"6,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"7,keyasint,omitempty"`
	Error       *ErrorEvent       `cbor:"8,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
	// DirectionLocal indicates a local lifecycle event with no wire flow.
	DirectionLocal Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	case DirectionLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Kind classifies a channel event.
type Kind uint8

const (
	// KindState is a connection lifecycle transition.
	KindState Kind = 0
	// KindMessage is a decoded wire envelope.
	KindMessage Kind = 1
	// KindError is a failure at any layer.
	KindError Kind = 2
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindMessage:
		return "message"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// StateChangeEvent captures a connection state transition.
type StateChangeEvent struct {
	Old    string `cbor:"1,keyasint"`
	New    string `cbor:"2,keyasint"`
	Reason string `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded wire envelope.
type MessageEvent struct {
	// Type is the envelope type (notification, invoke, result).
	Type string `cbor:"1,keyasint"`

	// Category is the notification category, for notification envelopes.
	Category string `cbor:"2,keyasint,omitempty"`

	// Method is the remote method name, for invoke envelopes.
	Method string `cbor:"3,keyasint,omitempty"`

	// Size is the frame size in bytes.
	Size int `cbor:"4,keyasint,omitempty"`
}

// ErrorEvent captures a failure.
type ErrorEvent struct {
	Message string `cbor:"1,keyasint"`
	Context string `cbor:"2,keyasint,omitempty"`
}

// StateChanged builds a state transition event.
func StateChanged(connID, old, new, reason string) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    DirectionLocal,
		Kind:         KindState,
		StateChange:  &StateChangeEvent{Old: old, New: new, Reason: reason},
	}
}

// InboundMessage builds an incoming wire message event.
func InboundMessage(connID, envType, category string, size int) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    DirectionIn,
		Kind:         KindMessage,
		Message:      &MessageEvent{Type: envType, Category: category, Size: size},
	}
}

// OutboundMessage builds an outgoing wire message event.
func OutboundMessage(connID, envType, method string, size int) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    DirectionOut,
		Kind:         KindMessage,
		Message:      &MessageEvent{Type: envType, Method: method, Size: size},
	}
}

// Failure builds an error event.
func Failure(connID, message, context string) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    DirectionLocal,
		Kind:         KindError,
		Error:        &ErrorEvent{Message: message, Context: context},
	}
}
