package log

import (
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 8, 30, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp:    ts,
		ConnectionID: "abc12345-def6-7890-abcd-ef1234567890",
		Direction:    DirectionIn,
		Kind:         KindMessage,
		RemoteAddr:   "192.168.1.100:8443",
		Message: &MessageEvent{
			Type:     "notification",
			Category: "order-confirmed",
			Size:     256,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.ConnectionID != original.ConnectionID {
		t.Errorf("ConnectionID: got %q, want %q", decoded.ConnectionID, original.ConnectionID)
	}
	if decoded.Direction != original.Direction {
		t.Errorf("Direction: got %v, want %v", decoded.Direction, original.Direction)
	}
	if decoded.Kind != original.Kind {
		t.Errorf("Kind: got %v, want %v", decoded.Kind, original.Kind)
	}
	if decoded.RemoteAddr != original.RemoteAddr {
		t.Errorf("RemoteAddr: got %q, want %q", decoded.RemoteAddr, original.RemoteAddr)
	}
	if decoded.Message == nil {
		t.Fatal("Message is nil")
	}
	if decoded.Message.Type != original.Message.Type {
		t.Errorf("Message.Type: got %q, want %q", decoded.Message.Type, original.Message.Type)
	}
	if decoded.Message.Category != original.Message.Category {
		t.Errorf("Message.Category: got %q, want %q", decoded.Message.Category, original.Message.Category)
	}
	if decoded.Message.Size != original.Message.Size {
		t.Errorf("Message.Size: got %d, want %d", decoded.Message.Size, original.Message.Size)
	}
}

func TestStateChangeEventCBORRoundTrip(t *testing.T) {
	original := StateChanged("conn-123", "CONNECTED", "RECONNECTING", "connection reset")

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Kind != KindState {
		t.Errorf("Kind: got %v, want KindState", decoded.Kind)
	}
	if decoded.StateChange == nil {
		t.Fatal("StateChange is nil")
	}
	if decoded.StateChange.Old != "CONNECTED" || decoded.StateChange.New != "RECONNECTING" {
		t.Errorf("StateChange: got %s->%s, want CONNECTED->RECONNECTING",
			decoded.StateChange.Old, decoded.StateChange.New)
	}
	if decoded.StateChange.Reason != "connection reset" {
		t.Errorf("Reason: got %q, want %q", decoded.StateChange.Reason, "connection reset")
	}
}

func TestErrorEventCBORRoundTrip(t *testing.T) {
	original := Failure("conn-123", "subscriber panic: index out of range", "category=order-confirmed")

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Kind != KindError {
		t.Errorf("Kind: got %v, want KindError", decoded.Kind)
	}
	if decoded.Error == nil {
		t.Fatal("Error is nil")
	}
	if decoded.Error.Message != original.Error.Message {
		t.Errorf("Error.Message: got %q, want %q", decoded.Error.Message, original.Error.Message)
	}
	if decoded.Error.Context != original.Error.Context {
		t.Errorf("Error.Context: got %q, want %q", decoded.Error.Context, original.Error.Context)
	}
}

func TestDirectionString(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{DirectionIn, "in"},
		{DirectionOut, "out"},
		{DirectionLocal, "local"},
		{Direction(9), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindState, "state"},
		{KindMessage, "message"},
		{KindError, "error"},
		{Kind(9), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}
