package log

import (
	"path/filepath"
	"testing"
)

// captureLogger records events for testing
type captureLogger struct {
	events []Event
}

func (c *captureLogger) Log(event Event) {
	c.events = append(c.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	a := &captureLogger{}
	b := &captureLogger{}
	cp := &captureLogger{}

	multi := NewMultiLogger(a, b, cp)
	multi.Log(InboundMessage("conn-123", "notification", "order-confirmed", 64))

	for i, sink := range []*captureLogger{a, b, cp} {
		if len(sink.events) != 1 {
			t.Errorf("sink %d: got %d events, want 1", i, len(sink.events))
			continue
		}
		if sink.events[0].ConnectionID != "conn-123" {
			t.Errorf("sink %d: ConnectionID = %q, want %q", i, sink.events[0].ConnectionID, "conn-123")
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	multi := NewMultiLogger()

	// Should not panic with no sinks
	multi.Log(StateChanged("conn-1", "IDLE", "CONNECTING", ""))
}

func TestMultiLoggerSkipsNilSinks(t *testing.T) {
	sink := &captureLogger{}
	multi := NewMultiLogger(nil, sink, nil)

	multi.Log(Failure("conn-1", "boom", ""))

	if len(sink.events) != 1 {
		t.Errorf("got %d events, want 1", len(sink.events))
	}
}

func TestMultiLoggerFansOutToFiles(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.nlog")
	pathB := filepath.Join(dir, "b.nlog")

	a, err := NewFileLogger(pathA)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	b, err := NewFileLogger(pathB)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	multi := NewMultiLogger(a, b, NoopLogger{})
	multi.Log(StateChanged("conn-1", "IDLE", "CONNECTING", ""))
	a.Close()
	b.Close()

	for _, path := range []string{pathA, pathB} {
		events, err := ReadFile(path, nil)
		if err != nil {
			t.Fatalf("ReadFile(%s) failed: %v", path, err)
		}
		if len(events) != 1 {
			t.Errorf("%s: got %d events, want 1", path, len(events))
		}
	}
}
