package log

import (
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "channel.nlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReadFilePreservesOrder(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ConnectionID: "conn-1", Direction: DirectionIn, Kind: KindMessage},
		{Timestamp: time.Now(), ConnectionID: "conn-2", Direction: DirectionOut, Kind: KindMessage},
		{Timestamp: time.Now(), ConnectionID: "conn-3", Direction: DirectionLocal, Kind: KindState},
	}

	path := createTestLogFile(t, events)

	read, err := ReadFile(path, nil)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}
	if read[0].ConnectionID != "conn-1" {
		t.Errorf("first event ConnectionID = %q, want %q", read[0].ConnectionID, "conn-1")
	}
	if read[2].ConnectionID != "conn-3" {
		t.Errorf("last event ConnectionID = %q, want %q", read[2].ConnectionID, "conn-3")
	}
}

func TestReadFileEmpty(t *testing.T) {
	path := createTestLogFile(t, nil)

	events, err := ReadFile(path, nil)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events from empty file, want 0", len(events))
	}
}

func TestFilterByConnectionID(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ConnectionID: "conn-1", Kind: KindMessage},
		{Timestamp: time.Now(), ConnectionID: "conn-2", Kind: KindMessage},
		{Timestamp: time.Now(), ConnectionID: "conn-1", Kind: KindState},
	}

	path := createTestLogFile(t, events)

	read, err := ReadFile(path, &Filter{ConnectionID: "conn-1"})
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}
	for _, e := range read {
		if e.ConnectionID != "conn-1" {
			t.Errorf("event ConnectionID = %q, want %q", e.ConnectionID, "conn-1")
		}
	}
}

func TestFilterByDirectionAndKind(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ConnectionID: "c", Direction: DirectionIn, Kind: KindMessage},
		{Timestamp: time.Now(), ConnectionID: "c", Direction: DirectionOut, Kind: KindMessage},
		{Timestamp: time.Now(), ConnectionID: "c", Direction: DirectionLocal, Kind: KindError},
	}

	path := createTestLogFile(t, events)

	in := DirectionIn
	read, err := ReadFile(path, &Filter{Direction: &in})
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(read) != 1 {
		t.Errorf("Direction filter: got %d events, want 1", len(read))
	}

	kind := KindError
	read, err = ReadFile(path, &Filter{Kind: &kind})
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(read) != 1 {
		t.Errorf("Kind filter: got %d events, want 1", len(read))
	}
}

func TestFilterByTimeRange(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: base, ConnectionID: "c", Kind: KindMessage},
		{Timestamp: base.Add(1 * time.Minute), ConnectionID: "c", Kind: KindMessage},
		{Timestamp: base.Add(2 * time.Minute), ConnectionID: "c", Kind: KindMessage},
	}

	path := createTestLogFile(t, events)

	start := base.Add(30 * time.Second)
	end := base.Add(90 * time.Second)
	read, err := ReadFile(path, &Filter{TimeStart: &start, TimeEnd: &end})
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(read) != 1 {
		t.Fatalf("got %d events, want 1", len(read))
	}
	if !read[0].Timestamp.Equal(base.Add(1 * time.Minute)) {
		t.Errorf("wrong event selected: %v", read[0].Timestamp)
	}
}
