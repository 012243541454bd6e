package log

import (
	"io"
	"os"
	"time"
)

// Filter specifies criteria for filtering log events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// ConnectionID filters by exact connection epoch ID match.
	ConnectionID string

	// Direction filters by message direction.
	Direction *Direction

	// Kind filters by event kind.
	Kind *Kind

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time
}

// matches returns true if the event matches all filter criteria.
func (f *Filter) matches(event Event) bool {
	if f.ConnectionID != "" && event.ConnectionID != f.ConnectionID {
		return false
	}
	if f.Direction != nil && event.Direction != *f.Direction {
		return false
	}
	if f.Kind != nil && event.Kind != *f.Kind {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// ReadEvents decodes all events from r, applying the filter. A nil filter
// matches everything. Decoding stops at EOF; a malformed tail is reported
// with the events decoded so far.
func ReadEvents(r io.Reader, filter *Filter) ([]Event, error) {
	dec := NewDecoder(r)
	var events []Event
	for {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return events, err
		}
		if filter == nil || filter.matches(ev) {
			events = append(events, ev)
		}
	}
}

// ReadFile reads all matching events from a log file.
func ReadFile(path string, filter *Filter) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEvents(f, filter)
}
