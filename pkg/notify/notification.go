package notify

import (
	"encoding/json"
	"time"
)

// Notification is a single server-pushed event. Notifications are produced
// only by the server and are immutable once received; handlers must not
// modify the Data slice.
type Notification struct {
	// Category is the fixed event classification.
	Category Category

	// Title is a short human-readable summary.
	Title string

	// Message is the full human-readable text.
	Message string

	// Data is the category-specific payload, kept opaque as raw JSON.
	// Interpretation is keyed by Category and left to the caller.
	Data json.RawMessage

	// Timestamp is the server-side time the event occurred.
	Timestamp time.Time
}

// DecodeData unmarshals the opaque payload into v. Convenience for handlers
// that know the payload shape for their category.
func (n Notification) DecodeData(v any) error {
	return json.Unmarshal(n.Data, v)
}
