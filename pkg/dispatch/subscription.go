package dispatch

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/ticketflow/notify-go/pkg/notify"
)

// Subscription is the capability token returned by Subscribe. Holding the
// token is the only way to cancel the registration; the registry itself is
// never exposed.
type Subscription struct {
	id       uuid.UUID
	category notify.Category
	handler  Handler

	d         *Dispatcher
	cancelled atomic.Bool
}

func newSubscription(d *Dispatcher, category notify.Category, handler Handler) *Subscription {
	return &Subscription{
		id:       uuid.New(),
		category: category,
		handler:  handler,
		d:        d,
	}
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Category returns the category key this subscription is registered under.
func (s *Subscription) Category() notify.Category {
	return s.category
}

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	return !s.cancelled.Load()
}

// Cancel removes the registration. Idempotent: every call after the first is
// a no-op. Safe to call from inside the subscription's own handler.
func (s *Subscription) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}
	s.d.remove(s)
}

// deliver hands one notification to the handler unless the subscription was
// cancelled after the dispatch snapshot was taken.
func (s *Subscription) deliver(n notify.Notification) {
	if s.cancelled.Load() {
		return
	}
	s.d.invoke(s, n)
}
