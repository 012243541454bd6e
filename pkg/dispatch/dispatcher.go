package dispatch

import (
	"fmt"
	"sync"

	"github.com/ticketflow/notify-go/pkg/log"
	"github.com/ticketflow/notify-go/pkg/notify"
)

// Handler receives one notification. Handlers run on the delivery goroutine;
// a slow handler delays subsequent deliveries but never the transport.
type Handler func(n notify.Notification)

// Dispatcher maps categories (plus the wildcard) to ordered sets of
// subscriptions and fans inbound notifications out to them.
type Dispatcher struct {
	mu sync.RWMutex

	// subs keeps insertion order per category key.
	subs map[notify.Category][]*Subscription

	logger log.Logger
}

// NewDispatcher creates an empty registry. logger may be nil.
func NewDispatcher(logger log.Logger) *Dispatcher {
	return &Dispatcher{
		subs:   make(map[notify.Category][]*Subscription),
		logger: log.OrNoop(logger),
	}
}

// Subscribe registers handler for the given category, or for every category
// when category is notify.Wildcard. The returned handle cancels exactly this
// registration.
func (d *Dispatcher) Subscribe(category notify.Category, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("dispatch: handler must not be nil")
	}
	if category != notify.Wildcard && !category.Valid() {
		return nil, fmt.Errorf("dispatch: unknown category %q", category)
	}

	sub := newSubscription(d, category, handler)

	d.mu.Lock()
	d.subs[category] = append(d.subs[category], sub)
	d.mu.Unlock()

	return sub, nil
}

// Dispatch delivers n to every subscription registered for its category and
// then to every wildcard subscription. Called by the client's delivery
// goroutine on inbound message receipt.
func (d *Dispatcher) Dispatch(n notify.Notification) {
	d.mu.RLock()
	targets := make([]*Subscription, 0, len(d.subs[n.Category])+len(d.subs[notify.Wildcard]))
	targets = append(targets, d.subs[n.Category]...)
	targets = append(targets, d.subs[notify.Wildcard]...)
	d.mu.RUnlock()

	for _, sub := range targets {
		sub.deliver(n)
	}
}

// Count returns the number of active subscriptions for a category key.
func (d *Dispatcher) Count(category notify.Category) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs[category])
}

// CountAll returns the total number of active subscriptions.
func (d *Dispatcher) CountAll() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	total := 0
	for _, subs := range d.subs {
		total += len(subs)
	}
	return total
}

// Clear cancels every subscription. Used when the owning client shuts down.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	var all []*Subscription
	for _, subs := range d.subs {
		all = append(all, subs...)
	}
	d.subs = make(map[notify.Category][]*Subscription)
	d.mu.Unlock()

	for _, sub := range all {
		sub.cancelled.Store(true)
	}
}

// remove detaches one subscription from the registry. Safe to call during a
// dispatch: in-flight snapshots are unaffected and the cancelled flag stops
// late delivery.
func (d *Dispatcher) remove(sub *Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs := d.subs[sub.category]
	for i, s := range subs {
		if s == sub {
			d.subs[sub.category] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(d.subs[sub.category]) == 0 {
		delete(d.subs, sub.category)
	}
}

// invoke runs one handler with panic isolation.
func (d *Dispatcher) invoke(sub *Subscription, n notify.Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Log(log.Failure("",
				fmt.Sprintf("subscriber panic: %v", r),
				fmt.Sprintf("category=%s subscription=%s", n.Category, sub.ID()),
			))
		}
	}()
	sub.handler(n)
}
