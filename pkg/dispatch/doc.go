// Package dispatch implements the subscription registry and fan-out for
// inbound notifications.
//
// Application code registers interest in a notification category (or in
// every category via notify.Wildcard) and receives a *Subscription handle.
// The handle is a capability token: cancelling it removes exactly that
// registration, even when the same handler function was registered twice.
//
// # Delivery
//
// Dispatch delivers a notification first to the subscribers of its concrete
// category, then to the wildcard subscribers, each set in insertion order.
// Insertion order is an implementation detail, not a contract.
//
// A handler that panics is isolated: the failure is reported to the channel
// event logger and delivery continues with the remaining subscribers.
//
// # Concurrency
//
// Dispatch may run concurrently with Subscribe and Cancel. Each dispatch
// operates on a consistent snapshot of the registry: a subscription added
// during an in-flight dispatch does not receive that notification but will
// receive the next one; a subscription cancelled before Dispatch is invoked
// never receives it.
package dispatch
