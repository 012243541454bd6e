// Package notify defines the notification model shared by the transport,
// dispatcher, and client packages.
//
// A notification is a server-pushed event describing something that happened
// to an order, payment, ticket, or event listing. Notifications carry a fixed
// category, human-readable title and message, an opaque category-specific
// payload, and the server-side timestamp.
//
// # Categories
//
// The category set is fixed by the server contract:
//
//	order-confirmed    order placed and confirmed
//	order-cancelled    order cancelled (by user or admin)
//	ticket-checked-in  ticket scanned at the venue
//	payment-completed  payment settled
//	payment-failed     payment declined or errored
//	event-updated      event details changed
//	event-cancelled    event cancelled by the organizer
//
// Subscribers may additionally register for Wildcard, which matches every
// category.
//
// # Payload Opacity
//
// The Data field is category-specific and left as raw JSON. Callers decode
// it per category; this package never interprets it.
package notify
