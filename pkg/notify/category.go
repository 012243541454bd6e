package notify

import "fmt"

// Category classifies a pushed notification.
type Category string

// The fixed category set pushed by the server.
const (
	CategoryOrderConfirmed   Category = "order-confirmed"
	CategoryOrderCancelled   Category = "order-cancelled"
	CategoryTicketCheckedIn  Category = "ticket-checked-in"
	CategoryPaymentCompleted Category = "payment-completed"
	CategoryPaymentFailed    Category = "payment-failed"
	CategoryEventUpdated     Category = "event-updated"
	CategoryEventCancelled   Category = "event-cancelled"
)

// Wildcard is the subscription key matching every category. It is never a
// valid wire category; the server always sends a concrete category.
const Wildcard Category = "*"

// categories lists every concrete category in a stable order.
var categories = []Category{
	CategoryOrderConfirmed,
	CategoryOrderCancelled,
	CategoryTicketCheckedIn,
	CategoryPaymentCompleted,
	CategoryPaymentFailed,
	CategoryEventUpdated,
	CategoryEventCancelled,
}

// Categories returns all concrete categories (excluding Wildcard).
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is a concrete wire category.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the wire name of the category.
func (c Category) String() string {
	return string(c)
}

// ParseCategory converts a wire string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown notification category %q", s)
	}
	return c, nil
}
