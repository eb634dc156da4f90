package entities

import "time"

const (
	EventOrderCreated   = "order.created"
	EventOrderUpdated   = "order.updated"
	EventOrderCancelled = "order.cancelled"
	EventOrderDeleted   = "order.deleted"
)

// OrderEvent is the record published to the order event stream after a
// committed mutation. Delivery is best-effort and never blocks the request.
type OrderEvent struct {
	Type        string
	OrderID     string
	OrderNumber string
	BusinessID  string
	Status      Status
	OccurredAt  time.Time
}
