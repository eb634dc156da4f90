package entities

import (
	"fmt"
	"strings"
)

// Priority classifies how fast a delivery must happen.
type Priority string

const (
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// PaymentType says how the delivery is paid for.
type PaymentType string

const (
	PaymentCash            PaymentType = "CASH"
	PaymentCreditCard      PaymentType = "CREDIT_CARD"
	PaymentBusinessAccount PaymentType = "BUSINESS_ACCOUNT"
	PaymentCashOnDelivery  PaymentType = "CASH_ON_DELIVERY"
	PaymentOnline          PaymentType = "ONLINE"
)

// Status is the lifecycle state of an order. Transitions between statuses
// go through Order.Transition, never through direct writes.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAssigned  Status = "ASSIGNED"
	StatusPickedUp  Status = "PICKED_UP"
	StatusInTransit Status = "IN_TRANSIT"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
	StatusReturned  Status = "RETURNED"
)

var (
	priorities = []Priority{PriorityNormal, PriorityHigh, PriorityUrgent}

	paymentTypes = []PaymentType{
		PaymentCash, PaymentCreditCard, PaymentBusinessAccount,
		PaymentCashOnDelivery, PaymentOnline,
	}

	statuses = []Status{
		StatusPending, StatusAssigned, StatusPickedUp, StatusInTransit,
		StatusDelivered, StatusCancelled, StatusReturned,
	}
)

// InvalidEnumError reports a literal outside the closed set of a field.
type InvalidEnumError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid %s %q, allowed values: %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// ParsePriority accepts exact canonical literals only. Unknown values fail
// closed; there is no case folding, trimming or partial matching.
func ParsePriority(raw string) (Priority, error) {
	for _, p := range priorities {
		if raw == string(p) {
			return p, nil
		}
	}
	return "", &InvalidEnumError{Field: "priority", Value: raw, Allowed: enumStrings(priorities)}
}

func ParsePaymentType(raw string) (PaymentType, error) {
	for _, p := range paymentTypes {
		if raw == string(p) {
			return p, nil
		}
	}
	return "", &InvalidEnumError{Field: "paymentType", Value: raw, Allowed: enumStrings(paymentTypes)}
}

func ParseStatus(raw string) (Status, error) {
	for _, s := range statuses {
		if raw == string(s) {
			return s, nil
		}
	}
	return "", &InvalidEnumError{Field: "status", Value: raw, Allowed: enumStrings(statuses)}
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
