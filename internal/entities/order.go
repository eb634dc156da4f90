package entities

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderTerminal covers any attempt to act on an order whose status
	// permits no further transitions.
	ErrOrderTerminal = errors.New("order is in a terminal status")
	// ErrOrderConflict means a concurrent writer got to the record first.
	ErrOrderConflict  = errors.New("order was modified concurrently")
	ErrReasonRequired = errors.New("cancellation reason is required")
)

type Order struct {
	OrderID     string
	OrderNumber string
	BusinessID  string

	PickupAddress              string
	PickupAddressDescription   string
	PickupContactPerson        string
	DeliveryAddress            string
	DeliveryAddressDescription string

	EndCustomerName  string
	EndCustomerPhone string

	PackageDescription string
	PackageWeight      *float64
	PackageCount       int

	Priority    Priority
	PaymentType PaymentType
	Status      Status

	DeliveryFee      float64
	CollectionAmount float64
	BusinessNotes    string

	ScheduledPickupTime *time.Time

	// Set exactly once, by Cancel. Present iff Status == StatusCancelled.
	CancellationReason string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Version is the optimistic concurrency token; every committed write
	// bumps it by one.
	Version int
}

// ListFilter narrows List results. A nil Status means no status filter.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// Statistics is the per-business aggregate over the order store.
type Statistics struct {
	TotalOrders           int64
	ByStatus              map[Status]int64
	TotalDeliveryFees     float64
	TotalCollectionAmount float64
}

func (o *Order) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Order) Unmarshal(data []byte) error {
	return gob.NewDecoder(bytes.NewBuffer(data)).Decode(o)
}
