package entities

import "time"

// OrderPatch carries a partial update. Only mutable, non-enumerated,
// non-identity fields are represented: status, priority, paymentType and the
// identifiers have no place here, so illegal writes are unrepresentable.
// Nil means "leave as is".
type OrderPatch struct {
	PickupAddress              *string
	PickupAddressDescription   *string
	PickupContactPerson        *string
	DeliveryAddress            *string
	DeliveryAddressDescription *string
	EndCustomerName            *string
	EndCustomerPhone           *string
	PackageDescription         *string
	PackageWeight              *float64
	PackageCount               *int
	DeliveryFee                *float64
	CollectionAmount           *float64
	BusinessNotes              *string
	ScheduledPickupTime        *time.Time
}

func (p OrderPatch) Apply(o *Order) {
	if p.PickupAddress != nil {
		o.PickupAddress = *p.PickupAddress
	}
	if p.PickupAddressDescription != nil {
		o.PickupAddressDescription = *p.PickupAddressDescription
	}
	if p.PickupContactPerson != nil {
		o.PickupContactPerson = *p.PickupContactPerson
	}
	if p.DeliveryAddress != nil {
		o.DeliveryAddress = *p.DeliveryAddress
	}
	if p.DeliveryAddressDescription != nil {
		o.DeliveryAddressDescription = *p.DeliveryAddressDescription
	}
	if p.EndCustomerName != nil {
		o.EndCustomerName = *p.EndCustomerName
	}
	if p.EndCustomerPhone != nil {
		o.EndCustomerPhone = *p.EndCustomerPhone
	}
	if p.PackageDescription != nil {
		o.PackageDescription = *p.PackageDescription
	}
	if p.PackageWeight != nil {
		weight := *p.PackageWeight
		o.PackageWeight = &weight
	}
	if p.PackageCount != nil {
		o.PackageCount = *p.PackageCount
	}
	if p.DeliveryFee != nil {
		o.DeliveryFee = *p.DeliveryFee
	}
	if p.CollectionAmount != nil {
		o.CollectionAmount = *p.CollectionAmount
	}
	if p.BusinessNotes != nil {
		o.BusinessNotes = *p.BusinessNotes
	}
	if p.ScheduledPickupTime != nil {
		at := *p.ScheduledPickupTime
		o.ScheduledPickupTime = &at
	}
}
