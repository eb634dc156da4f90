package handler

import (
	"time"

	"github.com/ineedcourier/order-service/internal/entities"
)

// Order is the wire representation of an order.
type Order struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	BusinessID  string `json:"businessId"`

	Status      string `json:"status"`
	Priority    string `json:"priority"`
	PaymentType string `json:"paymentType"`

	PickupAddress              string `json:"pickupAddress"`
	PickupAddressDescription   string `json:"pickupAddressDescription,omitempty"`
	PickupContactPerson        string `json:"pickupContactPerson,omitempty"`
	DeliveryAddress            string `json:"deliveryAddress"`
	DeliveryAddressDescription string `json:"deliveryAddressDescription,omitempty"`

	EndCustomerName  string `json:"endCustomerName"`
	EndCustomerPhone string `json:"endCustomerPhone"`

	PackageDescription string   `json:"packageDescription,omitempty"`
	PackageWeight      *float64 `json:"packageWeight,omitempty"`
	PackageCount       int      `json:"packageCount"`

	DeliveryFee      float64 `json:"deliveryFee"`
	CollectionAmount float64 `json:"collectionAmount"`
	BusinessNotes    string  `json:"businessNotes,omitempty"`

	ScheduledPickupTime *time.Time `json:"scheduledPickupTime,omitempty"`

	CancellationReason string     `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateOrderRequest struct {
	PickupAddress              string `json:"pickupAddress" validate:"required"`
	PickupAddressDescription   string `json:"pickupAddressDescription"`
	PickupContactPerson        string `json:"pickupContactPerson"`
	DeliveryAddress            string `json:"deliveryAddress" validate:"required"`
	DeliveryAddressDescription string `json:"deliveryAddressDescription"`

	EndCustomerName  string `json:"endCustomerName" validate:"required"`
	EndCustomerPhone string `json:"endCustomerPhone" validate:"required,e164"`

	PackageDescription string   `json:"packageDescription"`
	PackageWeight      *float64 `json:"packageWeight" validate:"omitempty,gt=0"`
	PackageCount       *int     `json:"packageCount" validate:"omitempty,gte=1"`

	Priority    string `json:"priority" validate:"required"`
	PaymentType string `json:"paymentType" validate:"required"`

	DeliveryFee      *float64 `json:"deliveryFee" validate:"required,gte=0"`
	CollectionAmount *float64 `json:"collectionAmount" validate:"omitempty,gte=0"`
	BusinessNotes    string   `json:"businessNotes"`

	ScheduledPickupTime *time.Time `json:"scheduledPickupTime"`
}

type UpdateOrderRequest struct {
	PickupAddress              *string `json:"pickupAddress" validate:"omitempty,min=1"`
	PickupAddressDescription   *string `json:"pickupAddressDescription"`
	PickupContactPerson        *string `json:"pickupContactPerson"`
	DeliveryAddress            *string `json:"deliveryAddress" validate:"omitempty,min=1"`
	DeliveryAddressDescription *string `json:"deliveryAddressDescription"`

	EndCustomerName  *string `json:"endCustomerName" validate:"omitempty,min=1"`
	EndCustomerPhone *string `json:"endCustomerPhone" validate:"omitempty,e164"`

	PackageDescription *string  `json:"packageDescription"`
	PackageWeight      *float64 `json:"packageWeight" validate:"omitempty,gt=0"`
	PackageCount       *int     `json:"packageCount" validate:"omitempty,gte=1"`

	DeliveryFee      *float64 `json:"deliveryFee" validate:"omitempty,gte=0"`
	CollectionAmount *float64 `json:"collectionAmount" validate:"omitempty,gte=0"`
	BusinessNotes    *string  `json:"businessNotes"`

	ScheduledPickupTime *time.Time `json:"scheduledPickupTime"`
}

type Statistics struct {
	TotalOrders           int64            `json:"totalOrders"`
	ByStatus              map[string]int64 `json:"byStatus"`
	TotalDeliveryFees     float64          `json:"totalDeliveryFees"`
	TotalCollectionAmount float64          `json:"totalCollectionAmount"`
}

// CreateOrderRequestToEntity normalizes the enum literals and maps the draft.
// Unknown literals fail closed with InvalidEnumError.
func CreateOrderRequestToEntity(req CreateOrderRequest) (entities.Order, error) {
	priority, err := entities.ParsePriority(req.Priority)
	if err != nil {
		return entities.Order{}, err
	}
	paymentType, err := entities.ParsePaymentType(req.PaymentType)
	if err != nil {
		return entities.Order{}, err
	}

	order := entities.Order{
		PickupAddress:              req.PickupAddress,
		PickupAddressDescription:   req.PickupAddressDescription,
		PickupContactPerson:        req.PickupContactPerson,
		DeliveryAddress:            req.DeliveryAddress,
		DeliveryAddressDescription: req.DeliveryAddressDescription,
		EndCustomerName:            req.EndCustomerName,
		EndCustomerPhone:           req.EndCustomerPhone,
		PackageDescription:         req.PackageDescription,
		PackageWeight:              req.PackageWeight,
		Priority:                   priority,
		PaymentType:                paymentType,
		DeliveryFee:                *req.DeliveryFee,
		BusinessNotes:              req.BusinessNotes,
		ScheduledPickupTime:        req.ScheduledPickupTime,
	}
	if req.PackageCount != nil {
		order.PackageCount = *req.PackageCount
	}
	if req.CollectionAmount != nil {
		order.CollectionAmount = *req.CollectionAmount
	}
	return order, nil
}

func UpdateOrderRequestToPatch(req UpdateOrderRequest) entities.OrderPatch {
	return entities.OrderPatch{
		PickupAddress:              req.PickupAddress,
		PickupAddressDescription:   req.PickupAddressDescription,
		PickupContactPerson:        req.PickupContactPerson,
		DeliveryAddress:            req.DeliveryAddress,
		DeliveryAddressDescription: req.DeliveryAddressDescription,
		EndCustomerName:            req.EndCustomerName,
		EndCustomerPhone:           req.EndCustomerPhone,
		PackageDescription:         req.PackageDescription,
		PackageWeight:              req.PackageWeight,
		PackageCount:               req.PackageCount,
		DeliveryFee:                req.DeliveryFee,
		CollectionAmount:           req.CollectionAmount,
		BusinessNotes:              req.BusinessNotes,
		ScheduledPickupTime:        req.ScheduledPickupTime,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	return Order{
		OrderID:     o.OrderID,
		OrderNumber: o.OrderNumber,
		BusinessID:  o.BusinessID,

		Status:      string(o.Status),
		Priority:    string(o.Priority),
		PaymentType: string(o.PaymentType),

		PickupAddress:              o.PickupAddress,
		PickupAddressDescription:   o.PickupAddressDescription,
		PickupContactPerson:        o.PickupContactPerson,
		DeliveryAddress:            o.DeliveryAddress,
		DeliveryAddressDescription: o.DeliveryAddressDescription,

		EndCustomerName:  o.EndCustomerName,
		EndCustomerPhone: o.EndCustomerPhone,

		PackageDescription: o.PackageDescription,
		PackageWeight:      o.PackageWeight,
		PackageCount:       o.PackageCount,

		DeliveryFee:      o.DeliveryFee,
		CollectionAmount: o.CollectionAmount,
		BusinessNotes:    o.BusinessNotes,

		ScheduledPickupTime: o.ScheduledPickupTime,

		CancellationReason: o.CancellationReason,
		CancelledAt:        o.CancelledAt,

		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func StatisticsEntityToJSON(s entities.Statistics) Statistics {
	byStatus := make(map[string]int64, len(s.ByStatus))
	for status, count := range s.ByStatus {
		byStatus[string(status)] = count
	}
	return Statistics{
		TotalOrders:           s.TotalOrders,
		ByStatus:              byStatus,
		TotalDeliveryFees:     s.TotalDeliveryFees,
		TotalCollectionAmount: s.TotalCollectionAmount,
	}
}
