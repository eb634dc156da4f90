package repo

import (
	"database/sql"
	"time"

	"github.com/ineedcourier/order-service/internal/entities"
)

type Order struct {
	OrderID     string `db:"order_id"`
	OrderNumber string `db:"order_number"`
	BusinessID  string `db:"business_id"`

	Status      string `db:"status"`
	Priority    string `db:"priority"`
	PaymentType string `db:"payment_type"`

	PickupAddress              string         `db:"pickup_address"`
	PickupAddressDescription   sql.NullString `db:"pickup_address_description"`
	PickupContactPerson        sql.NullString `db:"pickup_contact_person"`
	DeliveryAddress            string         `db:"delivery_address"`
	DeliveryAddressDescription sql.NullString `db:"delivery_address_description"`

	EndCustomerName  string `db:"end_customer_name"`
	EndCustomerPhone string `db:"end_customer_phone"`

	PackageDescription sql.NullString  `db:"package_description"`
	PackageWeight      sql.NullFloat64 `db:"package_weight"`
	PackageCount       int             `db:"package_count"`

	DeliveryFee      float64        `db:"delivery_fee"`
	CollectionAmount float64        `db:"collection_amount"`
	BusinessNotes    sql.NullString `db:"business_notes"`

	ScheduledPickupTime sql.NullTime `db:"scheduled_pickup_time"`

	CancellationReason sql.NullString `db:"cancellation_reason"`
	CancelledAt        sql.NullTime   `db:"cancelled_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	Version   int       `db:"version"`
}

type Business struct {
	BusinessID    string         `db:"business_id"`
	Name          string         `db:"name"`
	Email         string         `db:"email"`
	PasswordHash  []byte         `db:"password_hash"`
	ContactPerson sql.NullString `db:"contact_person"`
	Phone         sql.NullString `db:"phone"`
	CreatedAt     time.Time      `db:"created_at"`
}

func OrderToEntity(o Order) entities.Order {
	return entities.Order{
		OrderID:     o.OrderID,
		OrderNumber: o.OrderNumber,
		BusinessID:  o.BusinessID,

		Status:      entities.Status(o.Status),
		Priority:    entities.Priority(o.Priority),
		PaymentType: entities.PaymentType(o.PaymentType),

		PickupAddress:              o.PickupAddress,
		PickupAddressDescription:   nullStringToString(o.PickupAddressDescription),
		PickupContactPerson:        nullStringToString(o.PickupContactPerson),
		DeliveryAddress:            o.DeliveryAddress,
		DeliveryAddressDescription: nullStringToString(o.DeliveryAddressDescription),

		EndCustomerName:  o.EndCustomerName,
		EndCustomerPhone: o.EndCustomerPhone,

		PackageDescription: nullStringToString(o.PackageDescription),
		PackageWeight:      nullFloatToPtr(o.PackageWeight),
		PackageCount:       o.PackageCount,

		DeliveryFee:      o.DeliveryFee,
		CollectionAmount: o.CollectionAmount,
		BusinessNotes:    nullStringToString(o.BusinessNotes),

		ScheduledPickupTime: nullTimeToPtr(o.ScheduledPickupTime),

		CancellationReason: nullStringToString(o.CancellationReason),
		CancelledAt:        nullTimeToPtr(o.CancelledAt),

		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		Version:   o.Version,
	}
}

func BusinessToEntity(b Business) entities.Business {
	return entities.Business{
		BusinessID:    b.BusinessID,
		Name:          b.Name,
		Email:         b.Email,
		PasswordHash:  b.PasswordHash,
		ContactPerson: nullStringToString(b.ContactPerson),
		Phone:         nullStringToString(b.Phone),
		CreatedAt:     b.CreatedAt,
	}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullFloatToPtr(nf sql.NullFloat64) *float64 {
	if nf.Valid {
		f := nf.Float64
		return &f
	}
	return nil
}

func nullTimeToPtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time
		return &t
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
