package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ineedcourier/order-service/internal/entities"
	"github.com/ineedcourier/order-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

var orderColumns = []string{
	"order_id", "order_number", "business_id",
	"status", "priority", "payment_type",
	"pickup_address", "pickup_address_description", "pickup_contact_person",
	"delivery_address", "delivery_address_description",
	"end_customer_name", "end_customer_phone",
	"package_description", "package_weight", "package_count",
	"delivery_fee", "collection_amount", "business_notes",
	"scheduled_pickup_time", "cancellation_reason", "cancelled_at",
	"created_at", "updated_at", "version",
}

type ordersRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewOrdersRepo(db *sqlx.DB) *ordersRepo {
	return &ordersRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateOrder assigns identity (order id, order number), timestamps and the
// initial version, then persists the draft. The caller provides everything
// else already validated.
func (r *ordersRepo) CreateOrder(ctx context.Context, draft entities.Order) (entities.Order, error) {
	number, err := r.nextOrderNumber(ctx)
	if err != nil {
		return entities.Order{}, err
	}

	now := time.Now().UTC()
	draft.OrderID = uuid.NewString()
	draft.OrderNumber = number
	draft.CreatedAt = now
	draft.UpdatedAt = now
	draft.Version = 1

	query, args := r.qb.Insert("orders").
		Columns(orderColumns...).
		Values(
			draft.OrderID, draft.OrderNumber, draft.BusinessID,
			string(draft.Status), string(draft.Priority), string(draft.PaymentType),
			draft.PickupAddress, nullString(draft.PickupAddressDescription), nullString(draft.PickupContactPerson),
			draft.DeliveryAddress, nullString(draft.DeliveryAddressDescription),
			draft.EndCustomerName, draft.EndCustomerPhone,
			nullString(draft.PackageDescription), nullFloat(draft.PackageWeight), draft.PackageCount,
			draft.DeliveryFee, draft.CollectionAmount, nullString(draft.BusinessNotes),
			nullTime(draft.ScheduledPickupTime), nullString(draft.CancellationReason), nullTime(draft.CancelledAt),
			draft.CreatedAt, draft.UpdatedAt, draft.Version,
		).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}
	return draft, nil
}

// GetOrder scopes the lookup to the owning business. An order owned by
// someone else is reported as not found, never as forbidden.
func (r *ordersRepo) GetOrder(ctx context.Context, orderID, businessID string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"order_id": orderID, "business_id": businessID}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return OrderToEntity(order), nil
}

func (r *ordersRepo) ListOrders(ctx context.Context, businessID string, f entities.ListFilter) ([]entities.Order, error) {
	q := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"business_id": businessID}).
		OrderBy("created_at DESC")

	if f.Status != nil {
		q = q.Where(sq.Eq{"status": string(*f.Status)})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	query, args := q.MustSql()

	var rows []Order
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	orders := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, OrderToEntity(row))
	}
	return orders, nil
}

// UpdateOrder writes the full mutable state of the order guarded by its
// version. A lost race surfaces as ErrOrderConflict, a vanished record as
// ErrOrderNotFound; the winner's write bumps the version by one.
func (r *ordersRepo) UpdateOrder(ctx context.Context, o entities.Order) (entities.Order, error) {
	now := time.Now().UTC()

	query, args := r.qb.Update("orders").
		Set("status", string(o.Status)).
		Set("pickup_address", o.PickupAddress).
		Set("pickup_address_description", nullString(o.PickupAddressDescription)).
		Set("pickup_contact_person", nullString(o.PickupContactPerson)).
		Set("delivery_address", o.DeliveryAddress).
		Set("delivery_address_description", nullString(o.DeliveryAddressDescription)).
		Set("end_customer_name", o.EndCustomerName).
		Set("end_customer_phone", o.EndCustomerPhone).
		Set("package_description", nullString(o.PackageDescription)).
		Set("package_weight", nullFloat(o.PackageWeight)).
		Set("package_count", o.PackageCount).
		Set("delivery_fee", o.DeliveryFee).
		Set("collection_amount", o.CollectionAmount).
		Set("business_notes", nullString(o.BusinessNotes)).
		Set("scheduled_pickup_time", nullTime(o.ScheduledPickupTime)).
		Set("cancellation_reason", nullString(o.CancellationReason)).
		Set("cancelled_at", nullTime(o.CancelledAt)).
		Set("updated_at", now).
		Set("version", o.Version+1).
		Where(sq.Eq{
			"order_id":    o.OrderID,
			"business_id": o.BusinessID,
			"version":     o.Version,
		}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to update order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return entities.Order{}, r.staleWriteError(ctx, o.OrderID, o.BusinessID)
	}

	o.UpdatedAt = now
	o.Version++
	return o, nil
}

func (r *ordersRepo) DeleteOrder(ctx context.Context, orderID, businessID string, version int) error {
	query, args := r.qb.Delete("orders").
		Where(sq.Eq{
			"order_id":    orderID,
			"business_id": businessID,
			"version":     version,
		}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return r.staleWriteError(ctx, orderID, businessID)
	}
	return nil
}

// Statistics aggregates over the caller's orders only. The two queries run
// concurrently and read committed state; no locks are taken.
func (r *ordersRepo) Statistics(ctx context.Context, businessID string) (entities.Statistics, error) {
	stats := entities.Statistics{ByStatus: make(map[entities.Status]int64)}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query, args := r.qb.Select(
			"COUNT(*) AS total_orders",
			"COALESCE(SUM(delivery_fee), 0) AS total_delivery_fees",
			"COALESCE(SUM(collection_amount), 0) AS total_collection_amount",
		).
			From("orders").
			Where(sq.Eq{"business_id": businessID}).
			MustSql()

		var totals struct {
			TotalOrders           int64   `db:"total_orders"`
			TotalDeliveryFees     float64 `db:"total_delivery_fees"`
			TotalCollectionAmount float64 `db:"total_collection_amount"`
		}
		if err := r.db.GetContext(ctx, &totals, query, args...); err != nil {
			return fmt.Errorf("failed to select order totals: %w", err)
		}
		stats.TotalOrders = totals.TotalOrders
		stats.TotalDeliveryFees = totals.TotalDeliveryFees
		stats.TotalCollectionAmount = totals.TotalCollectionAmount
		return nil
	})

	byStatus := make(map[entities.Status]int64)
	g.Go(func() error {
		query, args := r.qb.Select("status", "COUNT(*) AS count").
			From("orders").
			Where(sq.Eq{"business_id": businessID}).
			GroupBy("status").
			MustSql()

		var rows []struct {
			Status string `db:"status"`
			Count  int64  `db:"count"`
		}
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return fmt.Errorf("failed to select status counts: %w", err)
		}
		for _, row := range rows {
			byStatus[entities.Status(row.Status)] = row.Count
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return entities.Statistics{}, err
	}
	stats.ByStatus = byStatus
	return stats, nil
}

// staleWriteError tells a concurrent-write loss apart from a record that no
// longer exists (or never belonged to the caller).
func (r *ordersRepo) staleWriteError(ctx context.Context, orderID, businessID string) error {
	query, args := r.qb.Select("1").
		From("orders").
		Where(sq.Eq{"order_id": orderID, "business_id": businessID}).
		MustSql()

	var one int
	err := r.getContext(ctx, &one, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check order existence: %w", err)
	}
	return entities.ErrOrderConflict
}

const orderNumberPrefix = "ORD"

func (r *ordersRepo) nextOrderNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := r.getContext(ctx, &seq, "SELECT nextval('order_numbers')"); err != nil {
		return "", fmt.Errorf("failed to get next order number: %w", err)
	}
	return fmt.Sprintf("%s-%s-%06d", orderNumberPrefix, time.Now().UTC().Format("20060102"), seq), nil
}

func (r *ordersRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *ordersRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *ordersRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
