package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ineedcourier/order-service/internal/entities"
	"github.com/ineedcourier/order-service/internal/service"
	"github.com/ineedcourier/order-service/pkg/trm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrderRepo is an in-memory stand-in for the postgres repo with the same
// optimistic-write semantics.
type fakeOrderRepo struct {
	orders map[string]entities.Order
	seq    int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]entities.Order)}
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, draft entities.Order) (entities.Order, error) {
	r.seq++
	now := time.Now().UTC()
	draft.OrderID = fmt.Sprintf("order-%d", r.seq)
	draft.OrderNumber = fmt.Sprintf("ORD-20260829-%06d", r.seq)
	draft.CreatedAt = now
	draft.UpdatedAt = now
	draft.Version = 1
	r.orders[draft.OrderID] = draft
	return draft, nil
}

func (r *fakeOrderRepo) GetOrder(_ context.Context, orderID, businessID string) (entities.Order, error) {
	order, ok := r.orders[orderID]
	if !ok || order.BusinessID != businessID {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) ListOrders(_ context.Context, businessID string, f entities.ListFilter) ([]entities.Order, error) {
	var out []entities.Order
	for _, order := range r.orders {
		if order.BusinessID != businessID {
			continue
		}
		if f.Status != nil && order.Status != *f.Status {
			continue
		}
		out = append(out, order)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateOrder(_ context.Context, o entities.Order) (entities.Order, error) {
	current, ok := r.orders[o.OrderID]
	if !ok || current.BusinessID != o.BusinessID {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if current.Version != o.Version {
		return entities.Order{}, entities.ErrOrderConflict
	}
	o.Version++
	o.UpdatedAt = time.Now().UTC()
	r.orders[o.OrderID] = o
	return o, nil
}

func (r *fakeOrderRepo) DeleteOrder(_ context.Context, orderID, businessID string, version int) error {
	current, ok := r.orders[orderID]
	if !ok || current.BusinessID != businessID {
		return entities.ErrOrderNotFound
	}
	if current.Version != version {
		return entities.ErrOrderConflict
	}
	delete(r.orders, orderID)
	return nil
}

func (r *fakeOrderRepo) Statistics(_ context.Context, businessID string) (entities.Statistics, error) {
	stats := entities.Statistics{ByStatus: make(map[entities.Status]int64)}
	for _, order := range r.orders {
		if order.BusinessID != businessID {
			continue
		}
		stats.TotalOrders++
		stats.ByStatus[order.Status]++
		stats.TotalDeliveryFees += order.DeliveryFee
		stats.TotalCollectionAmount += order.CollectionAmount
	}
	return stats, nil
}

type fakeTxManager struct{}

func (fakeTxManager) BeginTx(ctx context.Context) (context.Context, trm.Transaction, error) {
	return ctx, nil, nil
}

func (fakeTxManager) Do(ctx context.Context, cb func(ctx context.Context) error) error {
	return cb(ctx)
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{entries: make(map[string][]byte)} }

func (c *fakeCache) Get(key string) ([]byte, bool) {
	v, ok := c.entries[key]
	return v, ok
}
func (c *fakeCache) Set(key string, value []byte) { c.entries[key] = value }
func (c *fakeCache) Del(key string)               { delete(c.entries, key) }

type fakePublisher struct {
	events []entities.OrderEvent
}

func (p *fakePublisher) Publish(_ context.Context, e entities.OrderEvent) {
	p.events = append(p.events, e)
}

// orderAPI is the surface the transport layer consumes; tests exercise the
// same methods the handlers call.
type orderAPI interface {
	CreateOrder(ctx context.Context, businessID string, draft entities.Order) (entities.Order, error)
	GetOrder(ctx context.Context, businessID, orderID string) (entities.Order, error)
	ListOrders(ctx context.Context, businessID string, f entities.ListFilter) ([]entities.Order, error)
	UpdateOrder(ctx context.Context, businessID, orderID string, patch entities.OrderPatch) (entities.Order, error)
	CancelOrder(ctx context.Context, businessID, orderID, reason string) (entities.Order, error)
	DeleteOrder(ctx context.Context, businessID, orderID string) error
	Statistics(ctx context.Context, businessID string) (entities.Statistics, error)
}

func newFixture() (orderAPI, *fakeOrderRepo, *fakeCache, *fakePublisher) {
	repo := newFakeOrderRepo()
	cache := newFakeCache()
	events := &fakePublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewOrderService(logger, fakeTxManager{}, repo, cache, events)
	return svc, repo, cache, events
}

func draftOrder() entities.Order {
	return entities.Order{
		PickupAddress:    "Kadikoy Moda Caddesi No:123, Istanbul",
		DeliveryAddress:  "Besiktas Barbaros Bulvari No:45, Istanbul",
		EndCustomerName:  "Ahmet Yilmaz",
		EndCustomerPhone: "+905551234567",
		Priority:         entities.PriorityNormal,
		PaymentType:      entities.PaymentCash,
		DeliveryFee:      35.50,
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	svc, _, _, events := newFixture()

	order, err := svc.CreateOrder(context.Background(), "biz-1", draftOrder())
	require.NoError(t, err)

	assert.Equal(t, entities.StatusPending, order.Status)
	assert.Equal(t, "biz-1", order.BusinessID)
	assert.NotEmpty(t, order.OrderID)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, 1, order.PackageCount)
	assert.Equal(t, 1, order.Version)

	require.Len(t, events.events, 1)
	assert.Equal(t, entities.EventOrderCreated, events.events[0].Type)
	assert.Equal(t, order.OrderID, events.events[0].OrderID)
}

func TestOrderService_GetOrder(t *testing.T) {
	svc, _, cache, _ := newFixture()
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, "biz-1", draftOrder())
	require.NoError(t, err)

	t.Run("owner reads own order", func(t *testing.T) {
		got, err := svc.GetOrder(ctx, "biz-1", created.OrderID)
		require.NoError(t, err)
		assert.Equal(t, created.OrderID, got.OrderID)
	})

	t.Run("other business sees not found", func(t *testing.T) {
		_, err := svc.GetOrder(ctx, "biz-2", created.OrderID)
		require.ErrorIs(t, err, entities.ErrOrderNotFound)
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		got, err := svc.GetOrder(ctx, "biz-1", created.OrderID)
		require.NoError(t, err)
		assert.NotEmpty(t, cache.entries)
		assert.Equal(t, created.OrderNumber, got.OrderNumber)
	})
}

func TestOrderService_UpdateOrder(t *testing.T) {
	svc, _, _, _ := newFixture()
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, "biz-1", draftOrder())
	require.NoError(t, err)

	t.Run("applies patch to mutable fields", func(t *testing.T) {
		desc := "3x Pizza Margherita (UPDATED)"
		notes := "Urgent delivery!"
		updated, err := svc.UpdateOrder(ctx, "biz-1", created.OrderID, entities.OrderPatch{
			PackageDescription: &desc,
			BusinessNotes:      &notes,
		})
		require.NoError(t, err)
		assert.Equal(t, desc, updated.PackageDescription)
		assert.Equal(t, notes, updated.BusinessNotes)
		assert.Equal(t, created.Version+1, updated.Version)
		// untouched fields survive
		assert.Equal(t, created.PickupAddress, updated.PickupAddress)
	})

	t.Run("cancelled order is not editable", func(t *testing.T) {
		cancelled, err := svc.CreateOrder(ctx, "biz-1", draftOrder())
		require.NoError(t, err)
		_, err = svc.CancelOrder(ctx, "biz-1", cancelled.OrderID, "no longer needed")
		require.NoError(t, err)

		notes := "should not apply"
		_, err = svc.UpdateOrder(ctx, "biz-1", cancelled.OrderID, entities.OrderPatch{BusinessNotes: &notes})
		require.ErrorIs(t, err, entities.ErrOrderTerminal)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.UpdateOrder(ctx, "biz-1", "missing", entities.OrderPatch{})
		require.ErrorIs(t, err, entities.ErrOrderNotFound)
	})
}

func TestOrderService_CancelOrder(t *testing.T) {
	svc, _, _, events := newFixture()
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, "biz-1", draftOrder())
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(ctx, "biz-1", created.OrderID, "Test cancellation")
	require.NoError(t, err)

	assert.Equal(t, entities.StatusCancelled, cancelled.Status)
	assert.Equal(t, "Test cancellation", cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancelledAt)

	t.Run("second cancel fails", func(t *testing.T) {
		_, err := svc.CancelOrder(ctx, "biz-1", created.OrderID, "again")
		require.ErrorIs(t, err, entities.ErrOrderTerminal)
	})

	t.Run("empty reason fails before any write", func(t *testing.T) {
		other, err := svc.CreateOrder(ctx, "biz-1", draftOrder())
		require.NoError(t, err)

		_, err = svc.CancelOrder(ctx, "biz-1", other.OrderID, "")
		require.ErrorIs(t, err, entities.ErrReasonRequired)

		got, err := svc.GetOrder(ctx, "biz-1", other.OrderID)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusPending, got.Status)
	})

	cancelEvents := 0
	for _, e := range events.events {
		if e.Type == entities.EventOrderCancelled {
			cancelEvents++
		}
	}
	assert.Equal(t, 1, cancelEvents)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	svc, repo, _, _ := newFixture()
	ctx := context.Background()

	t.Run("deletes pending order", func(t *testing.T) {
		created, err := svc.CreateOrder(ctx, "biz-1", draftOrder())
		require.NoError(t, err)

		require.NoError(t, svc.DeleteOrder(ctx, "biz-1", created.OrderID))

		_, err = svc.GetOrder(ctx, "biz-1", created.OrderID)
		require.ErrorIs(t, err, entities.ErrOrderNotFound)
	})

	t.Run("cancelled order cannot be deleted", func(t *testing.T) {
		created, err := svc.CreateOrder(ctx, "biz-1", draftOrder())
		require.NoError(t, err)
		_, err = svc.CancelOrder(ctx, "biz-1", created.OrderID, "Test cancellation")
		require.NoError(t, err)

		err = svc.DeleteOrder(ctx, "biz-1", created.OrderID)
		require.ErrorIs(t, err, entities.ErrOrderTerminal)

		// record is retained
		_, ok := repo.orders[created.OrderID]
		assert.True(t, ok)
	})

	t.Run("other business cannot delete", func(t *testing.T) {
		created, err := svc.CreateOrder(ctx, "biz-1", draftOrder())
		require.NoError(t, err)

		err = svc.DeleteOrder(ctx, "biz-2", created.OrderID)
		require.ErrorIs(t, err, entities.ErrOrderNotFound)
	})
}

func TestOrderService_Statistics(t *testing.T) {
	svc, _, _, _ := newFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(ctx, "biz-1", draftOrder())
		require.NoError(t, err)
	}
	cancelTarget, err := svc.CreateOrder(ctx, "biz-1", draftOrder())
	require.NoError(t, err)
	_, err = svc.CancelOrder(ctx, "biz-1", cancelTarget.OrderID, "stats")
	require.NoError(t, err)

	// another tenant's order must not leak into the aggregate
	_, err = svc.CreateOrder(ctx, "biz-2", draftOrder())
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx, "biz-1")
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.Equal(t, int64(3), stats.ByStatus[entities.StatusPending])
	assert.Equal(t, int64(1), stats.ByStatus[entities.StatusCancelled])
	assert.InDelta(t, 4*35.50, stats.TotalDeliveryFees, 0.001)

	orders, err := svc.ListOrders(ctx, "biz-1", entities.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, stats.TotalOrders, int64(len(orders)))
}
