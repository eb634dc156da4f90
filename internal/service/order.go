package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ineedcourier/order-service/internal/entities"
	"github.com/ineedcourier/order-service/pkg/trm"
)

type OrderRepo interface {
	CreateOrder(ctx context.Context, draft entities.Order) (entities.Order, error)
	GetOrder(ctx context.Context, orderID, businessID string) (entities.Order, error)
	ListOrders(ctx context.Context, businessID string, f entities.ListFilter) ([]entities.Order, error)
	UpdateOrder(ctx context.Context, o entities.Order) (entities.Order, error)
	DeleteOrder(ctx context.Context, orderID, businessID string, version int) error
	Statistics(ctx context.Context, businessID string) (entities.Statistics, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Del(key string)
}

// Publisher emits order events best-effort; it must never fail the request.
type Publisher interface {
	Publish(ctx context.Context, e entities.OrderEvent)
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	cache     Cache
	events    Publisher
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, repo OrderRepo, cache Cache, events Publisher) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "orders")),
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		events:    events,
	}
}

// CreateOrder persists a draft for the given business. The draft arrives with
// enum fields already normalized at the boundary; identity and the PENDING
// status are assigned here.
func (s *orderService) CreateOrder(ctx context.Context, businessID string, draft entities.Order) (entities.Order, error) {
	draft.BusinessID = businessID
	draft.Status = entities.StatusPending
	if draft.PackageCount == 0 {
		draft.PackageCount = 1
	}

	order, err := s.repo.CreateOrder(ctx, draft)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.OrderID),
		slog.String("order_number", order.OrderNumber),
		slog.String("business_id", businessID),
	)
	s.publish(ctx, entities.EventOrderCreated, order)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, businessID, orderID string) (entities.Order, error) {
	key := cacheKey(businessID, orderID)
	if data, ok := s.cache.Get(key); ok {
		var order entities.Order
		if err := order.Unmarshal(data); err == nil {
			return order, nil
		}
		// broken cache entry, drop it and fall through to the store
		s.cache.Del(key)
	}

	order, err := s.repo.GetOrder(ctx, orderID, businessID)
	if err != nil {
		return entities.Order{}, err
	}

	if data, err := order.Marshal(); err == nil {
		s.cache.Set(key, data)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, businessID string, f entities.ListFilter) ([]entities.Order, error) {
	return s.repo.ListOrders(ctx, businessID, f)
}

// UpdateOrder applies a partial update to mutable fields. Orders in a
// terminal status are not content-editable.
func (s *orderService) UpdateOrder(ctx context.Context, businessID, orderID string, patch entities.OrderPatch) (entities.Order, error) {
	var updated entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrder(ctx, orderID, businessID)
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return entities.ErrOrderTerminal
		}

		patch.Apply(&order)

		updated, err = s.repo.UpdateOrder(ctx, order)
		return err
	})
	if err != nil {
		return entities.Order{}, err
	}

	s.cache.Del(cacheKey(businessID, orderID))
	s.publish(ctx, entities.EventOrderUpdated, updated)
	return updated, nil
}

// CancelOrder moves the order to CANCELLED, stamping the reason and the
// cancellation time. A second cancel fails instead of no-oping.
func (s *orderService) CancelOrder(ctx context.Context, businessID, orderID, reason string) (entities.Order, error) {
	var cancelled entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrder(ctx, orderID, businessID)
		if err != nil {
			return err
		}
		if err := order.Cancel(reason, time.Now().UTC()); err != nil {
			return err
		}

		cancelled, err = s.repo.UpdateOrder(ctx, order)
		return err
	})
	if err != nil {
		return entities.Order{}, err
	}

	s.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", orderID),
		slog.String("business_id", businessID),
		slog.String("reason", reason),
	)
	s.cache.Del(cacheKey(businessID, orderID))
	s.publish(ctx, entities.EventOrderCancelled, cancelled)
	return cancelled, nil
}

// DeleteOrder removes a non-terminal order. Terminal orders are retained,
// never physically deleted.
func (s *orderService) DeleteOrder(ctx context.Context, businessID, orderID string) error {
	var deleted entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrder(ctx, orderID, businessID)
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return entities.ErrOrderTerminal
		}

		deleted = order
		return s.repo.DeleteOrder(ctx, orderID, businessID, order.Version)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "order deleted",
		slog.String("order_id", orderID),
		slog.String("business_id", businessID),
	)
	s.cache.Del(cacheKey(businessID, orderID))
	s.publish(ctx, entities.EventOrderDeleted, deleted)
	return nil
}

func (s *orderService) Statistics(ctx context.Context, businessID string) (entities.Statistics, error) {
	return s.repo.Statistics(ctx, businessID)
}

func (s *orderService) publish(ctx context.Context, eventType string, order entities.Order) {
	s.events.Publish(ctx, entities.OrderEvent{
		Type:        eventType,
		OrderID:     order.OrderID,
		OrderNumber: order.OrderNumber,
		BusinessID:  order.BusinessID,
		Status:      order.Status,
		OccurredAt:  time.Now().UTC(),
	})
}

func cacheKey(businessID, orderID string) string {
	return businessID + ":" + orderID
}
