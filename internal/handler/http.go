package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ineedcourier/order-service/internal/entities"
	mw "github.com/ineedcourier/order-service/internal/middleware"
	"github.com/ineedcourier/order-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	CreateOrder(ctx context.Context, businessID string, draft entities.Order) (entities.Order, error)
	GetOrder(ctx context.Context, businessID, orderID string) (entities.Order, error)
	ListOrders(ctx context.Context, businessID string, f entities.ListFilter) ([]entities.Order, error)
	UpdateOrder(ctx context.Context, businessID, orderID string, patch entities.OrderPatch) (entities.Order, error)
	CancelOrder(ctx context.Context, businessID, orderID, reason string) (entities.Order, error)
	DeleteOrder(ctx context.Context, businessID, orderID string) error
	Statistics(ctx context.Context, businessID string) (entities.Statistics, error)
}

type OrderHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      OrderService
	auth     func(http.Handler) http.Handler
}

func NewOrderHandler(logger *slog.Logger, svc OrderService, auth func(http.Handler) http.Handler) *OrderHandler {
	return &OrderHandler{
		logger:   logger.With(slog.String("handler", "orders")),
		validate: validator.New(),
		svc:      svc,
		auth:     auth,
	}
}

func (h *OrderHandler) Init(r chi.Router) {
	r.Get("/actuator/health", h.Health)

	r.Route("/api/v1/business/orders", func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/statistics", h.Statistics)
		r.Get("/{order_id}", h.GetOrder)
		r.Put("/{order_id}", h.UpdateOrder)
		r.Post("/{order_id}/cancel", h.CancelOrder)
		r.Delete("/{order_id}", h.DeleteOrder)
	})
}

func (h *OrderHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "UP"}, http.StatusOK)
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID := mw.BusinessID(ctx)

	var req CreateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	draft, err := CreateOrderRequestToEntity(req)
	if err != nil {
		h.writeOrderError(ctx, w, err, http.StatusBadRequest)
		return
	}

	order, err := h.svc.CreateOrder(ctx, businessID, draft)
	if err != nil {
		h.writeOrderError(ctx, w, err, http.StatusBadRequest)
		return
	}

	ordersCreated.Inc()
	utils.WriteData(w, OrderEntityToJSON(order), "Order created successfully", http.StatusCreated)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID := mw.BusinessID(ctx)

	filter, err := listFilterFromQuery(r)
	if err != nil {
		h.writeOrderError(ctx, w, err, http.StatusBadRequest)
		return
	}

	orders, err := h.svc.ListOrders(ctx, businessID, filter)
	if err != nil {
		h.writeOrderError(ctx, w, err, http.StatusBadRequest)
		return
	}

	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderEntityToJSON(o))
	}
	utils.WriteData(w, out, "Orders fetched successfully", http.StatusOK)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID := mw.BusinessID(ctx)
	orderID := chi.URLParam(r, "order_id")

	order, err := h.svc.GetOrder(ctx, businessID, orderID)
	if err != nil {
		h.writeOrderError(ctx, w, err, http.StatusBadRequest)
		return
	}

	utils.WriteData(w, OrderEntityToJSON(order), "Order fetched successfully", http.StatusOK)
}

func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID := mw.BusinessID(ctx)
	orderID := chi.URLParam(r, "order_id")

	var req UpdateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	// A terminal order is not content-editable; that's a conflict with the
	// record's current state, not a validation problem.
	order, err := h.svc.UpdateOrder(ctx, businessID, orderID, UpdateOrderRequestToPatch(req))
	if err != nil {
		h.writeOrderError(ctx, w, err, http.StatusConflict)
		return
	}

	utils.WriteData(w, OrderEntityToJSON(order), "Order updated successfully", http.StatusOK)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID := mw.BusinessID(ctx)
	orderID := chi.URLParam(r, "order_id")
	reason := r.URL.Query().Get("reason")

	order, err := h.svc.CancelOrder(ctx, businessID, orderID, reason)
	if err != nil {
		h.writeOrderError(ctx, w, err, http.StatusBadRequest)
		return
	}

	ordersCancelled.Inc()
	utils.WriteData(w, OrderEntityToJSON(order), "Order cancelled successfully", http.StatusOK)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID := mw.BusinessID(ctx)
	orderID := chi.URLParam(r, "order_id")

	if err := h.svc.DeleteOrder(ctx, businessID, orderID); err != nil {
		h.writeOrderError(ctx, w, err, http.StatusBadRequest)
		return
	}

	ordersDeleted.Inc()
	utils.WriteData(w, nil, "Order deleted successfully", http.StatusOK)
}

func (h *OrderHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID := mw.BusinessID(ctx)

	stats, err := h.svc.Statistics(ctx, businessID)
	if err != nil {
		h.writeOrderError(ctx, w, err, http.StatusBadRequest)
		return
	}

	utils.WriteData(w, StatisticsEntityToJSON(stats), "Statistics fetched successfully", http.StatusOK)
}

// writeOrderError maps domain failures to the envelope. terminalCode lets the
// caller decide how "order is terminal" reads for its operation: 409 for
// content edits, 400 for cancel/delete misuse.
func (h *OrderHandler) writeOrderError(ctx context.Context, w http.ResponseWriter, err error, terminalCode int) {
	var enumErr *entities.InvalidEnumError
	var transitionErr *entities.InvalidTransitionError

	switch {
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrOrderTerminal):
		utils.WriteError(w, "order is in a terminal status", terminalCode)
	case errors.Is(err, entities.ErrOrderConflict):
		utils.WriteError(w, "order was modified concurrently, retry with fresh state", http.StatusConflict)
	case errors.Is(err, entities.ErrReasonRequired):
		utils.WriteError(w, "cancellation reason is required", http.StatusBadRequest)
	case errors.As(err, &enumErr):
		utils.WriteError(w, enumErr.Error(), http.StatusBadRequest)
	case errors.As(err, &transitionErr):
		utils.WriteError(w, transitionErr.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(ctx, "order operation failed", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

func listFilterFromQuery(r *http.Request) (entities.ListFilter, error) {
	var f entities.ListFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := entities.ParseStatus(raw)
		if err != nil {
			return entities.ListFilter{}, err
		}
		f.Status = &status
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err == nil && limit > 0 {
			f.Limit = limit
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err == nil && offset > 0 {
			f.Offset = offset
		}
	}
	return f, nil
}
