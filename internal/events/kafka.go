package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ineedcourier/order-service/internal/config"
	"github.com/ineedcourier/order-service/internal/entities"

	"github.com/segmentio/kafka-go"
)

// kafkaPublisher emits order events to the order event stream. Writes are
// asynchronous and best-effort: a broker outage is logged, never surfaced to
// the request that triggered the event.
type kafkaPublisher struct {
	logger *slog.Logger
	writer *kafka.Writer
}

func NewKafkaPublisher(logger *slog.Logger, cfg config.Kafka) *kafkaPublisher {
	logger = logger.With(slog.String("publisher", "kafka"))
	return &kafkaPublisher{
		logger: logger,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: cfg.BatchTimeout,
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
				logger.Error(fmt.Sprintf(msg, args...))
			}),
		},
	}
}

type message struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	BusinessID  string    `json:"businessId"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func (p *kafkaPublisher) Publish(ctx context.Context, e entities.OrderEvent) {
	payload, err := json.Marshal(message{
		Type:        e.Type,
		OrderID:     e.OrderID,
		OrderNumber: e.OrderNumber,
		BusinessID:  e.BusinessID,
		Status:      string(e.Status),
		OccurredAt:  e.OccurredAt,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", slog.Any("error", err))
		return
	}

	// Async writer: WriteMessages only enqueues, delivery errors go to the
	// ErrorLogger above.
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.OrderID),
		Value: payload,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to enqueue event",
			slog.String("type", e.Type),
			slog.String("order_id", e.OrderID),
			slog.Any("error", err),
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
