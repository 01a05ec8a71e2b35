package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/readshelf/bookstore/internal/inventory/application"
	invdomain "github.com/readshelf/bookstore/internal/inventory/domain"
	orderdomain "github.com/readshelf/bookstore/internal/order/domain"
	"github.com/readshelf/bookstore/pkg/tracing"
)

// Consumer applies stock adjustment events from one topic. The topic
// determines the direction: orders.placed decrements, orders.cancelled
// increments. Messages are committed even when handling fails — the
// per-item dedup keys in the service make redelivery safe, and a poison
// message must not wedge the partition.
type Consumer struct {
	log       *slog.Logger
	reader    *kafka.Reader
	svc       *application.Service
	direction invdomain.Direction
	tracer    trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, direction invdomain.Direction, svc *application.Service) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:       log,
		reader:    r,
		svc:       svc,
		direction: direction,
		tracer:    otel.Tracer("inventory-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		c.handle(ctx, msg)
		_ = c.reader.CommitMessages(ctx, msg)
	}
}

// handle decodes and applies one message. Malformed payloads are logged and
// skipped; redelivery cannot fix them, and committing past them keeps the
// partition moving.
func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
	msgCtx, span := c.tracer.Start(msgCtx, "ConsumeStockAdjustment")
	defer span.End()

	var event orderdomain.StockAdjustmentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.log.ErrorContext(msgCtx, "malformed stock adjustment event skipped",
			"topic", msg.Topic, "offset", msg.Offset, "err", err)
		return
	}

	items := make([]application.AdjustmentItem, 0, len(event.Items))
	for _, it := range event.Items {
		items = append(items, application.AdjustmentItem{BookID: it.BookID, Quantity: it.Quantity})
	}
	c.svc.ApplyAdjustment(msgCtx, event.OrderID, items, c.direction)
}
