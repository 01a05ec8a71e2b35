package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Writer wraps a kafka-go writer tuned for outbox dispatch. Messages are
// keyed by order ID, so the Hash balancer keeps every event for one order
// on the same partition and consumers see them in emit order.
type Writer struct {
	w *kafka.Writer
}

func NewWriter(brokers []string, batchTimeout time.Duration) *Writer {
	return &Writer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           batchTimeout,
			AllowAutoTopicCreation: true,
		},
	}
}

func (w *Writer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return w.w.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.w.Close()
}
