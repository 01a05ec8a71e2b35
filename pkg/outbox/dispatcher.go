package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/readshelf/bookstore/pkg/tracing"
)

// ErrPermanent marks dispatch failures that redelivery cannot fix.
var ErrPermanent = errors.New("permanent dispatch failure")

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Dispatcher routes outbox events to Kafka. The topic is chosen per event
// type: event intent travels in the topic name, not the payload.
type Dispatcher struct {
	log      *slog.Logger
	producer Producer
	topics   map[string]string
}

func NewDispatcher(log *slog.Logger, producer Producer, topics map[string]string) *Dispatcher {
	return &Dispatcher{log: log, producer: producer, topics: topics}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	topic, ok := d.topics[event.Type]
	if !ok {
		return fmt.Errorf("no topic for event type %q: %w", event.Type, ErrPermanent)
	}

	headers := make([]kafka.Header, 0, len(event.Headers)+2)
	for k, v := range event.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	headers = append(headers, kafka.Header{Key: "event_type", Value: []byte(event.Type)})
	if event.Traceparent != "" {
		headers = append(headers, kafka.Header{Key: tracing.TraceparentHeader, Value: []byte(event.Traceparent)})
	}

	msg := kafka.Message{
		Topic:   topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	}
	if err := d.producer.WriteMessages(ctx, msg); err != nil {
		d.log.Error("outbox dispatch failed", "event_id", event.ID, "topic", topic, "err", err)
		return err
	}
	d.log.Info("outbox dispatched", "event_id", event.ID, "type", event.Type, "topic", topic)
	return nil
}
