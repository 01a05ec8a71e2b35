package kafka

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"

	"github.com/readshelf/bookstore/internal/inventory/application"
	invdomain "github.com/readshelf/bookstore/internal/inventory/domain"
)

type stubBooks struct {
	qty map[string]int
}

func (s *stubBooks) Get(_ context.Context, id string) (invdomain.Book, error) {
	q, ok := s.qty[id]
	if !ok {
		return invdomain.Book{}, fmt.Errorf("book %s: %w", id, invdomain.ErrBookNotFound)
	}
	return invdomain.Book{ID: id, Quantity: q}, nil
}

func (s *stubBooks) SetQuantity(_ context.Context, id string, quantity int) error {
	s.qty[id] = quantity
	return nil
}

func (s *stubBooks) Decrement(_ context.Context, id string, n int) error {
	if s.qty[id] < n {
		return fmt.Errorf("decrement book %s by %d: %w", id, n, invdomain.ErrInsufficientStock)
	}
	s.qty[id] -= n
	return nil
}

func (s *stubBooks) Increment(_ context.Context, id string, n int) error {
	s.qty[id] += n
	return nil
}

type stubDedup struct {
	seen map[string]bool
}

func (d *stubDedup) Seen(_ context.Context, key string) (bool, error) {
	if d.seen[key] {
		return true, nil
	}
	d.seen[key] = true
	return false, nil
}

func (d *stubDedup) Forget(_ context.Context, key string) error {
	delete(d.seen, key)
	return nil
}

func newTestConsumer(books *stubBooks, dir invdomain.Direction) *Consumer {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := application.NewService(log, books, &stubDedup{seen: map[string]bool{}})
	return &Consumer{
		log:       log,
		svc:       svc,
		direction: dir,
		tracer:    otel.Tracer("inventory-consumer-test"),
	}
}

func TestHandleAppliesAdjustment(t *testing.T) {
	books := &stubBooks{qty: map[string]int{"bk-1": 10, "bk-2": 4}}
	c := newTestConsumer(books, invdomain.DirectionDecrement)

	c.handle(context.Background(), kafka.Message{
		Topic: "orders.placed",
		Value: []byte(`{"orderId":"ord-1","items":[{"bookId":"bk-1","quantity":2},{"bookId":"bk-2","quantity":1}]}`),
	})

	assert.Equal(t, 8, books.qty["bk-1"])
	assert.Equal(t, 3, books.qty["bk-2"])
}

func TestHandleSkipsMalformedMessage(t *testing.T) {
	books := &stubBooks{qty: map[string]int{"bk-1": 10}}
	c := newTestConsumer(books, invdomain.DirectionDecrement)

	c.handle(context.Background(), kafka.Message{
		Topic:  "orders.placed",
		Offset: 7,
		Value:  []byte(`{"orderId":`),
	})

	assert.Equal(t, 10, books.qty["bk-1"], "no adjustment from garbage input")
}

func TestHandleRedeliveredMessageIsIdempotent(t *testing.T) {
	books := &stubBooks{qty: map[string]int{"bk-1": 10}}
	c := newTestConsumer(books, invdomain.DirectionDecrement)
	msg := kafka.Message{
		Topic: "orders.placed",
		Value: []byte(`{"orderId":"ord-1","items":[{"bookId":"bk-1","quantity":2}]}`),
	}

	c.handle(context.Background(), msg)
	c.handle(context.Background(), msg)

	assert.Equal(t, 8, books.qty["bk-1"])
}
