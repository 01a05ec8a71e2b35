package application

import (
	"context"

	"github.com/readshelf/bookstore/internal/order/domain"
)

type CartRepository interface {
	// Get returns domain.ErrCartNotFound via wrapping when no cart exists yet.
	Get(ctx context.Context, customerID string) (domain.Cart, error)
	Save(ctx context.Context, c domain.Cart) error
}

type OrderRepository interface {
	Create(ctx context.Context, o domain.Order) error
	Get(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, o domain.Order) error
	// UpdateStatusWithOutbox commits the status change and the outbox row in
	// one transaction, so a confirmed order and its stock event cannot diverge.
	UpdateStatusWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, headers map[string]string, traceparent string) error
}

// BookSnapshot is the inventory service's view of a book at one instant.
type BookSnapshot struct {
	ID         string
	Title      string
	PriceCents int64
	Quantity   int
}

type InventoryClient interface {
	// GetBook returns domain.ErrItemNotFound via wrapping on a catalog miss.
	GetBook(ctx context.Context, bookID string) (BookSnapshot, error)
}

// PaymentGateway is the seam for a real payment provider; the simulator is
// the only implementation in this repo.
type PaymentGateway interface {
	ProcessPayment(ctx context.Context, orderID string, amountCents int64) error
	RefundPayment(ctx context.Context, orderID string, amountCents int64) error
}
