package application

import (
	"context"

	"github.com/readshelf/bookstore/internal/inventory/domain"
)

type BookRepository interface {
	Get(ctx context.Context, id string) (domain.Book, error)
	// SetQuantity sets the absolute available quantity.
	SetQuantity(ctx context.Context, id string, quantity int) error
	// Decrement subtracts n only when at least n is available; otherwise it
	// fails with domain.ErrInsufficientStock without changing the row.
	Decrement(ctx context.Context, id string, n int) error
	Increment(ctx context.Context, id string, n int) error
}

// Deduplicator remembers which adjustment keys were applied. Backed by
// Redis SetNX in production, a map in tests.
type Deduplicator interface {
	Seen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}
