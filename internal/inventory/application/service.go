package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/readshelf/bookstore/internal/inventory/domain"
	"github.com/readshelf/bookstore/pkg/idempotency"
)

// AdjustmentItem is one book's share of a stock adjustment event.
type AdjustmentItem struct {
	BookID   string
	Quantity int
}

type Service struct {
	log   *slog.Logger
	books BookRepository
	dedup Deduplicator
}

func NewService(log *slog.Logger, books BookRepository, dedup Deduplicator) *Service {
	return &Service{log: log, books: books, dedup: dedup}
}

func (s *Service) GetBook(ctx context.Context, id string) (domain.Book, error) {
	return s.books.Get(ctx, id)
}

func (s *Service) SetQuantity(ctx context.Context, id string, quantity int) (domain.Book, error) {
	if quantity < 0 {
		return domain.Book{}, fmt.Errorf("set quantity of %s to %d: %w", id, quantity, domain.ErrInvalidQuantity)
	}
	if err := s.books.SetQuantity(ctx, id, quantity); err != nil {
		return domain.Book{}, err
	}
	return s.books.Get(ctx, id)
}

// ApplyAdjustment applies one event's deltas. Items are independent: a
// failure on one book is logged and the rest still apply. Each
// (order, book, direction) is applied at most once, so redelivered events
// are harmless; a failed item's key is released so redelivery can retry it.
func (s *Service) ApplyAdjustment(ctx context.Context, orderID string, items []AdjustmentItem, dir domain.Direction) {
	for _, item := range items {
		key := idempotency.Key(orderID, item.BookID, string(dir))
		seen, err := s.dedup.Seen(ctx, key)
		if err != nil {
			s.log.ErrorContext(ctx, "dedup check failed, skipping item",
				"order_id", orderID, "book_id", item.BookID, "err", err)
			continue
		}
		if seen {
			s.log.InfoContext(ctx, "duplicate adjustment skipped",
				"order_id", orderID, "book_id", item.BookID, "direction", dir)
			continue
		}

		if err := s.apply(ctx, item, dir); err != nil {
			s.log.ErrorContext(ctx, "stock adjustment failed",
				"order_id", orderID, "book_id", item.BookID, "direction", dir, "err", err)
			if ferr := s.dedup.Forget(ctx, key); ferr != nil {
				s.log.ErrorContext(ctx, "dedup release failed", "key", key, "err", ferr)
			}
			continue
		}
		s.log.InfoContext(ctx, "stock adjusted",
			"order_id", orderID, "book_id", item.BookID, "quantity", item.Quantity, "direction", dir)
	}
}

func (s *Service) apply(ctx context.Context, item AdjustmentItem, dir domain.Direction) error {
	switch dir {
	case domain.DirectionDecrement:
		return s.books.Decrement(ctx, item.BookID, item.Quantity)
	case domain.DirectionIncrement:
		return s.books.Increment(ctx, item.BookID, item.Quantity)
	default:
		return fmt.Errorf("unknown adjustment direction %q", dir)
	}
}
