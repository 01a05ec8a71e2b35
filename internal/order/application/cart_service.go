package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/readshelf/bookstore/internal/order/domain"
)

// CartService owns cart mutation. Every stock-affecting mutation is checked
// against the inventory service at call time; checkout re-validates anyway,
// so these checks are a courtesy gate, not the authoritative one.
type CartService struct {
	log   *slog.Logger
	carts CartRepository
	inv   InventoryClient
}

func NewCartService(log *slog.Logger, carts CartRepository, inv InventoryClient) *CartService {
	return &CartService{log: log, carts: carts, inv: inv}
}

// GetOrCreate returns the customer's cart, creating an empty one on first access.
func (s *CartService) GetOrCreate(ctx context.Context, customerID string) (domain.Cart, error) {
	cart, err := s.carts.Get(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return domain.Cart{}, err
	}
	cart = domain.NewCart(customerID)
	if err := s.carts.Save(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// AddItem validates quantity and stock, then merges the line into the cart.
// Stock is checked against the combined quantity when the book is already in
// the cart. The unit price captured at first add is kept on re-add.
func (s *CartService) AddItem(ctx context.Context, customerID, bookID string, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return domain.Cart{}, fmt.Errorf("add item %s: %w", bookID, domain.ErrInvalidQuantity)
	}

	book, err := s.inv.GetBook(ctx, bookID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.GetOrCreate(ctx, customerID)
	if err != nil {
		return domain.Cart{}, err
	}

	combined := quantity
	if existing, ok := cart.Item(bookID); ok {
		combined += existing.Quantity
	}
	if combined > book.Quantity {
		return domain.Cart{}, fmt.Errorf("add item %s: want %d, have %d: %w", bookID, combined, book.Quantity, domain.ErrInsufficientStock)
	}

	cart.Add(bookID, quantity, book.PriceCents)
	if err := s.carts.Save(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// UpdateQuantity replaces a line's quantity. A non-positive quantity removes
// the line, which keeps the operation idempotent with RemoveItem.
func (s *CartService) UpdateQuantity(ctx context.Context, customerID, bookID string, quantity int) (domain.Cart, error) {
	cart, err := s.GetOrCreate(ctx, customerID)
	if err != nil {
		return domain.Cart{}, err
	}
	if _, ok := cart.Item(bookID); !ok {
		return domain.Cart{}, fmt.Errorf("update item %s: %w", bookID, domain.ErrItemNotFoundInCart)
	}

	if quantity > 0 {
		book, err := s.inv.GetBook(ctx, bookID)
		if err != nil {
			return domain.Cart{}, err
		}
		if quantity > book.Quantity {
			return domain.Cart{}, fmt.Errorf("update item %s: want %d, have %d: %w", bookID, quantity, book.Quantity, domain.ErrInsufficientStock)
		}
	}

	cart.SetQuantity(bookID, quantity)
	if err := s.carts.Save(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, customerID, bookID string) (domain.Cart, error) {
	cart, err := s.GetOrCreate(ctx, customerID)
	if err != nil {
		return domain.Cart{}, err
	}
	if !cart.Remove(bookID) {
		return domain.Cart{}, fmt.Errorf("remove item %s: %w", bookID, domain.ErrItemNotFoundInCart)
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, customerID string) (domain.Cart, error) {
	cart, err := s.GetOrCreate(ctx, customerID)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.Clear()
	if err := s.carts.Save(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}
