package application

import (
	"context"
	"fmt"

	"github.com/readshelf/bookstore/internal/order/domain"
)

type fakeCartRepo struct {
	carts   map[string]domain.Cart
	saveErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]domain.Cart{}}
}

func (r *fakeCartRepo) Get(_ context.Context, customerID string) (domain.Cart, error) {
	c, ok := r.carts[customerID]
	if !ok {
		return domain.Cart{}, fmt.Errorf("cart for %s: %w", customerID, domain.ErrCartNotFound)
	}
	return c, nil
}

func (r *fakeCartRepo) Save(_ context.Context, c domain.Cart) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.carts[c.CustomerID] = c
	return nil
}

type outboxRecord struct {
	orderID   string
	eventType string
	payload   []byte
}

type fakeOrderRepo struct {
	orders    map[string]domain.Order
	events    []outboxRecord
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]domain.Order{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, o domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id string) (domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
	}
	return o, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, o domain.Order) error {
	if _, ok := r.orders[o.ID]; !ok {
		return fmt.Errorf("order %s: %w", o.ID, domain.ErrOrderNotFound)
	}
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) UpdateStatusWithOutbox(_ context.Context, o domain.Order, eventType string, payload []byte, _ map[string]string, _ string) error {
	if _, ok := r.orders[o.ID]; !ok {
		return fmt.Errorf("order %s: %w", o.ID, domain.ErrOrderNotFound)
	}
	r.orders[o.ID] = o
	r.events = append(r.events, outboxRecord{orderID: o.ID, eventType: eventType, payload: payload})
	return nil
}

// single returns the only stored order; the checkout tests create exactly one.
func (r *fakeOrderRepo) single() (domain.Order, bool) {
	if len(r.orders) != 1 {
		return domain.Order{}, false
	}
	for _, o := range r.orders {
		return o, true
	}
	return domain.Order{}, false
}

type fakeInventory struct {
	books map[string]BookSnapshot
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{books: map[string]BookSnapshot{}}
}

func (f *fakeInventory) GetBook(_ context.Context, bookID string) (BookSnapshot, error) {
	b, ok := f.books[bookID]
	if !ok {
		return BookSnapshot{}, fmt.Errorf("inventory lookup %s: %w", bookID, domain.ErrItemNotFound)
	}
	return b, nil
}

type fakePayments struct {
	chargeErr error
	refundErr error
	charged   []string
	refunded  []string
}

func (f *fakePayments) ProcessPayment(_ context.Context, orderID string, _ int64) error {
	if f.chargeErr != nil {
		return f.chargeErr
	}
	f.charged = append(f.charged, orderID)
	return nil
}

func (f *fakePayments) RefundPayment(_ context.Context, orderID string, _ int64) error {
	if f.refundErr != nil {
		return f.refundErr
	}
	f.refunded = append(f.refunded, orderID)
	return nil
}
