package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// ParseStatus validates a client-supplied status value.
func ParseStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q: %w", s, ErrInvalidRequestData)
}

// OrderItem is a historical record of one purchased line: price and quantity
// as confirmed at order creation, never updated afterwards.
type OrderItem struct {
	BookID         string
	Quantity       int
	UnitPriceCents int64
	SubtotalCents  int64
}

func NewOrderItem(bookID string, quantity int, unitPriceCents int64) OrderItem {
	return OrderItem{
		BookID:         bookID,
		Quantity:       quantity,
		UnitPriceCents: unitPriceCents,
		SubtotalCents:  int64(quantity) * unitPriceCents,
	}
}

// Order is the immutable-after-creation system of record for a purchase.
// TotalCents is fixed at creation; only Status and UpdatedAt change.
type Order struct {
	ID         string
	CustomerID string
	Status     OrderStatus
	TotalCents int64
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewOrder(id, customerID string, items []OrderItem) Order {
	var total int64
	for _, it := range items {
		total += it.SubtotalCents
	}
	now := time.Now().UTC()
	return Order{
		ID:         id,
		CustomerID: customerID,
		Status:     StatusPending,
		TotalCents: total,
		Items:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// transitions holds the forward edges of the status state machine.
// Cancellation is reachable from every non-terminal state; re-cancelling a
// cancelled order is a timestamp-refresh no-op, not an error.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {StatusCancelled},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo is the single status mutator. It validates the edge and
// refreshes UpdatedAt in the same operation.
func (o *Order) TransitionTo(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("cannot transition order %s from %s to %s: %w", o.ID, o.Status, next, ErrInvalidOrderStatus)
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return nil
}
