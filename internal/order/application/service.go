package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/readshelf/bookstore/internal/order/domain"
	"github.com/readshelf/bookstore/pkg/tracing"
)

// OrderService orchestrates checkout and the order lifecycle. Checkout is
// synchronous end to end: the caller gets the final order, never a pending one.
type OrderService struct {
	log      *slog.Logger
	carts    CartRepository
	orders   OrderRepository
	inv      InventoryClient
	payments PaymentGateway
}

func NewOrderService(log *slog.Logger, carts CartRepository, orders OrderRepository, inv InventoryClient, payments PaymentGateway) *OrderService {
	return &OrderService{log: log, carts: carts, orders: orders, inv: inv, payments: payments}
}

// Checkout converts the customer's cart into an order.
//
// The order is persisted in pending state before payment is attempted, so
// every payment attempt is traceable to a durable record and the failure
// path is a status update, not a rollback. Re-validation against inventory
// is the authoritative stock gate; the async stock event that follows a
// confirmation is reconciliation, not a second check.
func (s *OrderService) Checkout(ctx context.Context, customerID string) (domain.Order, error) {
	cart, err := s.carts.Get(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return domain.Order{}, fmt.Errorf("checkout for %s: %w", customerID, domain.ErrEmptyCart)
		}
		return domain.Order{}, err
	}
	if cart.IsEmpty() {
		return domain.Order{}, fmt.Errorf("checkout for %s: %w", customerID, domain.ErrEmptyCart)
	}

	// Re-validate every line; any miss aborts the whole checkout before an
	// order exists. Prices are re-confirmed here and snapshotted.
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		book, err := s.inv.GetBook(ctx, line.BookID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("checkout revalidation of %s: %w", line.BookID, err)
		}
		if line.Quantity > book.Quantity {
			return domain.Order{}, fmt.Errorf("checkout revalidation of %s: want %d, have %d: %w",
				line.BookID, line.Quantity, book.Quantity, domain.ErrInsufficientStock)
		}
		items = append(items, domain.NewOrderItem(line.BookID, line.Quantity, book.PriceCents))
	}

	order := domain.NewOrder(uuid.NewString(), customerID, items)
	if err := s.orders.Create(ctx, order); err != nil {
		return domain.Order{}, err
	}

	if err := s.payments.ProcessPayment(ctx, order.ID, order.TotalCents); err != nil {
		// Compensating transition: void the order, keep the audit trail,
		// leave the cart intact so the customer can retry. Inventory was
		// never decremented, so no stock event is owed.
		if terr := order.TransitionTo(domain.StatusCancelled); terr != nil {
			return domain.Order{}, terr
		}
		if uerr := s.orders.UpdateStatus(ctx, order); uerr != nil {
			s.log.Error("cancel after payment failure not persisted", "order_id", order.ID, "err", uerr)
			return domain.Order{}, uerr
		}
		s.log.Info("checkout payment failed, order cancelled", "order_id", order.ID, "err", err)
		return domain.Order{}, fmt.Errorf("checkout of order %s: %w", order.ID, domain.ErrPaymentFailed)
	}

	if err := order.TransitionTo(domain.StatusConfirmed); err != nil {
		return domain.Order{}, err
	}
	payload, err := json.Marshal(domain.NewStockAdjustment(order))
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.orders.UpdateStatusWithOutbox(ctx, order, domain.EventTypeOrderPlaced, payload,
		map[string]string{"source": "order-service"}, tracing.TraceparentFromContext(ctx)); err != nil {
		return domain.Order{}, err
	}

	// The order is confirmed at this point; a cart that fails to clear is an
	// inconvenience, not a reason to fail the checkout.
	cart.Clear()
	if err := s.carts.Save(ctx, cart); err != nil {
		s.log.Error("cart not cleared after checkout", "customer_id", customerID, "order_id", order.ID, "err", err)
	}

	s.log.Info("checkout confirmed", "order_id", order.ID, "customer_id", customerID, "total_cents", order.TotalCents)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	return s.orders.Get(ctx, orderID)
}

// UpdateStatus applies one state-machine transition. Cancelling an order
// whose confirmation already decremented stock publishes a compensating
// order-cancelled event in the same transaction; cancelling a pending order
// is a plain void.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus) (domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	prev := order.Status
	if err := order.TransitionTo(next); err != nil {
		return domain.Order{}, err
	}

	restock := next == domain.StatusCancelled &&
		(prev == domain.StatusConfirmed || prev == domain.StatusShipped)
	if restock {
		payload, err := json.Marshal(domain.NewStockAdjustment(order))
		if err != nil {
			return domain.Order{}, err
		}
		if err := s.orders.UpdateStatusWithOutbox(ctx, order, domain.EventTypeOrderCancelled, payload,
			map[string]string{"source": "order-service"}, tracing.TraceparentFromContext(ctx)); err != nil {
			return domain.Order{}, err
		}
		if err := s.payments.RefundPayment(ctx, order.ID, order.TotalCents); err != nil {
			// The refund seam has no retry of its own yet; surface it loudly.
			s.log.Error("refund failed for cancelled order", "order_id", order.ID, "err", err)
		}
		return order, nil
	}

	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
