// Package payment holds the simulated payment gateway. It is the seam where
// a real provider integration would be substituted; nothing outside this
// package may assume payment settles synchronously.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/readshelf/bookstore/internal/order/domain"
)

const (
	DefaultChargeSuccessRate = 0.95
	DefaultRefundSuccessRate = 0.98
)

type Simulator struct {
	log        *slog.Logger
	mu         sync.Mutex
	rnd        *rand.Rand
	chargeRate float64
	refundRate float64
}

// NewSimulator builds a gateway that approves charges and refunds with the
// given probabilities. The random source is injected so tests stay
// deterministic; pass rates of 1 or 0 to force an outcome.
func NewSimulator(log *slog.Logger, chargeRate, refundRate float64, src rand.Source) *Simulator {
	return &Simulator{
		log:        log,
		rnd:        rand.New(src),
		chargeRate: chargeRate,
		refundRate: refundRate,
	}
}

func (s *Simulator) ProcessPayment(ctx context.Context, orderID string, amountCents int64) error {
	if s.roll() < s.chargeRate {
		s.log.InfoContext(ctx, "payment approved", "order_id", orderID, "amount_cents", amountCents)
		return nil
	}
	s.log.InfoContext(ctx, "payment declined", "order_id", orderID, "amount_cents", amountCents)
	return fmt.Errorf("charge for order %s declined: %w", orderID, domain.ErrPaymentFailed)
}

func (s *Simulator) RefundPayment(ctx context.Context, orderID string, amountCents int64) error {
	if s.roll() < s.refundRate {
		s.log.InfoContext(ctx, "refund approved", "order_id", orderID, "amount_cents", amountCents)
		return nil
	}
	s.log.InfoContext(ctx, "refund declined", "order_id", orderID, "amount_cents", amountCents)
	return fmt.Errorf("refund for order %s declined: %w", orderID, domain.ErrPaymentFailed)
}

func (s *Simulator) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}
