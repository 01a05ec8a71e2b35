package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readshelf/bookstore/internal/order/application"
	"github.com/readshelf/bookstore/internal/order/domain"
)

type memCartRepo struct {
	carts map[string]domain.Cart
}

func (r *memCartRepo) Get(_ context.Context, customerID string) (domain.Cart, error) {
	c, ok := r.carts[customerID]
	if !ok {
		return domain.Cart{}, fmt.Errorf("cart for %s: %w", customerID, domain.ErrCartNotFound)
	}
	return c, nil
}

func (r *memCartRepo) Save(_ context.Context, c domain.Cart) error {
	r.carts[c.CustomerID] = c
	return nil
}

type memOrderRepo struct {
	orders map[string]domain.Order
}

func (r *memOrderRepo) Create(_ context.Context, o domain.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) Get(_ context.Context, id string) (domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
	}
	return o, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, o domain.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) UpdateStatusWithOutbox(_ context.Context, o domain.Order, _ string, _ []byte, _ map[string]string, _ string) error {
	r.orders[o.ID] = o
	return nil
}

type memInventory struct {
	books map[string]application.BookSnapshot
}

func (f *memInventory) GetBook(_ context.Context, bookID string) (application.BookSnapshot, error) {
	b, ok := f.books[bookID]
	if !ok {
		return application.BookSnapshot{}, fmt.Errorf("inventory lookup %s: %w", bookID, domain.ErrItemNotFound)
	}
	return b, nil
}

type memPayments struct {
	chargeErr error
}

func (f *memPayments) ProcessPayment(context.Context, string, int64) error { return f.chargeErr }
func (f *memPayments) RefundPayment(context.Context, string, int64) error  { return nil }

type fixture struct {
	srv      *httptest.Server
	carts    *memCartRepo
	orders   *memOrderRepo
	inv      *memInventory
	payments *memPayments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	carts := &memCartRepo{carts: map[string]domain.Cart{}}
	orders := &memOrderRepo{orders: map[string]domain.Order{}}
	inv := &memInventory{books: map[string]application.BookSnapshot{
		"bk-1": {ID: "bk-1", PriceCents: 1999, Quantity: 10},
	}}
	payments := &memPayments{}

	cartSvc := application.NewCartService(log, carts, inv)
	orderSvc := application.NewOrderService(log, carts, orders, inv, payments)
	h := NewHandler(log, cartSvc, orderSvc)

	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, carts: carts, orders: orders, inv: inv, payments: payments}
}

func (f *fixture) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestAddItemAndGetCart(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/carts/cust-1/items", `{"bookId":"bk-1","quantity":2}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/carts/cust-1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"totalCents":3998`)
}

func TestAddItemErrorStatuses(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/carts/cust-1/items", `{"bookId":"bk-1","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/carts/cust-1/items", `{"bookId":"bk-ghost","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/carts/cust-1/items", `{"bookId":"bk-1","quantity":99}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/carts/cust-1/items", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutStatuses(t *testing.T) {
	f := newFixture(t)

	// empty cart
	resp := f.do(t, http.MethodPost, "/carts/cust-1/checkout", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// success
	f.do(t, http.MethodPost, "/carts/cust-1/items", `{"bookId":"bk-1","quantity":2}`)
	resp = f.do(t, http.MethodPost, "/carts/cust-1/checkout", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"status":"confirmed"`)
	assert.Contains(t, string(body), `"totalCents":3998`)
}

func TestCheckoutPaymentFailureStatus(t *testing.T) {
	f := newFixture(t)
	f.payments.chargeErr = domain.ErrPaymentFailed

	f.do(t, http.MethodPost, "/carts/cust-1/items", `{"bookId":"bk-1","quantity":1}`)
	resp := f.do(t, http.MethodPost, "/carts/cust-1/checkout", "")
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
}

func TestCheckoutInsufficientStockStatus(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodPost, "/carts/cust-1/items", `{"bookId":"bk-1","quantity":5}`)
	// stock drops after the item entered the cart
	f.inv.books["bk-1"] = application.BookSnapshot{ID: "bk-1", PriceCents: 1999, Quantity: 1}

	resp := f.do(t, http.MethodPost, "/carts/cust-1/checkout", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOrderStatusEndpoints(t *testing.T) {
	f := newFixture(t)
	o := domain.NewOrder("ord-1", "cust-1", []domain.OrderItem{domain.NewOrderItem("bk-1", 1, 1999)})
	o.Status = domain.StatusDelivered
	f.orders.orders[o.ID] = o

	resp := f.do(t, http.MethodGet, "/orders/ord-1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/orders/ord-ghost", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// delivered orders cannot be cancelled
	resp = f.do(t, http.MethodPatch, "/orders/ord-1", `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// unknown status value
	resp = f.do(t, http.MethodPatch, "/orders/ord-1", `{"status":"teleported"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
