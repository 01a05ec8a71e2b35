package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/readshelf/bookstore/internal/order/application"
	"github.com/readshelf/bookstore/internal/order/domain"
)

type Handler struct {
	log    *slog.Logger
	carts  *application.CartService
	orders *application.OrderService
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, carts *application.CartService, orders *application.OrderService) *Handler {
	return &Handler{
		log:    log,
		carts:  carts,
		orders: orders,
		tracer: otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/carts/{customerID}", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addItem)
		r.Put("/items/{bookID}", h.updateItem)
		r.Delete("/items/{bookID}", h.removeItem)
		r.Post("/checkout", h.checkout)
	})
	r.Route("/orders/{orderID}", func(r chi.Router) {
		r.Get("/", h.getOrder)
		r.Patch("/", h.updateOrderStatus)
	})
	return r
}

type cartItemView struct {
	BookID         string `json:"bookId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	SubtotalCents  int64  `json:"subtotalCents"`
}

type cartView struct {
	CustomerID string         `json:"customerId"`
	Items      []cartItemView `json:"items"`
	TotalCents int64          `json:"totalCents"`
}

func toCartView(c domain.Cart) cartView {
	v := cartView{CustomerID: c.CustomerID, Items: []cartItemView{}, TotalCents: c.TotalCents}
	for _, it := range c.Items {
		v.Items = append(v.Items, cartItemView{
			BookID:         it.BookID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			SubtotalCents:  it.SubtotalCents(),
		})
	}
	return v
}

type orderItemView struct {
	BookID         string `json:"bookId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	SubtotalCents  int64  `json:"subtotalCents"`
}

type orderView struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Status     string          `json:"status"`
	TotalCents int64           `json:"totalCents"`
	Items      []orderItemView `json:"items"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
}

func toOrderView(o domain.Order) orderView {
	v := orderView{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		TotalCents: o.TotalCents,
		Items:      []orderItemView{},
		CreatedAt:  o.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		UpdatedAt:  o.UpdatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, orderItemView{
			BookID:         it.BookID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			SubtotalCents:  it.SubtotalCents,
		})
	}
	return v
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCart")
	defer span.End()

	cart, err := h.carts.GetOrCreate(ctx, chi.URLParam(r, "customerID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCartView(cart))
}

type addItemReq struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddCartItem")
	defer span.End()

	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookID == "" {
		h.writeError(ctx, w, domain.ErrInvalidRequestData)
		return
	}

	cart, err := h.carts.AddItem(ctx, chi.URLParam(r, "customerID"), req.BookID, req.Quantity)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCartView(cart))
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateCartItem")
	defer span.End()

	var req updateItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(ctx, w, domain.ErrInvalidRequestData)
		return
	}

	cart, err := h.carts.UpdateQuantity(ctx, chi.URLParam(r, "customerID"), chi.URLParam(r, "bookID"), req.Quantity)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCartView(cart))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveCartItem")
	defer span.End()

	cart, err := h.carts.RemoveItem(ctx, chi.URLParam(r, "customerID"), chi.URLParam(r, "bookID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCartView(cart))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClearCart")
	defer span.End()

	cart, err := h.carts.Clear(ctx, chi.URLParam(r, "customerID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCartView(cart))
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Checkout")
	defer span.End()

	order, err := h.orders.Checkout(ctx, chi.URLParam(r, "customerID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderView(order))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	order, err := h.orders.GetOrder(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderView(order))
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(ctx, w, domain.ErrInvalidRequestData)
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	order, err := h.orders.UpdateStatus(ctx, chi.URLParam(r, "orderID"), status)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderView(order))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps business errors to status codes. Internal errors are
// logged and surfaced as a bare 500; no internals leak to clients.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidRequestData):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrItemNotFoundInCart),
		errors.Is(err, domain.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidOrderStatus):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrPaymentFailed):
		status = http.StatusPaymentRequired
	default:
		h.log.ErrorContext(ctx, "request failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
