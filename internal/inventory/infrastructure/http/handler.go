package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/readshelf/bookstore/internal/inventory/application"
	"github.com/readshelf/bookstore/internal/inventory/domain"
)

type Handler struct {
	log    *slog.Logger
	svc    *application.Service
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, svc *application.Service) *Handler {
	return &Handler{
		log:    log,
		svc:    svc,
		tracer: otel.Tracer("inventory-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/books/{bookID}", h.getBook)
	r.Patch("/books/{bookID}/inventory", h.setQuantity)
	return r
}

type bookView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

func toBookView(b domain.Book) bookView {
	return bookView{ID: b.ID, Title: b.Title, Author: b.Author, PriceCents: b.PriceCents, Quantity: b.Quantity}
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetBook")
	defer span.End()

	book, err := h.svc.GetBook(ctx, chi.URLParam(r, "bookID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toBookView(book))
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SetBookQuantity")
	defer span.End()

	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be an integer"})
		return
	}

	book, err := h.svc.SetQuantity(ctx, chi.URLParam(r, "bookID"), quantity)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toBookView(book))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBookNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidQuantity):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.log.ErrorContext(ctx, "request failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
