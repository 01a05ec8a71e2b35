package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readshelf/bookstore/internal/order/domain"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/books/bk-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"bk-1","title":"The Go Programming Language","author":"Donovan, Kernighan","priceCents":3999,"quantity":25}`))
	}))
	defer srv.Close()

	c := NewInventoryClient(discard(), srv.URL)
	book, err := c.GetBook(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "bk-1", book.ID)
	assert.Equal(t, int64(3999), book.PriceCents)
	assert.Equal(t, 25, book.Quantity)
}

func TestGetBookNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewInventoryClient(discard(), srv.URL)
	_, err := c.GetBook(context.Background(), "bk-ghost")
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestGetBookServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewInventoryClient(discard(), srv.URL)
	_, err := c.GetBook(context.Background(), "bk-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrItemNotFound)
}

func TestSetQuantity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/books/bk-1/inventory", r.URL.Path)
		assert.Equal(t, "17", r.URL.Query().Get("quantity"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewInventoryClient(discard(), srv.URL)
	require.NoError(t, c.SetQuantity(context.Background(), "bk-1", 17))
}
