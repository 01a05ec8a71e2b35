package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/readshelf/bookstore/internal/order/application"
	"github.com/readshelf/bookstore/internal/order/domain"
)

// InventoryClient talks to the inventory service's REST surface. Lookups
// carry a hard timeout: during checkout a slow inventory answer is treated
// as a failure, never a guess.
type InventoryClient struct {
	log     *slog.Logger
	baseURL string
	client  *http.Client
}

func NewInventoryClient(log *slog.Logger, baseURL string) *InventoryClient {
	return &InventoryClient{
		log:     log,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type bookResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

func (c *InventoryClient) GetBook(ctx context.Context, bookID string) (application.BookSnapshot, error) {
	u := fmt.Sprintf("%s/books/%s", c.baseURL, url.PathEscape(bookID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return application.BookSnapshot{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return application.BookSnapshot{}, fmt.Errorf("inventory lookup %s: %w", bookID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return application.BookSnapshot{}, fmt.Errorf("inventory lookup %s: %w", bookID, domain.ErrItemNotFound)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return application.BookSnapshot{}, fmt.Errorf("inventory lookup %s: unexpected status %d: %s", bookID, resp.StatusCode, body)
	}

	var b bookResponse
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return application.BookSnapshot{}, fmt.Errorf("inventory lookup %s: decode: %w", bookID, err)
	}
	return application.BookSnapshot{
		ID:         b.ID,
		Title:      b.Title,
		PriceCents: b.PriceCents,
		Quantity:   b.Quantity,
	}, nil
}

// SetQuantity sets a book's absolute inventory level. The PATCH contract is
// absolute, not a delta; read-then-write callers race and know it.
func (c *InventoryClient) SetQuantity(ctx context.Context, bookID string, quantity int) error {
	u := fmt.Sprintf("%s/books/%s/inventory?quantity=%s", c.baseURL, url.PathEscape(bookID), strconv.Itoa(quantity))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("inventory update %s: %w", bookID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("inventory update %s: %w", bookID, domain.ErrItemNotFound)
	default:
		return fmt.Errorf("inventory update %s: unexpected status %d", bookID, resp.StatusCode)
	}
}
