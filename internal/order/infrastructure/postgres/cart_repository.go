package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/readshelf/bookstore/internal/order/domain"
)

type CartRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewCartRepository(log *slog.Logger, pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{log: log, pool: pool}
}

func (r *CartRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS carts (
			customer_id TEXT PRIMARY KEY,
			total_cents BIGINT NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS cart_items (
			customer_id      TEXT NOT NULL REFERENCES carts(customer_id),
			book_id          TEXT NOT NULL,
			quantity         INT NOT NULL,
			unit_price_cents BIGINT NOT NULL,
			PRIMARY KEY (customer_id, book_id)
		)`)
	return err
}

func (r *CartRepository) Get(ctx context.Context, customerID string) (domain.Cart, error) {
	var c domain.Cart
	err := r.pool.QueryRow(ctx,
		`SELECT customer_id, total_cents, created_at, updated_at FROM carts WHERE customer_id=$1`, customerID).
		Scan(&c.CustomerID, &c.TotalCents, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, fmt.Errorf("cart for %s: %w", customerID, domain.ErrCartNotFound)
		}
		return domain.Cart{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT book_id, quantity, unit_price_cents FROM cart_items WHERE customer_id=$1 ORDER BY book_id`, customerID)
	if err != nil {
		return domain.Cart{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.BookID, &it.Quantity, &it.UnitPriceCents); err != nil {
			return domain.Cart{}, err
		}
		c.Items = append(c.Items, it)
	}
	return c, rows.Err()
}

// Save replaces the whole cart in one transaction: upsert the header row,
// drop the old lines, re-insert the current ones.
func (r *CartRepository) Save(ctx context.Context, c domain.Cart) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO carts (customer_id, total_cents, created_at, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (customer_id) DO UPDATE SET total_cents=$2, updated_at=$4`,
		c.CustomerID, c.TotalCents, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE customer_id=$1`, c.CustomerID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, it := range c.Items {
		batch.Queue(`INSERT INTO cart_items (customer_id, book_id, quantity, unit_price_cents)
			VALUES ($1,$2,$3,$4)`,
			c.CustomerID, it.BookID, it.Quantity, it.UnitPriceCents)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
