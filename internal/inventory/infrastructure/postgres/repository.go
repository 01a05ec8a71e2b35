package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/readshelf/bookstore/internal/inventory/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS books (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			author      TEXT NOT NULL,
			price_cents BIGINT NOT NULL,
			quantity    INT NOT NULL CHECK (quantity >= 0)
		)`)
	return err
}

// Seed inserts a starter catalog when the table is empty. Local runs and
// integration tests need something to sell.
func (r *Repository) Seed(ctx context.Context) error {
	books := []domain.Book{
		{ID: "bk-gopl", Title: "The Go Programming Language", Author: "Donovan, Kernighan", PriceCents: 3999, Quantity: 25},
		{ID: "bk-ddia", Title: "Designing Data-Intensive Applications", Author: "Kleppmann", PriceCents: 4599, Quantity: 40},
		{ID: "bk-sre", Title: "Site Reliability Engineering", Author: "Beyer et al.", PriceCents: 3499, Quantity: 15},
	}
	batch := &pgx.Batch{}
	for _, b := range books {
		batch.Queue(`INSERT INTO books (id, title, author, price_cents, quantity)
			VALUES ($1,$2,$3,$4,$5) ON CONFLICT (id) DO NOTHING`,
			b.ID, b.Title, b.Author, b.PriceCents, b.Quantity)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Book, error) {
	var b domain.Book
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, author, price_cents, quantity FROM books WHERE id=$1`, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.PriceCents, &b.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Book{}, fmt.Errorf("book %s: %w", id, domain.ErrBookNotFound)
		}
		return domain.Book{}, err
	}
	return b, nil
}

func (r *Repository) SetQuantity(ctx context.Context, id string, quantity int) error {
	ct, err := r.pool.Exec(ctx, `UPDATE books SET quantity=$2 WHERE id=$1`, id, quantity)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", id, domain.ErrBookNotFound)
	}
	return nil
}

// Decrement is conditional: the row-level guard is what makes concurrent
// decrements safe without application locking.
func (r *Repository) Decrement(ctx context.Context, id string, n int) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE books SET quantity = quantity - $2 WHERE id=$1 AND quantity >= $2`, id, n)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("decrement book %s by %d: %w", id, n, domain.ErrInsufficientStock)
	}
	return nil
}

func (r *Repository) Increment(ctx context.Context, id string, n int) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE books SET quantity = quantity + $2 WHERE id=$1`, id, n)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("increment book %s: %w", id, domain.ErrBookNotFound)
	}
	return nil
}
