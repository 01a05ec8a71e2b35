package domain

import "errors"

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must not be negative")
)

// Book is the inventory-side record: catalog snapshot plus the available
// quantity the adjustment flow operates on.
type Book struct {
	ID         string
	Title      string
	Author     string
	PriceCents int64
	Quantity   int
}

// Direction of a stock adjustment. Part of the dedup key so that a placed
// and a cancelled event for the same order never collide.
type Direction string

const (
	DirectionDecrement Direction = "decrement"
	DirectionIncrement Direction = "increment"
)
