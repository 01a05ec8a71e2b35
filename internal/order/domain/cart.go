package domain

import "time"

// CartItem is one line of a cart. The unit price is captured when the book
// is first added and kept until checkout re-confirms it.
type CartItem struct {
	BookID         string
	Quantity       int
	UnitPriceCents int64
}

func (i CartItem) SubtotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}

// Cart is the mutable per-customer staging area before checkout. TotalCents
// is recomputed after every mutation and always equals the sum of line
// subtotals.
type Cart struct {
	CustomerID string
	Items      []CartItem
	TotalCents int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewCart(customerID string) Cart {
	now := time.Now().UTC()
	return Cart{CustomerID: customerID, CreatedAt: now, UpdatedAt: now}
}

// Add merges quantity into an existing line for the same book, keeping the
// unit price from the first add, or appends a new line.
func (c *Cart) Add(bookID string, quantity int, unitPriceCents int64) {
	for idx := range c.Items {
		if c.Items[idx].BookID == bookID {
			c.Items[idx].Quantity += quantity
			c.recompute()
			return
		}
	}
	c.Items = append(c.Items, CartItem{BookID: bookID, Quantity: quantity, UnitPriceCents: unitPriceCents})
	c.recompute()
}

// SetQuantity replaces a line's quantity. A quantity of zero or less removes
// the line. Reports whether the line existed.
func (c *Cart) SetQuantity(bookID string, quantity int) bool {
	for idx := range c.Items {
		if c.Items[idx].BookID != bookID {
			continue
		}
		if quantity <= 0 {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		} else {
			c.Items[idx].Quantity = quantity
		}
		c.recompute()
		return true
	}
	return false
}

// Remove deletes a line and reports whether it existed.
func (c *Cart) Remove(bookID string) bool {
	for idx := range c.Items {
		if c.Items[idx].BookID == bookID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.recompute()
			return true
		}
	}
	return false
}

// Clear empties the cart. The cart itself survives checkout; only its lines go.
func (c *Cart) Clear() {
	c.Items = nil
	c.recompute()
}

// Item returns the line for a book, if present.
func (c *Cart) Item(bookID string) (CartItem, bool) {
	for _, it := range c.Items {
		if it.BookID == bookID {
			return it, true
		}
	}
	return CartItem{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) recompute() {
	var total int64
	for _, it := range c.Items {
		total += it.SubtotalCents()
	}
	c.TotalCents = total
	c.UpdatedAt = time.Now().UTC()
}
