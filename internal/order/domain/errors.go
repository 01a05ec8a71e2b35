package domain

import "errors"

// Business errors. The HTTP boundary maps these to status codes; everything
// in between wraps them with %w.
var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrItemNotFound       = errors.New("book not found in catalog")
	ErrItemNotFoundInCart = errors.New("book not found in cart")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCartNotFound       = errors.New("cart not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status transition")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrInvalidRequestData = errors.New("invalid request data")
)
