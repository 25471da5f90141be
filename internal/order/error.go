package order

import "errors"

var (
	// -- Preconditions --
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrMissingAddress   = errors.New("delivery address is required")

	// -- Status machine --
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")

	// -- Resource state --
	ErrOrderNotFound = errors.New("order not found")
)
