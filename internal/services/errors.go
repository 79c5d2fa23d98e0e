package services

import "errors"

// Failure kinds surfaced by the order placement engine and the auth
// service. Handlers map these to HTTP statuses with errors.Is; callers get
// the wrapped detail (offending line, item name) from the error message.
var (
	// ErrInvalidRequest covers malformed input: missing student id, empty
	// cart, non-positive quantity.
	ErrInvalidRequest = errors.New("invalid order request")
	// ErrItemNotFound is returned when a cart line references an unknown
	// menu item.
	ErrItemNotFound = errors.New("menu item not found")
	// ErrItemUnavailable is returned when a cart line references an item
	// the canteen has marked unavailable.
	ErrItemUnavailable = errors.New("menu item is unavailable")
	// ErrPersistence wraps storage failures during the order write. The
	// transaction guarantees no partial rows remain.
	ErrPersistence = errors.New("failed to persist order")

	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
