package domain

import "errors"

// Tagged error kinds surfaced by the lifecycle engine and stores. Callers
// match with errors.Is; everything else is wrapped with %w and passes
// through unchanged.
var (
	ErrUnknownFoodItem        = errors.New("unknown food item")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrInvalidDateRange       = errors.New("expiry date precedes purchase date")
	ErrInvalidTransition      = errors.New("invalid lifecycle transition")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrNotFound               = errors.New("not found")
	ErrItemInUse              = errors.New("food item referenced by available lots")
)
