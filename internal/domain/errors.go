package domain

import "errors"

var (
	ErrSessionNotFound      = errors.New("editor session not found")
	ErrVariantNotFound      = errors.New("variant not found")
	ErrInvalidBasePrice     = errors.New("base price must not be negative")
	ErrImageIndexOutOfRange = errors.New("image index out of range")
	ErrInvalidSalesChannel  = errors.New("unknown sales channel")
	ErrNegativeInventory    = errors.New("inventory must not be negative")
	ErrTooManyCombinations  = errors.New("too many variant combinations")
)
