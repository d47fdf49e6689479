package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidState      = errors.New("invalid state for operation")
	ErrAlreadySettled    = errors.New("match already settled")
	ErrValidation        = errors.New("invalid input")
	ErrLockHeld          = errors.New("lock already held")
)
