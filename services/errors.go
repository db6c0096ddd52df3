package services

import "errors"

var (
	// ErrValidation wraps all bad-request conditions. Validation always runs
	// before any write, so a validation failure never leaves partial state.
	ErrValidation = errors.New("invalid request data")

	ErrTableNotFound   = errors.New("table not found")
	ErrOrderNotFound   = errors.New("no active order found")
	ErrHistoryNotFound = errors.New("order history entry not found")

	// ErrInconsistentState is returned when the pay transaction could not be
	// rolled back cleanly. Operators must check both the active orders and the
	// history ledger by hand.
	ErrInconsistentState = errors.New("payment left the order store in an inconsistent state, check active orders and order history")
)
