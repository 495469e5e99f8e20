package domain

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	// ErrConsistency marks a counter or notification update that failed
	// after the tree mutation it belongs to was already committed.
	ErrConsistency = errors.New("derived data out of sync")
	// ErrStoreTimeout is returned when a store call exceeds its deadline.
	// Callers may retry.
	ErrStoreTimeout = errors.New("store timeout")
	// ErrPartialDelete means a cascade stopped partway; nodes already
	// removed stay removed and the rest are orphans until reconciled.
	ErrPartialDelete = errors.New("cascade delete incomplete")
)
