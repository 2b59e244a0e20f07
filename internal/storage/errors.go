package storage

import "errors"

// Errors shared by the session, estimate, and simulation-result stores.
// Analysis runs append; they never rewrite stored rows.
var (
	// ErrNotFound is returned when no record exists for the requested
	// session ID or stake.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a session or stake that
	// is already stored. Re-estimating a stake requires a fresh store.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
