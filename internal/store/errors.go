package store

import "errors"

// Sentinel error kinds a DocumentStore implementation returns: a failing
// operation reports one of the first three kinds, and a lookup that finds
// nothing reports ErrNotFound.
var (
	// ErrUnavailable is a transient failure (network blip, timeout); the
	// caller should retry with backoff.
	ErrUnavailable = errors.New("store: unavailable")
	// ErrRejected is a permanent failure (malformed write, dimension
	// mismatch); the caller must not retry.
	ErrRejected = errors.New("store: rejected")
	// ErrConflict signals an idempotency violation that should be treated
	// as success (the record already exists in an equivalent form).
	ErrConflict = errors.New("store: conflict")

	// ErrNotFound indicates a lookup found no matching document.
	ErrNotFound = errors.New("store: not found")
)
