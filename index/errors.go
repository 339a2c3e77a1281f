package index

import "errors"

// Error kinds returned by the engine's public surface (spec.md §7).
// Callers should use errors.Is against these sentinels; the engine
// wraps them with fmt.Errorf("...: %w", ...) for context.
var (
	// ErrIndexLoadFailed means a block path could not be opened or read.
	// No partial Index is ever returned alongside this error.
	ErrIndexLoadFailed = errors.New("index: load failed")

	// ErrBlockWriteFailed means a block's target path could not be
	// opened for writing, or a write short-returned.
	ErrBlockWriteFailed = errors.New("index: block write failed")

	// ErrInvalidInput means the caller's input violates a hard
	// constraint of the format, e.g. more than 65,535 songs in one
	// block.
	ErrInvalidInput = errors.New("index: invalid input")
)
