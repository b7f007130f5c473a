package store

import "errors"

// Sentinel errors.
var (
	// ErrCacheMiss means no live entry exists for the key.
	ErrCacheMiss = errors.New("cache miss")

	// ErrClosed means the database has been closed.
	ErrClosed = errors.New("cache closed")
)
