package repository

import "errors"

// Repository errors
var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint was violated.
	ErrDuplicate = errors.New("duplicate key")

	// ErrForeignKey indicates a referenced row does not exist or is still referenced.
	ErrForeignKey = errors.New("foreign key violation")

	// ErrTxDone indicates the unit of work was already committed or rolled back.
	ErrTxDone = errors.New("transaction already finished")
)

// Cache errors
var (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable indicates the cache is unavailable.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
