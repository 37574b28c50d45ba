package repository

import (
	"context"
	"strconv"
	"time"
)

// =============================================================================
// Cache Interface
// =============================================================================

// Cache defines the interface for caching operations.
// Implemented in-process (cache/memory) and on Redis (cache/redis).
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes values by key. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)
}

// RatingStatsKey caches the rating average of a recipe.
func RatingStatsKey(recipeID int64) string {
	return "recipebook:rating:stats:" + strconv.FormatInt(recipeID, 10)
}

// RevokedTokenKey marks a logged-out token until it expires.
func RevokedTokenKey(tokenID string) string {
	return "recipebook:token:revoked:" + tokenID
}
