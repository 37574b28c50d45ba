// Package lock serializes check-then-insert sequences on a key.
// For single-node deployments, memory-based locks are used.
// For several server instances sharing a database, Redis-based locks are used.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrBusy is returned by Do when the key stayed held for every attempt.
var ErrBusy = errors.New("lock: key is held by another request")

// Locker grants short exclusive leases on keys. The token identifies the
// holder so a lease that expired and was taken over is never released by
// its previous owner.
type Locker interface {
	// Acquire takes the lease when the key is free or its lease expired.
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)

	// Release frees the lease if token still holds it.
	Release(ctx context.Context, key, token string) (bool, error)
}

// Options control how Do waits for a held key.
type Options struct {
	TTL        time.Duration
	Retries    int
	RetryDelay time.Duration
}

// DefaultOptions fit request-scoped critical sections.
var DefaultOptions = Options{
	TTL:        5 * time.Second,
	Retries:    20,
	RetryDelay: 25 * time.Millisecond,
}

// Do runs fn while holding key. A nil locker runs fn unguarded.
func Do(ctx context.Context, locker Locker, key string, opts Options, fn func() error) error {
	if locker == nil {
		return fn()
	}

	token := uuid.NewString()
	for attempt := 0; ; attempt++ {
		acquired, err := locker.Acquire(ctx, key, token, opts.TTL)
		if err != nil {
			return fmt.Errorf("acquire %s: %w", key, err)
		}
		if acquired {
			break
		}
		if attempt >= opts.Retries {
			return ErrBusy
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}

	defer func() {
		// A cancelled request still frees the key.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_, _ = locker.Release(releaseCtx, key, token)
	}()
	return fn()
}

// =============================================================================
// Lock Keys
// =============================================================================

// Keys provides lock key generation.
var Keys = lockKeys{}

type lockKeys struct{}

// Rating guards the first rating of a recipe by a user.
func (lockKeys) Rating(userID, recipeID int64) string {
	return fmt.Sprintf("lock:rating:%d:%d", userID, recipeID)
}
