package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker implements Locker using in-memory locks.
// The locks are NOT shared across process restarts or multiple instances.
type MemoryLocker struct {
	mu       sync.Mutex
	locks    map[string]lockEntry
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

type lockEntry struct {
	token     string
	expiresAt time.Time
}

// NewMemoryLocker creates a new in-memory locker that sweeps expired
// entries every interval.
func NewMemoryLocker(interval time.Duration) *MemoryLocker {
	m := &MemoryLocker{
		locks: make(map[string]lockEntry),
		now:   time.Now,
		done:  make(chan struct{}),
	}
	if interval > 0 {
		go m.cleanupLoop(interval)
	}
	return m
}

func (m *MemoryLocker) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}

func (m *MemoryLocker) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, entry := range m.locks {
		if !now.Before(entry.expiresAt) {
			delete(m.locks, key)
		}
	}
}

// Stop ends the cleanup goroutine.
func (m *MemoryLocker) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// Acquire attempts to acquire a lock.
func (m *MemoryLocker) Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if entry, ok := m.locks[key]; ok && now.Before(entry.expiresAt) {
		return false, nil
	}
	m.locks[key] = lockEntry{token: token, expiresAt: now.Add(ttl)}
	return true, nil
}

// Release releases a lock held by token.
func (m *MemoryLocker) Release(ctx context.Context, key, token string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[key]
	if !ok || entry.token != token {
		return false, nil
	}
	delete(m.locks, key)
	return true, nil
}

// Ensure MemoryLocker implements Locker.
var _ Locker = (*MemoryLocker)(nil)
