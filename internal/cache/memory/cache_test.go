package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/recipebook/internal/repository"
)

func newTestCache(t *testing.T) (*Cache, *time.Time) {
	t.Helper()
	c := NewCache(time.Hour)
	t.Cleanup(c.Stop)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrCacheMiss)

	value := []byte("4.5")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = '0'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("4.5"), got)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, now := newTestCache(t)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	*now = now.Add(2 * time.Minute)

	ok, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, repository.ErrCacheMiss)

	c.cleanup()
	require.Zero(t, c.Len())
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Delete(ctx, "a", "b", "absent"))
	require.Zero(t, c.Len())
}

func TestCache_StopTwice(t *testing.T) {
	c := NewCache(time.Millisecond)
	c.Stop()
	c.Stop()
}
