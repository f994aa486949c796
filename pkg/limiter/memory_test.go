package limiter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulwarkweb/bulwark/pkg/limiter"
)

func TestMemoryLimiter(t *testing.T) {
	t.Parallel()

	t.Run("counts hits against the max", func(t *testing.T) {
		t.Parallel()

		lim := limiter.NewMemory(limiter.WithCleanupInterval(0))
		defer lim.Close()

		ctx := t.Context()

		for range 3 {
			require.NoError(t, lim.Hit(ctx, "k", time.Minute))
		}

		limited, err := lim.TooManyAttempts(ctx, "k", 5)
		require.NoError(t, err)
		assert.False(t, limited)

		remaining, err := lim.Remaining(ctx, "k", 5)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)

		for range 2 {
			require.NoError(t, lim.Hit(ctx, "k", time.Minute))
		}

		limited, err = lim.TooManyAttempts(ctx, "k", 5)
		require.NoError(t, err)
		assert.True(t, limited)

		remaining, err = lim.Remaining(ctx, "k", 5)
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
	})

	t.Run("unknown key is unlimited", func(t *testing.T) {
		t.Parallel()

		lim := limiter.NewMemory(limiter.WithCleanupInterval(0))
		defer lim.Close()

		ctx := t.Context()

		limited, err := lim.TooManyAttempts(ctx, "nope", 1)
		require.NoError(t, err)
		assert.False(t, limited)

		in, err := lim.AvailableIn(ctx, "nope")
		require.NoError(t, err)
		assert.Zero(t, in)

		at, err := lim.AvailableAt(ctx, "nope")
		require.NoError(t, err)
		assert.Zero(t, at)
	})

	t.Run("window expiry resets the counter", func(t *testing.T) {
		t.Parallel()

		lim := limiter.NewMemory(limiter.WithCleanupInterval(0))
		defer lim.Close()

		ctx := t.Context()

		require.NoError(t, lim.Hit(ctx, "k", 10*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		remaining, err := lim.Remaining(ctx, "k", 3)
		require.NoError(t, err)
		assert.Equal(t, 3, remaining)
	})

	t.Run("availability reflects the window", func(t *testing.T) {
		t.Parallel()

		lim := limiter.NewMemory(limiter.WithCleanupInterval(0))
		defer lim.Close()

		ctx := t.Context()

		require.NoError(t, lim.Hit(ctx, "k", time.Minute))

		in, err := lim.AvailableIn(ctx, "k")
		require.NoError(t, err)
		assert.Greater(t, in, 50*time.Second)

		at, err := lim.AvailableAt(ctx, "k")
		require.NoError(t, err)
		assert.InDelta(t, time.Now().Add(time.Minute).Unix(), at, 2)
	})

	t.Run("clear removes the counter", func(t *testing.T) {
		t.Parallel()

		lim := limiter.NewMemory(limiter.WithCleanupInterval(0))
		defer lim.Close()

		ctx := t.Context()

		require.NoError(t, lim.Hit(ctx, "k", time.Minute))
		require.NoError(t, lim.Clear(ctx, "k"))

		remaining, err := lim.Remaining(ctx, "k", 1)
		require.NoError(t, err)
		assert.Equal(t, 1, remaining)
	})

	t.Run("hit after close fails", func(t *testing.T) {
		t.Parallel()

		lim := limiter.NewMemory(limiter.WithCleanupInterval(0))
		require.NoError(t, lim.Close())

		err := lim.Hit(t.Context(), "k", time.Minute)
		assert.ErrorIs(t, err, limiter.ErrClosed)
	})
}
