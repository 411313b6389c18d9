package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclip/walletgate/core"
)

func TestMemoryChallengeStore(t *testing.T) {
	ctx := context.Background()

	t.Run("issue then consume once", func(t *testing.T) {
		s := NewMemoryChallengeStore()
		require.NoError(t, s.Issue(ctx, "nonce-1", time.Minute))
		require.NoError(t, s.Consume(ctx, "nonce-1"))
		assert.ErrorIs(t, s.Consume(ctx, "nonce-1"), core.ErrChallengeUsed)
	})

	t.Run("unknown nonce", func(t *testing.T) {
		s := NewMemoryChallengeStore()
		assert.ErrorIs(t, s.Consume(ctx, "never-issued"), core.ErrChallengeExpired)
	})

	t.Run("expired nonce", func(t *testing.T) {
		s := NewMemoryChallengeStore()
		now := time.Now()
		s.now = func() time.Time { return now }
		require.NoError(t, s.Issue(ctx, "nonce-2", time.Minute))

		s.now = func() time.Time { return now.Add(2 * time.Minute) }
		assert.ErrorIs(t, s.Consume(ctx, "nonce-2"), core.ErrChallengeExpired)
	})

	t.Run("replay within a long validity window", func(t *testing.T) {
		s := NewMemoryChallengeStore()
		now := time.Now()
		s.now = func() time.Time { return now }
		require.NoError(t, s.Issue(ctx, "nonce-long", time.Hour))
		require.NoError(t, s.Consume(ctx, "nonce-long"))

		// Well past the default marker retention but still inside the
		// challenge validity window the replay must read as used.
		s.now = func() time.Time { return now.Add(30 * time.Minute) }
		assert.ErrorIs(t, s.Consume(ctx, "nonce-long"), core.ErrChallengeUsed)
	})

	t.Run("issue sweeps expired entries", func(t *testing.T) {
		s := NewMemoryChallengeStore()
		now := time.Now()
		s.now = func() time.Time { return now }
		for i := 0; i < 5; i++ {
			require.NoError(t, s.Issue(ctx, fmt.Sprintf("stale-%d", i), time.Minute))
		}
		require.NoError(t, s.Issue(ctx, "stale-used", time.Minute))
		require.NoError(t, s.Consume(ctx, "stale-used"))

		s.now = func() time.Time { return now.Add(consumedRetention + time.Minute) }
		require.NoError(t, s.Issue(ctx, "fresh", time.Minute))

		s.mu.Lock()
		defer s.mu.Unlock()
		assert.Len(t, s.pending, 1)
		assert.Empty(t, s.consumed)
	})

	t.Run("consumed marker eventually lapses", func(t *testing.T) {
		s := NewMemoryChallengeStore()
		now := time.Now()
		s.now = func() time.Time { return now }
		require.NoError(t, s.Issue(ctx, "nonce-3", time.Minute))
		require.NoError(t, s.Consume(ctx, "nonce-3"))

		s.now = func() time.Time { return now.Add(consumedRetention + time.Minute) }
		// Past retention the nonce reads as expired, which still rejects.
		assert.ErrorIs(t, s.Consume(ctx, "nonce-3"), core.ErrChallengeExpired)
	})
}

func TestMemoryRevocationStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRevocationStore()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-2", -time.Minute))
	revoked, err = s.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
