package cache

import (
	"context"
	"sync"
	"time"

	"github.com/openclip/walletgate/core"
	"github.com/openclip/walletgate/ports"
)

// MemoryChallengeStore is an in-process challenge store for tests and
// single-instance deployments. Entries expire lazily on access.
type MemoryChallengeStore struct {
	mu       sync.Mutex
	pending  map[string]time.Time
	consumed map[string]time.Time
	now      func() time.Time
}

func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		pending:  make(map[string]time.Time),
		consumed: make(map[string]time.Time),
		now:      time.Now,
	}
}

var _ ports.ChallengeStore = (*MemoryChallengeStore)(nil)

func (s *MemoryChallengeStore) Issue(ctx context.Context, nonce string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// Challenges that were minted but never signed stay in the map forever
	// otherwise; sweep them while we hold the lock anyway.
	for stale, deadline := range s.pending {
		if now.After(deadline) {
			delete(s.pending, stale)
		}
	}
	for stale, deadline := range s.consumed {
		if now.After(deadline) {
			delete(s.consumed, stale)
		}
	}

	s.pending[nonce] = now.Add(ttl)
	return nil
}

func (s *MemoryChallengeStore) Consume(ctx context.Context, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if deadline, ok := s.consumed[nonce]; ok && now.Before(deadline) {
		return core.ErrChallengeUsed
	}
	deadline, ok := s.pending[nonce]
	if !ok || now.After(deadline) {
		delete(s.pending, nonce)
		return core.ErrChallengeExpired
	}
	delete(s.pending, nonce)
	retention := now.Add(consumedRetention)
	if deadline.After(retention) {
		// The signature stays valid until the challenge expires, so the
		// replay marker must outlive the validity window.
		retention = deadline
	}
	s.consumed[nonce] = retention
	return nil
}

// MemoryRevocationStore is an in-process revocation list for tests and
// single-instance deployments.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{revoked: make(map[string]time.Time)}
}

var _ ports.RevocationStore = (*MemoryRevocationStore)(nil)

func (s *MemoryRevocationStore) Revoke(ctx context.Context, tokenID string, expiry time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[tokenID] = time.Now().Add(expiry)
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deadline, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	return time.Now().Before(deadline), nil
}
