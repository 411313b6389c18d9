package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openclip/walletgate/core"
	"github.com/openclip/walletgate/ports"
)

// MemoryStore is an in-memory identity store with the same find-or-create
// semantics as the Postgres one. Intended for tests and local development.
type MemoryStore struct {
	mu       sync.Mutex
	byWallet map[string]*core.Account
	users    map[uuid.UUID]*core.AuthUser
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byWallet: make(map[string]*core.Account),
		users:    make(map[uuid.UUID]*core.AuthUser),
	}
}

var _ ports.IdentityStore = (*MemoryStore)(nil)

func (s *MemoryStore) FindByWallet(ctx context.Context, address string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byWallet[address]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (s *MemoryStore) CreateAccountAndUser(ctx context.Context, address string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byWallet[address]; ok {
		return nil, core.ErrWalletExists
	}

	now := time.Now().UTC()
	userID := uuid.New()
	account := &core.Account{
		ID:            uuid.New(),
		UserID:        userID,
		WalletAddress: address,
		Username:      core.DeriveUsername(address),
		CreatedAt:     now,
		LastLoginAt:   now,
	}
	s.byWallet[address] = account
	s.users[userID] = &core.AuthUser{ID: userID, CreatedAt: now, LastSignInAt: now}

	copied := *account
	return &copied, nil
}

func (s *MemoryStore) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, account := range s.byWallet {
		if account.UserID == userID {
			account.LastLoginAt = now
		}
	}
	if user, ok := s.users[userID]; ok {
		user.LastSignInAt = now
	}
	return nil
}
