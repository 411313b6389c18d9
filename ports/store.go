package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/openclip/walletgate/core"
)

// IdentityStore owns the account/profile table and the linked auth users.
type IdentityStore interface {
	// FindByWallet returns the account for a wallet address, or
	// core.ErrAccountNotFound when none exists.
	FindByWallet(ctx context.Context, address string) (*core.Account, error)

	// CreateAccountAndUser provisions an auth user and its account for a
	// wallet seen for the first time. A concurrent duplicate create loses to
	// the unique constraint on the wallet address and returns
	// core.ErrWalletExists so the caller can re-lookup instead of failing.
	CreateAccountAndUser(ctx context.Context, address string) (*core.Account, error)

	// TouchLastLogin bumps the account's last-login timestamp. Best-effort;
	// callers must not fail a sign-in on error.
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}
