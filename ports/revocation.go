package ports

import (
	"context"
	"time"
)

// RevocationStore remembers revoked session token ids until they would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiry time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
