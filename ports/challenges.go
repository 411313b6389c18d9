package ports

import (
	"context"
	"time"
)

// ChallengeStore tracks nonces the server has minted but not yet seen a
// signature for. A nonce is single-use: Consume removes it atomically, so a
// replayed sign-in loses.
type ChallengeStore interface {
	// Issue records a freshly minted nonce with a validity TTL.
	Issue(ctx context.Context, nonce string, ttl time.Duration) error

	// Consume removes the nonce if present, leaving a consumed marker for
	// the rest of the validity window. It returns core.ErrChallengeUsed for
	// a nonce that was already consumed and core.ErrChallengeExpired for one
	// that is unknown or timed out.
	Consume(ctx context.Context, nonce string) error
}
