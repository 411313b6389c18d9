package ports

import (
	"github.com/google/uuid"
	"github.com/openclip/walletgate/core"
)

// SessionIssuer is the identity-provider boundary: it mints the session
// credential for a resolved user and can read one back. The service only
// depends on this contract, not on how the token is signed.
type SessionIssuer interface {
	// Issue mints a session for the given internal user id, valid for the
	// issuer's configured TTL from now.
	Issue(userID uuid.UUID, address string) (*core.Session, error)

	// Validate parses a presented access token and returns its session, or
	// core.ErrTokenExpired / core.ErrInvalidToken.
	Validate(token string) (*core.Session, error)
}
