package core

import (
	"time"

	"github.com/google/uuid"
)

// Account is the application profile, keyed by a unique wallet address.
// It is created exactly once, on the first successful sign-in for a wallet,
// and never deleted by this service.
type Account struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	WalletAddress string    `json:"wallet_address"`
	Username      string    `json:"username"`
	CreatedAt     time.Time `json:"created_at"`
	LastLoginAt   time.Time `json:"last_login_at"`
}

// AuthUser is the authentication user record linked 1:1 to an Account by
// user id. Wallet sign-in has no password, so EncryptedPassword holds a
// random, never-matchable secret that only satisfies the schema.
type AuthUser struct {
	ID                uuid.UUID
	EncryptedPassword string
	CreatedAt         time.Time
	LastSignInAt      time.Time
}

// DefaultSessionTTL is how long an issued session stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

// DeriveUsername returns the deterministic default username for a wallet,
// a truncated form of the address so it cannot collide with user-chosen
// handles.
func DeriveUsername(address string) string {
	const prefix = "user_"
	if len(address) <= 8 {
		return prefix + address
	}
	return prefix + address[:8]
}

// Session is the credential returned to the client after a successful
// sign-in. Validity is carried entirely by the signed token; the service
// does not persist sessions.
type Session struct {
	ID          string    `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Address     string    `json:"address"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	ExpiresIn   int64     `json:"expires_in"`
}
