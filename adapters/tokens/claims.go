package tokens

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines the registered claims with the wallet address the
// session was signed in with.
type SessionClaims struct {
	jwt.RegisteredClaims
	Address string `json:"addr"`
}
