package tokens

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/openclip/walletgate/core"
	"github.com/openclip/walletgate/ports"
)

const AudienceSession = "walletgate:session"

// JWTIssuer mints and validates session tokens with ES256. It is the
// in-process stand-in for a hosted identity provider; the service only sees
// the SessionIssuer interface.
type JWTIssuer struct {
	signKey *ecdsa.PrivateKey
	ttl     time.Duration
}

// NewJWTIssuer creates a session issuer. A zero ttl falls back to
// core.DefaultSessionTTL (one week).
func NewJWTIssuer(signKey *ecdsa.PrivateKey, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = core.DefaultSessionTTL
	}
	return &JWTIssuer{signKey: signKey, ttl: ttl}
}

var _ ports.SessionIssuer = (*JWTIssuer)(nil)

func (j *JWTIssuer) Issue(userID uuid.UUID, address string) (*core.Session, error) {
	now := time.Now()
	expiresAt := now.Add(j.ttl)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{AudienceSession},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Address: address,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	signed, err := token.SignedString(j.signKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &core.Session{
		ID:          claims.ID,
		UserID:      userID,
		Address:     address,
		AccessToken: signed,
		TokenType:   "Bearer",
		IssuedAt:    now,
		ExpiresAt:   expiresAt,
		ExpiresIn:   int64(j.ttl / time.Second),
	}, nil
}

func (j *JWTIssuer) Validate(tokenStr string) (*core.Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &j.signKey.PublicKey, nil
	}, jwt.WithAudience(AudienceSession))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, core.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", core.ErrInvalidToken)
	}

	session := &core.Session{
		ID:          claims.ID,
		UserID:      userID,
		Address:     claims.Address,
		AccessToken: tokenStr,
		TokenType:   "Bearer",
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
