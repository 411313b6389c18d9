package core

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrChallengeExpired = errors.New("challenge has expired")
	ErrChallengeUsed    = errors.New("challenge has already been used")

	ErrAccountNotFound = errors.New("account not found")
	// ErrWalletExists is the typed conflict outcome for a duplicate create on
	// the wallet-address unique constraint. Callers recover by re-looking up.
	ErrWalletExists = errors.New("wallet address already registered")

	ErrCreateUser    = errors.New("failed to create user")
	ErrCreateProfile = errors.New("failed to create profile")
	ErrCreateSession = errors.New("failed to create session")

	ErrTokenExpired = errors.New("token has expired")
	ErrTokenRevoked = errors.New("token has been revoked")
	ErrInvalidToken = errors.New("invalid token")
)
