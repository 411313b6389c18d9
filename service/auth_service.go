package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/openclip/walletgate/core"
	"github.com/openclip/walletgate/ports"
	"github.com/openclip/walletgate/siws"
)

const siwsVersion = "1"

// Config carries the challenge parameters the service stamps into every
// SignInInput it mints.
type Config struct {
	// Domain is the origin authorized to request sign-in. Challenges for any
	// other domain are rejected.
	Domain string
	// Statement is the human-readable text shown by the wallet.
	Statement string
	// URI is the sign-in URI advertised in the challenge, optional.
	URI string
	// ChainID identifies the chain, e.g. "solana:mainnet". Optional.
	ChainID string
	// ChallengeTTL bounds how long a minted challenge stays signable.
	ChallengeTTL time.Duration
}

// AuthService orchestrates sign-in: signature verification, nonce
// consumption, identity resolution, and session issuance.
type AuthService struct {
	store      ports.IdentityStore
	challenges ports.ChallengeStore
	issuer     ports.SessionIssuer
	revoked    ports.RevocationStore
	events     ports.EventPublisher
	log        *logrus.Logger

	cfg Config
}

// SignInResult is what a completed sign-in hands back to the transport.
type SignInResult struct {
	Session    *core.Session
	Account    *core.Account
	FirstLogin bool
}

func NewAuthService(
	store ports.IdentityStore,
	challenges ports.ChallengeStore,
	issuer ports.SessionIssuer,
	revoked ports.RevocationStore,
	events ports.EventPublisher,
	log *logrus.Logger,
	cfg Config,
) *AuthService {
	if cfg.ChallengeTTL <= 0 {
		cfg.ChallengeTTL = 5 * time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthService{
		store:      store,
		challenges: challenges,
		issuer:     issuer,
		revoked:    revoked,
		events:     events,
		log:        log,
		cfg:        cfg,
	}
}

// CreateChallenge mints a SignInInput with a fresh single-use nonce and
// records it in the challenge store. The optional address pins the
// challenge to a wallet the client already knows.
func (s *AuthService) CreateChallenge(ctx context.Context, address string) (*siws.SignInInput, error) {
	nonceBytes := make([]byte, 32)
	if _, err := rand.Read(nonceBytes); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(nonceBytes)

	now := time.Now().UTC()
	expiresAt := now.Add(s.cfg.ChallengeTTL).Format(time.RFC3339)
	version := siwsVersion

	input := &siws.SignInInput{
		Domain:         s.cfg.Domain,
		Address:        address,
		Version:        &version,
		Nonce:          nonce,
		IssuedAt:       now.Format(time.RFC3339),
		ExpirationTime: &expiresAt,
	}
	if s.cfg.Statement != "" {
		statement := s.cfg.Statement
		input.Statement = &statement
	}
	if s.cfg.URI != "" {
		uri := s.cfg.URI
		input.URI = &uri
	}
	if s.cfg.ChainID != "" {
		chainID := s.cfg.ChainID
		input.ChainID = &chainID
	}

	if err := s.challenges.Issue(ctx, nonce, s.cfg.ChallengeTTL); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	return input, nil
}

// SignIn runs the full verification flow for a signed challenge and returns
// an issued session. Each failure maps onto one of the core sentinel errors
// so the transport can pick the right wire response.
func (s *AuthService) SignIn(ctx context.Context, input *siws.SignInInput, output *siws.SignInOutput) (*SignInResult, error) {
	if err := siws.Verify(*input, *output, siws.VerifyParams{ExpectedDomain: s.cfg.Domain}); err != nil {
		if errors.Is(err, siws.ErrExpired) {
			return nil, core.ErrChallengeExpired
		}
		s.log.WithError(err).WithField("address", output.Account.Address).
			Warn("siws verification failed")
		return nil, core.ErrInvalidSignature
	}

	if err := s.challenges.Consume(ctx, input.Nonce); err != nil {
		if errors.Is(err, core.ErrChallengeUsed) || errors.Is(err, core.ErrChallengeExpired) {
			return nil, err
		}
		return nil, fmt.Errorf("challenge store unavailable: %w", err)
	}

	account, firstLogin, err := s.resolveIdentity(ctx, output.Account.Address)
	if err != nil {
		return nil, err
	}

	session, err := s.issuer.Issue(account.UserID, account.WalletAddress)
	if err != nil {
		s.log.WithError(err).WithField("user_id", account.UserID).
			Error("session issuance failed")
		return nil, core.ErrCreateSession
	}

	if err := s.events.PublishSignIn(ctx, account.WalletAddress, account.UserID.String(), firstLogin); err != nil {
		// The session is already issued; cross-service notification is not
		// worth failing the sign-in over.
		s.log.WithError(err).Warn("failed to publish sign-in event")
	}

	return &SignInResult{Session: session, Account: account, FirstLogin: firstLogin}, nil
}

// resolveIdentity looks up the account for a wallet, provisioning one on
// first sign-in. A create that loses the unique-constraint race falls back
// to a single re-lookup, so both concurrent first sign-ins succeed.
func (s *AuthService) resolveIdentity(ctx context.Context, address string) (*core.Account, bool, error) {
	account, err := s.store.FindByWallet(ctx, address)
	if err == nil {
		if touchErr := s.store.TouchLastLogin(ctx, account.UserID); touchErr != nil {
			s.log.WithError(touchErr).WithField("user_id", account.UserID).
				Warn("failed to update last login")
		}
		return account, false, nil
	}
	if !errors.Is(err, core.ErrAccountNotFound) {
		return nil, false, fmt.Errorf("identity store unavailable: %w", err)
	}

	account, err = s.store.CreateAccountAndUser(ctx, address)
	if err == nil {
		return account, true, nil
	}
	if errors.Is(err, core.ErrWalletExists) {
		account, err = s.store.FindByWallet(ctx, address)
		if err != nil {
			return nil, false, fmt.Errorf("re-lookup after create conflict: %w", err)
		}
		if touchErr := s.store.TouchLastLogin(ctx, account.UserID); touchErr != nil {
			s.log.WithError(touchErr).WithField("user_id", account.UserID).
				Warn("failed to update last login")
		}
		return account, false, nil
	}
	return nil, false, err
}

// ValidateSession checks a presented access token: signature, expiry, then
// the revocation list.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*core.Session, error) {
	session, err := s.issuer.Validate(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, core.ErrTokenRevoked
	}
	return session, nil
}

// Logout revokes the presented session token. An already expired token is
// still recorded for a short window so it cannot come back with clock skew.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	session, err := s.issuer.Validate(token)
	if err != nil {
		if !errors.Is(err, core.ErrTokenExpired) {
			return err
		}
		return nil
	}

	remaining := time.Until(session.ExpiresAt)
	if remaining < time.Hour {
		remaining = time.Hour
	}
	if err := s.revoked.Revoke(ctx, session.ID, remaining); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if err := s.events.PublishLogout(ctx, session.Address, session.ID); err != nil {
		s.log.WithError(err).Warn("failed to publish logout event")
	}
	return nil
}
