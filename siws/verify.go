package siws

import (
	"crypto/ed25519"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
)

var (
	ErrBadAddress      = errors.New("siws: malformed wallet address")
	ErrAddressMismatch = errors.New("siws: challenge and signer address differ")
	ErrDomainMismatch  = errors.New("siws: challenge domain not accepted")
	ErrMessageMismatch = errors.New("siws: signed message does not match challenge")
	ErrBadSignature    = errors.New("siws: signature verification failed")
	ErrExpired         = errors.New("siws: challenge has expired")
	ErrNotYetValid     = errors.New("siws: challenge is not yet valid")
)

// VerifyParams configures the server-side expectations applied on top of
// the cryptographic checks.
type VerifyParams struct {
	// ExpectedDomain, when non-empty, must equal the challenge domain.
	ExpectedDomain string
	// Now is the clock used for expirationTime/notBefore checks.
	// A zero value means time.Now.
	Now time.Time
}

// Verify checks a wallet's signed response against the challenge the server
// expects. It returns nil only when the reconstructed message matches the
// signed bytes exactly, the signer address is consistent everywhere it
// appears, the Ed25519 signature validates, and the challenge is inside its
// validity window. It never panics on malformed input.
func Verify(input SignInInput, output SignInOutput, params VerifyParams) error {
	if params.ExpectedDomain != "" && input.Domain != params.ExpectedDomain {
		return ErrDomainMismatch
	}

	pub, err := DecodeAddress(output.Account.Address)
	if err != nil {
		return err
	}
	if len(output.Account.PublicKey) > 0 &&
		subtle.ConstantTimeCompare(output.Account.PublicKey, pub) != 1 {
		return fmt.Errorf("%w: address does not match provided public key", ErrBadAddress)
	}

	if input.Address != "" && input.Address != output.Account.Address {
		return ErrAddressMismatch
	}

	expected := BuildMessage(input)
	if subtle.ConstantTimeCompare(output.SignedMessage, []byte(expected)) != 1 {
		return ErrMessageMismatch
	}

	if len(output.Signature) != ed25519.SignatureSize {
		return fmt.Errorf("%w: signature must be %d bytes, got %d",
			ErrBadSignature, ed25519.SignatureSize, len(output.Signature))
	}
	if !ed25519.Verify(pub, output.SignedMessage, output.Signature) {
		return ErrBadSignature
	}

	return checkValidityWindow(input, params.Now)
}

func checkValidityWindow(input SignInInput, now time.Time) error {
	if now.IsZero() {
		now = time.Now()
	}
	if input.ExpirationTime != nil {
		exp, err := time.Parse(time.RFC3339, *input.ExpirationTime)
		if err != nil {
			return fmt.Errorf("%w: unparseable expirationTime", ErrExpired)
		}
		if now.After(exp) {
			return ErrExpired
		}
	}
	if input.NotBefore != nil {
		nbf, err := time.Parse(time.RFC3339, *input.NotBefore)
		if err != nil {
			return fmt.Errorf("%w: unparseable notBefore", ErrNotYetValid)
		}
		if now.Before(nbf) {
			return ErrNotYetValid
		}
	}
	return nil
}

// DecodeAddress decodes a base58 Solana address into its Ed25519 public key.
func DecodeAddress(address string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAddress, err)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d key bytes, got %d",
			ErrBadAddress, ed25519.PublicKeySize, len(decoded))
	}
	return ed25519.PublicKey(decoded), nil
}

// EncodeAddress encodes an Ed25519 public key as a base58 Solana address.
func EncodeAddress(pub ed25519.PublicKey) string {
	return base58.Encode(pub)
}
