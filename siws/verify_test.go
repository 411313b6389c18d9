package siws

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBuildMessage(t *testing.T) {
	t.Run("full challenge", func(t *testing.T) {
		input := SignInInput{
			Domain:         "app.example",
			Address:        "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty",
			Statement:      strPtr("Sign in"),
			URI:            strPtr("https://app.example/login"),
			Version:        strPtr("1"),
			ChainID:        strPtr("solana:mainnet"),
			Nonce:          "abc123",
			IssuedAt:       "2026-08-29T12:00:00Z",
			ExpirationTime: strPtr("2026-08-29T12:05:00Z"),
			Resources:      []string{"https://app.example/tos", "https://app.example/privacy"},
		}

		expected := "app.example wants you to sign in with your Solana account:\n" +
			"5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty\n" +
			"\n" +
			"Sign in\n" +
			"\n" +
			"URI: https://app.example/login\n" +
			"Version: 1\n" +
			"Chain ID: solana:mainnet\n" +
			"Nonce: abc123\n" +
			"Issued At: 2026-08-29T12:00:00Z\n" +
			"Expiration Time: 2026-08-29T12:05:00Z\n" +
			"Resources:\n" +
			"- https://app.example/tos\n" +
			"- https://app.example/privacy"

		assert.Equal(t, expected, BuildMessage(input))
	})

	t.Run("minimal challenge", func(t *testing.T) {
		input := SignInInput{Domain: "app.example", Nonce: "abc123"}
		assert.Equal(t,
			"app.example wants you to sign in with your Solana account:\n\nNonce: abc123",
			BuildMessage(input))
	})

	t.Run("no fields at all", func(t *testing.T) {
		input := SignInInput{Domain: "app.example"}
		assert.Equal(t,
			"app.example wants you to sign in with your Solana account:",
			BuildMessage(input))
	})
}

func signedChallenge(t *testing.T, mutate func(*SignInInput)) (SignInInput, SignInOutput, ed25519.PrivateKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	address := EncodeAddress(pub)

	input := SignInInput{
		Domain:   "app.example",
		Address:  address,
		Nonce:    "abc123",
		IssuedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if mutate != nil {
		mutate(&input)
	}

	message := []byte(BuildMessage(input))
	output := SignInOutput{
		Account:       AccountInfo{Address: address, PublicKey: Bytes(pub)},
		Signature:     Bytes(ed25519.Sign(priv, message)),
		SignedMessage: Bytes(message),
	}
	return input, output, priv
}

func TestVerify(t *testing.T) {
	params := VerifyParams{ExpectedDomain: "app.example"}

	t.Run("valid signature", func(t *testing.T) {
		input, output, _ := signedChallenge(t, nil)
		require.NoError(t, Verify(input, output, params))
	})

	t.Run("flipped signature bit", func(t *testing.T) {
		input, output, _ := signedChallenge(t, nil)
		output.Signature[0] ^= 0x01
		assert.ErrorIs(t, Verify(input, output, params), ErrBadSignature)
	})

	t.Run("flipped message bit", func(t *testing.T) {
		input, output, _ := signedChallenge(t, nil)
		output.SignedMessage[0] ^= 0x01
		assert.ErrorIs(t, Verify(input, output, params), ErrMessageMismatch)
	})

	t.Run("zeroed signature", func(t *testing.T) {
		input, output, _ := signedChallenge(t, nil)
		output.Signature = make(Bytes, ed25519.SignatureSize)
		assert.ErrorIs(t, Verify(input, output, params), ErrBadSignature)
	})

	t.Run("truncated signature", func(t *testing.T) {
		input, output, _ := signedChallenge(t, nil)
		output.Signature = output.Signature[:32]
		assert.ErrorIs(t, Verify(input, output, params), ErrBadSignature)
	})

	t.Run("signed by another key", func(t *testing.T) {
		input, output, _ := signedChallenge(t, nil)
		_, otherPriv, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		output.Signature = Bytes(ed25519.Sign(otherPriv, output.SignedMessage))
		assert.ErrorIs(t, Verify(input, output, params), ErrBadSignature)
	})

	t.Run("domain not accepted", func(t *testing.T) {
		input, output, _ := signedChallenge(t, func(in *SignInInput) {
			in.Domain = "evil.example"
		})
		assert.ErrorIs(t, Verify(input, output, params), ErrDomainMismatch)
	})

	t.Run("challenge pinned to another address", func(t *testing.T) {
		input, output, _ := signedChallenge(t, nil)
		otherPub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		input.Address = EncodeAddress(otherPub)
		// The signed message no longer matches either, but the address
		// cross-check fires first.
		assert.ErrorIs(t, Verify(input, output, params), ErrAddressMismatch)
	})

	t.Run("address and public key disagree", func(t *testing.T) {
		input, output, _ := signedChallenge(t, nil)
		otherPub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		output.Account.PublicKey = Bytes(otherPub)
		assert.ErrorIs(t, Verify(input, output, params), ErrBadAddress)
	})

	t.Run("malformed address", func(t *testing.T) {
		input, output, _ := signedChallenge(t, nil)
		output.Account.Address = "not-base58-0OIl"
		output.Account.PublicKey = nil
		assert.ErrorIs(t, Verify(input, output, params), ErrBadAddress)
	})

	t.Run("expired challenge", func(t *testing.T) {
		past := time.Now().Add(-time.Minute).UTC().Format(time.RFC3339)
		input, output, _ := signedChallenge(t, func(in *SignInInput) {
			in.ExpirationTime = &past
		})
		assert.ErrorIs(t, Verify(input, output, params), ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
		input, output, _ := signedChallenge(t, func(in *SignInInput) {
			in.NotBefore = &future
		})
		assert.ErrorIs(t, Verify(input, output, params), ErrNotYetValid)
	})

	t.Run("no expected domain skips the domain check", func(t *testing.T) {
		input, output, _ := signedChallenge(t, nil)
		require.NoError(t, Verify(input, output, VerifyParams{}))
	})
}

func TestDecodeAddress(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	decoded, err := DecodeAddress(EncodeAddress(pub))
	require.NoError(t, err)
	assert.Equal(t, ed25519.PublicKey(pub), decoded)

	_, err = DecodeAddress("tooshort")
	assert.ErrorIs(t, err, ErrBadAddress)

	_, err = DecodeAddress("0OIl")
	assert.ErrorIs(t, err, ErrBadAddress)
}
