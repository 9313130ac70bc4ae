// Package pkce implements the client side of Proof Key for Code Exchange
// (RFC 7636): verifier generation, challenge derivation, and verifier
// validation.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/jrsteele09/go-auth-client/oauthmodel"
)

// RFC 7636 §4.1: the code verifier must be 43 to 128 characters long.
const (
	MinVerifierLength = 43
	MaxVerifierLength = 128

	// defaultEntropyBytes yields a 43-character verifier, the RFC minimum.
	defaultEntropyBytes = 32
)

// NewVerifier generates a code verifier from 32 bytes of CSPRNG entropy,
// base64url-encoded without padding (43 characters).
func NewVerifier() (string, error) {
	return newVerifier(defaultEntropyBytes)
}

// NewVerifierOfLength generates a code verifier from n bytes of entropy.
// n must produce an encoded verifier within RFC 7636's 43-128 character
// bounds, which means 32 <= n <= 96.
func NewVerifierOfLength(n int) (string, error) {
	if encoded := base64.RawURLEncoding.EncodedLen(n); encoded < MinVerifierLength || encoded > MaxVerifierLength {
		return "", fmt.Errorf("%w: %d entropy bytes encode to %d characters, outside the %d-%d verifier bounds",
			oauthmodel.ErrInvalidArgument, n, encoded, MinVerifierLength, MaxVerifierLength)
	}
	return newVerifier(n)
}

func newVerifier(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("pkce.NewVerifier reading entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ChallengeS256 derives the S256 code challenge for a verifier:
// BASE64URL(SHA256(verifier)), unpadded.
func ChallengeS256(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// ValidateVerifier checks a code verifier against RFC 7636 §4.1: length
// within 43-128 characters and only unreserved characters
// ([A-Za-z0-9], "-", ".", "_", "~").
func ValidateVerifier(verifier string) error {
	if len(verifier) < MinVerifierLength || len(verifier) > MaxVerifierLength {
		return fmt.Errorf("%w: code verifier length must be between %d and %d characters",
			oauthmodel.ErrInvalidArgument, MinVerifierLength, MaxVerifierLength)
	}
	for _, c := range verifier {
		if !verifierChar(c) {
			return fmt.Errorf("%w: code verifier contains invalid character %q", oauthmodel.ErrInvalidArgument, c)
		}
	}
	return nil
}

func verifierChar(c rune) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}
