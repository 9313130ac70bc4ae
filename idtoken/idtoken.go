// Package idtoken parses and verifies OpenID Connect ID tokens on the
// client side.
package idtoken

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	interrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/provider"
)

// ErrNonceMismatch indicates the ID token's nonce does not match the nonce
// sent in the authorization request, which means the token cannot be bound
// to that request.
var ErrNonceMismatch = errors.New("id token nonce mismatch")

// Claims are the ID token claims this library understands: the registered
// JWT claims plus the common OIDC identity claims.
type Claims struct {
	jwt.RegisteredClaims

	// Nonce echoes the nonce from the authorization request.
	Nonce string `json:"nonce,omitempty"`

	// AuthorizedParty is the party the token was issued to (azp), set when
	// it differs from the audience.
	AuthorizedParty string `json:"azp,omitempty"`

	// AuthTime is when the end user last authenticated, in Unix seconds.
	AuthTime int64 `json:"auth_time,omitempty"`

	Email             string `json:"email,omitempty"`
	EmailVerified     bool   `json:"email_verified,omitempty"`
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// Parse decodes the claims of a raw ID token without verifying its
// signature. Use it to inspect claims (e.g. extracting the nonce or subject)
// before or without verification; never trust unverified claims for
// authorization decisions.
func Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("idtoken.Parse: %w", err)
	}
	return claims, nil
}

// Verify checks the raw ID token's signature, issuer, audience and expiry
// against the discovered provider configuration, then compares its nonce to
// expectedNonce (skipped when expectedNonce is empty). On success the
// token's claims are returned.
//
// The configuration must come from provider.Discover; manually constructed
// configurations carry no verification keys.
func Verify(ctx context.Context, cfg *provider.Configuration, clientID, raw, expectedNonce string) (*Claims, error) {
	if cfg == nil {
		return nil, fmt.Errorf("idtoken.Verify: configuration is required")
	}
	verifier := cfg.Verifier(clientID)
	if verifier == nil {
		return nil, fmt.Errorf("idtoken.Verify: %w", interrors.ErrNoVerifier)
	}

	verified, err := verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("idtoken.Verify: %w", err)
	}
	if expectedNonce != "" && verified.Nonce != expectedNonce {
		return nil, fmt.Errorf("idtoken.Verify: %w", ErrNonceMismatch)
	}

	claims, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
