package oauth2

import (
	"strings"
	"time"
)

// TokenResponse represents the response from an OAuth2 token request.
// This is the standard OAuth2 token endpoint response format as defined in
// RFC 6749 §5.1, decoded from the JSON body the server returns.
type TokenResponse struct {
	// AccessToken is the token used to access protected resources.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	// Lifespan: Short-lived (typically 15 minutes - 1 hour)
	AccessToken string `json:"access_token"`

	// TokenType indicates how to present the access token.
	// Servers are required to return it; in practice always "bearer"
	// (case-insensitive per RFC 6749 §5.1).
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// Note: this is a hint from the server - for JWT access tokens the
	// authoritative expiry is the token's own "exp" claim.
	ExpiresIn int64 `json:"expires_in,omitempty"`

	// RefreshToken is an opaque token used to obtain new access tokens.
	// Only present when the server granted one (e.g. offline_access scope).
	// Security: store securely; servers typically rotate it on each use.
	RefreshToken string `json:"refresh_token,omitempty"`

	// IDToken is the OpenID Connect ID token with user identity claims.
	// Only present when the "openid" scope was requested.
	IDToken string `json:"id_token,omitempty"`

	// Scope is the space-delimited set of scopes actually granted.
	// May be narrower than requested; absent means the request's scopes
	// were granted as-is.
	Scope string `json:"scope,omitempty"`
}

// IsBearer reports whether the token type is "bearer", compared
// case-insensitively as RFC 6749 requires.
func (t *TokenResponse) IsBearer() bool {
	return strings.EqualFold(t.TokenType, "bearer")
}

// Expiry converts ExpiresIn into an absolute time relative to now.
// Returns the zero time when the server sent no expiry hint.
func (t *TokenResponse) Expiry(now time.Time) time.Time {
	if t.ExpiresIn <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// HasRefreshToken reports whether the server granted a refresh token.
func (t *TokenResponse) HasRefreshToken() bool {
	return t.RefreshToken != ""
}
