package idtoken_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/idtoken"
	interrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/provider"
)

func mintIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return raw
}

func TestParse(t *testing.T) {
	now := time.Now()
	raw := mintIDToken(t, jwt.MapClaims{
		"iss":            "https://idp.example.com",
		"sub":            "user-1",
		"aud":            "test-client",
		"exp":            now.Add(time.Hour).Unix(),
		"iat":            now.Unix(),
		"nonce":          "nonce-456",
		"azp":            "test-client",
		"auth_time":      now.Add(-time.Minute).Unix(),
		"email":          "user@example.com",
		"email_verified": true,
		"name":           "Test User",
	})

	claims, err := idtoken.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "https://idp.example.com", claims.Issuer)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Contains(t, claims.Audience, "test-client")
	assert.Equal(t, "nonce-456", claims.Nonce)
	assert.Equal(t, "test-client", claims.AuthorizedParty)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.True(t, claims.EmailVerified)
	assert.Equal(t, "Test User", claims.Name)
	assert.NotZero(t, claims.AuthTime)
}

func TestParse_Malformed(t *testing.T) {
	_, err := idtoken.Parse("not-a-jwt")
	require.Error(t, err)

	_, err = idtoken.Parse("")
	require.Error(t, err)
}

func TestVerify_NoVerifier(t *testing.T) {
	// A manually constructed configuration carries no discovery keys, so
	// verification must refuse rather than silently skip.
	cfg, err := provider.New("https://idp.example.com/authorize", "https://idp.example.com/token")
	require.NoError(t, err)

	raw := mintIDToken(t, jwt.MapClaims{
		"iss": "https://idp.example.com",
		"sub": "user-1",
		"aud": "test-client",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err = idtoken.Verify(context.Background(), cfg, "test-client", raw, "")
	require.ErrorIs(t, err, interrors.ErrNoVerifier)
}

func TestVerify_NilConfiguration(t *testing.T) {
	_, err := idtoken.Verify(context.Background(), nil, "test-client", "raw", "")
	require.Error(t, err)
}
