package provider_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/provider"
)

func TestNew(t *testing.T) {
	t.Run("valid endpoints", func(t *testing.T) {
		cfg, err := provider.New("https://idp.example.com/authorize", "https://idp.example.com/token")
		require.NoError(t, err)
		assert.Equal(t, "/authorize", cfg.AuthorizationEndpoint.Path)
		assert.Equal(t, "/token", cfg.TokenEndpoint.Path)
		assert.Empty(t, cfg.Issuer)
		assert.Nil(t, cfg.Verifier("any-client"), "manual configurations have no verifier")
	})

	t.Run("empty token endpoint", func(t *testing.T) {
		_, err := provider.New("https://idp.example.com/authorize", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "token endpoint")
	})

	t.Run("relative URL", func(t *testing.T) {
		_, err := provider.New("/authorize", "https://idp.example.com/token")
		require.Error(t, err)
		require.Contains(t, err.Error(), "must be absolute")
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := provider.New("ftp://idp.example.com/authorize", "https://idp.example.com/token")
		require.Error(t, err)
		require.Contains(t, err.Error(), "http or https")
	})
}

func TestDiscover(t *testing.T) {
	var issuer string
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/oauth/authorize",
			"token_endpoint":         issuer + "/oauth/token",
			"jwks_uri":               issuer + "/oauth/jwks",
			"registration_endpoint":  issuer + "/oauth/register",
			"end_session_endpoint":   issuer + "/oauth/logout",
			"response_types_supported": []string{
				"code",
			},
			"subject_types_supported":               []string{"public"},
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	issuer = server.URL

	cfg, err := provider.Discover(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, server.URL, cfg.Issuer)
	assert.Equal(t, server.URL+"/oauth/authorize", cfg.AuthorizationEndpoint.String())
	assert.Equal(t, server.URL+"/oauth/token", cfg.TokenEndpoint.String())
	require.NotNil(t, cfg.JWKSEndpoint)
	assert.Equal(t, server.URL+"/oauth/jwks", cfg.JWKSEndpoint.String())
	require.NotNil(t, cfg.RegistrationEndpoint)
	assert.Equal(t, server.URL+"/oauth/register", cfg.RegistrationEndpoint.String())
	require.NotNil(t, cfg.EndSessionEndpoint)
	assert.Equal(t, server.URL+"/oauth/logout", cfg.EndSessionEndpoint.String())
	assert.NotNil(t, cfg.Verifier("test-client"), "discovered configurations can verify ID tokens")
}

func TestDiscover_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := provider.Discover(context.Background(), server.URL)
	require.Error(t, err)
}

func TestDiscover_IssuerMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"issuer":"https://somewhere-else.example.com"}`)
	}))
	defer server.Close()

	// go-oidc enforces that the document's issuer matches the one queried.
	_, err := provider.Discover(context.Background(), server.URL)
	require.Error(t, err)
}
