package compat_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/client"
	"github.com/jrsteele09/go-auth-client/compat"
	"github.com/jrsteele09/go-auth-client/oauth2"
	"github.com/jrsteele09/go-auth-client/provider"
)

func TestEndpoint(t *testing.T) {
	cfg, err := provider.New("https://idp.example.com/authorize", "https://idp.example.com/token")
	require.NoError(t, err)

	endpoint := compat.Endpoint(cfg)
	assert.Equal(t, "https://idp.example.com/authorize", endpoint.AuthURL)
	assert.Equal(t, "https://idp.example.com/token", endpoint.TokenURL)
}

func TestToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	resp := &oauth2.TokenResponse{
		AccessToken:  "access",
		TokenType:    "Bearer",
		ExpiresIn:    900,
		RefreshToken: "refresh",
		IDToken:      "id-token",
		Scope:        "openid profile",
	}

	tok := compat.Token(resp, now)
	assert.Equal(t, "access", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, "refresh", tok.RefreshToken)
	assert.Equal(t, now.Add(15*time.Minute), tok.Expiry)
	assert.Equal(t, "id-token", tok.Extra("id_token"))
	assert.Equal(t, "openid profile", tok.Extra("scope"))
}

func TestTokenSource(t *testing.T) {
	var exchanges atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get(oauth2.ParamGrantType))

		// First call sees the seed token, later calls the rotated one.
		expected := "seed-refresh"
		if exchanges.Load() > 0 {
			expected = "rotated-refresh"
		}
		assert.Equal(t, expected, r.PostForm.Get(oauth2.ParamRefreshToken))
		exchanges.Add(1)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"access_token": "access",
			"token_type": "bearer",
			"expires_in": 3600,
			"refresh_token": "rotated-refresh"
		}`)
	}))
	defer server.Close()

	cfg, err := provider.New(server.URL+"/authorize", server.URL+"/token")
	require.NoError(t, err)

	c := client.New(client.WithLogger(zerolog.Nop()))
	source := compat.TokenSource(context.Background(), c, cfg, "test-client", "seed-refresh")

	tok, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "access", tok.AccessToken)
	assert.True(t, tok.Valid())

	// A valid cached token is reused without another exchange.
	again, err := source.Token()
	require.NoError(t, err)
	assert.Same(t, tok, again)
	assert.Equal(t, int64(1), exchanges.Load())
}

func TestTokenSource_RefreshFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": "invalid_grant"}`)
	}))
	defer server.Close()

	cfg, err := provider.New(server.URL+"/authorize", server.URL+"/token")
	require.NoError(t, err)

	c := client.New(client.WithLogger(zerolog.Nop()))
	source := compat.TokenSource(context.Background(), c, cfg, "test-client", "revoked-refresh")

	_, err = source.Token()
	require.Error(t, err)

	errResp := &oauth2.ErrorResponse{}
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, oauth2.ErrorCodeInvalidGrant, errResp.Code)
}
