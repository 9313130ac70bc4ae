// Package compat bridges this library to golang.org/x/oauth2 so its tokens
// and endpoints can feed any x/oauth2-consuming HTTP stack.
package compat

import (
	"context"
	"fmt"
	"sync"
	"time"

	xoauth2 "golang.org/x/oauth2"

	"github.com/jrsteele09/go-auth-client/client"
	"github.com/jrsteele09/go-auth-client/oauth2"
	"github.com/jrsteele09/go-auth-client/oauthmodel"
	"github.com/jrsteele09/go-auth-client/provider"
)

// Endpoint converts a provider configuration into an x/oauth2 endpoint.
func Endpoint(cfg *provider.Configuration) xoauth2.Endpoint {
	return xoauth2.Endpoint{
		AuthURL:  cfg.AuthorizationEndpoint.String(),
		TokenURL: cfg.TokenEndpoint.String(),
	}
}

// Token converts a token response into an x/oauth2 token. The ID token and
// granted scope ride along as Extra fields ("id_token", "scope"), matching
// where x/oauth2 itself surfaces them.
func Token(resp *oauth2.TokenResponse, now time.Time) *xoauth2.Token {
	tok := &xoauth2.Token{
		AccessToken:  resp.AccessToken,
		TokenType:    resp.TokenType,
		RefreshToken: resp.RefreshToken,
		Expiry:       resp.Expiry(now),
	}
	extra := map[string]interface{}{}
	if resp.IDToken != "" {
		extra["id_token"] = resp.IDToken
	}
	if resp.Scope != "" {
		extra["scope"] = resp.Scope
	}
	if len(extra) > 0 {
		tok = tok.WithExtra(extra)
	}
	return tok
}

// TokenSource returns a refreshing xoauth2.TokenSource backed by
// client.Exchange. It refreshes through the refresh_token grant and follows
// refresh token rotation. ctx governs all refresh requests, mirroring how
// x/oauth2's own sources carry their context.
func TokenSource(ctx context.Context, c *client.Client, cfg *provider.Configuration, clientID, refreshToken string) xoauth2.TokenSource {
	return &refreshingSource{
		ctx:          ctx,
		client:       c,
		cfg:          cfg,
		clientID:     clientID,
		refreshToken: refreshToken,
	}
}

type refreshingSource struct {
	ctx      context.Context
	client   *client.Client
	cfg      *provider.Configuration
	clientID string

	mu           sync.Mutex
	refreshToken string
	current      *xoauth2.Token
}

func (s *refreshingSource) Token() (*xoauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Valid() {
		return s.current, nil
	}

	req, err := oauthmodel.NewTokenRequestBuilder(s.cfg, s.clientID).
		SetRefreshToken(s.refreshToken).
		Build()
	if err != nil {
		return nil, fmt.Errorf("compat.TokenSource building refresh request: %w", err)
	}

	resp, err := s.client.Exchange(s.ctx, req)
	if err != nil {
		return nil, fmt.Errorf("compat.TokenSource refreshing token: %w", err)
	}

	// Rotation: keep whichever refresh token is newest.
	if resp.RefreshToken != "" {
		s.refreshToken = resp.RefreshToken
	}
	s.current = Token(resp, time.Now())
	return s.current, nil
}
