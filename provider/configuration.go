package provider

import (
	"fmt"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Configuration holds the endpoints of an authorization server. Request
// builders reference a Configuration read-only; they never mutate it.
//
// A Configuration comes from one of two places: Discover, which reads the
// server's OIDC discovery document, or New, for servers that publish no
// discovery document.
type Configuration struct {
	// AuthorizationEndpoint is where the user agent is sent to authenticate
	// and approve the request.
	AuthorizationEndpoint *url.URL

	// TokenEndpoint is where authorization codes and refresh tokens are
	// exchanged for tokens.
	TokenEndpoint *url.URL

	// Issuer is the server's issuer identifier. Set by Discover; empty for
	// manually constructed configurations.
	Issuer string

	// JWKSEndpoint serves the server's signing keys. Optional.
	JWKSEndpoint *url.URL

	// RegistrationEndpoint supports dynamic client registration. Optional;
	// surfaced for callers, the library itself never calls it.
	RegistrationEndpoint *url.URL

	// EndSessionEndpoint supports RP-initiated logout. Optional.
	EndSessionEndpoint *url.URL

	oidcProvider *oidc.Provider
}

// New builds a Configuration from explicit authorization and token endpoint
// URLs. Both must be absolute http or https URLs.
func New(authorizationEndpoint, tokenEndpoint string) (*Configuration, error) {
	authURL, err := parseEndpoint(authorizationEndpoint)
	if err != nil {
		return nil, fmt.Errorf("authorization endpoint: %w", err)
	}
	tokenURL, err := parseEndpoint(tokenEndpoint)
	if err != nil {
		return nil, fmt.Errorf("token endpoint: %w", err)
	}
	return &Configuration{
		AuthorizationEndpoint: authURL,
		TokenEndpoint:         tokenURL,
	}, nil
}

// Verifier returns an ID token verifier for the given client ID, or nil when
// the configuration was not produced by Discover.
func (c *Configuration) Verifier(clientID string) *oidc.IDTokenVerifier {
	if c.oidcProvider == nil {
		return nil
	}
	return c.oidcProvider.Verifier(&oidc.Config{ClientID: clientID})
}

func parseEndpoint(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("endpoint URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("endpoint URL %q must be absolute", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint URL %q has no host", raw)
	}
	return u, nil
}
