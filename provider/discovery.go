package provider

import (
	"context"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/jrsteele09/go-auth-client/internal/errors"
)

// discoveryDoc is the subset of the OIDC discovery document the
// Configuration carries beyond what go-oidc exposes directly.
type discoveryDoc struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
	RegistrationEndpoint  string `json:"registration_endpoint"`
	EndSessionEndpoint    string `json:"end_session_endpoint"`
}

// Discover fetches issuer's OIDC discovery document
// (<issuer>/.well-known/openid-configuration) and builds a Configuration
// from it. The returned Configuration can verify ID tokens via Verifier.
func Discover(ctx context.Context, issuer string) (*Configuration, error) {
	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, errors.Wrapf(err, "provider.Discover %q", issuer)
	}

	var doc discoveryDoc
	if err := oidcProvider.Claims(&doc); err != nil {
		return nil, errors.Wrapf(err, "provider.Discover decoding discovery document")
	}

	cfg, err := New(doc.AuthorizationEndpoint, doc.TokenEndpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "provider.Discover %q", issuer)
	}
	cfg.Issuer = doc.Issuer
	cfg.oidcProvider = oidcProvider
	cfg.JWKSEndpoint = parseOptionalEndpoint(doc.JWKSURI)
	cfg.RegistrationEndpoint = parseOptionalEndpoint(doc.RegistrationEndpoint)
	cfg.EndSessionEndpoint = parseOptionalEndpoint(doc.EndSessionEndpoint)
	return cfg, nil
}

// parseOptionalEndpoint drops malformed optional endpoints rather than
// failing discovery over a field the client may never use.
func parseOptionalEndpoint(raw string) *url.URL {
	if raw == "" {
		return nil
	}
	u, err := parseEndpoint(raw)
	if err != nil {
		return nil
	}
	return u
}
