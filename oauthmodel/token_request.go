package oauthmodel

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-auth-client/oauth2"
	"github.com/jrsteele09/go-auth-client/provider"
)

// TokenRequest holds a validated request for the OAuth2 token endpoint.
// Construct one through TokenRequestBuilder; a built TokenRequest is
// immutable and safe to hand to transport code.
type TokenRequest struct {
	// Configuration identifies the authorization server the request is for.
	// The token endpoint URL comes from here.
	Configuration *provider.Configuration

	// ClientID identifies the OAuth2 client making the request.
	// Required: Yes (for all grant types)
	// Example: "mobile-app-xyz"
	ClientID string

	// GrantType is inferred at build time from which credential field is
	// populated: authorization_code when AuthorizationCode is set,
	// refresh_token when RefreshToken is set.
	GrantType oauth2.GrantType

	// AuthorizationCode is the code received from the authorization endpoint.
	// Present only for the authorization_code grant.
	// Usage: exchanged once for tokens, then becomes invalid
	AuthorizationCode string

	// RefreshToken is used to obtain new access tokens without
	// re-authentication. Present only for the refresh_token grant.
	RefreshToken string

	// RedirectURI is the redirect URI the authorization request used.
	// Required for the authorization_code grant; the server compares it
	// against the one bound to the code.
	RedirectURI *url.URL

	// CodeVerifier is the PKCE verifier matching the code_challenge sent in
	// the authorization request.
	// Validation: server compares SHA256(code_verifier) with the stored challenge
	CodeVerifier string

	// Scope is the space-delimited set of scopes being requested.
	// For refresh requests it may narrow, never widen, the original grant.
	Scope string

	// AdditionalParameters carries extra parameters appended verbatim to the
	// request. Keys never collide with the built-in parameter names; the
	// builder rejects reserved keys.
	AdditionalParameters map[string]string
}

// TokenRequestBuilder accumulates and validates the fields of a TokenRequest.
// Setters validate their input immediately and latch the first failure;
// chaining stays ergonomic and Err surfaces the failure at the point it
// happened. Build re-reports any latched failure before its own cross-field
// checks, so a malformed setter call can never produce a request.
//
// A builder is single-shot and not safe for concurrent use.
type TokenRequestBuilder struct {
	configuration    *provider.Configuration
	clientID         string
	code             string
	refreshToken     string
	redirectURI      *url.URL
	codeVerifier     string
	scope            string
	additionalParams map[string]string
	err              error
}

// NewTokenRequestBuilder starts a token request against cfg for clientID.
// A nil configuration or empty client ID is latched immediately and reported
// by Err and Build.
func NewTokenRequestBuilder(cfg *provider.Configuration, clientID string) *TokenRequestBuilder {
	b := &TokenRequestBuilder{configuration: cfg, clientID: clientID}
	if cfg == nil {
		b.fail(fmt.Errorf("%w: configuration is required", ErrNilArgument))
		return b
	}
	if clientID == "" {
		b.fail(fmt.Errorf("%w: client ID must not be empty", ErrInvalidArgument))
	}
	return b
}

// SetAuthorizationCode stores the authorization code to exchange, selecting
// the authorization_code grant. The code must not be empty.
func (b *TokenRequestBuilder) SetAuthorizationCode(code string) *TokenRequestBuilder {
	if code == "" {
		return b.fail(fmt.Errorf("%w: authorization code must not be empty", ErrInvalidArgument))
	}
	b.code = code
	return b
}

// SetRefreshToken stores the refresh token to exchange, selecting the
// refresh_token grant. The token must not be empty.
func (b *TokenRequestBuilder) SetRefreshToken(token string) *TokenRequestBuilder {
	if token == "" {
		return b.fail(fmt.Errorf("%w: refresh token must not be empty", ErrInvalidArgument))
	}
	b.refreshToken = token
	return b
}

// SetRedirectURI stores the redirect URI used by the authorization request.
// Required when exchanging an authorization code; nil clears it.
func (b *TokenRequestBuilder) SetRedirectURI(uri *url.URL) *TokenRequestBuilder {
	b.redirectURI = uri
	return b
}

// SetCodeVerifier stores the PKCE code verifier. The verifier must not be
// empty; use pkce.ValidateVerifier for full RFC 7636 format checks.
func (b *TokenRequestBuilder) SetCodeVerifier(verifier string) *TokenRequestBuilder {
	if verifier == "" {
		return b.fail(fmt.Errorf("%w: code verifier must not be empty", ErrInvalidArgument))
	}
	b.codeVerifier = verifier
	return b
}

// SetScope stores a space-delimited scope string. The string must not be
// empty or all whitespace; leaving scope unset means the server applies the
// scopes of the original grant.
func (b *TokenRequestBuilder) SetScope(scope string) *TokenRequestBuilder {
	if strings.TrimSpace(scope) == "" {
		return b.fail(fmt.Errorf("%w: scope string must not be empty", ErrInvalidArgument))
	}
	b.scope = scope
	return b
}

// SetScopes joins the given scopes into a space-delimited scope string.
// Calling it with no arguments clears the scope; calling it with only empty
// strings is an error.
func (b *TokenRequestBuilder) SetScopes(scopes ...string) *TokenRequestBuilder {
	if len(scopes) == 0 {
		b.scope = ""
		return b
	}
	return b.SetScope(joinScopes(scopes))
}

// SetAdditionalParameters replaces (not merges) the request's additional
// parameters. Keys must be non-empty and must not collide with the built-in
// token request parameters. A nil map clears the set. The map is copied.
func (b *TokenRequestBuilder) SetAdditionalParameters(params map[string]string) *TokenRequestBuilder {
	checked, err := checkAdditionalParams(params, oauth2.TokenRequestReservedParams)
	if err != nil {
		return b.fail(err)
	}
	b.additionalParams = checked
	return b
}

// Err returns the first validation failure latched by the constructor or a
// setter, or nil. Callers that need to know exactly which call failed can
// check it between calls; Build reports the same error.
func (b *TokenRequestBuilder) Err() error {
	return b.err
}

// Build checks the cross-field invariants and freezes the builder state into
// an immutable TokenRequest.
//
// Rules beyond the per-setter checks: exactly one of the authorization code
// and refresh token must be set (both or neither is ErrInvalidState), and an
// authorization-code exchange must carry a redirect URI.
func (b *TokenRequestBuilder) Build() (*TokenRequest, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.configuration == nil {
		return nil, fmt.Errorf("%w: configuration is required", ErrNilArgument)
	}
	if b.clientID == "" {
		return nil, fmt.Errorf("%w: client ID must not be empty", ErrInvalidArgument)
	}

	var grantType oauth2.GrantType
	switch {
	case b.code != "" && b.refreshToken != "":
		return nil, fmt.Errorf("%w: authorization code and refresh token are mutually exclusive", ErrInvalidState)
	case b.code != "":
		if b.redirectURI == nil {
			return nil, fmt.Errorf("%w: authorization code exchange requires a redirect URI", ErrInvalidState)
		}
		grantType = oauth2.AuthorizationCodeGrant
	case b.refreshToken != "":
		grantType = oauth2.RefreshTokenGrant
	default:
		return nil, fmt.Errorf("%w: either an authorization code or a refresh token must be set", ErrInvalidState)
	}

	return &TokenRequest{
		Configuration:        b.configuration,
		ClientID:             b.clientID,
		GrantType:            grantType,
		AuthorizationCode:    b.code,
		RefreshToken:         b.refreshToken,
		RedirectURI:          b.redirectURI,
		CodeVerifier:         b.codeVerifier,
		Scope:                b.scope,
		AdditionalParameters: copyParams(b.additionalParams),
	}, nil
}

func (b *TokenRequestBuilder) fail(err error) *TokenRequestBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// FormValues renders the request as the form-urlencoded parameter set the
// token endpoint consumes (RFC 6749 §4.1.3). The result is a pure function
// of the request's fields.
func (r *TokenRequest) FormValues() url.Values {
	values := url.Values{}
	values.Set(oauth2.ParamGrantType, string(r.GrantType))
	values.Set(oauth2.ParamClientID, r.ClientID)

	switch r.GrantType {
	case oauth2.AuthorizationCodeGrant:
		values.Set(oauth2.ParamCode, r.AuthorizationCode)
		values.Set(oauth2.ParamRedirectURI, r.RedirectURI.String())
	case oauth2.RefreshTokenGrant:
		values.Set(oauth2.ParamRefreshToken, r.RefreshToken)
	}

	if r.CodeVerifier != "" {
		values.Set(oauth2.ParamCodeVerifier, r.CodeVerifier)
	}
	if r.Scope != "" {
		values.Set(oauth2.ParamScope, r.Scope)
	}
	for k, v := range r.AdditionalParameters {
		values.Set(k, v)
	}
	return values
}

// ToURI renders the request as the token endpoint URL with the request
// parameters in the query string. Parameter order is stable for identical
// input (url.Values encodes keys sorted).
func (r *TokenRequest) ToURI() *url.URL {
	u := *r.Configuration.TokenEndpoint
	u.RawQuery = r.FormValues().Encode()
	return &u
}

func joinScopes(scopes []string) string {
	trimmed := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if s = strings.TrimSpace(s); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	return strings.Join(trimmed, " ")
}

func checkAdditionalParams(params map[string]string, reserved map[string]struct{}) (map[string]string, error) {
	if params == nil {
		return nil, nil
	}
	for k := range params {
		if k == "" {
			return nil, fmt.Errorf("%w: additional parameter key must not be empty", ErrInvalidArgument)
		}
		if oauth2.IsReserved(reserved, k) {
			return nil, fmt.Errorf("%w: additional parameter %q is a reserved parameter name", ErrInvalidArgument, k)
		}
	}
	return copyParams(params), nil
}

func copyParams(params map[string]string) map[string]string {
	if params == nil {
		return nil
	}
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return copied
}
