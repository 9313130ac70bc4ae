package oauthmodel

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/jrsteele09/go-auth-client/oauth2"
	"github.com/jrsteele09/go-auth-client/provider"
)

// AuthorizationRequest holds a validated request for the authorization
// endpoint. Construct one through AuthorizationRequestBuilder; once built it
// is immutable.
//
// The request is rendered with ToURI and the resulting URL is opened in the
// user's agent; the server replies to the redirect URI with a code and the
// echoed state.
type AuthorizationRequest struct {
	Configuration *provider.Configuration

	// ClientID identifies the application requesting authorization.
	// Required: Yes
	ClientID string

	// ResponseType is what the authorization endpoint should return.
	// Only "code" is supported; the implicit flows are deprecated.
	ResponseType oauth2.ResponseType

	// RedirectURI is where the authorization response will be sent.
	// Required: Yes
	// Security: must exactly match a URI pre-registered with the server
	RedirectURI *url.URL

	// Scope is the space-delimited set of permissions being requested.
	// Typically includes "openid" for OIDC.
	Scope string

	// State is an opaque value echoed back in the redirect.
	// Security: the client must compare it on callback to prevent CSRF.
	// Generated automatically when not set explicitly.
	State string

	// Nonce binds the resulting ID token to this request.
	// Security: the client must verify id_token.nonce matches this value.
	// Generated automatically when not set explicitly.
	Nonce string

	// CodeChallenge is the PKCE challenge derived from the code verifier.
	// Example: BASE64URL(SHA256(code_verifier)) for S256
	CodeChallenge string

	// CodeChallengeMethod says how CodeChallenge was derived ("S256" or "plain").
	CodeChallengeMethod oauth2.CodeMethodType

	// LoginHint pre-fills the username/email on the login page. Optional.
	LoginHint string

	// Prompt controls re-authentication and consent UI, e.g. "none",
	// "login", "consent". Optional.
	Prompt string

	// AdditionalParameters carries extra parameters appended verbatim to the
	// request URL, keys disjoint from the built-in parameter names.
	AdditionalParameters map[string]string
}

// AuthorizationRequestBuilder accumulates and validates the fields of an
// AuthorizationRequest, with the same latched-error behaviour as
// TokenRequestBuilder.
type AuthorizationRequestBuilder struct {
	configuration    *provider.Configuration
	clientID         string
	redirectURI      *url.URL
	scope            string
	state            string
	stateSet         bool
	nonce            string
	nonceSet         bool
	codeChallenge    string
	challengeMethod  oauth2.CodeMethodType
	loginHint        string
	prompt           string
	additionalParams map[string]string
	err              error
}

// NewAuthorizationRequestBuilder starts an authorization request against cfg
// for clientID, to be answered at redirectURI.
func NewAuthorizationRequestBuilder(cfg *provider.Configuration, clientID string, redirectURI *url.URL) *AuthorizationRequestBuilder {
	b := &AuthorizationRequestBuilder{configuration: cfg, clientID: clientID, redirectURI: redirectURI}
	if cfg == nil {
		b.fail(fmt.Errorf("%w: configuration is required", ErrNilArgument))
		return b
	}
	if clientID == "" {
		b.fail(fmt.Errorf("%w: client ID must not be empty", ErrInvalidArgument))
		return b
	}
	if redirectURI == nil {
		b.fail(fmt.Errorf("%w: redirect URI is required", ErrNilArgument))
	}
	return b
}

// SetScope stores a space-delimited scope string; it must not be empty.
func (b *AuthorizationRequestBuilder) SetScope(scope string) *AuthorizationRequestBuilder {
	if strings.TrimSpace(scope) == "" {
		return b.fail(fmt.Errorf("%w: scope string must not be empty", ErrInvalidArgument))
	}
	b.scope = scope
	return b
}

// SetScopes joins the given scopes into a space-delimited scope string.
// No arguments clears the scope.
func (b *AuthorizationRequestBuilder) SetScopes(scopes ...string) *AuthorizationRequestBuilder {
	if len(scopes) == 0 {
		b.scope = ""
		return b
	}
	return b.SetScope(joinScopes(scopes))
}

// SetState overrides the generated state value; it must not be empty.
func (b *AuthorizationRequestBuilder) SetState(state string) *AuthorizationRequestBuilder {
	if state == "" {
		return b.fail(fmt.Errorf("%w: state must not be empty", ErrInvalidArgument))
	}
	b.state = state
	b.stateSet = true
	return b
}

// SetNonce overrides the generated nonce value; it must not be empty.
func (b *AuthorizationRequestBuilder) SetNonce(nonce string) *AuthorizationRequestBuilder {
	if nonce == "" {
		return b.fail(fmt.Errorf("%w: nonce must not be empty", ErrInvalidArgument))
	}
	b.nonce = nonce
	b.nonceSet = true
	return b
}

// SetCodeChallenge stores a PKCE challenge and its derivation method.
// Derive the challenge with the pkce package.
func (b *AuthorizationRequestBuilder) SetCodeChallenge(challenge string, method oauth2.CodeMethodType) *AuthorizationRequestBuilder {
	if challenge == "" {
		return b.fail(fmt.Errorf("%w: code challenge must not be empty", ErrInvalidArgument))
	}
	if method != oauth2.CodeMethodTypeS256 && method != oauth2.CodeMethodTypeNone {
		return b.fail(fmt.Errorf("%w: code challenge method must be %q or %q",
			ErrInvalidArgument, oauth2.CodeMethodTypeS256, oauth2.CodeMethodTypeNone))
	}
	b.codeChallenge = challenge
	b.challengeMethod = method
	return b
}

// SetLoginHint pre-fills the login form; empty clears it.
func (b *AuthorizationRequestBuilder) SetLoginHint(hint string) *AuthorizationRequestBuilder {
	b.loginHint = hint
	return b
}

// SetPrompt sets the OIDC prompt parameter; empty clears it.
func (b *AuthorizationRequestBuilder) SetPrompt(prompt string) *AuthorizationRequestBuilder {
	b.prompt = prompt
	return b
}

// SetAdditionalParameters replaces the request's additional parameters, with
// the same rules as TokenRequestBuilder.SetAdditionalParameters but checked
// against the authorization endpoint's reserved names.
func (b *AuthorizationRequestBuilder) SetAdditionalParameters(params map[string]string) *AuthorizationRequestBuilder {
	checked, err := checkAdditionalParams(params, oauth2.AuthRequestReservedParams)
	if err != nil {
		return b.fail(err)
	}
	b.additionalParams = checked
	return b
}

// Err returns the first validation failure latched so far, or nil.
func (b *AuthorizationRequestBuilder) Err() error {
	return b.err
}

// Build freezes the builder state into an immutable AuthorizationRequest,
// generating state and nonce values where the caller did not supply them.
func (b *AuthorizationRequestBuilder) Build() (*AuthorizationRequest, error) {
	if b.err != nil {
		return nil, b.err
	}

	state := b.state
	if !b.stateSet {
		state = uuid.NewString()
	}
	nonce := b.nonce
	if !b.nonceSet {
		nonce = uuid.NewString()
	}

	return &AuthorizationRequest{
		Configuration:        b.configuration,
		ClientID:             b.clientID,
		ResponseType:         oauth2.CodeResponseType,
		RedirectURI:          b.redirectURI,
		Scope:                b.scope,
		State:                state,
		Nonce:                nonce,
		CodeChallenge:        b.codeChallenge,
		CodeChallengeMethod:  b.challengeMethod,
		LoginHint:            b.loginHint,
		Prompt:               b.prompt,
		AdditionalParameters: copyParams(b.additionalParams),
	}, nil
}

func (b *AuthorizationRequestBuilder) fail(err error) *AuthorizationRequestBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// ToURI renders the request as the authorization endpoint URL with all
// request parameters in the query string.
func (r *AuthorizationRequest) ToURI() *url.URL {
	values := url.Values{}
	values.Set(oauth2.ParamClientID, r.ClientID)
	values.Set(oauth2.ParamResponseType, string(r.ResponseType))
	values.Set(oauth2.ParamRedirectURI, r.RedirectURI.String())
	values.Set(oauth2.ParamState, r.State)
	values.Set(oauth2.ParamNonce, r.Nonce)

	if r.Scope != "" {
		values.Set(oauth2.ParamScope, r.Scope)
	}
	if r.CodeChallenge != "" {
		values.Set(oauth2.ParamCodeChallenge, r.CodeChallenge)
		values.Set(oauth2.ParamCodeChallengeMethod, string(r.CodeChallengeMethod))
	}
	if r.LoginHint != "" {
		values.Set(oauth2.ParamLoginHint, r.LoginHint)
	}
	if r.Prompt != "" {
		values.Set(oauth2.ParamPrompt, r.Prompt)
	}
	for k, v := range r.AdditionalParameters {
		values.Set(k, v)
	}

	u := *r.Configuration.AuthorizationEndpoint
	u.RawQuery = values.Encode()
	return &u
}
