package oauth2

// GrantType represents the OAuth 2.0 grant type sent to the token endpoint.
// Determines which credential fields accompany the token request.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Used in: Authorization Code Flow (the only flow recommended for
	// public clients such as native and mobile apps).
	// Token request includes: code, client_id, redirect_uri, code_verifier (if PKCE)
	// Returns: access_token, id_token, refresh_token (if granted)
	AuthorizationCodeGrant GrantType = "authorization_code"

	// RefreshTokenGrant exchanges a refresh token for a new access token.
	// Used in: Token refresh flow (no user interaction required)
	// Token request includes: refresh_token, client_id, scope (optional narrowing)
	// Returns: new access_token and usually a rotated refresh_token
	RefreshTokenGrant GrantType = "refresh_token"
)

// ResponseType represents the OAuth 2.0 response type requested from the
// authorization endpoint.
type ResponseType string

const (
	// CodeResponseType requests an authorization code.
	// The code is exchanged for tokens at the token endpoint in a second
	// round trip, keeping tokens out of the browser.
	// Example: /oauth/authorize?response_type=code&client_id=...
	CodeResponseType ResponseType = "code"
)

// CodeMethodType represents the PKCE (Proof Key for Code Exchange) challenge
// method sent alongside an authorization request.
type CodeMethodType string

const (
	// CodeMethodTypeS256 indicates SHA-256 hashing of the code verifier.
	// Client sends: code_challenge = BASE64URL(SHA256(code_verifier))
	// Security: the only method that protects against challenge interception;
	// always preferred when the server advertises support.
	CodeMethodTypeS256 CodeMethodType = "S256"

	// CodeMethodTypeNone (labeled "plain") sends the verifier unhashed.
	// Security: only protects against passive attacks; use S256 instead.
	CodeMethodTypeNone CodeMethodType = "plain"
)

// Wire parameter names for the token endpoint, as defined by RFC 6749 §4.1.3
// and RFC 7636 §4.5. Case-sensitive.
const (
	ParamGrantType    = "grant_type"
	ParamClientID     = "client_id"
	ParamCode         = "code"
	ParamRedirectURI  = "redirect_uri"
	ParamRefreshToken = "refresh_token"
	ParamScope        = "scope"
	ParamCodeVerifier = "code_verifier"
)

// Wire parameter names specific to the authorization endpoint.
const (
	ParamResponseType        = "response_type"
	ParamState               = "state"
	ParamNonce               = "nonce"
	ParamCodeChallenge       = "code_challenge"
	ParamCodeChallengeMethod = "code_challenge_method"
	ParamLoginHint           = "login_hint"
	ParamPrompt              = "prompt"
)

// TokenRequestReservedParams is the set of parameter names the library emits
// itself for token requests. Callers must not supply these as additional
// parameters.
var TokenRequestReservedParams = map[string]struct{}{
	ParamGrantType:    {},
	ParamClientID:     {},
	ParamCode:         {},
	ParamRedirectURI:  {},
	ParamRefreshToken: {},
	ParamScope:        {},
	ParamCodeVerifier: {},
}

// AuthRequestReservedParams is the equivalent reserved set for
// authorization requests.
var AuthRequestReservedParams = map[string]struct{}{
	ParamClientID:            {},
	ParamResponseType:        {},
	ParamRedirectURI:         {},
	ParamScope:               {},
	ParamState:               {},
	ParamNonce:               {},
	ParamCodeChallenge:       {},
	ParamCodeChallengeMethod: {},
	ParamLoginHint:           {},
	ParamPrompt:              {},
}

// IsReserved reports whether name belongs to the given reserved set.
func IsReserved(reserved map[string]struct{}, name string) bool {
	_, ok := reserved[name]
	return ok
}
