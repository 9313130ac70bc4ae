// Package client performs token endpoint requests over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/oauth2"
	"github.com/jrsteele09/go-auth-client/oauthmodel"
)

const (
	defaultTimeout = 30 * time.Second

	// maxResponseBytes bounds how much of a token response body is read.
	// Real token responses are a few KB; anything larger is a broken or
	// hostile server.
	maxResponseBytes = 1 << 20

	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// Client sends validated requests to an authorization server's token
// endpoint. The zero value is not usable; construct with New. A Client is
// safe for concurrent use.
type Client struct {
	httpClient   *http.Client
	clientSecret string
	userAgent    string
	logger       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to add a proxy
// or custom TLS configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClientSecret enables confidential-client authentication: the client ID
// and secret are sent via HTTP basic auth on every token request
// (RFC 6749 §2.3.1). Public clients (mobile, SPA) must not use this.
func WithClientSecret(secret string) Option {
	return func(c *Client) { c.clientSecret = secret }
}

// WithUserAgent sets the User-Agent header on outgoing requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger replaces the default global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a token endpoint client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exchange POSTs the token request form-urlencoded to the configuration's
// token endpoint and decodes the response.
//
// A 2xx response yields the TokenResponse; a recognised OAuth error body
// yields an *oauth2.ErrorResponse; anything else is wrapped with
// errors.ErrUnexpectedStatus or errors.ErrMalformedResponse. Credentials are
// never logged.
func (c *Client) Exchange(ctx context.Context, req *oauthmodel.TokenRequest) (*oauth2.TokenResponse, error) {
	endpoint := req.Configuration.TokenEndpoint.String()
	body := req.FormValues().Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("client.Exchange building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentTypeForm)
	httpReq.Header.Set("Accept", contentTypeJSON)
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if c.clientSecret != "" {
		httpReq.SetBasicAuth(req.ClientID, c.clientSecret)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("grant_type", string(req.GrantType)).
		Str("client_id", req.ClientID).
		Msg("token request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEndpointUnreachable, "client.Exchange POST %s: %v", endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedResponse, "client.Exchange reading response: %v", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.errorFromResponse(resp.StatusCode, payload)
	}

	tokenResp := &oauth2.TokenResponse{}
	if err := json.Unmarshal(payload, tokenResp); err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedResponse, "client.Exchange decoding response: %v", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, errors.Wrapf(errors.ErrMalformedResponse, "client.Exchange: response has no access token")
	}
	if !tokenResp.IsBearer() {
		return nil, errors.Wrapf(errors.ErrMalformedResponse, "client.Exchange: unsupported token type %q", tokenResp.TokenType)
	}

	c.logger.Debug().
		Str("grant_type", string(req.GrantType)).
		Int64("expires_in", tokenResp.ExpiresIn).
		Bool("refresh_token", tokenResp.HasRefreshToken()).
		Bool("id_token", tokenResp.IDToken != "").
		Msg("token response")

	return tokenResp, nil
}

// AuthorizationURL renders the URL to open in the user's agent for the
// given authorization request.
func (c *Client) AuthorizationURL(req *oauthmodel.AuthorizationRequest) string {
	return req.ToURI().String()
}

// errorFromResponse prefers the server's own OAuth error body over a bare
// status code.
func (c *Client) errorFromResponse(status int, payload []byte) error {
	errResp := &oauth2.ErrorResponse{}
	if err := json.Unmarshal(payload, errResp); err == nil && errResp.Code != "" {
		c.logger.Debug().
			Int("status", status).
			Str("error", errResp.Code).
			Msg("token endpoint rejected request")
		return errResp
	}
	return errors.Wrapf(errors.ErrUnexpectedStatus, "client.Exchange: token endpoint returned %d", status)
}
