// Command authflow runs a complete authorization-code flow with PKCE against
// an OIDC provider: it prints the authorization URL, receives the redirect on
// a loopback listener, exchanges the code, and prints the token response.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-auth-client/client"
	"github.com/jrsteele09/go-auth-client/idtoken"
	"github.com/jrsteele09/go-auth-client/oauth2"
	"github.com/jrsteele09/go-auth-client/oauthmodel"
	"github.com/jrsteele09/go-auth-client/pkce"
	"github.com/jrsteele09/go-auth-client/provider"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("authflow failed")
	}
	log.Info().Msg("authflow finished")
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	displayAppname("authflow")

	ctx := context.Background()
	serviceConfig, err := provider.Discover(ctx, cfg.Issuer)
	if err != nil {
		return fmt.Errorf("discovering %s: %w", cfg.Issuer, err)
	}
	log.Info().
		Str("issuer", serviceConfig.Issuer).
		Str("token_endpoint", serviceConfig.TokenEndpoint.String()).
		Msg("provider discovered")

	verifier, err := pkce.NewVerifier()
	if err != nil {
		return err
	}

	authReq, err := oauthmodel.NewAuthorizationRequestBuilder(serviceConfig, cfg.ClientID, cfg.RedirectURI).
		SetScopes(cfg.Scopes...).
		SetCodeChallenge(pkce.ChallengeS256(verifier), oauth2.CodeMethodTypeS256).
		Build()
	if err != nil {
		return fmt.Errorf("building authorization request: %w", err)
	}

	tokenClient := client.New(client.WithUserAgent("authflow"))
	fmt.Printf("\nOpen this URL in your browser:\n\n  %s\n\n", tokenClient.AuthorizationURL(authReq))

	code, err := waitForCallback(cfg, authReq.State)
	if err != nil {
		return err
	}

	tokenResp, err := tokenClient.Exchange(ctx, mustTokenRequest(serviceConfig, cfg, code, verifier))
	if err != nil {
		return fmt.Errorf("exchanging code: %w", err)
	}

	log.Info().
		Int64("expires_in", tokenResp.ExpiresIn).
		Str("scope", tokenResp.Scope).
		Bool("refresh_token", tokenResp.HasRefreshToken()).
		Msg("tokens received")

	if tokenResp.IDToken != "" {
		claims, err := idtoken.Verify(ctx, serviceConfig, cfg.ClientID, tokenResp.IDToken, authReq.Nonce)
		if err != nil {
			return fmt.Errorf("verifying id token: %w", err)
		}
		log.Info().Str("subject", claims.Subject).Str("email", claims.Email).Msg("id token verified")
	}
	return nil
}

func mustTokenRequest(serviceConfig *provider.Configuration, cfg config, code, verifier string) *oauthmodel.TokenRequest {
	req, err := oauthmodel.NewTokenRequestBuilder(serviceConfig, cfg.ClientID).
		SetAuthorizationCode(code).
		SetRedirectURI(cfg.RedirectURI).
		SetCodeVerifier(verifier).
		Build()
	if err != nil {
		// Inputs were validated upstream; a failure here is a bug.
		log.Panic().Err(err).Msg("building token request")
	}
	return req
}

// waitForCallback serves the loopback redirect endpoint until the
// authorization response arrives or the process is interrupted.
func waitForCallback(cfg config, expectedState string) (string, error) {
	type result struct {
		code string
		err  error
	}
	results := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.RedirectURI.Path, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if errCode := query.Get("error"); errCode != "" {
			http.Error(w, "authorization failed", http.StatusBadRequest)
			results <- result{err: fmt.Errorf("authorization denied: %s", errCode)}
			return
		}
		if query.Get(oauth2.ParamState) != expectedState {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			results <- result{err: errors.New("state mismatch on callback")}
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this window.")
		results <- result{code: query.Get(oauth2.ParamCode)}
	})

	server := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			results <- result{err: fmt.Errorf("callback server: %w", err)}
		}
	}()
	defer shutdown(server)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case r := <-results:
		return r.code, r.err
	case <-stop:
		return "", errors.New("interrupted while waiting for authorization")
	}
}

func shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("callback server shutdown")
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
