package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	issuerEnvVar      = "ISSUER"
	clientIDEnvVar    = "CLIENT_ID"
	redirectURIEnvVar = "REDIRECT_URI"
	scopesEnvVar      = "SCOPES"
	listenAddrEnvVar  = "LISTEN_ADDR"
)

type config struct {
	Issuer      string
	ClientID    string
	RedirectURI *url.URL
	Scopes      []string
	ListenAddr  string
}

// loadConfig reads the flow configuration from the environment, with an
// optional .env file for local runs.
func loadConfig() (config, error) {
	_ = godotenv.Load() // missing .env is fine

	issuer := os.Getenv(issuerEnvVar)
	if issuer == "" {
		return config{}, fmt.Errorf("%s is required", issuerEnvVar)
	}
	clientID := os.Getenv(clientIDEnvVar)
	if clientID == "" {
		return config{}, fmt.Errorf("%s is required", clientIDEnvVar)
	}

	redirectURI, err := url.Parse(getEnv(redirectURIEnvVar, "http://127.0.0.1:8765/callback"))
	if err != nil {
		return config{}, fmt.Errorf("invalid %s: %w", redirectURIEnvVar, err)
	}

	return config{
		Issuer:      issuer,
		ClientID:    clientID,
		RedirectURI: redirectURI,
		Scopes:      strings.Fields(getEnv(scopesEnvVar, "openid profile email")),
		ListenAddr:  getEnv(listenAddrEnvVar, "127.0.0.1:8765"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
