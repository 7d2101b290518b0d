package oauth

import (
	"context"
	"fmt"
	"strings"

	"github.com/bullboard/bullboard-backend/pkg/config"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Identity is the verified external identity extracted from a Google ID token.
type Identity struct {
	Email      string
	Name       string
	ExternalID string
	PictureURL string
}

// ErrExchangeFailed wraps code-for-token failures so callers can show a
// user-safe message distinct from verification failures.
var ErrExchangeFailed = fmt.Errorf("google code exchange failed")

// Bridge mediates the Google sign-in round trip: authorization URL
// construction, code exchange, and ID token verification.
type Bridge struct {
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// NewBridge discovers the Google OIDC endpoints and prepares the verifier.
func NewBridge(ctx context.Context, cfg config.GoogleOAuthConfig) (*Bridge, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("google oauth client id, secret, and redirect url are required")
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover google oidc provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return &Bridge{
		oauth2Config: oauth2Config,
		verifier:     verifier,
	}, nil
}

// AuthCodeURL builds the authorization redirect target. Offline access is
// always requested; promptConsent forces the consent screen so a refresh
// grant is re-issued.
func (b *Bridge) AuthCodeURL(state string, promptConsent bool) string {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}
	if promptConsent {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "consent"))
	}
	return b.oauth2Config.AuthCodeURL(state, opts...)
}

// ExchangeCode trades the authorization code for the raw ID token.
func (b *Bridge) ExchangeCode(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("%w: missing authorization code", ErrExchangeFailed)
	}

	token, err := b.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", fmt.Errorf("%w: missing id_token in response", ErrExchangeFailed)
	}
	return rawIDToken, nil
}

// VerifyIdentity validates the ID token signature and audience and extracts
// the identity claims. The email is normalized before any further use.
func (b *Bridge) VerifyIdentity(ctx context.Context, rawIDToken string) (*Identity, error) {
	idToken, err := b.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify google id token: %w", err)
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse google id token claims: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, fmt.Errorf("google id token is missing an email claim")
	}

	return &Identity{
		Email:      email,
		Name:       strings.TrimSpace(claims.Name),
		ExternalID: idToken.Subject,
		PictureURL: claims.Picture,
	}, nil
}
