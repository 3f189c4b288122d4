package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/chucuoi/flower-storefront/internal/config"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	ProviderGoogle = "google"
	googleIssuer   = "https://accounts.google.com"
)

type googleProvider struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleProvider performs OIDC discovery, so it needs network access.
func NewGoogleProvider(ctx context.Context, cfg config.OAuthProvider) (Provider, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("google oidc discovery: %w", err)
	}

	return &googleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (p *googleProvider) Name() string { return ProviderGoogle }

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*models.Identity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("google token response has no id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verifying google id token: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decoding google claims: %w", err)
	}

	if claims.Email == "" || !claims.EmailVerified {
		return nil, ErrMissingEmail
	}

	return &models.Identity{
		Provider:   ProviderGoogle,
		ProviderID: idToken.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
		Image:      claims.Picture,
	}, nil
}
