package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/chucuoi/flower-storefront/internal/config"
	"github.com/chucuoi/flower-storefront/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const (
	ProviderFacebook = "facebook"
	facebookGraphURL = "https://graph.facebook.com/v19.0/me"
)

var ErrMissingEmail = errors.New("identity provider did not return an email address")

type facebookProvider struct {
	oauth    *oauth2.Config
	graphURL string
}

func NewFacebookProvider(cfg config.OAuthProvider) Provider {
	return NewFacebookProviderWithEndpoint(cfg, facebook.Endpoint, facebookGraphURL)
}

// NewFacebookProviderWithEndpoint allows pointing the provider at a fake
// OAuth server and Graph API.
func NewFacebookProviderWithEndpoint(cfg config.OAuthProvider, endpoint oauth2.Endpoint, graphURL string) Provider {
	return &facebookProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     endpoint,
		},
		graphURL: graphURL,
	}
}

func (p *facebookProvider) Name() string { return ProviderFacebook }

func (p *facebookProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

type facebookProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func (p *facebookProvider) Exchange(ctx context.Context, code string) (*models.Identity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("facebook code exchange: %w", err)
	}

	query := url.Values{"fields": {"id,name,email,picture"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.graphURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building graph request: %w", err)
	}

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook graph request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook graph returned status %d", resp.StatusCode)
	}

	var profile facebookProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding facebook profile: %w", err)
	}

	if profile.Email == "" {
		return nil, ErrMissingEmail
	}

	return &models.Identity{
		Provider:   ProviderFacebook,
		ProviderID: profile.ID,
		Email:      profile.Email,
		Name:       profile.Name,
		Image:      profile.Picture.Data.URL,
	}, nil
}
