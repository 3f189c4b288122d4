package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chucuoi/flower-storefront/internal/auth"
	"github.com/chucuoi/flower-storefront/internal/config"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenManager(t *testing.T) {
	manager := auth.NewTokenManager([]byte("test-key"), 30*24*time.Hour)
	user := &models.User{ID: uuid.New(), Email: "owner@example.com", Name: "Owner", Role: models.RoleAdmin}

	t.Run("Success - Issue and parse", func(t *testing.T) {
		// Act
		token, expiresAt, err := manager.Issue(user)
		require.NoError(t, err)

		claims, err := manager.Parse(token)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, models.RoleAdmin, claims.Role)
		assert.True(t, claims.IsAdmin())
		assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), expiresAt, time.Minute)
	})

	t.Run("Failure - Wrong key", func(t *testing.T) {
		token, _, err := auth.NewTokenManager([]byte("other-key"), time.Hour).Issue(user)
		require.NoError(t, err)

		_, err = manager.Parse(token)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Failure - Expired token", func(t *testing.T) {
		token, _, err := auth.NewTokenManager([]byte("test-key"), -time.Minute).Issue(user)
		require.NoError(t, err)

		_, err = manager.Parse(token)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Failure - Signing method none", func(t *testing.T) {
		claims := &models.Claims{UserID: user.ID, Role: models.RoleAdmin}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = manager.Parse(token)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Failure - Empty key", func(t *testing.T) {
		_, _, err := auth.NewTokenManager(nil, time.Hour).Issue(user)
		assert.ErrorIs(t, err, auth.ErrSigningKey)
	})

	t.Run("Unknown role falls back to user", func(t *testing.T) {
		token, _, err := manager.Issue(&models.User{ID: uuid.New(), Role: "superuser"})
		require.NoError(t, err)

		claims, err := manager.Parse(token)

		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, claims.Role)
	})
}

func TestStateStore(t *testing.T) {
	store := auth.NewStateStore([]byte("0123456789abcdef0123456789abcdef"), false)

	begin := func(t *testing.T, provider string) (string, []*http.Cookie) {
		t.Helper()
		rr := httptest.NewRecorder()
		state, err := store.Begin(rr, httptest.NewRequest(http.MethodGet, "/api/v1/auth/facebook", nil), provider)
		require.NoError(t, err)
		require.NotEmpty(t, state)

		return state, rr.Result().Cookies()
	}

	callback := func(cookies []*http.Cookie) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/facebook/callback", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}

		return req
	}

	t.Run("Success - Matching state", func(t *testing.T) {
		state, cookies := begin(t, "facebook")

		rr := httptest.NewRecorder()
		err := store.Verify(rr, callback(cookies), "facebook", state)

		require.NoError(t, err)
		require.NotEmpty(t, rr.Result().Cookies())
		assert.Less(t, rr.Result().Cookies()[0].MaxAge, 0, "state cookie is consumed")
	})

	t.Run("Failure - Tampered state", func(t *testing.T) {
		_, cookies := begin(t, "facebook")

		err := store.Verify(httptest.NewRecorder(), callback(cookies), "facebook", "forged")

		assert.ErrorIs(t, err, auth.ErrStateMismatch)
	})

	t.Run("Failure - Different provider", func(t *testing.T) {
		state, cookies := begin(t, "google")

		err := store.Verify(httptest.NewRecorder(), callback(cookies), "facebook", state)

		assert.ErrorIs(t, err, auth.ErrStateMismatch)
	})

	t.Run("Failure - No cookie", func(t *testing.T) {
		err := store.Verify(httptest.NewRecorder(), callback(nil), "facebook", "anything")

		assert.ErrorIs(t, err, auth.ErrStateMismatch)
	})
}

func TestFacebookProvider_Exchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/oauth/access_token":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"fb-token","token_type":"bearer","expires_in":3600}`))
		case r.URL.Path == "/me":
			if r.Header.Get("Authorization") != "Bearer fb-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			assert.Equal(t, "id,name,email,picture", r.URL.Query().Get("fields"))
			w.Write([]byte(`{"id":"42","name":"Lan","email":"lan@example.com","picture":{"data":{"url":"https://cdn/lan.jpg"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	provider := auth.NewFacebookProviderWithEndpoint(
		config.OAuthProvider{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/callback"},
		oauth2.Endpoint{AuthURL: server.URL + "/dialog/oauth", TokenURL: server.URL + "/oauth/access_token"},
		server.URL+"/me",
	)

	t.Run("Auth URL carries state", func(t *testing.T) {
		authURL := provider.AuthCodeURL("xyz")
		assert.True(t, strings.HasPrefix(authURL, server.URL+"/dialog/oauth"))
		assert.Contains(t, authURL, "state=xyz")
	})

	t.Run("Success - Profile mapped to identity", func(t *testing.T) {
		identity, err := provider.Exchange(t.Context(), "code-123")

		require.NoError(t, err)
		assert.Equal(t, &models.Identity{
			Provider:   auth.ProviderFacebook,
			ProviderID: "42",
			Email:      "lan@example.com",
			Name:       "Lan",
			Image:      "https://cdn/lan.jpg",
		}, identity)
	})
}

func TestRegistry(t *testing.T) {
	fb := auth.NewFacebookProvider(config.OAuthProvider{ClientID: "id"})
	registry := auth.NewRegistry(fb, nil)

	p, err := registry.Get("facebook")
	require.NoError(t, err)
	assert.Equal(t, "facebook", p.Name())

	_, err = registry.Get("twitter")
	assert.ErrorIs(t, err, auth.ErrUnknownProvider)
}
