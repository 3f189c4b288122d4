package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	stateSessionName = "oauth_state"
	stateMaxAge      = 10 * 60
)

var ErrStateMismatch = errors.New("oauth state mismatch")

// StateStore keeps the OAuth anti-forgery state in a signed, short-lived
// cookie between the redirect and the callback.
type StateStore struct {
	store *sessions.CookieStore
}

func NewStateStore(secret []byte, secure bool) *StateStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   stateMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &StateStore{store: store}
}

// Begin generates a state value for provider and stores it in the cookie.
func (s *StateStore) Begin(w http.ResponseWriter, r *http.Request, provider string) (string, error) {
	state := base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(32))

	// a stale or tampered cookie just yields a fresh session
	session, _ := s.store.Get(r, stateSessionName)
	session.Values["state"] = state
	session.Values["provider"] = provider

	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("saving oauth state: %w", err)
	}

	return state, nil
}

// Verify checks the callback state and consumes the cookie.
func (s *StateStore) Verify(w http.ResponseWriter, r *http.Request, provider, state string) error {
	session, err := s.store.Get(r, stateSessionName)
	if err != nil {
		return ErrStateMismatch
	}

	expected, _ := session.Values["state"].(string)
	storedProvider, _ := session.Values["provider"].(string)

	session.Options.MaxAge = -1
	_ = session.Save(r, w)

	if expected == "" || storedProvider != provider ||
		subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		return ErrStateMismatch
	}

	return nil
}
