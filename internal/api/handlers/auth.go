package handlers

import (
	stdErrors "errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/auth"
	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/models"
	service "github.com/chucuoi/flower-storefront/internal/services"
	"github.com/chucuoi/flower-storefront/internal/utils/response"
)

// SessionInfo is the signed-in user as the session token describes it.
type SessionInfo struct {
	Claims *models.Claims `json:"claims"`
	User   *models.User   `json:"user"`
}

type AuthHandler struct {
	providers    auth.Registry
	states       *auth.StateStore
	authService  service.AuthService
	cookieSecure bool
	successURL   string
}

func NewAuthHandler(providers auth.Registry, states *auth.StateStore, authService service.AuthService, cookieSecure bool, successURL string) *AuthHandler {
	return &AuthHandler{
		providers:    providers,
		states:       states,
		authService:  authService,
		cookieSecure: cookieSecure,
		successURL:   successURL,
	}
}

func (h *AuthHandler) provider(r *http.Request) (auth.Provider, error) {
	p, err := h.providers.Get(strings.ToLower(r.PathValue("provider")))
	if err != nil {
		return nil, errors.NotFoundError("Unknown identity provider").WithError(err)
	}

	return p, nil
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, expires time.Time, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// StartSignIn godoc
//
//	@Summary		Start an OAuth sign-in
//	@Description	Redirects to the identity provider with a fresh anti-forgery state.
//	@Tags			Auth
//	@Param			provider	path	string	true	"Identity provider"	Enums(facebook, google)
//	@Success		302
//	@Failure		404	{object}	response.APIResponse	"Unknown identity provider"
//	@Failure		429	{object}	response.APIResponse	"Too many requests"
//	@Router			/auth/{provider}/start [get]
func (h *AuthHandler) StartSignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		p, err := h.provider(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		state, err := h.states.Begin(w, r, p.Name())
		if err != nil {
			logger.Error("Failed to store oauth state", slog.String("error", err.Error()))
			response.Error(w, errors.InternalError("Failed to start sign-in").WithError(err))
			return
		}

		http.Redirect(w, r, p.AuthCodeURL(state), http.StatusFound)
	}
}

// Callback godoc
//
//	@Summary		Finish an OAuth sign-in
//	@Description	Verifies the state, exchanges the code and sets the session cookie. Clients asking for JSON get the session in the body, browsers are redirected.
//	@Tags			Auth
//	@Produce		json
//	@Param			provider	path		string	true	"Identity provider"	Enums(facebook, google)
//	@Param			code		query		string	true	"Authorization code"
//	@Param			state		query		string	true	"Anti-forgery state"
//	@Success		200			{object}	response.APIResponse{data=models.SessionResponse}
//	@Success		302
//	@Failure		400			{object}	response.APIResponse	"Invalid state or missing code"
//	@Failure		401			{object}	response.APIResponse	"Sign-in was cancelled"
//	@Failure		404			{object}	response.APIResponse	"Unknown identity provider"
//	@Failure		500			{object}	response.APIResponse	"Provider exchange failed"
//	@Router			/auth/{provider}/callback [get]
func (h *AuthHandler) Callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		p, err := h.provider(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("provider", p.Name()))
		query := r.URL.Query()

		if reason := query.Get("error"); reason != "" {
			logger.Info("Sign-in cancelled at provider", slog.String("reason", reason))
			response.Error(w, errors.UnauthorizedError("Sign-in was cancelled").WithDetail(query.Get("error_description")))
			return
		}

		if err := h.states.Verify(w, r, p.Name(), query.Get("state")); err != nil {
			logger.Warn("OAuth state rejected", slog.String("error", err.Error()))
			if stdErrors.Is(err, auth.ErrStateMismatch) {
				response.Error(w, errors.BadRequestError("Invalid OAuth state").WithError(err))
				return
			}
			response.Error(w, err)
			return
		}

		code := query.Get("code")
		if code == "" {
			response.Error(w, errors.BadRequestError("Authorization code is required"))
			return
		}

		identity, err := p.Exchange(r.Context(), code)
		if err != nil {
			logger.Error("Provider exchange failed", slog.String("error", err.Error()))
			response.Error(w, errors.ThirdPartyError("Failed to sign in with "+p.Name()).WithError(err))
			return
		}

		session, err := h.authService.SignIn(r.Context(), identity)
		if err != nil {
			response.Error(w, err)
			return
		}

		h.setSessionCookie(w, session.Token, session.ExpiresAt, int(time.Until(session.ExpiresAt).Seconds()))

		if wantsJSON(r) {
			response.Success(w, http.StatusOK, session)
			return
		}

		http.Redirect(w, r, h.successURL, http.StatusFound)
	}
}

// Session godoc
//
//	@Summary		Current session
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=SessionInfo}
//	@Failure		401	{object}	response.APIResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/auth/session [get]
func (h *AuthHandler) Session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		user, err := h.authService.GetUser(r.Context(), claims.UserID)
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeNotFound) {
				response.Error(w, errors.UnauthorizedError("Session user no longer exists"))
				return
			}
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, SessionInfo{Claims: claims, User: user})
	}
}

// Logout godoc
//
//	@Summary		Sign out
//	@Description	Clears the session cookie. Bearer tokens stay valid until they expire.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	response.APIResponse
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		h.setSessionCookie(w, "", time.Unix(0, 0), -1)

		response.SuccessWithMessage(w, http.StatusOK, nil, "Signed out")
	}
}
