package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/utils/response"
)

// SessionCookieName holds the session token for browser clients.
const SessionCookieName = "session_token"

type userContextKey struct{}

var UserContextKey = userContextKey{}

type TokenParser interface {
	Parse(token string) (*models.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenParser
}

func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// tokenFromRequest prefers the Authorization header over the cookie.
func tokenFromRequest(r *http.Request) (string, *errors.AppError) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		// Token is of format : "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return "", errors.UnauthorizedError("Invalid authorization format")
		}

		return tokenParts[1], nil
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", errors.UnauthorizedError("Authentication required")
}

func (m *AuthMiddleware) resolve(r *http.Request) (*models.Claims, *errors.AppError) {
	tokenString, appErr := tokenFromRequest(r)
	if appErr != nil {
		return nil, appErr
	}

	claims, err := m.tokens.Parse(tokenString)
	if err != nil {
		return nil, errors.UnauthorizedError("Invalid or expired token").WithError(err)
	}

	return claims, nil
}

func withClaims(r *http.Request, claims *models.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), UserContextKey, claims)

	requestScopedLogger := LoggerFromContext(ctx).With(
		slog.String("userId", claims.UserID.String()),
		slog.String("role", claims.Role),
	)

	return r.WithContext(WithLogger(ctx, requestScopedLogger))
}

// Authenticate rejects requests without a valid session.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		claims, appErr := m.resolve(r)
		if appErr != nil {
			logger.Warn("Authentication failed", slog.String("reason", appErr.Message))
			response.Error(w, appErr)
			return
		}

		next.ServeHTTP(w, withClaims(r, claims))
	}
}

// OptionalAuth attaches the session when one is present and valid and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, appErr := m.resolve(r)
		if appErr != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, withClaims(r, claims))
	}
}

// RequireAdmin authenticates and then checks the admin role.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.HandlerFunc {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		if !claims.IsAdmin() {
			LoggerFromContext(r.Context()).Warn("Admin role required")
			response.Error(w, errors.ForbiddenError("Admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	}))
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)

	return claims, ok
}
