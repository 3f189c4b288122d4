package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/models"
	repository "github.com/chucuoi/flower-storefront/internal/repositories"
	"github.com/google/uuid"
)

// TokenIssuer signs session tokens for a user.
type TokenIssuer interface {
	Issue(user *models.User) (string, time.Time, error)
}

type AuthService interface {
	SignIn(ctx context.Context, identity *models.Identity) (*models.SessionResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type authService struct {
	repo        repository.UserRepository
	tokens      TokenIssuer
	adminEmails map[string]bool
}

func NewAuthService(repo repository.UserRepository, tokens TokenIssuer, adminEmails []string) AuthService {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		if email = normalizeEmail(email); email != "" {
			admins[email] = true
		}
	}

	return &authService{repo: repo, tokens: tokens, adminEmails: admins}
}

// SignIn upserts the user behind a provider identity and issues a session.
// Emails on the admin list are promoted; everyone else keeps their stored
// role.
func (s *authService) SignIn(ctx context.Context, identity *models.Identity) (*models.SessionResponse, error) {
	logger := middleware.LoggerFromContext(ctx)

	email := normalizeEmail(identity.Email)
	if email == "" {
		return nil, errors.BadRequestError("Email permission is required").
			WithDetail("The identity provider did not share an email address")
	}

	user := &models.User{
		Email:      email,
		Name:       identity.Name,
		Image:      identity.Image,
		Provider:   identity.Provider,
		ProviderID: identity.ProviderID,
		Role:       models.RoleUser,
	}

	if s.adminEmails[email] {
		user.Role = models.RoleAdmin
	}

	if err := s.repo.UpsertUser(ctx, user); err != nil {
		return nil, errors.DatabaseError("Failed to sign in").WithError(err)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, errors.InternalError("Failed to issue session").WithError(err)
	}

	logger.Info("User signed in",
		slog.String("userId", user.ID.String()),
		slog.String("provider", user.Provider),
		slog.String("role", user.Role),
	)

	return &models.SessionResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("User not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to get user").WithError(err)
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
