package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "flower-storefront"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrSigningKey   = errors.New("jwt signing key is empty")
)

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	key    []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenManager(key []byte, expiry time.Duration) *TokenManager {
	return &TokenManager{key: key, expiry: expiry, now: time.Now}
}

func (m *TokenManager) Expiry() time.Duration {
	return m.expiry
}

func (m *TokenManager) Issue(user *models.User) (string, time.Time, error) {
	if len(m.key) == 0 {
		return "", time.Time{}, ErrSigningKey
	}

	now := m.now()
	expiresAt := now.Add(m.expiry)

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}

	return signed, expiresAt, nil
}

func (m *TokenManager) Parse(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		// check the signing method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.key, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Role != models.RoleAdmin {
		claims.Role = models.RoleUser
	}

	return claims, nil
}
