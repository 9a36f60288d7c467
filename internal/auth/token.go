// Package auth issues bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"flock/internal/domain"
)

// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the user.
func (m *TokenManager) Issue(user *domain.User) (string, error) {
	now := m.now()
	claims := Claims{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the principal it carries.
func (m *TokenManager) Parse(tokenString string) (domain.Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid || claims.ID == "" {
		return domain.Principal{}, ErrInvalidToken
	}

	return domain.Principal{ID: claims.ID, Email: claims.Email, Name: claims.Name}, nil
}
