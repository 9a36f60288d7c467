package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"flock/internal/auth"
	"flock/internal/domain"
	"flock/internal/logger"
	"flock/internal/repository"
)

// AuthService handles registration and login.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	log      logger.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, log logger.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, log: log}
}

// RegisterInput contains the parameters for creating an account.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	PhoneNumber     string
	ProfilePhotoURL string
}

// AuthResult is a signed token with the account it belongs to.
type AuthResult struct {
	Token string
	User  *domain.User
}

// Register creates a rider account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.ProfilePhotoURL = strings.TrimSpace(in.ProfilePhotoURL)

	if in.Name == "" || in.Email == "" || in.Password == "" || in.PhoneNumber == "" || in.ProfilePhotoURL == "" {
		return nil, ErrRegistrationFieldsRequired
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Email:           in.Email,
		PasswordHash:    hash,
		PhoneNumber:     in.PhoneNumber,
		ProfilePhotoURL: in.ProfilePhotoURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", logger.String("user_id", user.ID))
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and signs a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrLoginFieldsRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
