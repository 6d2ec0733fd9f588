// Package auth owns user identity: registration, password verification,
// session token issuance/verification, and resolving a token back to a user.
// Persistence is delegated to a UserRepository supplied at construction.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/andrew/ai-usage-monitor/internal/database"
	"github.com/andrew/ai-usage-monitor/internal/database/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserRepository is the minimal store contract the service needs. Lookups
// return (nil, nil) when no row matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Service is the credential and session manager.
type Service struct {
	users  UserRepository
	tokens *TokenManager
}

// NewService wires the service to its user store and token manager.
func NewService(users UserRepository, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates a user and returns the stored row (password hash
// stripped) plus a fresh session token. When name is empty it is derived
// from the email's local part.
func (s *Service) Register(ctx context.Context, email, password, name string) (*models.User, string, error) {
	if !emailPattern.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrStore, err)
	}
	if existing != nil {
		return nil, "", ErrDuplicateUser
	}

	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// The unique index is the last line of defense against two
		// registrations racing on the same email.
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, "", ErrDuplicateUser
		}
		return nil, "", fmt.Errorf("%w: %v", ErrStore, err)
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	return user.Sanitized(), token, nil
}

// Login verifies the email/password pair and mints a fresh token. A prior
// token's lifetime is never reused or extended.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrStore, err)
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	return user.Sanitized(), token, nil
}

// ResolveIdentity verifies a token and loads the user it names. A valid
// token whose user no longer exists yields (nil, nil): callers can tell
// "bad token" apart from "valid token, deleted user".
func (s *Service) ResolveIdentity(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if user == nil {
		return nil, nil
	}

	return user.Sanitized(), nil
}

// GetUser loads a user by id with the password hash stripped.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if user == nil {
		return nil, nil
	}
	return user.Sanitized(), nil
}
