// Package services contains the server-side business logic on top of the
// repositories and the token subsystem.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangvinij/user-management-micro-service/internal/common"
	"github.com/sangvinij/user-management-micro-service/internal/logging"
	"github.com/sangvinij/user-management-micro-service/internal/server/auth"
	"github.com/sangvinij/user-management-micro-service/internal/server/models"
	"github.com/sangvinij/user-management-micro-service/internal/server/repositories/users"
)

// AuthService handles signup, login, token refresh and password reset.
type AuthService struct {
	users        users.Repository
	tokens       *auth.Service
	hasher       auth.Hasher
	resets       *auth.PasswordResetStore
	notifier     Notifier
	resetURLBase string
	logger       logging.Logger
}

// NewAuthService wires an AuthService from its collaborators.
func NewAuthService(
	repo users.Repository,
	tokens *auth.Service,
	hasher auth.Hasher,
	resets *auth.PasswordResetStore,
	notifier Notifier,
	resetURLBase string,
	logger logging.Logger,
) *AuthService {
	return &AuthService{
		users:        repo,
		tokens:       tokens,
		hasher:       hasher,
		resets:       resets,
		notifier:     notifier,
		resetURLBase: resetURLBase,
		logger:       logger.With("module", "auth_service"),
	}
}

// SignupParams carries the fields accepted at registration.
type SignupParams struct {
	Name        string
	Surname     string
	Username    string
	Password    string
	PhoneNumber string
	Email       string
	IsBlocked   bool
	RoleName    models.Role
	GroupID     int64
}

// Signup hashes the password and creates the account. An empty role
// defaults to USER.
func (s *AuthService) Signup(ctx context.Context, params SignupParams) (*models.User, error) {
	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	role := params.RoleName
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:         params.Name,
		Surname:      params.Surname,
		Username:     params.Username,
		PasswordHash: hash,
		PhoneNumber:  params.PhoneNumber,
		Email:        params.Email,
		IsBlocked:    params.IsBlocked,
		RoleName:     role,
		GroupID:      params.GroupID,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		// A nonexistent group or role surfaces as not-found, not as an
		// internal error.
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// Login verifies credentials against the stored hash and mints a token
// pair. The login string may be a username, phone number or email. A
// missing user and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, login, password string) (*auth.TokenPair, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	if user.IsBlocked {
		return nil, common.ErrUserBlocked
	}

	return s.tokens.CreatePair(user.ID, string(user.RoleName), user.GroupID)
}

// Refresh rotates a refresh token into a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	return s.tokens.Refresh(ctx, refreshToken)
}

// RequestPasswordReset mints a single-use reset token and hands the reset
// URL to the notifier. An unknown email is not an error: the response must
// not reveal whether an account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByLogin(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "password reset for unknown email", "email", email)
			return nil
		}
		return common.ErrorInternal
	}

	token, err := s.resets.Create(ctx, user.ID)
	if err != nil {
		return common.ErrorInternal
	}

	resetURL := fmt.Sprintf("%s?token=%s", s.resetURLBase, token)
	return s.notifier.SendPasswordResetURL(ctx, user.Email, resetURL)
}

// ConfirmPasswordReset redeems a reset token and stores the new password
// hash.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, password, passwordRetype string) error {
	if password != passwordRetype {
		return common.ErrPasswordMismatch
	}

	userID, err := s.resets.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrMalformedToken) {
			return common.ErrMalformedToken
		}
		return common.ErrorInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return common.ErrorInternal
	}

	return s.users.UpdatePassword(ctx, userID, hash)
}
