// Package users implements the account service: registration, login, profile
// read, password change and account deletion over the credential store.
package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nexcart/authd/internal/common"
	"github.com/nexcart/authd/internal/logging"
	"github.com/nexcart/authd/internal/server/auth"
	"github.com/nexcart/authd/internal/server/config"
	"github.com/nexcart/authd/internal/server/password"
)

// ErrOldPasswordIncorrect reports a password change attempted with a wrong
// current password.
var ErrOldPasswordIncorrect = errors.New("old password is incorrect")

type Service struct {
	repo                Repository
	logger              logging.Logger
	jwtSecret           []byte
	signupTokenValidity time.Duration
	loginTokenValidity  time.Duration
}

func NewService(repo Repository, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:                repo,
		logger:              logger.With("module", "users_service"),
		jwtSecret:           []byte(cfg.SecretKey),
		signupTokenValidity: cfg.SignupTokenValidityDuration,
		loginTokenValidity:  cfg.LoginTokenValidityDuration,
	}
}

// Register validates the input, creates the user record and issues a signup
// token bound to the new id. A taken email is reported as
// common.ErrorAlreadyExists; unexpected store failures are logged and come
// back as common.ErrorInternal.
func (s *Service) Register(ctx context.Context, username, email, rawPassword string) (string, error) {

	if err := validateUsername(username); err != nil {
		return "", err
	}
	if err := validateEmail(email); err != nil {
		return "", err
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return "", common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "registration lookup failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	if !passwordMeetsPolicy(rawPassword) {
		return "", &ValidationError{Message: msgPasswordPolicy}
	}

	hash, err := password.Hash(rawPassword)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if _, err := s.repo.Create(ctx, user); err != nil {
		// The unique constraint closes the lookup/insert race window.
		if errors.Is(err, common.ErrorAlreadyExists) {
			return "", common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "user creation failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.signupTokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	return token, nil
}

// Login checks the credentials and issues a login token. Both the unknown
// email and the wrong password come back as 400-level errors, never 404.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, error) {

	if email == "" {
		return "", &ValidationError{Message: msgEmailRequired}
	}
	if rawPassword == "" {
		return "", &ValidationError{Message: msgPasswordRequired}
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		s.logger.Error(ctx, "login lookup failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	if err := password.Compare(rawPassword, user.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return "", common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "password comparison failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.loginTokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	return token, nil
}

// GetProfile returns the username/email projection for the authenticated
// subject. The record may be gone if the account was deleted after the token
// was issued; that is common.ErrorNotFound.
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "profile lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &Profile{Username: user.Username, Email: user.Email}, nil
}

// ChangePassword verifies the old password, validates the new one against the
// signup policy and persists the new hash. Tokens issued earlier stay valid
// until their natural expiry.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {

	if oldPassword == "" || newPassword == "" {
		return &ValidationError{Message: msgBothPasswords}
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "password change lookup failed", "error", err.Error())
		return common.ErrorInternal
	}

	if err := password.Compare(oldPassword, user.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return ErrOldPasswordIncorrect
		}
		s.logger.Error(ctx, "password comparison failed", "error", err.Error())
		return common.ErrorInternal
	}

	if !passwordMeetsPolicy(newPassword) {
		return &ValidationError{Message: msgNewPasswordPolicy}
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return common.ErrorInternal
	}

	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "password update failed", "error", err.Error())
		return common.ErrorInternal
	}

	return nil
}

// DeleteAccount removes the record of the authenticated subject.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {

	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "account deletion failed", "error", err.Error())
		return common.ErrorInternal
	}

	return nil
}
