// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/constants"
	"github.com/BryanPineda21/HWSphere/internal/platform/sec"
	"github.com/BryanPineda21/HWSphere/internal/platform/validate"
	"github.com/BryanPineda21/HWSphere/pkg/uuid"
)

// errInvalidCredentials is shared by every login failure so usernames cannot be probed.
var errInvalidCredentials = apperr.Unauthorized("Invalid login credentials")

// Service implements the account and session lifecycle.
type Service struct {
	users    UserRepository
	sessions SessionStore
	throttle LoginThrottle
	tokens   TokenIssuer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the auth service.
func NewService(users UserRepository, sessions SessionStore, throttle LoginThrottle, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		throttle: throttle,
		tokens:   tokens,
		logger:   logger.With(slog.String("component", "auth")),
		now:      time.Now,
	}
}

// # Registration

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

/*
Register creates a new account.

Description: Validates the input, rejects usernames and emails already in
use (case-insensitively) and stores a bcrypt hash of the password.

Returns:
  - *User: the stored account
  - error: VALIDATION_ERROR, CONFLICT or storage failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.DisplayName = strings.TrimSpace(input.DisplayName)

	validator := &validate.Validator{}
	validator.Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > MaxPasswordLength, fmt.Sprintf("Maximum %d bytes", MaxPasswordLength)).
		MaxLen(FieldDisplayName, input.DisplayName, MaxDisplayNameLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureAvailable(context, input.Username, input.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
	}
	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_registered", slog.String("user_id", user.ID))
	return user, nil
}

func (service *Service) ensureAvailable(context context.Context, username, email string) error {
	if _, err := service.users.FindByUsername(context, username); err == nil {
		return apperr.Conflict("Username is already taken")
	} else if !apperr.IsNotFound(err) {
		return err
	}

	if _, err := service.users.FindByEmail(context, email); err == nil {
		return apperr.Conflict("Email is already registered")
	} else if !apperr.IsNotFound(err) {
		return err
	}
	return nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login     string // username or email
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession is the credential pair handed to a client.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login checks credentials and opens a refresh session.

Description: After [constants.LoginMaxAttempts] failures inside
[constants.LoginAttemptWindow] the login name is locked until the window
ends. A throttle outage does not block logins.

Returns:
  - *LoginSession: access token, refresh token and the user
  - error: UNAUTHORIZED, RATE_LIMITED or storage failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	failures, err := service.throttle.Failures(context, input.Login)
	if err != nil {
		service.logger.WarnContext(context, "login_throttle_unavailable", slog.Any("error", err))
	}
	if failures >= constants.LoginMaxAttempts {
		return nil, apperr.RateLimited(int(constants.LoginAttemptWindow / time.Second))
	}

	user, err := service.findByLogin(context, input.Login)
	if err != nil {
		if apperr.IsNotFound(err) {
			service.recordFailure(context, input.Login)
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordFailure(context, input.Login)
		return nil, errInvalidCredentials
	}

	if err := service.throttle.Reset(context, input.Login); err != nil {
		service.logger.WarnContext(context, "login_throttle_reset_failed", slog.Any("error", err))
	}

	now := service.now()
	if err := service.users.TouchLastLogin(context, user.ID, now); err != nil {
		service.logger.WarnContext(context, "last_login_update_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	} else {
		user.LastLoginAt = &now
	}

	session, err := service.issue(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))
	return session, nil
}

/*
Refresh redeems a refresh token for a new credential pair.

Description: The old session is consumed before the new one is written, so
a replayed token fails with UNAUTHORIZED.
*/
func (service *Service) Refresh(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	session, err := service.sessions.Take(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}

	user, err := service.users.FindByID(context, session.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	return service.issue(context, user, userAgent, ipAddress)
}

// Logout ends the session of refreshToken. It is idempotent.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if err := service.sessions.Delete(context, sec.HashToken(refreshToken)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// Me returns the full account of the authenticated user.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.users.FindByID(context, userID)
}

// # Helpers

func (service *Service) findByLogin(context context.Context, login string) (*User, error) {
	login = strings.TrimSpace(login)
	if strings.Contains(login, "@") {
		return service.users.FindByEmail(context, login)
	}
	return service.users.FindByUsername(context, login)
}

func (service *Service) recordFailure(context context.Context, login string) {
	count, err := service.throttle.RecordFailure(context, login, constants.LoginAttemptWindow)
	if err != nil {
		service.logger.WarnContext(context, "login_throttle_record_failed", slog.Any("error", err))
		return
	}
	if count == constants.LoginMaxAttempts {
		service.logger.WarnContext(context, "login_locked", slog.Int64("failures", count))
	}
}

func (service *Service) issue(context context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Username, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := service.now()
	session := &Session{
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(RefreshTokenTTL),
	}
	if err := service.sessions.Create(context, session, RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
		User:                  user,
	}, nil
}
