// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/constants"
	"github.com/BryanPineda21/HWSphere/internal/platform/sec"
	"github.com/BryanPineda21/HWSphere/internal/users/auth"
)

/*
TestRegister_Defaults verifies hashing, trimming and the display name default.
*/
func TestRegister_Defaults(t *testing.T) {
	f := newFixture(t)

	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: "  maker ",
		Email:    "maker@hwsphere.test",
		Password: testPassword,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "maker", user.Username)
	assert.Equal(t, "maker", user.DisplayName)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash(testPassword, user.PasswordHash))
}

/*
TestRegister_Validation verifies field rules are reported together.
*/
func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input auth.RegisterInput
		field string
	}{
		{"short username", auth.RegisterInput{Username: "ab", Email: "a@b.co", Password: testPassword}, auth.FieldUsername},
		{"bad username", auth.RegisterInput{Username: "has space", Email: "a@b.co", Password: testPassword}, auth.FieldUsername},
		{"bad email", auth.RegisterInput{Username: "maker", Email: "nope", Password: testPassword}, auth.FieldEmail},
		{"short password", auth.RegisterInput{Username: "maker", Email: "a@b.co", Password: "short"}, auth.FieldPassword},
		{"long password", auth.RegisterInput{Username: "maker", Email: "a@b.co", Password: strings.Repeat("x", 73)}, auth.FieldPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.service.Register(context.Background(), tt.input)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)
			require.NotEmpty(t, appError.Details)
			assert.Equal(t, tt.field, appError.Details[0].Field)
		})
	}
}

/*
TestRegister_Conflict verifies usernames and emails are unique case-insensitively.
*/
func TestRegister_Conflict(t *testing.T) {
	f := newFixture(t)
	f.register(t, "maker")

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: "MAKER", Email: "other@hwsphere.test", Password: testPassword,
	})
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = f.service.Register(context.Background(), auth.RegisterInput{
		Username: "other", Email: "Maker@HWSphere.test", Password: testPassword,
	})
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestLogin_IssuesSession verifies a login by username or email yields a
verifiable access token and a stored refresh session.
*/
func TestLogin_IssuesSession(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "maker")

	for _, login := range []string{"maker", "maker@hwsphere.test"} {
		session, err := f.service.Login(context.Background(), auth.LoginInput{
			Login: login, Password: testPassword, UserAgent: "test", IPAddress: "10.0.0.1",
		})
		require.NoError(t, err)

		claims, err := f.tokens.VerifyToken(session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "maker", claims.Username)

		assert.NotEmpty(t, session.RefreshToken)
		assert.NotNil(t, session.User.LastLoginAt)
		assert.Equal(t, auth.RefreshTokenTTL, f.sessions.ttls[sec.HashToken(session.RefreshToken)])
	}
	assert.Equal(t, 2, f.sessions.count())
	assert.Contains(t, f.users.touched, user.ID)
}

/*
TestLogin_InvalidCredentials verifies unknown users and wrong passwords
fail alike and count toward the throttle.
*/
func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.register(t, "maker")

	_, err := f.service.Login(context.Background(), auth.LoginInput{Login: "maker", Password: "wrong-password"})
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	_, err = f.service.Login(context.Background(), auth.LoginInput{Login: "ghost", Password: testPassword})
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	assert.Equal(t, int64(1), f.throttle.failures["maker"])
	assert.Equal(t, int64(1), f.throttle.failures["ghost"])
	assert.Zero(t, f.sessions.count())
}

/*
TestLogin_Throttled verifies the lock after repeated failures and the
reset after a success.
*/
func TestLogin_Throttled(t *testing.T) {
	f := newFixture(t)
	f.register(t, "maker")

	for range constants.LoginMaxAttempts {
		_, err := f.service.Login(context.Background(), auth.LoginInput{Login: "maker", Password: "wrong-password"})
		require.Error(t, err)
	}

	_, err := f.service.Login(context.Background(), auth.LoginInput{Login: "Maker", Password: testPassword})
	assert.Equal(t, "RATE_LIMITED", apperr.As(err).Code)

	f.throttle.failures["maker"] = constants.LoginMaxAttempts - 1
	_, err = f.service.Login(context.Background(), auth.LoginInput{Login: "maker", Password: testPassword})
	require.NoError(t, err)
	assert.NotContains(t, f.throttle.failures, "maker")
}

/*
TestLogin_ThrottleOutage verifies logins still work when the counter store fails.
*/
func TestLogin_ThrottleOutage(t *testing.T) {
	f := newFixture(t)
	f.register(t, "maker")
	f.throttle.broken = true

	_, err := f.service.Login(context.Background(), auth.LoginInput{Login: "maker", Password: testPassword})
	assert.NoError(t, err)
}

/*
TestRefresh_Rotates verifies a refresh token is redeemable exactly once.
*/
func TestRefresh_Rotates(t *testing.T) {
	f := newFixture(t)
	f.register(t, "maker")

	first, err := f.service.Login(context.Background(), auth.LoginInput{Login: "maker", Password: testPassword})
	require.NoError(t, err)

	second, err := f.service.Refresh(context.Background(), first.RefreshToken, "test", "10.0.0.2")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, 1, f.sessions.count())

	_, err = f.service.Refresh(context.Background(), first.RefreshToken, "test", "10.0.0.2")
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestRefresh_DeletedAccount verifies sessions of removed accounts are refused.
*/
func TestRefresh_DeletedAccount(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "maker")

	session, err := f.service.Login(context.Background(), auth.LoginInput{Login: "maker", Password: testPassword})
	require.NoError(t, err)
	f.users.remove(user.ID)

	_, err = f.service.Refresh(context.Background(), session.RefreshToken, "", "")
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestLogout verifies the session is removed and a repeat is harmless.
*/
func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.register(t, "maker")

	session, err := f.service.Login(context.Background(), auth.LoginInput{Login: "maker", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, f.service.Logout(context.Background(), session.RefreshToken))
	assert.Zero(t, f.sessions.count())

	_, err = f.service.Refresh(context.Background(), session.RefreshToken, "", "")
	assert.Error(t, err)
}
