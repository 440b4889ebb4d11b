// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package auth

import (
	"context"
	"time"
)

// # Repository Contracts

// UserRepository persists accounts in users.account.
type UserRepository interface {
	/*
		Create inserts a new account and fills its timestamps.

		Returns:
		  - error: CONFLICT when the username or email is taken
	*/
	Create(context context.Context, user *User) error

	// FindByID returns the account or NOT_FOUND.
	FindByID(context context.Context, id string) (*User, error)

	// FindByUsername matches case-insensitively.
	FindByUsername(context context.Context, username string) (*User, error)

	// FindByEmail matches case-insensitively.
	FindByEmail(context context.Context, email string) (*User, error)

	// UpdateProfile writes DisplayName and Bio and refreshes UpdatedAt.
	UpdateProfile(context context.Context, user *User) error

	// TouchLastLogin stamps a successful login.
	TouchLastLogin(context context.Context, id string, at time.Time) error
}

// SessionStore keeps refresh sessions until they expire.
type SessionStore interface {
	// Create stores session under its TokenHash for ttl.
	Create(context context.Context, session *Session, ttl time.Duration) error

	/*
		Take atomically reads and removes the session for tokenHash, so a
		refresh token can be redeemed once.

		Returns:
		  - error: NOT_FOUND when the token is unknown or expired
	*/
	Take(context context.Context, tokenHash string) (*Session, error)

	// Delete removes the session. Unknown hashes are not an error.
	Delete(context context.Context, tokenHash string) error
}

// LoginThrottle counts failed logins per login name inside a window.
type LoginThrottle interface {
	Failures(context context.Context, login string) (int64, error)
	RecordFailure(context context.Context, login string, window time.Duration) (int64, error)
	Reset(context context.Context, login string) error
}

// TokenIssuer signs access tokens. [*sec.TokenService] satisfies it.
type TokenIssuer interface {
	GenerateAccessToken(userID, username string, timeToLive time.Duration) (string, error)
}
