// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

/*
Package auth implements HWSphere accounts and sessions.

It owns registration, credential checks, RS256 access tokens and the
rotating refresh sessions kept in Redis.

# Architecture

  - Entities: [User] rows in users.account, [Session] values in Redis.
  - Tokens: access tokens are stateless JWTs; refresh tokens are opaque and
    stored only as their SHA-256 hash.
  - Throttling: failed logins are counted per login name in Redis.
*/
package auth

import "time"

// # Domain Entities

// User is a registered HWSphere member.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"displayName"`
	Bio          string     `json:"bio"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Profile is the public view of a [User]; it never carries the email.
type Profile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Bio         string    `json:"bio"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Profile returns the public projection of the user.
func (user *User) Profile() Profile {
	return Profile{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		CreatedAt:   user.CreatedAt,
	}
}

// Session is one refresh session. It is keyed by the hash of its token.
type Session struct {
	UserID    string    `json:"userId"`
	TokenHash string    `json:"-"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// # Field Identifiers

const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "displayName"
	FieldBio         = "bio"
	FieldLogin       = "login"
	FieldAccessToken = "accessToken"
	FieldTokenType   = "tokenType"
	FieldExpiresIn   = "expiresIn"
	FieldUser        = "user"
)
