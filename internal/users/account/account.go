// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

/*
Package account serves user profiles.

Anyone can read the public [auth.Profile] of a member; the owner of an
account may edit its display name and bio. Usernames are immutable because
project rows carry them as the denormalized author.
*/
package account

import (
	"context"

	"github.com/BryanPineda21/HWSphere/internal/users/auth"
)

// # Repository Contracts

// Repository is the slice of [auth.UserRepository] profiles need.
type Repository interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	UpdateProfile(context context.Context, user *auth.User) error
}

// UpdateProfileInput is a partial profile change; nil fields are kept.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
}

const maxBioLength = 500
