// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BryanPineda21/HWSphere/internal/platform/validate"
	"github.com/BryanPineda21/HWSphere/internal/users/auth"
)

// Service implements profile reads and edits.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService creates a profile service over repository.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger.With(slog.String("component", "account")),
	}
}

/*
GetUser returns the public profile of any account.

Returns:
  - *auth.Profile: the profile without the email
  - error: NOT_FOUND or storage failures
*/
func (service *Service) GetUser(context context.Context, id string) (*auth.Profile, error) {
	user, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

/*
UpdateProfile applies a partial change to the account of userID.

Parameters:
  - userID: string (the authenticated caller)
  - input: UpdateProfileInput

Returns:
  - *auth.User: the updated account
  - error: VALIDATION_ERROR, NOT_FOUND or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.Required(auth.FieldDisplayName, *input.DisplayName).
			MaxLen(auth.FieldDisplayName, strings.TrimSpace(*input.DisplayName), auth.MaxDisplayNameLength)
	}
	if input.Bio != nil {
		validator.MaxLen(auth.FieldBio, *input.Bio, maxBioLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := service.repository.UpdateProfile(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_profile_updated", slog.String("user_id", userID))
	return user, nil
}
