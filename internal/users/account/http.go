// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BryanPineda21/HWSphere/internal/platform/middleware"
	requestutil "github.com/BryanPineda21/HWSphere/internal/platform/request"
	"github.com/BryanPineda21/HWSphere/internal/platform/respond"
)

// Handler exposes profiles over HTTP.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns the router mounted at /api/v1/users.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequireAuth).Patch("/me", handler.updateMe)
	router.Get("/{userID}", handler.getUser)

	return router
}

/*
GET /api/v1/users/{userID}

Response:
  - 200: Profile
  - 404: NOT_FOUND
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.accountService.GetUser(request.Context(), requestutil.Param(request, "userID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

type updateMeRequest struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
}

/*
PATCH /api/v1/users/me

Request:
  - Body: updateMeRequest (partial JSON)

Response:
  - 200: User
  - 400: VALIDATION_ERROR
  - 401: UNAUTHORIZED
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), claims.UserID, UpdateProfileInput{
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
