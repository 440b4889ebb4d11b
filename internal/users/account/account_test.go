// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package account_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/ctxutil"
	"github.com/BryanPineda21/HWSphere/internal/platform/sec"
	"github.com/BryanPineda21/HWSphere/internal/users/account"
	"github.com/BryanPineda21/HWSphere/internal/users/auth"
)

type memoryRepository struct {
	users   map[string]*auth.User
	updates int
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *memoryRepository) UpdateProfile(_ context.Context, user *auth.User) error {
	repo.updates++
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func newService() (*account.Service, *memoryRepository) {
	repo := &memoryRepository{users: map[string]*auth.User{
		"user-1": {ID: "user-1", Username: "maker", Email: "maker@hwsphere.test", DisplayName: "maker"},
	}}
	return account.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

/*
TestGetUser verifies the public profile omits the email.
*/
func TestGetUser(t *testing.T) {
	service, _ := newService()

	profile, err := service.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "maker", profile.Username)

	_, err = service.GetUser(context.Background(), "missing")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestUpdateProfile verifies partial updates and validation.
*/
func TestUpdateProfile(t *testing.T) {
	service, repo := newService()
	name := "  The Maker "
	bio := "Prints things"

	user, err := service.UpdateProfile(context.Background(), "user-1", account.UpdateProfileInput{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "The Maker", user.DisplayName)

	user, err = service.UpdateProfile(context.Background(), "user-1", account.UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "The Maker", user.DisplayName)
	assert.Equal(t, "Prints things", user.Bio)

	blank := " "
	long := strings.Repeat("x", 501)
	_, err = service.UpdateProfile(context.Background(), "user-1", account.UpdateProfileInput{DisplayName: &blank, Bio: &long})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Len(t, appError.Details, 2)
	assert.Equal(t, 2, repo.updates)
}

/*
TestHandler verifies the public read and the authenticated edit.
*/
func TestHandler(t *testing.T) {
	service, _ := newService()
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Header.Get("X-Test-User") != "" {
				claims := &sec.AuthClaims{UserID: request.Header.Get("X-Test-User")}
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
			}
			next.ServeHTTP(writer, request)
		})
	})
	router.Mount("/users", account.NewHandler(service).Routes())

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/users/user-1", nil))
	assert.Equal(t, http.StatusOK, get.Code)
	assert.NotContains(t, get.Body.String(), "maker@hwsphere.test")

	anonymous := httptest.NewRecorder()
	router.ServeHTTP(anonymous, httptest.NewRequest(http.MethodPatch, "/users/me", bytes.NewBufferString(`{"bio":"x"}`)))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	request := httptest.NewRequest(http.MethodPatch, "/users/me", bytes.NewBufferString(`{"bio":"hello"}`))
	request.Header.Set("X-Test-User", "user-1")
	patch := httptest.NewRecorder()
	router.ServeHTTP(patch, request)
	assert.Equal(t, http.StatusOK, patch.Code)
	assert.Contains(t, patch.Body.String(), "hello")
}
