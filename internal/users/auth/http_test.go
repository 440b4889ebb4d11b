// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryanPineda21/HWSphere/internal/platform/constants"
	"github.com/BryanPineda21/HWSphere/internal/platform/middleware"
	"github.com/BryanPineda21/HWSphere/internal/users/auth"
)

func newRouter(f *fixture) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(f.tokens))
	router.Mount("/auth", auth.NewHandler(f.service).Routes())
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func refreshCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.RefreshTokenCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", constants.RefreshTokenCookieName)
	return nil
}

type sessionResponse struct {
	Data struct {
		AccessToken string    `json:"accessToken"`
		TokenType   string    `json:"tokenType"`
		ExpiresIn   int       `json:"expiresIn"`
		User        auth.User `json:"user"`
	} `json:"data"`
}

/*
TestHandler_RegisterLoginMe walks the full happy path over HTTP.
*/
func TestHandler_RegisterLoginMe(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	recorder := postJSON(t, router, "/auth/register", map[string]string{
		"username": "maker", "email": "maker@hwsphere.test", "password": testPassword,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "passwordHash")

	recorder = postJSON(t, router, "/auth/login", map[string]string{"login": "maker", "password": testPassword})
	require.Equal(t, http.StatusOK, recorder.Code)

	var body sessionResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "Bearer", body.Data.TokenType)
	assert.Equal(t, 900, body.Data.ExpiresIn)
	assert.Equal(t, "maker", body.Data.User.Username)

	cookie := refreshCookie(t, recorder)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, constants.RefreshTokenCookiePath, cookie.Path)

	request := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	request.Header.Set("Authorization", "Bearer "+body.Data.AccessToken)
	me := httptest.NewRecorder()
	router.ServeHTTP(me, request)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "maker@hwsphere.test")
}

/*
TestHandler_MeRequiresAuth verifies anonymous requests are rejected.
*/
func TestHandler_MeRequiresAuth(t *testing.T) {
	router := newRouter(newFixture(t))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_LoginValidation verifies missing fields and bad JSON return 400.
*/
func TestHandler_LoginValidation(t *testing.T) {
	router := newRouter(newFixture(t))

	recorder := postJSON(t, router, "/auth/login", map[string]string{"login": "maker"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	request := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
	bad := httptest.NewRecorder()
	router.ServeHTTP(bad, request)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

/*
TestHandler_RefreshAndLogout verifies cookie rotation, replay rejection and logout.
*/
func TestHandler_RefreshAndLogout(t *testing.T) {
	f := newFixture(t)
	f.register(t, "maker")
	router := newRouter(f)

	login := postJSON(t, router, "/auth/login", map[string]string{"login": "maker", "password": testPassword})
	require.Equal(t, http.StatusOK, login.Code)
	first := refreshCookie(t, login)

	refreshed := postJSON(t, router, "/auth/refresh", nil, first)
	require.Equal(t, http.StatusOK, refreshed.Code)
	second := refreshCookie(t, refreshed)
	assert.NotEqual(t, first.Value, second.Value)

	replay := postJSON(t, router, "/auth/refresh", nil, first)
	assert.Equal(t, http.StatusUnauthorized, replay.Code)

	logout := postJSON(t, router, "/auth/logout", nil, second)
	assert.Equal(t, http.StatusNoContent, logout.Code)
	assert.Equal(t, -1, refreshCookie(t, logout).MaxAge)
	assert.Zero(t, f.sessions.count())

	missing := postJSON(t, router, "/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
}
