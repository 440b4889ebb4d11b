// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BryanPineda21/HWSphere/internal/api"
)

func healthy(context.Context) error { return nil }

/*
TestHealth verifies liveness and both readiness outcomes.
*/
func TestHealth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: healthy,
		CheckCache:    healthy,
	}, logger)

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "hwsphere-api")

	recorder = httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"ready"`)

	_, degraded := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: healthy,
		CheckCache:    func(context.Context) error { return errors.New("connection refused") },
	}, logger)

	recorder = httptest.NewRecorder()
	degraded(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "connection refused")
	assert.Contains(t, recorder.Body.String(), `"degraded"`)
}
