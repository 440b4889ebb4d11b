// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/respond"
)

/*
TestError_AppError verifies status, code and details reach the envelope.
*/
func TestError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	respond.Error(rec, req, apperr.ValidationError("Validation failed", apperr.FieldError{Field: "title", Message: "required"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "title", body.Details[0].Field)
}

/*
TestError_Plain verifies unknown errors are hidden behind a 500.
*/
func TestError_Plain(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: secret detail"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

/*
TestOK_Envelope verifies the data wrapper.
*/
func TestOK_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.OK(rec, map[string]int{"count": 2})

	assert.JSONEq(t, `{"data":{"count":2}}`, rec.Body.String())
}
