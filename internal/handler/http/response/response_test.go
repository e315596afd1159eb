package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSuccess_WrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"id": "u1"})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.Equal(t, map[string]interface{}{"id": "u1"}, env.Data)
}

func TestErrorHelpers_CodeAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		send   func(rec *httptest.ResponseRecorder)
		status int
		code   string
	}{
		{"bad request", func(rec *httptest.ResponseRecorder) { BadRequest(rec, "nope", nil) }, 400, "BAD_REQUEST"},
		{"unauthorized", func(rec *httptest.ResponseRecorder) { Unauthorized(rec, "nope") }, 401, "UNAUTHORIZED"},
		{"forbidden", func(rec *httptest.ResponseRecorder) { Forbidden(rec, "nope") }, 403, "FORBIDDEN"},
		{"not found", func(rec *httptest.ResponseRecorder) { NotFound(rec, "nope") }, 404, "NOT_FOUND"},
		{"conflict", func(rec *httptest.ResponseRecorder) { Conflict(rec, "nope") }, 409, "CONFLICT"},
		{"timeout", func(rec *httptest.ResponseRecorder) { RequestTimeout(rec, "nope") }, 408, "REQUEST_TIMEOUT"},
		{"internal", func(rec *httptest.ResponseRecorder) { InternalServerError(rec, "nope") }, 500, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.send(rec)

			assert.Equal(t, tt.status, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestValidationError_CarriesFieldDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"email": "Email is required"})

	assert.Equal(t, 422, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "Email is required", env.Error.Details["email"])
}
