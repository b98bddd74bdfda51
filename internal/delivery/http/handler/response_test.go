package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponder(buf *bytes.Buffer) responder {
	return newResponder(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestResponderSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	newResponder(nil).success(rec, http.StatusCreated, "User created successfully", map[string]string{"id": "a"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"User created successfully","data":{"id":"a"}}`, rec.Body.String())
}

func TestResponderFailLogsCause(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusInternalServerError, "ERROR"},
		{http.StatusInsufficientStorage, "WARN"},
		{http.StatusBadRequest, "WARN"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var logs bytes.Buffer
			rec := httptest.NewRecorder()
			newTestResponder(&logs).fail(rec, tt.status, "Failed to create user", errors.New("disk on fire"))

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, `{"success":false,"message":"Failed to create user"}`, rec.Body.String())

			var entry map[string]any
			require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "disk on fire", entry["error"])
			assert.EqualValues(t, tt.status, entry["status"])
		})
	}
}

func TestResponderFailWithoutCauseIsQuiet(t *testing.T) {
	var logs bytes.Buffer
	rec := httptest.NewRecorder()
	newTestResponder(&logs).fail(rec, http.StatusNotFound, "User not found", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, logs.String())
}
