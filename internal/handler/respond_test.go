package handler

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukerupert/rsvp/internal/apperr"
)

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
		wantLog  bool
	}{
		{"token required", apperr.ErrTokenRequired, http.StatusUnauthorized, `"token_required":true`, false},
		{"invalid credentials", apperr.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or token", false},
		{"duplicate token", apperr.ErrDuplicateToken, http.StatusConflict, "email already has a token", false},
		{"access denied", fmt.Errorf("gate: %w", apperr.ErrAccessDenied), http.StatusForbidden, "access denied", false},
		{"not found", apperr.ErrNotFound, http.StatusNotFound, "not found", false},
		{"invalid input", apperr.Invalid("title is required"), http.StatusBadRequest, `{"error":"title is required"}`, false},
		{"upload rejected", apperr.Rejected("file must be an image"), http.StatusBadRequest, `{"error":"file must be an image"}`, false},
		{"persistence", apperr.Persistence("list rsvps", sql.ErrConnDone), http.StatusInternalServerError, `{"error":"failed"}`, true},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, `{"error":"failed"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			rec := httptest.NewRecorder()

			writeAppError(rec, logger, tt.err, "failed")

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			if tt.wantLog {
				assert.Contains(t, logs.String(), "level=ERROR")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestPersistenceDetailNotLeaked(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperr.Persistence("get host", errors.New("no such table: hosts"))
	writeAppError(rec, slog.New(slog.DiscardHandler), err, "failed to get host")

	assert.NotContains(t, rec.Body.String(), "no such table")
	assert.JSONEq(t, `{"error":"failed to get host"}`, rec.Body.String())
}

func TestCalendarHost(t *testing.T) {
	assert.Equal(t, "rsvp.example.com", calendarHost("https://rsvp.example.com:8443"))
	assert.Equal(t, "localhost", calendarHost("not a url"))
	assert.Equal(t, "localhost", calendarHost(""))
}
