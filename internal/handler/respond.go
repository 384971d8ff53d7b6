package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/rsvp/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

// writeAppError maps the shared error values to a status code. Anything
// unrecognised is logged and reported as a generic failure.
func writeAppError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	var pe *apperr.PersistenceError
	switch {
	case errors.Is(err, apperr.ErrTokenRequired):
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": err.Error(), "token_required": true})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrDuplicateToken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrInvalidInput), errors.Is(err, apperr.ErrUploadRejected):
		writeError(w, http.StatusBadRequest, apperr.Reason(err))
	case errors.As(err, &pe):
		logger.Error(fallback, "op", pe.Op, "error", pe.Err)
		writeError(w, http.StatusInternalServerError, fallback)
	default:
		logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
