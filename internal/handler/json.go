package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/msomdec/timeclock/internal/domain"
)

const maxBodyBytes = 1 << 20

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readJSON decodes the request body into the given destination. An empty
// body leaves dst untouched.
func readJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// writeServiceError maps a service error onto an HTTP status. Unexpected
// errors are logged under action and answered generically.
func writeServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNoCheckIn):
		writeError(w, http.StatusNotFound, "No check-in recorded for today.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "An account with that email already exists.")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "The record was changed concurrently. Please retry.")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "You do not have access to this resource.")
	default:
		slog.Error(action, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}
