package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/listling/internal/auth"
	"github.com/mmynk/listling/internal/middleware"
	"github.com/mmynk/listling/internal/service"
	"github.com/mmynk/listling/internal/storage"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the core error taxonomy onto HTTP statuses. Errors
// outside the taxonomy become a generic 500 so internals never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case storage.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, service.ErrNotAuthorized):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case service.IsValidation(err), errors.Is(err, auth.ErrWeakPassword):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, auth.ErrEmailExists):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		slog.Error("request failed",
			"path", r.URL.Path,
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// decodeJSON parses the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return service.Validationf("invalid request body: %v", err)
	}
	return nil
}
