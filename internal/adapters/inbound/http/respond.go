package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vinoclub/wineclub-backend/internal/domain"
)

// ErrorResp is the single error envelope of the API.
type ErrorResp struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, statusCode int, resp ErrorResp) {
	respondJSON(w, statusCode, resp)
}

// toStatusCode maps domain error types onto HTTP status codes. Anything not
// client-correctable is a 500.
func toStatusCode(err error) int {
	var validationErr *domain.ValidationErr
	var notFoundErr *domain.NotFoundErr
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
