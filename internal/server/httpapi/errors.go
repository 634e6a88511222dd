package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/userauth/internal/common"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: detail})
}

// writeError maps service errors to status codes with fixed messages.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		writeUnauthorized(w, "Incorrect email or password")
	case errors.Is(err, common.ErrInvalidToken):
		writeUnauthorized(w, "Could not validate credentials")
	case errors.Is(err, common.ErrUserNotFound):
		writeUnauthorized(w, "User not found")
	case errors.Is(err, common.ErrDuplicateEmail):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Email already registered"})
	case errors.Is(err, errBodyTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Detail: "Request body too large"})
	case errors.Is(err, common.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
}
