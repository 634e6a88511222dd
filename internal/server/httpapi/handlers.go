package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/services"
)

const (
	healthTimeout = 2 * time.Second
	// maxBodyBytes caps login and registration request bodies.
	maxBodyBytes = 1 << 20
)

var errBodyTooLarge = errors.New("request body too large")

// bodyError turns a body read failure into errBodyTooLarge when the size cap
// was hit and into a validation error otherwise.
func bodyError(err error, what string) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return errBodyTooLarge
	}
	return fmt.Errorf("%w: invalid %s", common.ErrValidation, what)
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type verifyResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *HTTPServer) welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Welcome to the User authentication and management API"})
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := s.pinger.PingContext(ctx); err != nil {
			s.logger.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readCredentials accepts the OAuth2 password form (username, password) or
// a JSON body with email or username.
func readCredentials(w http.ResponseWriter, r *http.Request) (email, password string, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", "", bodyError(err, "request body")
		}
		email = req.Email
		if email == "" {
			email = req.Username
		}
		return email, req.Password, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", "", bodyError(err, "form")
	}
	return r.PostForm.Get("username"), r.PostForm.Get("password"), nil
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	email, password, err := readCredentials(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if email == "" || password == "" {
		s.writeError(w, r, fmt.Errorf("%w: username and password are required", common.ErrValidation))
		return
	}

	grant, err := s.auth.Login(r.Context(), email, password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if s.cookieName != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     s.cookieName,
			Value:    grant.AccessToken,
			Path:     "/",
			MaxAge:   int(time.Until(grant.ExpiresAt).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: grant.AccessToken, TokenType: grant.TokenType})
}

func (s *HTTPServer) requireToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := extractToken(r, s.cookieName)
	if token == "" {
		writeUnauthorized(w, "No token found")
		return "", false
	}
	return token, true
}

func (s *HTTPServer) verifyToken(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireToken(w, r)
	if !ok {
		return
	}

	email, err := s.sessions.Verify(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{Token: "valid", Email: email})
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireToken(w, r)
	if !ok {
		return
	}

	if err := s.sessions.Logout(r.Context(), token); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.clearCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireToken(w, r)
	if !ok {
		return
	}

	user, err := s.sessions.ResolveCurrentUser(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Profile())
}

func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var in services.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, r, bodyError(err, "request body"))
		return
	}

	user, err := s.users.CreateUser(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.Profile())
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireToken(w, r)
	if !ok {
		return
	}

	if err := s.sessions.DeleteAccount(r.Context(), token); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) clearCookie(w http.ResponseWriter) {
	if s.cookieName == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{Name: s.cookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}
