package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andrew/ai-usage-monitor/internal/api/middleware"
	"github.com/andrew/ai-usage-monitor/internal/auth"
	"github.com/andrew/ai-usage-monitor/internal/database/models"
)

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse carries the authenticated user and a bearer token
type SessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// HandleRegister handles POST /api/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmail):
			respondError(w, http.StatusBadRequest, "a valid email address is required")
		case errors.Is(err, auth.ErrPasswordTooShort):
			respondError(w, http.StatusBadRequest, "password must be at least 6 characters")
		case errors.Is(err, auth.ErrDuplicateUser):
			respondError(w, http.StatusBadRequest, "user already exists")
		default:
			respondError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	respondJSON(w, http.StatusCreated, SessionResponse{User: user, Token: token})
}

// HandleLogin handles POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondError(w, http.StatusUnauthorized, "user not found")
		case errors.Is(err, auth.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			respondError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{User: user, Token: token})
}

// HandleProfile handles GET /api/auth/profile
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// HandleLogout handles POST /api/auth/logout. Tokens are stateless; the
// client discards its copy and there is nothing to revoke server-side.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
