package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ufscompras/internal/domain"
	"ufscompras/internal/observability"
)

// Authenticator exchanges credentials for a session. *backend.Client
// implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{
		auth: auth,
	}
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login forwards credentials to the backend and returns {token, user}. The
// BFF keeps no session of its own: the UI stores the token and sends it back
// as a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MessageInvalidBody)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Informe e-mail e senha")
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var authErr *domain.AuthenticationError
		if errors.As(err, &authErr) {
			writeError(w, clientStatus(authErr.Status, http.StatusUnauthorized), authErr.Message)
			return
		}
		backendFailure(w, r, "login", err)
		return
	}

	observability.FromContext(r.Context()).Info("login succeeded",
		slog.String("user_id", session.User.ID))
	writeJSON(w, http.StatusOK, session)
}

// clientStatus passes a backend 4xx through and maps anything else to
// fallback, so backend outages never look like client mistakes.
func clientStatus(status, fallback int) int {
	if status >= 400 && status < 500 {
		return status
	}
	if status >= 500 {
		return http.StatusBadGateway
	}
	return fallback
}
