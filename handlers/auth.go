package handlers

import (
	"net/http"
	"time"

	"prode-app-go/interfaces"
	"prode-app-go/middleware"
	"prode-app-go/models"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService interfaces.AuthService
	tokenExpiry time.Duration
	// secureCookie is false behind a TLS-terminating proxy
	secureCookie bool
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService interfaces.AuthService, tokenExpiry time.Duration, behindProxy bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenExpiry:  tokenExpiry,
		secureCookie: !behindProxy,
	}
}

// Register creates an account and returns a token
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	response, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.setAuthCookie(w, response.Token)
	respondJSON(w, http.StatusCreated, response)
}

// Login handles JSON login requests
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	response, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		apiLogger().Infof("Login failed for %s: %v", req.Email, err)
		respondServiceError(w, r, err)
		return
	}

	apiLogger().Infof("User %s (%s) logged in", response.User.Name, response.User.Email)
	h.setAuthCookie(w, response.Token)
	respondJSON(w, http.StatusOK, response)
}

// Logout clears the auth cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenExpiry),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
