package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/service"
)

const authCookieMaxAge = 86400 // 24 hours, matches the token lifetime

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure}
}

// HandleLogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"token":"...","user":{...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		slog.Error("login user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	setAuthCookie(w, token, h.cookieSecure)
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserDTO(user),
	})
}

// HandleRegister processes a JSON registration request.
// POST /api/auth/register
// Request:  {"name":"...","email":"...","password":"...","type":"employee|employer"}
// Response: {"user": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Type     string `json:"type"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Type:     domain.UserType(req.Type),
	})
	if err != nil {
		writeServiceError(w, err, "register user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleLogout clears the auth cookie.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, h.cookieSecure)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated user.
// GET /api/auth/me
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

func setAuthCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   authCookieMaxAge,
	})
}

func clearAuthCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
