package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"salescrm/internal/auth"
	"salescrm/internal/httpx"
	"salescrm/internal/models"
	"salescrm/internal/users"
	"salescrm/internal/validation"
)

type AuthHandler struct {
	Users *users.Service
}

func NewAuthHandler(svc *users.Service) *AuthHandler { return &AuthHandler{Users: svc} }

// Register: POST /register – self-service signup. New accounts always get
// the sales role; managers are promoted through user administration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.Required("email", req.Email, v)
	validation.Required("password", req.Password, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	user, err := h.Users.Create(r.Context(), req.Name, req.Email, req.Password, models.RoleSales)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			httpx.JSONError(w, http.StatusConflict, "email_taken", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "register_failed", nil)
		return
	}
	auth.CreateSession(w, user.ID)
	token, err := auth.IssueToken(user.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "register_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

// Login: POST /login – sets the session cookie and returns a bearer token
// for API clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("email", req.Email, v)
	validation.Required("password", req.Password, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	user, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "login_failed", nil)
		return
	}
	auth.CreateSession(w, user.ID)
	token, err := auth.IssueToken(user.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "login_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

// Logout: POST /logout – clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me: GET /me – returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	user, err := h.Users.Get(r.Context(), uid)
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
