package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"salescrm/internal/auth"
	"salescrm/internal/httpx"
	"salescrm/internal/models"
	"salescrm/internal/policy"
	"salescrm/internal/users"
	"salescrm/internal/validation"
)

// UserHandler is the manager-only account administration surface.
type UserHandler struct {
	Users *users.Service
	Gate  *policy.AuthGate
}

func NewUserHandler(svc *users.Service, ag *policy.AuthGate) *UserHandler {
	return &UserHandler{Users: svc, Gate: ag}
}

// List: GET /users – everyone except the requester.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	out, err := h.Users.List(r.Context(), uid)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "list_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create: POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.Required("email", req.Email, v)
	validation.Required("password", req.Password, v)
	validation.OneOf("role", req.Role, []string{models.RoleManager, models.RoleSales}, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	user, err := h.Users.Create(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			httpx.JSONError(w, http.StatusConflict, "email_taken", nil)
		case errors.Is(err, users.ErrUnknownRole):
			httpx.JSONError(w, http.StatusBadRequest, "unknown_role", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "create_failed", nil)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

// Update: POST /users/update?id=N
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
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
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	user, err := h.Users.Update(r.Context(), id, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		case errors.Is(err, users.ErrEmailTaken):
			httpx.JSONError(w, http.StatusConflict, "email_taken", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// Delete: POST /users/delete with {"ids":[...]}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req idsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_ids", nil)
		return
	}
	if err := h.Users.SoftDelete(r.Context(), req.IDs...); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	// Deleted users must lose cached role grants immediately.
	for _, id := range req.IDs {
		h.Gate.InvalidateUser(id)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"trashed": req.IDs})
}

// Trashed: GET /users/trashed
func (h *UserHandler) Trashed(w http.ResponseWriter, r *http.Request) {
	out, err := h.Users.ListTrashed(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "list_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Restore: POST /users/restore?id=N
func (h *UserHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Users.Restore(r.Context(), id); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "restore_failed", nil)
		return
	}
	h.Gate.InvalidateUser(id)
	httpx.JSON(w, http.StatusOK, map[string]any{"restored": id})
}

// Purge: POST /users/purge with {"ids":[...]}
func (h *UserHandler) Purge(w http.ResponseWriter, r *http.Request) {
	var req idsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_ids", nil)
		return
	}
	if err := h.Users.Purge(r.Context(), req.IDs...); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "purge_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"purged": req.IDs})
}
