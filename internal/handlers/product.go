package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"salescrm/internal/catalog"
	"salescrm/internal/httpx"
	"salescrm/internal/validation"
)

// ProductHandler is the manager-facing catalog surface. Role checks happen in
// routing middleware; nothing here is ownership-scoped.
type ProductHandler struct {
	Catalog *catalog.Service
}

func NewProductHandler(svc *catalog.Service) *ProductHandler {
	return &ProductHandler{Catalog: svc}
}

type productPayload struct {
	Name   string  `json:"name"`
	HPP    float64 `json:"hpp"`
	Margin float64 `json:"margin"`
}

func (p productPayload) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", p.Name, v)
	validation.PositiveFloat("hpp", p.HPP, v)
	validation.RangeFloat("margin", p.Margin, 0, 100, v)
	return v
}

// List: GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "list_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Trashed: GET /products/trashed
func (h *ProductHandler) Trashed(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListTrashed(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "list_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create: POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	p, err := h.Catalog.Create(r.Context(), req.Name, req.HPP, req.Margin)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "create_failed", req)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Update: POST /products/update?id=N
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	p, err := h.Catalog.Update(r.Context(), id, req.Name, req.HPP, req.Margin)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", req)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Delete: POST /products/delete with {"ids":[...]}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req idsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_ids", nil)
		return
	}
	if err := h.Catalog.SoftDelete(r.Context(), req.IDs...); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"trashed": req.IDs})
}

// Restore: POST /products/restore?id=N
func (h *ProductHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Catalog.Restore(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "restore_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"restored": id})
}

// Purge: POST /products/purge with {"ids":[...]}
func (h *ProductHandler) Purge(w http.ResponseWriter, r *http.Request) {
	var req idsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_ids", nil)
		return
	}
	if err := h.Catalog.Purge(r.Context(), req.IDs...); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "purge_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"purged": req.IDs})
}
