package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"salescrm/internal/gate"
	"salescrm/internal/httpx"
	"salescrm/internal/lifecycle"
	"salescrm/internal/models"
	"salescrm/internal/policy"
	"salescrm/internal/pricing"
	"salescrm/internal/validation"

	"gorm.io/gorm"
)

// ProjectHandler exposes the project lifecycle over HTTP. All mutations go
// through the lifecycle engine; the handler only decodes, validates and
// authorizes.
type ProjectHandler struct {
	DB     *gorm.DB
	Engine *lifecycle.Engine
	Gate   *policy.AuthGate
}

func NewProjectHandler(db *gorm.DB, engine *lifecycle.Engine, ag *policy.AuthGate) *ProjectHandler {
	return &ProjectHandler{DB: db, Engine: engine, Gate: ag}
}

type projectPayload struct {
	LeadID uint               `json:"lead_id"`
	Status string             `json:"status,omitempty"`
	Items  []pricing.LineItem `json:"items"`
}

func (p projectPayload) validate() validation.Violations {
	v := validation.Violations{}
	if p.LeadID == 0 {
		v["lead_id"] = "required"
	}
	if len(p.Items) == 0 {
		v["items"] = "required"
	}
	for _, it := range p.Items {
		if it.ProductID == 0 {
			v["items.product_id"] = "required"
		}
		if it.Quantity < 1 {
			v["items.quantity"] = "must_be_positive"
		}
		if it.Price < 0 {
			v["items.price"] = "must_not_be_negative"
		}
	}
	if p.Status != "" {
		validation.OneOf("status", p.Status, models.ProjectStatuses, v)
	}
	return v
}

// List: GET /projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r, h.Gate)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var out []models.Project
	err := h.DB.WithContext(r.Context()).
		Scopes(policy.ScopeToOwner(actor.UserID, actor.Manager)).
		Preload("Lead").Preload("Items.Product").
		Order("created_at desc").Find(&out).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "list_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Show: GET /projects/show?id=N
func (h *ProjectHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	project, err := h.Engine.GetProject(r.Context(), id)
	if err != nil {
		writeEngineError(w, err, nil)
		return
	}
	if err := h.Gate.Authorize(r.Context(), gate.ActionView, policy.ResourceProject, project); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, project)
}

// Create: POST /projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r, h.Gate)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req projectPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]any{
			"violations": v, "submitted": req,
		})
		return
	}
	project, err := h.Engine.CreateProject(r.Context(), req.LeadID, req.Items, actor)
	if err != nil {
		writeEngineError(w, err, req)
		return
	}
	httpx.JSON(w, http.StatusCreated, project)
}

// Update: POST /projects/update?id=N
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r, h.Gate)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req projectPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]any{
			"violations": v, "submitted": req,
		})
		return
	}
	project, err := h.Engine.GetProject(r.Context(), id)
	if err != nil {
		writeEngineError(w, err, req)
		return
	}
	if err := h.Gate.Authorize(r.Context(), gate.ActionUpdate, policy.ResourceProject, project); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	var override *string
	if req.Status != "" {
		override = &req.Status
	}
	updated, err := h.Engine.UpdateProject(r.Context(), id, req.LeadID, req.Items, override, actor)
	if err != nil {
		writeEngineError(w, err, req)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete: POST /projects/delete?id=N
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	project, err := h.Engine.GetProject(r.Context(), id)
	if err != nil {
		writeEngineError(w, err, nil)
		return
	}
	if err := h.Gate.Authorize(r.Context(), gate.ActionDelete, policy.ResourceProject, project); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	if err := h.Engine.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, lifecycle.ErrProjectNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		writeEngineError(w, err, nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
