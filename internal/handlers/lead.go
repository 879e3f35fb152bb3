package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"salescrm/internal/gate"
	"salescrm/internal/httpx"
	"salescrm/internal/leads"
	"salescrm/internal/models"
	"salescrm/internal/policy"
	"salescrm/internal/validation"
)

type LeadHandler struct {
	Leads *leads.Service
	Gate  *policy.AuthGate
}

func NewLeadHandler(svc *leads.Service, ag *policy.AuthGate) *LeadHandler {
	return &LeadHandler{Leads: svc, Gate: ag}
}

type leadPayload struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
	Needs   string `json:"needs"`
	Status  string `json:"status"`
}

func (p leadPayload) validate(requireStatus bool) validation.Violations {
	v := validation.Violations{}
	validation.Required("name", p.Name, v)
	validation.Required("contact", p.Contact, v)
	if requireStatus || p.Status != "" {
		validation.OneOf("status", p.Status, models.LeadStatuses, v)
	}
	return v
}

// List: GET /leads
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r, h.Gate)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	out, err := h.Leads.List(r.Context(), actor.UserID, actor.Manager)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "list_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create: POST /leads
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r, h.Gate)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req leadPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(false); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	lead := models.Lead{
		Name:    req.Name,
		Contact: req.Contact,
		Address: req.Address,
		Needs:   req.Needs,
		Status:  req.Status,
		UserID:  actor.UserID,
	}
	if err := h.Leads.Create(r.Context(), &lead); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "create_failed", req)
		return
	}
	httpx.JSON(w, http.StatusCreated, lead)
}

// Show: GET /leads/show?id=N
func (h *LeadHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	lead, err := h.Leads.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "lookup_failed", nil)
		return
	}
	if err := h.Gate.Authorize(r.Context(), gate.ActionView, policy.ResourceLead, lead); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, lead)
}

// Update: POST /leads/update?id=N
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req leadPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(true); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	lead, err := h.Leads.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "lookup_failed", nil)
		return
	}
	if err := h.Gate.Authorize(r.Context(), gate.ActionUpdate, policy.ResourceLead, lead); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	lead.Name = req.Name
	lead.Contact = req.Contact
	lead.Address = req.Address
	lead.Needs = req.Needs
	lead.Status = req.Status
	if err := h.Leads.Update(r.Context(), lead); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", req)
		return
	}
	httpx.JSON(w, http.StatusOK, lead)
}

// Delete: POST /leads/delete with {"ids":[...]}
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req idsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_ids", nil)
		return
	}
	// Ownership must hold for every requested row before anything is deleted.
	for _, id := range req.IDs {
		lead, err := h.Leads.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, leads.ErrNotFound) {
				httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
				return
			}
			httpx.JSONError(w, http.StatusInternalServerError, "lookup_failed", nil)
			return
		}
		if err := h.Gate.Authorize(r.Context(), gate.ActionDelete, policy.ResourceLead, lead); err != nil {
			httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
			return
		}
	}
	if err := h.Leads.Delete(r.Context(), req.IDs...); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": req.IDs})
}

// Available: GET /leads/available – negotiation-stage leads without a project.
func (h *LeadHandler) Available(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r, h.Gate)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	out, err := h.Leads.Available(r.Context(), actor.UserID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "list_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}
