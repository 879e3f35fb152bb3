package handlers

import (
	"errors"
	"net/http"

	"salescrm/internal/customers"
	"salescrm/internal/gate"
	"salescrm/internal/httpx"
	"salescrm/internal/policy"
)

type CustomerHandler struct {
	Customers *customers.Service
	Gate      *policy.AuthGate
}

func NewCustomerHandler(svc *customers.Service, ag *policy.AuthGate) *CustomerHandler {
	return &CustomerHandler{Customers: svc, Gate: ag}
}

// List: GET /customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r, h.Gate)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	out, err := h.Customers.List(r.Context(), actor.UserID, actor.Manager)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "list_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Show: GET /customers/show?id=N
func (h *CustomerHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	customer, err := h.Customers.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, customers.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "lookup_failed", nil)
		return
	}
	// Visibility follows the source lead's ownership.
	if err := h.Gate.Authorize(r.Context(), gate.ActionView, policy.ResourceLead, &customer.Lead); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}
