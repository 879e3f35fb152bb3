package handlers

import (
	"net/http"

	"salescrm/internal/dashboard"
	"salescrm/internal/httpx"
	"salescrm/internal/policy"
)

type DashboardHandler struct {
	Dashboard *dashboard.Service
	Gate      *policy.AuthGate
}

func NewDashboardHandler(svc *dashboard.Service, ag *policy.AuthGate) *DashboardHandler {
	return &DashboardHandler{Dashboard: svc, Gate: ag}
}

// Show: GET /dashboard
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r, h.Gate)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	stats, err := h.Dashboard.Stats(r.Context(), actor.UserID, actor.Manager)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "stats_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
