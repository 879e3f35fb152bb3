package handlers

import (
	"net/http"
	"strconv"

	"salescrm/internal/auth"
	"salescrm/internal/lifecycle"
	"salescrm/internal/policy"
)

// idParam parses the ?id= query parameter.
func idParam(r *http.Request) (uint, bool) {
	raw := r.URL.Query().Get("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// idsPayload is the body of bulk delete/purge requests.
type idsPayload struct {
	IDs []uint `json:"ids"`
}

// requestActor resolves the authenticated user into a lifecycle actor.
func requestActor(r *http.Request, ag *policy.AuthGate) (lifecycle.Actor, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return lifecycle.Actor{}, false
	}
	return lifecycle.Actor{UserID: uid, Manager: ag.IsManager(r.Context(), uid)}, true
}
