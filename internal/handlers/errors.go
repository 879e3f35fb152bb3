package handlers

import (
	"errors"
	"net/http"

	"salescrm/internal/gate"
	"salescrm/internal/httpx"
	"salescrm/internal/lifecycle"
	"salescrm/internal/pricing"
)

// writeEngineError maps core errors to HTTP responses. details carries the
// submitted payload back to the client so forms can be re-populated after a
// failure.
func writeEngineError(w http.ResponseWriter, err error, details any) {
	switch {
	case errors.Is(err, pricing.ErrValidation):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", details)
	case errors.Is(err, pricing.ErrInvalidReference):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_products", details)
	case errors.Is(err, gate.ErrForbidden), errors.Is(err, lifecycle.ErrNotOwner):
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, lifecycle.ErrLeadNotFound), errors.Is(err, lifecycle.ErrProjectNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, lifecycle.ErrProjectExists):
		httpx.JSONError(w, http.StatusConflict, "lead_already_has_project", details)
	case errors.Is(err, lifecycle.ErrLeadMismatch):
		httpx.JSONError(w, http.StatusBadRequest, "lead_mismatch", details)
	case errors.Is(err, lifecycle.ErrPersistence):
		httpx.JSONError(w, http.StatusInternalServerError, "persistence_failure", details)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
