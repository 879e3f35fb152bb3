package handlers

import (
	"fmt"
	"net/http"
	"time"

	"salescrm/internal/httpx"
	"salescrm/internal/policy"
	"salescrm/internal/report"
)

type ReportHandler struct {
	Reports *report.Service
	Gate    *policy.AuthGate
}

func NewReportHandler(svc *report.Service, ag *policy.AuthGate) *ReportHandler {
	return &ReportHandler{Reports: svc, Gate: ag}
}

// dateRange parses ?start= and ?end= (YYYY-MM-DD); defaults to the last 30
// days. End is extended to end-of-day so same-day rows are included.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now
	if raw := r.URL.Query().Get("start"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q", raw)
		}
		start = t
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q", raw)
		}
		end = t.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end, nil
}

// Show: GET /reports?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) Show(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r, h.Gate)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	start, end, err := dateRange(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
		return
	}
	rep, err := h.Reports.Build(r.Context(), start, end, actor.UserID, actor.Manager)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

// Export: GET /reports/export?format=csv|pdf&start=...&end=...
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r, h.Gate)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	start, end, err := dateRange(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
		return
	}
	rep, err := h.Reports.Build(r.Context(), start, end, actor.UserID, actor.Manager)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	stamp := time.Now().Format("20060102")
	switch r.URL.Query().Get("format") {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.pdf"`, stamp))
		if err := rep.WritePDF(w); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		}
	case "csv", "":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.csv"`, stamp))
		if err := rep.WriteCSV(w); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		}
	default:
		httpx.JSONError(w, http.StatusBadRequest, "unknown_format", nil)
	}
}
