package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/services"
)

const dateLayout = "2006-01-02"

// Handler serves the audit and dashboard endpoints
type Handler struct {
	analysis   services.AnalysisService
	dashboards services.DashboardService
}

func NewHandler(analysisService services.AnalysisService, dashboardService services.DashboardService) *Handler {
	return &Handler{
		analysis:   analysisService,
		dashboards: dashboardService,
	}
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"service": "senso-visibility", "status": "running"})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ScoreResponses scores raw responses without storing anything
func (h *Handler) ScoreResponses(w http.ResponseWriter, r *http.Request) {
	var req services.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results, err := h.analysis.ScoreResponses(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Scoring failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"model_results": results})
}

func (h *Handler) CreateAudit(w http.ResponseWriter, r *http.Request) {
	var req services.AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	audit, err := h.analysis.AuditPrompt(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Audit failed")
		return
	}

	writeJSON(w, http.StatusCreated, audit)
}

func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	audit, err := h.analysis.GetAudit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Failed to get audit")
		return
	}
	writeJSON(w, http.StatusOK, audit)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	dash, err := h.dashboards.GetDashboard(r.Context(), chi.URLParam(r, "clientID"), from, to)
	if err != nil {
		writeServiceError(w, err, "Failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *Handler) GetCitations(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	citations, err := h.dashboards.GetCitationSummary(r.Context(), chi.URLParam(r, "clientID"), from, to)
	if err != nil {
		writeServiceError(w, err, "Failed to summarize citations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"citations": citations,
		"total":     len(citations),
	})
}

// parseDateRange reads ?from and ?to as RFC3339 or YYYY-MM-DD. A bare "to"
// date covers the whole day.
func parseDateRange(w http.ResponseWriter, r *http.Request) (from, to *time.Time, ok bool) {
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		t, _, err := parseTime(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date")
			return nil, nil, false
		}
		from = &t
	}

	if v := q.Get("to"); v != "" {
		t, dateOnly, err := parseTime(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date")
			return nil, nil, false
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}

	if from != nil && to != nil && to.Before(*from) {
		writeError(w, http.StatusBadRequest, "to must not be before from")
		return nil, nil, false
	}

	return from, to, true
}

func parseTime(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(dateLayout, v)
	return t, true, err
}

func writeServiceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, services.ErrInvalidAudit):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		log.Error().Err(err).Msg(msg)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
