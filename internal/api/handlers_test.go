package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/AI-Template-SDK/senso-visibility/internal/api"
	"github.com/AI-Template-SDK/senso-visibility/internal/config"
	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/services"
)

type stubAnalysis struct {
	audit   *models.AuditResult
	err     error
	lastReq services.AuditRequest
}

func (s *stubAnalysis) ScoreResponses(ctx context.Context, req services.ScoreRequest) ([]models.ModelResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.ModelResult, 0, len(req.Responses))
	for _, r := range req.Responses {
		out = append(out, models.ModelResult{ModelID: r.ModelID})
	}
	return out, nil
}

func (s *stubAnalysis) AuditPrompt(ctx context.Context, req services.AuditRequest) (*models.AuditResult, error) {
	s.lastReq = req
	return s.audit, s.err
}

func (s *stubAnalysis) ResolveCompetitors(req services.AuditRequest) services.AuditRequest {
	return req
}

func (s *stubAnalysis) Aggregate(ctx context.Context, req services.AuditRequest, results []models.ModelResult) (*models.AuditResult, error) {
	return s.audit, s.err
}

func (s *stubAnalysis) GetAudit(ctx context.Context, id string) (*models.AuditResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.audit == nil || s.audit.ID.String() != id {
		return nil, services.ErrNotFound
	}
	return s.audit, nil
}

type stubDashboards struct {
	from, to *time.Time
	clientID string
	err      error
}

func (s *stubDashboards) GetDashboard(ctx context.Context, clientID string, from, to *time.Time) (*models.DashboardSummary, error) {
	s.clientID, s.from, s.to = clientID, from, to
	if s.err != nil {
		return nil, s.err
	}
	return &models.DashboardSummary{ClientID: clientID, TotalAudits: 2, ShareOfVoice: 50}, nil
}

func (s *stubDashboards) GetCitationSummary(ctx context.Context, clientID string, from, to *time.Time) ([]models.CitationSummary, error) {
	s.clientID, s.from, s.to = clientID, from, to
	if s.err != nil {
		return nil, s.err
	}
	return []models.CitationSummary{{Key: "reddit.com/r/dating", Domain: "reddit.com", Count: 3}}, nil
}

func (s *stubDashboards) ListClientIDs(ctx context.Context) ([]string, error) {
	return []string{clientOne}, nil
}

const clientOne = "client-1"

func newTestRouter(cfg *config.Config, a *stubAnalysis, d *stubDashboards) http.Handler {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return api.NewRouter(cfg, a, d, nil)
}

func doRequest(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealthAndStatus(t *testing.T) {
	router := newTestRouter(nil, &stubAnalysis{}, &stubDashboards{})

	rec := doRequest(router, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["status"] != "healthy" {
		t.Errorf("unexpected health response: %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID header")
	}

	rec = doRequest(router, http.MethodGet, "/", "", map[string]string{"X-Request-ID": "req-42"})
	body := decodeBody(t, rec)
	if body["service"] != "senso-visibility" || body["status"] != "running" {
		t.Errorf("unexpected status body: %v", body)
	}
	if rec.Header().Get("X-Request-ID") != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", rec.Header().Get("X-Request-ID"))
	}
}

func TestInngestHandlerMounted(t *testing.T) {
	inngest := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	router := api.NewRouter(&config.Config{}, &stubAnalysis{}, &stubDashboards{}, inngest)

	rec := doRequest(router, http.MethodPut, "/api/inngest", "", nil)
	if rec.Code != http.StatusAccepted {
		t.Errorf("expected inngest handler to serve, got %d", rec.Code)
	}
}

func TestCreateAudit(t *testing.T) {
	id := uuid.New()
	stub := &stubAnalysis{audit: &models.AuditResult{
		ID:       id,
		ClientID: clientOne,
		PromptID: "prompt-1",
		Summary:  models.AuditSummary{ShareOfVoice: 67, TotalModelsChecked: 3},
	}}
	router := newTestRouter(nil, stub, &stubDashboards{})

	payload := `{"client_id":"client-1","prompt_id":"prompt-1","prompt_text":"best dating apps",
		"brand":{"name":"Juleo"},"responses":[{"model_id":"chatgpt","text":"Juleo","success":true}]}`
	rec := doRequest(router, http.MethodPost, "/api/v1/audits", payload, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastReq.Brand.Name != "Juleo" || stub.lastReq.ClientID != clientOne || len(stub.lastReq.Responses) != 1 {
		t.Errorf("request not decoded: %+v", stub.lastReq)
	}

	var audit models.AuditResult
	if err := json.Unmarshal(rec.Body.Bytes(), &audit); err != nil {
		t.Fatalf("invalid audit body: %v", err)
	}
	if audit.ID != id || audit.Summary.ShareOfVoice != 67 {
		t.Errorf("unexpected audit: %+v", audit)
	}
}

func TestCreateAuditErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "malformed body", body: `{"brand":`, status: http.StatusBadRequest},
		{name: "invalid audit", body: `{}`, err: fmt.Errorf("%w: brand name is required", services.ErrInvalidAudit), status: http.StatusBadRequest},
		{name: "storage failure", body: `{}`, err: errors.New("connection refused"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(nil, &stubAnalysis{err: tt.err}, &stubDashboards{})
			rec := doRequest(router, http.MethodPost, "/api/v1/audits", tt.body, nil)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			msg, _ := decodeBody(t, rec)["error"].(string)
			if msg == "" {
				t.Error("expected an error message")
			}
			if strings.Contains(msg, "connection refused") {
				t.Errorf("internal error leaked to client: %q", msg)
			}
		})
	}
}

func TestScoreResponses(t *testing.T) {
	router := newTestRouter(nil, &stubAnalysis{}, &stubDashboards{})

	payload := `{"brand":{"name":"Juleo"},"responses":[{"model_id":"chatgpt"},{"model_id":"gemini"}]}`
	rec := doRequest(router, http.MethodPost, "/api/v1/score", payload, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	results, ok := decodeBody(t, rec)["model_results"].([]interface{})
	if !ok || len(results) != 2 {
		t.Errorf("expected two model results, got %v", rec.Body.String())
	}
}

func TestGetAudit(t *testing.T) {
	id := uuid.New()
	router := newTestRouter(nil, &stubAnalysis{audit: &models.AuditResult{ID: id, ClientID: clientOne}}, &stubDashboards{})

	rec := doRequest(router, http.MethodGet, "/api/v1/audits/"+id.String(), "", nil)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["client_id"] != clientOne {
		t.Errorf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(router, http.MethodGet, "/api/v1/audits/"+uuid.New().String(), "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown audit, got %d", rec.Code)
	}
}

func TestGetDashboardDateRange(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		status   int
		wantFrom string
		wantTo   string
	}{
		{name: "no range", query: "", status: http.StatusOK},
		{name: "date only", query: "?from=2025-01-01&to=2025-01-31", status: http.StatusOK,
			wantFrom: "2025-01-01T00:00:00Z", wantTo: "2025-01-31T23:59:59.999999999Z"},
		{name: "rfc3339", query: "?from=2025-01-01T10:00:00Z", status: http.StatusOK, wantFrom: "2025-01-01T10:00:00Z"},
		{name: "invalid from", query: "?from=yesterday", status: http.StatusBadRequest},
		{name: "invalid to", query: "?to=31/01/2025", status: http.StatusBadRequest},
		{name: "reversed", query: "?from=2025-02-01&to=2025-01-01", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dash := &stubDashboards{}
			router := newTestRouter(nil, &stubAnalysis{}, dash)

			rec := doRequest(router, http.MethodGet, "/api/v1/clients/client-1/dashboard"+tt.query, "", nil)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}

			if dash.clientID != clientOne {
				t.Errorf("clientID = %q", dash.clientID)
			}
			if got := formatTime(dash.from); got != tt.wantFrom {
				t.Errorf("from = %q, want %q", got, tt.wantFrom)
			}
			if got := formatTime(dash.to); got != tt.wantTo {
				t.Errorf("to = %q, want %q", got, tt.wantTo)
			}
		})
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func TestGetCitations(t *testing.T) {
	router := newTestRouter(nil, &stubAnalysis{}, &stubDashboards{})

	rec := doRequest(router, http.MethodGet, "/api/v1/clients/client-1/citations", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total"] != float64(1) {
		t.Errorf("total = %v", body["total"])
	}

	router = newTestRouter(nil, &stubAnalysis{}, &stubDashboards{err: errors.New("db down")})
	rec = doRequest(router, http.MethodGet, "/api/v1/clients/client-1/citations", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	router := newTestRouter(&config.Config{APIToken: "secret"}, &stubAnalysis{}, &stubDashboards{})
	path := "/api/v1/clients/client-1/dashboard"

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic secret", status: http.StatusUnauthorized},
		{name: "wrong token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer secret", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			rec := doRequest(router, http.MethodGet, path, "", headers)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}

	// Health stays open
	if rec := doRequest(router, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("health should not require auth, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(&config.Config{RateLimitPerMinute: 2}, &stubAnalysis{}, &stubDashboards{})
	path := "/api/v1/clients/client-1/citations"

	for i := 0; i < 2; i++ {
		if rec := doRequest(router, http.MethodGet, path, "", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := doRequest(router, http.MethodGet, path, "", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "Rate limit exceeded" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
