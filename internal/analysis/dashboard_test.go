package analysis_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/AI-Template-SDK/senso-visibility/internal/analysis"
	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

func auditAt(day int, category string, sov int, results ...models.ModelResult) models.AuditResult {
	return models.AuditResult{
		ClientID:     "client-1",
		PromptID:     category,
		Category:     category,
		ModelResults: results,
		Summary:      models.AuditSummary{ShareOfVoice: sov},
		CreatedAt:    time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildDashboardCompetitorGap(t *testing.T) {
	a := auditAt(1, "dating", 0)
	a.TopCompetitors = []models.CompetitorSummary{{Name: "A", Count: 6}, {Name: "B", Count: 5}}
	b := auditAt(2, "dating", 0)
	b.TopCompetitors = []models.CompetitorSummary{{Name: "A", Count: 4}}

	dash := analysis.BuildDashboard("client-1", []models.AuditResult{a, b}, analysis.DashboardOptions{})

	expected := []models.CompetitorGap{{Name: "A", Count: 10, Percentage: 100}, {Name: "B", Count: 5, Percentage: 50}}
	if !reflect.DeepEqual(dash.CompetitorGap, expected) {
		t.Errorf("CompetitorGap = %+v, want %+v", dash.CompetitorGap, expected)
	}
}

func TestBuildDashboardAverages(t *testing.T) {
	rank2, rank4 := 2.0, 4.0
	a := auditAt(1, "dating", 100)
	a.Summary.VisibilityScore = 80
	a.Summary.TrustIndex = 60
	a.Summary.AverageRank = &rank2
	a.Summary.TotalCitations = 3
	a.Summary.TotalCost = 0.1
	b := auditAt(2, "dating", 50)
	b.Summary.VisibilityScore = 40
	b.Summary.TrustIndex = 0
	b.Summary.AverageRank = &rank4
	b.Summary.TotalCitations = 2
	b.Summary.TotalCost = 0.2
	c := auditAt(3, "dating", 75)
	c.Summary.VisibilityScore = 60
	c.Summary.TrustIndex = 30

	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	dash := analysis.BuildDashboard("client-1", []models.AuditResult{a, b, c}, analysis.DashboardOptions{Now: now})

	if dash.TotalAudits != 3 {
		t.Errorf("TotalAudits = %d, want 3", dash.TotalAudits)
	}
	if dash.ShareOfVoice != 75 {
		t.Errorf("ShareOfVoice = %v, want 75", dash.ShareOfVoice)
	}
	if dash.VisibilityScore != 60 || dash.TrustIndex != 30 {
		t.Errorf("VisibilityScore/TrustIndex = %v/%v, want 60/30", dash.VisibilityScore, dash.TrustIndex)
	}
	if dash.AverageRank == nil || *dash.AverageRank != 3 {
		t.Errorf("AverageRank = %v, want 3", dash.AverageRank)
	}
	if dash.TotalCitations != 5 {
		t.Errorf("TotalCitations = %d, want 5", dash.TotalCitations)
	}
	if dash.TotalCost != 0.3 {
		t.Errorf("TotalCost = %v, want 0.3", dash.TotalCost)
	}
	if !dash.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v, want %v", dash.GeneratedAt, now)
	}
}

func TestBuildDashboardDateRange(t *testing.T) {
	audits := []models.AuditResult{
		auditAt(10, "dating", 100),
		auditAt(1, "dating", 0),
		auditAt(5, "dating", 50),
		auditAt(20, "dating", 0),
	}
	from := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	filtered := analysis.FilterByDate(audits, &from, &to)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 audits in range, got %d", len(filtered))
	}
	if filtered[0].CreatedAt.Day() != 5 || filtered[1].CreatedAt.Day() != 10 {
		t.Errorf("expected ascending order, got %v then %v", filtered[0].CreatedAt, filtered[1].CreatedAt)
	}

	dash := analysis.BuildDashboard("client-1", audits, analysis.DashboardOptions{From: &from, To: &to})
	if dash.TotalAudits != 2 || dash.ShareOfVoice != 75 {
		t.Errorf("TotalAudits/ShareOfVoice = %d/%v, want 2/75", dash.TotalAudits, dash.ShareOfVoice)
	}
}

func TestBuildDashboardBreakdowns(t *testing.T) {
	visible := models.ModelResult{ModelID: "perplexity", BrandMentioned: true, Cost: 0.01}
	hidden := models.ModelResult{ModelID: "chatgpt", Cost: 0.02}

	audits := []models.AuditResult{
		auditAt(1, "dating", 50, visible, hidden),
		auditAt(2, "", 50, visible, hidden),
		auditAt(3, "dating", 0, hidden),
	}

	dash := analysis.BuildDashboard("client-1", audits, analysis.DashboardOptions{})

	expectedModels := []models.ModelVisibility{
		{ModelID: "chatgpt", Visible: 0, Total: 3, Cost: 0.06, Percentage: 0},
		{ModelID: "perplexity", Visible: 2, Total: 2, Cost: 0.02, Percentage: 100},
	}
	if !reflect.DeepEqual(dash.VisibilityByModel, expectedModels) {
		t.Errorf("VisibilityByModel = %+v, want %+v", dash.VisibilityByModel, expectedModels)
	}

	expectedCategories := []models.CategoryVisibility{
		{Category: "dating", Visible: 1, Total: 3, Cost: 0.05, Percentage: 33},
		{Category: analysis.UncategorizedLabel, Visible: 1, Total: 2, Cost: 0.03, Percentage: 50},
	}
	if !reflect.DeepEqual(dash.VisibilityByCategory, expectedCategories) {
		t.Errorf("VisibilityByCategory = %+v, want %+v", dash.VisibilityByCategory, expectedCategories)
	}
}

func TestBuildDashboardTopSources(t *testing.T) {
	a := auditAt(1, "dating", 0)
	a.TopSources = []models.SourceCount{{Domain: "reddit.com", Count: 2}, {Domain: "juleo.com", Count: 1}}
	b := auditAt(2, "dating", 0)
	b.TopSources = []models.SourceCount{{Domain: "forbes.com", Count: 3}, {Domain: "juleo.com", Count: 1}}

	dash := analysis.BuildDashboard("client-1", []models.AuditResult{a, b}, analysis.DashboardOptions{TopN: 2})

	expected := []models.SourceCount{
		{Domain: "forbes.com", Count: 3},
		{Domain: "reddit.com", Count: 2},
		{Domain: "juleo.com", Count: 2},
	}
	if !reflect.DeepEqual(dash.TopSources, expected) {
		t.Errorf("TopSources = %+v, want %+v", dash.TopSources, expected)
	}
	if !reflect.DeepEqual(dash.TopSourcesDisplay, expected[:2]) {
		t.Errorf("TopSourcesDisplay = %+v, want %+v", dash.TopSourcesDisplay, expected[:2])
	}
}

func TestBuildDashboardEmpty(t *testing.T) {
	dash := analysis.BuildDashboard("client-1", nil, analysis.DashboardOptions{})

	if dash.ClientID != "client-1" || dash.TotalAudits != 0 {
		t.Errorf("unexpected dashboard: %+v", dash)
	}
	if dash.ShareOfVoice != 0 || dash.AverageRank != nil {
		t.Errorf("expected zeroed metrics, got %+v", dash)
	}
	if dash.VisibilityByModel == nil || dash.TopSourcesDisplay == nil || dash.CompetitorGap == nil {
		t.Error("collections should be empty, not nil")
	}
}
