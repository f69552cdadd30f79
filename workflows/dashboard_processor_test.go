package workflows_test

import (
	"testing"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/workflows"
)

func TestDashboardStats(t *testing.T) {
	dash := &models.DashboardSummary{
		ClientID:          "client-1",
		TotalAudits:       4,
		ShareOfVoice:      62.5,
		VisibilityScore:   40,
		TrustIndex:        30,
		TotalCitations:    12,
		TotalCost:         0.25,
		VisibilityByModel: []models.ModelVisibility{{ModelID: "chatgpt"}, {ModelID: "gemini"}},
		CompetitorGap:     []models.CompetitorGap{{Name: "Bumble", Count: 6, Percentage: 100}},
		TopSources:        []models.SourceCount{{Domain: "reddit.com", Count: 5}},
	}

	stats := workflows.DashboardStats(dash)

	if stats["client_id"] != "client-1" || stats["total_audits"] != 4 {
		t.Errorf("unexpected identity fields: %v", stats)
	}
	if stats["share_of_voice"] != 62.5 || stats["total_citations"] != 12 {
		t.Errorf("unexpected metrics: %v", stats)
	}
	if stats["models"] != 2 || stats["categories"] != 0 {
		t.Errorf("unexpected breakdown counts: %v", stats)
	}
	if stats["top_competitor"] != "Bumble" || stats["top_source"] != "reddit.com" {
		t.Errorf("unexpected leaders: %v", stats)
	}
}

func TestDashboardStatsEmpty(t *testing.T) {
	stats := workflows.DashboardStats(&models.DashboardSummary{ClientID: "client-2"})

	if _, ok := stats["top_competitor"]; ok {
		t.Error("top_competitor should be absent without competitors")
	}
	if _, ok := stats["top_source"]; ok {
		t.Error("top_source should be absent without sources")
	}
	if stats["total_audits"] != 0 {
		t.Errorf("total_audits = %v", stats["total_audits"])
	}
}
