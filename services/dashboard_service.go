// services/dashboard_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/internal/analysis"
	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/internal/repository"
)

type dashboardService struct {
	repo repository.AuditRepository
	topN int
	now  func() time.Time
}

func NewDashboardService(repo repository.AuditRepository, topN int) DashboardService {
	return &dashboardService{
		repo: repo,
		topN: topN,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, clientID string, from, to *time.Time) (*models.DashboardSummary, error) {
	audits, err := s.repo.ListByClient(ctx, clientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load audits: %w", err)
	}

	dash := analysis.BuildDashboard(clientID, audits, analysis.DashboardOptions{
		From: from,
		To:   to,
		TopN: s.topN,
		Now:  s.now(),
	})

	log.Debug().
		Str("client_id", clientID).
		Int("audits", dash.TotalAudits).
		Float64("share_of_voice", dash.ShareOfVoice).
		Msg("Dashboard recomputed")

	return &dash, nil
}

func (s *dashboardService) GetCitationSummary(ctx context.Context, clientID string, from, to *time.Time) ([]models.CitationSummary, error) {
	audits, err := s.repo.ListByClient(ctx, clientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load audits: %w", err)
	}
	return analysis.SummarizeCitations(analysis.FilterByDate(audits, from, to)), nil
}

func (s *dashboardService) ListClientIDs(ctx context.Context) ([]string, error) {
	ids, err := s.repo.ListClientIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return ids, nil
}
