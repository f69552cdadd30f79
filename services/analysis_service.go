// services/analysis_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/internal/analysis"
	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/internal/repository"
)

type analysisService struct {
	engine          *analysis.Engine
	repo            repository.AuditRepository
	costService     CostService
	defaultCategory string
	now             func() time.Time
}

// NewAnalysisService wires the scoring engine to the audit store. repo may be nil
// for callers that only score, such as the CLI.
func NewAnalysisService(engine *analysis.Engine, repo repository.AuditRepository, costService CostService, defaultCategory string) AnalysisService {
	if costService == nil {
		costService = NewCostService()
	}
	return &analysisService{
		engine:          engine,
		repo:            repo,
		costService:     costService,
		defaultCategory: defaultCategory,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *analysisService) ScoreResponses(ctx context.Context, req ScoreRequest) ([]models.ModelResult, error) {
	if err := validateScoreRequest(req); err != nil {
		return nil, err
	}

	configs := make(map[string]models.ModelConfig, len(req.Models))
	for _, m := range req.Models {
		configs[m.ID] = m
	}

	results := make([]models.ModelResult, 0, len(req.Responses))
	for _, resp := range req.Responses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp.APICost = s.costService.CostForResponse(resp, configs[resp.ModelID])
		result := s.engine.ScoreResponse(resp, req.Brand, req.Competitors)

		log.Debug().
			Str("model_id", result.ModelID).
			Bool("mentioned", result.BrandMentioned).
			Int("mentions", result.BrandMentionCount).
			Bool("cited", result.IsCited).
			Float64("visibility", result.VisibilityScore).
			Msg("Scored model response")

		results = append(results, result)
	}
	return results, nil
}

func (s *analysisService) AuditPrompt(ctx context.Context, req AuditRequest) (*models.AuditResult, error) {
	req = s.ResolveCompetitors(req)
	results, err := s.ScoreResponses(ctx, req.ScoreRequest)
	if err != nil {
		return nil, err
	}
	return s.Aggregate(ctx, req, results)
}

func (s *analysisService) Aggregate(ctx context.Context, req AuditRequest, results []models.ModelResult) (*models.AuditResult, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, fmt.Errorf("%w: client_id is required", ErrInvalidAudit)
	}

	category := req.Category
	if category == "" {
		category = s.defaultCategory
	}

	audit := analysis.AggregatePrompt(analysis.PromptAudit{
		ID:         uuid.New(),
		ClientID:   req.ClientID,
		PromptID:   req.PromptID,
		PromptText: req.PromptText,
		Category:   category,
		Results:    results,
		Models:     req.Models,
		CreatedAt:  s.now(),
	})

	if s.repo != nil {
		if err := s.repo.Create(ctx, &audit); err != nil {
			return nil, fmt.Errorf("failed to store audit: %w", err)
		}
	}

	log.Info().
		Str("client_id", audit.ClientID).
		Str("prompt_id", audit.PromptID).
		Str("audit_id", audit.ID.String()).
		Int("share_of_voice", audit.Summary.ShareOfVoice).
		Float64("trust_index", audit.Summary.TrustIndex).
		Int("models", audit.Summary.TotalModelsChecked).
		Msg("Prompt audit recorded")

	return &audit, nil
}

func (s *analysisService) GetAudit(ctx context.Context, id string) (*models.AuditResult, error) {
	auditID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid audit id %q", ErrInvalidAudit, id)
	}
	if s.repo == nil {
		return nil, ErrNotFound
	}
	audit, err := s.repo.GetByID(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit %s: %w", id, err)
	}
	return audit, nil
}

func (s *analysisService) ResolveCompetitors(req AuditRequest) AuditRequest {
	if len(req.Competitors) > 0 || req.Industry == "" {
		return req
	}
	for _, name := range s.engine.Lexicon().CompetitorPreset(req.Industry) {
		req.Competitors = append(req.Competitors, models.CompetitorIdentity{Name: name})
	}
	return req
}

func validateScoreRequest(req ScoreRequest) error {
	if strings.TrimSpace(req.Brand.Name) == "" {
		return fmt.Errorf("%w: brand name is required", ErrInvalidAudit)
	}
	for i, resp := range req.Responses {
		if strings.TrimSpace(resp.ModelID) == "" {
			return fmt.Errorf("%w: response %d has no model_id", ErrInvalidAudit, i)
		}
	}
	return nil
}
