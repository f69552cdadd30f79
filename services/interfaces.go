// services/interfaces.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/internal/repository"
)

var (
	// ErrNotFound is returned when a requested audit does not exist
	ErrNotFound = repository.ErrNotFound
	// ErrInvalidAudit is returned when a request cannot be scored
	ErrInvalidAudit = errors.New("invalid audit request")
)

// ScoreRequest carries everything needed to score one prompt's raw responses
type ScoreRequest struct {
	Brand       models.BrandIdentity        `json:"brand"`
	Competitors []models.CompetitorIdentity `json:"competitors"`
	Models      []models.ModelConfig        `json:"models"`
	Responses   []models.RawModelResponse   `json:"responses"`
}

// AuditRequest is a ScoreRequest plus the prompt it belongs to
type AuditRequest struct {
	ScoreRequest
	ClientID   string `json:"client_id"`
	PromptID   string `json:"prompt_id"`
	PromptText string `json:"prompt_text"`
	Category   string `json:"category,omitempty"`
	// Industry selects a competitor preset when Competitors is empty
	Industry string `json:"industry,omitempty"`
}

// AnalysisService scores model responses and records prompt audits
type AnalysisService interface {
	ScoreResponses(ctx context.Context, req ScoreRequest) ([]models.ModelResult, error)
	AuditPrompt(ctx context.Context, req AuditRequest) (*models.AuditResult, error)
	// ResolveCompetitors fills Competitors from the industry preset when none were given
	ResolveCompetitors(req AuditRequest) AuditRequest
	// Aggregate rolls already scored results into an audit and stores it
	Aggregate(ctx context.Context, req AuditRequest, results []models.ModelResult) (*models.AuditResult, error)
	GetAudit(ctx context.Context, id string) (*models.AuditResult, error)
}

// DashboardService recomputes client rollups from stored audits on every read
type DashboardService interface {
	GetDashboard(ctx context.Context, clientID string, from, to *time.Time) (*models.DashboardSummary, error)
	GetCitationSummary(ctx context.Context, clientID string, from, to *time.Time) ([]models.CitationSummary, error)
	ListClientIDs(ctx context.Context) ([]string, error)
}

// CostService prices model calls
type CostService interface {
	CalculateCost(provider string, model string, inputTokens int, outputTokens int, websearch bool) float64
	// CostForResponse is the cost of one raw response, preferring the reported API cost
	CostForResponse(resp models.RawModelResponse, model models.ModelConfig) float64
}

// NameVariationService suggests alternate brand names to track as tags
type NameVariationService interface {
	SuggestTags(ctx context.Context, brandName string, domain string) ([]string, error)
}

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var zero T
	schema := reflector.Reflect(zero)

	// Convert to the format expected by OpenAI
	result := map[string]interface{}{
		"type":       "object",
		"properties": schema.Properties,
		"required":   schema.Required,
	}

	if schema.AdditionalProperties != nil {
		result["additionalProperties"] = false
	}

	return result
}
