package brightdata

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/internal/config"
	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/internal/providers/common"
)

// CostPerAnswer is the flat BrightData price of one collected answer
const CostPerAnswer = 0.0015

// Provider reads one engine's answers from BrightData snapshots
type Provider struct {
	client  *common.BrightDataClient
	modelID string
}

// NewProvider creates a new snapshot-backed provider for modelID
func NewProvider(cfg config.BrightDataConfig, modelID string) *Provider {
	return &Provider{
		client:  common.NewBrightDataClient(cfg.APIKey, cfg.BaseURL),
		modelID: modelID,
	}
}

// WithClient swaps the underlying client, mostly for tests
func (p *Provider) WithClient(client *common.BrightDataClient) *Provider {
	p.client = client
	return p
}

// GetProviderName returns the name of this provider
func (p *Provider) GetProviderName() string {
	return "brightdata"
}

// ModelID returns the engine whose answers this provider reads
func (p *Provider) ModelID() string {
	return p.modelID
}

// FetchResponses waits for a snapshot to be ready and decodes its answers in input order
func (p *Provider) FetchResponses(ctx context.Context, snapshotID string) ([]models.RawModelResponse, error) {
	logger := log.With().Str("model_id", p.modelID).Str("snapshot_id", snapshotID).Logger()

	progress, err := p.client.CheckProgress(ctx, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to check progress: %w", err)
	}
	if progress.Status == "failed" {
		return nil, fmt.Errorf("snapshot %s failed", snapshotID)
	}

	bodyBytes, err := p.client.GetSnapshot(ctx, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	responses, err := common.DecodeSnapshot(bodyBytes, p.modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	failed := 0
	for i := range responses {
		if responses[i].Success {
			responses[i].APICost = CostPerAnswer
		} else {
			failed++
		}
	}

	logger.Info().Int("responses", len(responses)).Int("failed", failed).Msg("Fetched snapshot responses")
	return responses, nil
}
