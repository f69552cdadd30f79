// workflows/audit_processor.go
package workflows

import (
	"context"
	"fmt"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/internal/providers"
	"github.com/AI-Template-SDK/senso-visibility/services"
)

// SourceFactory builds the response source for a model ID
type SourceFactory func(modelID string) (providers.ResponseSource, error)

type AuditProcessor struct {
	analysisService services.AnalysisService
	sources         SourceFactory
	client          inngestgo.Client
}

func NewAuditProcessor(analysisService services.AnalysisService, sources SourceFactory) *AuditProcessor {
	return &AuditProcessor{
		analysisService: analysisService,
		sources:         sources,
	}
}

func (p *AuditProcessor) SetClient(client inngestgo.Client) {
	p.client = client
}

func (p *AuditProcessor) ProcessPromptAudit() inngestgo.ServableFunction {
	fn, err := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:      "process-prompt-audit",
			Name:    "Process Prompt Audit - Score, Aggregate and Store",
			Retries: inngestgo.IntPtr(3),
		},
		inngestgo.EventTrigger(PromptAuditEventName, nil),
		func(ctx context.Context, input inngestgo.Input[PromptAuditEvent]) (any, error) {
			evt := input.Event.Data
			logger := log.With().Str("client_id", evt.ClientID).Str("prompt_id", evt.PromptID).Logger()
			logger.Info().Int("responses", len(evt.Responses)).Int("snapshots", len(evt.Snapshots)).Msg("Starting prompt audit")

			// Step 1: Collect responses, fetching referenced snapshots
			responses, err := step.Run(ctx, "collect-model-responses", func(ctx context.Context) ([]models.RawModelResponse, error) {
				return p.CollectResponses(ctx, evt)
			})
			if err != nil {
				return nil, fmt.Errorf("step 1 failed: %w", err)
			}

			// Step 2: Score every response independently
			auditReq := p.AuditRequestFor(evt, responses)
			results, err := step.Run(ctx, "score-model-results", func(ctx context.Context) ([]models.ModelResult, error) {
				return p.analysisService.ScoreResponses(ctx, auditReq.ScoreRequest)
			})
			if err != nil {
				return nil, fmt.Errorf("step 2 failed: %w", err)
			}

			// Step 3: Roll up the prompt and persist the audit
			stored, err := step.Run(ctx, "aggregate-and-store", func(ctx context.Context) (*AuditStepResult, error) {
				audit, err := p.analysisService.Aggregate(ctx, auditReq, results)
				if err != nil {
					return nil, err
				}
				return &AuditStepResult{
					AuditID:        audit.ID.String(),
					ClientID:       audit.ClientID,
					PromptID:       audit.PromptID,
					Summary:        audit.Summary,
					TopSources:     len(audit.TopSources),
					TopCompetitors: len(audit.TopCompetitors),
				}, nil
			})
			if err != nil {
				return nil, fmt.Errorf("step 3 failed: %w", err)
			}

			// Step 4: The dashboard is a pure fold over audits, so refresh it
			_, err = step.Run(ctx, "trigger-dashboard-refresh", func(ctx context.Context) (interface{}, error) {
				return p.client.Send(ctx, inngestgo.Event{
					Name: DashboardRefreshEventName,
					Data: map[string]interface{}{
						"client_id":    stored.ClientID,
						"triggered_by": "prompt_audit",
					},
				})
			})
			if err != nil {
				// The audit is stored; the next refresh or the daily rollup catches up
				logger.Warn().Err(err).Msg("Failed to trigger dashboard refresh")
			}

			logger.Info().Str("audit_id", stored.AuditID).Int("share_of_voice", stored.Summary.ShareOfVoice).Msg("Prompt audit complete")
			return stored, nil
		},
	)

	if err != nil {
		log.Error().Err(err).Msg("Failed to create prompt audit function")
	}

	return fn
}

// AuditRequestFor is the request scored and aggregated for an event: the
// collected responses, with industry preset competitors resolved up front.
func (p *AuditProcessor) AuditRequestFor(evt PromptAuditEvent, responses []models.RawModelResponse) services.AuditRequest {
	req := evt.AuditRequest
	req.Responses = responses
	return p.analysisService.ResolveCompetitors(req)
}

// CollectResponses returns the inline responses followed by the first answer of
// every referenced snapshot. A snapshot that cannot be fetched becomes an
// unsuccessful response for its model rather than failing the audit.
func (p *AuditProcessor) CollectResponses(ctx context.Context, evt PromptAuditEvent) ([]models.RawModelResponse, error) {
	responses := append([]models.RawModelResponse{}, evt.Responses...)

	for _, ref := range evt.Snapshots {
		if ref.ModelID == "" || ref.SnapshotID == "" {
			return nil, fmt.Errorf("%w: snapshot reference needs model_id and snapshot_id", services.ErrInvalidAudit)
		}
		if p.sources == nil {
			return nil, fmt.Errorf("no response source configured for snapshot %s", ref.SnapshotID)
		}

		source, err := p.sources(ref.ModelID)
		if err != nil {
			return nil, fmt.Errorf("failed to create response source: %w", err)
		}

		fetched, err := source.FetchResponses(ctx, ref.SnapshotID)
		if err != nil {
			log.Warn().Err(err).Str("model_id", ref.ModelID).Str("snapshot_id", ref.SnapshotID).Msg("Snapshot fetch failed")
			responses = append(responses, models.RawModelResponse{ModelID: ref.ModelID, Error: err.Error()})
			continue
		}
		if len(fetched) == 0 {
			responses = append(responses, models.RawModelResponse{ModelID: ref.ModelID, Error: "snapshot returned no results"})
			continue
		}

		resp := fetched[0]
		resp.ModelID = ref.ModelID
		responses = append(responses, resp)
	}

	return responses, nil
}
