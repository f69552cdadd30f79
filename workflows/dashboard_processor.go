// workflows/dashboard_processor.go
package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/services"
)

type DashboardProcessor struct {
	dashboardService services.DashboardService
	client           inngestgo.Client
}

func NewDashboardProcessor(dashboardService services.DashboardService) *DashboardProcessor {
	return &DashboardProcessor{
		dashboardService: dashboardService,
	}
}

func (p *DashboardProcessor) SetClient(client inngestgo.Client) {
	p.client = client
}

func (p *DashboardProcessor) RefreshDashboard() inngestgo.ServableFunction {
	fn, err := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:      "refresh-client-dashboard",
			Name:    "Refresh Client Dashboard",
			Retries: inngestgo.IntPtr(2),
		},
		inngestgo.EventTrigger(DashboardRefreshEventName, nil),
		func(ctx context.Context, input inngestgo.Input[DashboardRefreshEvent]) (any, error) {
			clientID := input.Event.Data.ClientID
			if clientID == "" {
				return nil, fmt.Errorf("%w: client_id is required", services.ErrInvalidAudit)
			}

			stats, err := step.Run(ctx, "recompute-dashboard", func(ctx context.Context) (map[string]interface{}, error) {
				dash, err := p.dashboardService.GetDashboard(ctx, clientID, nil, nil)
				if err != nil {
					return nil, err
				}
				return DashboardStats(dash), nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to recompute dashboard for %s: %w", clientID, err)
			}

			log.Info().Str("client_id", clientID).Interface("stats", stats).Msg("Dashboard refreshed")
			return stats, nil
		},
	)

	if err != nil {
		log.Error().Err(err).Msg("Failed to create dashboard refresh function")
	}

	return fn
}

func (p *DashboardProcessor) DailyDashboardRollup() inngestgo.ServableFunction {
	fn, err := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:   "daily-dashboard-rollup",
			Name: "Daily Dashboard Rollup",
		},
		inngestgo.CronTrigger("0 3 * * *"), // Every day at 3 AM UTC
		func(ctx context.Context, input inngestgo.Input[any]) (any, error) {
			now := time.Now()

			clientIDs, err := step.Run(ctx, "list-clients", func(ctx context.Context) ([]string, error) {
				return p.dashboardService.ListClientIDs(ctx)
			})
			if err != nil {
				return nil, fmt.Errorf("failed to list clients: %w", err)
			}

			// One idempotent step per client, so a retry only resends what failed
			sent := 0
			for _, clientID := range clientIDs {
				stepName := fmt.Sprintf("trigger-dashboard-refresh-%s", clientID)
				_, err := step.Run(ctx, stepName, func(ctx context.Context) (interface{}, error) {
					return p.client.Send(ctx, inngestgo.Event{
						Name: DashboardRefreshEventName,
						Data: map[string]interface{}{
							"client_id":    clientID,
							"triggered_by": "automatic_scheduler",
						},
					})
				})
				if err != nil {
					log.Warn().Err(err).Str("client_id", clientID).Msg("Failed to send dashboard refresh")
					continue
				}
				sent++
			}

			return map[string]interface{}{
				"execution_date": now.Format("2006-01-02"),
				"clients_found":  len(clientIDs),
				"refreshes_sent": sent,
			}, nil
		},
	)

	if err != nil {
		log.Error().Err(err).Msg("Failed to create daily dashboard rollup function")
	}

	return fn
}

// DashboardStats is the compact summary a refresh run reports
func DashboardStats(dash *models.DashboardSummary) map[string]interface{} {
	stats := map[string]interface{}{
		"client_id":        dash.ClientID,
		"total_audits":     dash.TotalAudits,
		"share_of_voice":   dash.ShareOfVoice,
		"visibility_score": dash.VisibilityScore,
		"trust_index":      dash.TrustIndex,
		"total_citations":  dash.TotalCitations,
		"total_cost":       dash.TotalCost,
		"models":           len(dash.VisibilityByModel),
		"categories":       len(dash.VisibilityByCategory),
	}
	if len(dash.CompetitorGap) > 0 {
		stats["top_competitor"] = dash.CompetitorGap[0].Name
	}
	if len(dash.TopSources) > 0 {
		stats["top_source"] = dash.TopSources[0].Domain
	}
	return stats
}
