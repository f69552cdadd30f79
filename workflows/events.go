// workflows/events.go
package workflows

import (
	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/services"
)

const (
	PromptAuditEventName      = "prompt.audit"
	DashboardRefreshEventName = "client.dashboard.refresh"
)

// SnapshotRef points at a BrightData snapshot holding one engine's answer to the prompt
type SnapshotRef struct {
	ModelID    string `json:"model_id"`
	SnapshotID string `json:"snapshot_id"`
}

// PromptAuditEvent asks for one prompt run to be scored and stored. Responses
// may be inlined, referenced as snapshots, or both.
type PromptAuditEvent struct {
	services.AuditRequest
	Snapshots   []SnapshotRef `json:"snapshots,omitempty"`
	TriggeredBy string        `json:"triggered_by,omitempty"`
}

// DashboardRefreshEvent asks for a client's dashboard to be recomputed
type DashboardRefreshEvent struct {
	ClientID    string `json:"client_id"`
	TriggeredBy string `json:"triggered_by,omitempty"`
}

// AuditStepResult is what the aggregate step hands to later steps
type AuditStepResult struct {
	AuditID        string              `json:"audit_id"`
	ClientID       string              `json:"client_id"`
	PromptID       string              `json:"prompt_id"`
	Summary        models.AuditSummary `json:"summary"`
	TopSources     int                 `json:"top_sources"`
	TopCompetitors int                 `json:"top_competitors"`
}
