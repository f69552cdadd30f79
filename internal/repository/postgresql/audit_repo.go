// internal/repository/postgresql/audit_repo.go
package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/internal/repository"
)

// Schema creates the audit_results table. Scalar summary columns are kept for
// filtering; the JSONB columns are the source of truth when reading back.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_results (
	id               UUID PRIMARY KEY,
	client_id        TEXT NOT NULL,
	prompt_id        TEXT NOT NULL,
	prompt_text      TEXT NOT NULL,
	category         TEXT NOT NULL DEFAULT '',
	share_of_voice   INTEGER NOT NULL,
	visibility_score DOUBLE PRECISION NOT NULL,
	trust_index      DOUBLE PRECISION NOT NULL,
	total_cost       NUMERIC(12, 6) NOT NULL,
	summary          JSONB NOT NULL,
	model_results    JSONB NOT NULL,
	top_sources      JSONB NOT NULL,
	top_competitors  JSONB NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_results_client_created_idx ON audit_results (client_id, created_at);
`

const auditColumns = `id, client_id, prompt_id, prompt_text, category, summary, model_results, top_sources, top_competitors, created_at`

type auditRow struct {
	ID             uuid.UUID `db:"id"`
	ClientID       string    `db:"client_id"`
	PromptID       string    `db:"prompt_id"`
	PromptText     string    `db:"prompt_text"`
	Category       string    `db:"category"`
	Summary        []byte    `db:"summary"`
	ModelResults   []byte    `db:"model_results"`
	TopSources     []byte    `db:"top_sources"`
	TopCompetitors []byte    `db:"top_competitors"`
	CreatedAt      time.Time `db:"created_at"`
}

type auditRepo struct {
	db *sqlx.DB
}

// NewAuditRepo creates a Postgres-backed AuditRepository
func NewAuditRepo(db *sqlx.DB) repository.AuditRepository {
	return &auditRepo{db: db}
}

// Migrate applies Schema
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate audit_results: %w", err)
	}
	return nil
}

func (r *auditRepo) Create(ctx context.Context, audit *models.AuditResult) error {
	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now().UTC()
	}

	summary, err := json.Marshal(audit.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	results, err := json.Marshal(audit.ModelResults)
	if err != nil {
		return fmt.Errorf("failed to marshal model results: %w", err)
	}
	sources, err := json.Marshal(audit.TopSources)
	if err != nil {
		return fmt.Errorf("failed to marshal top sources: %w", err)
	}
	competitors, err := json.Marshal(audit.TopCompetitors)
	if err != nil {
		return fmt.Errorf("failed to marshal top competitors: %w", err)
	}

	query := `
		INSERT INTO audit_results (
			id, client_id, prompt_id, prompt_text, category,
			share_of_voice, visibility_score, trust_index, total_cost,
			summary, model_results, top_sources, top_competitors, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.db.ExecContext(ctx, query,
		audit.ID,
		audit.ClientID,
		audit.PromptID,
		audit.PromptText,
		audit.Category,
		audit.Summary.ShareOfVoice,
		audit.Summary.VisibilityScore,
		audit.Summary.TrustIndex,
		audit.Summary.TotalCost,
		summary,
		results,
		sources,
		competitors,
		audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit result: %w", err)
	}
	return nil
}

func (r *auditRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AuditResult, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_results WHERE id = $1`

	var row auditRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get audit result %s: %w", id, err)
	}

	audit, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

func (r *auditRepo) ListByClient(ctx context.Context, clientID string, from, to *time.Time) ([]models.AuditResult, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM audit_results
		WHERE client_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at ASC, id ASC
	`

	var rows []auditRow
	if err := r.db.SelectContext(ctx, &rows, query, clientID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list audit results for client %s: %w", clientID, err)
	}

	audits := make([]models.AuditResult, 0, len(rows))
	for _, row := range rows {
		audit, err := row.toModel()
		if err != nil {
			return nil, err
		}
		audits = append(audits, audit)
	}
	return audits, nil
}

func (r *auditRepo) ListClientIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT DISTINCT client_id FROM audit_results ORDER BY client_id`); err != nil {
		return nil, fmt.Errorf("failed to list client ids: %w", err)
	}
	return ids, nil
}

func (row auditRow) toModel() (models.AuditResult, error) {
	audit := models.AuditResult{
		ID:         row.ID,
		ClientID:   row.ClientID,
		PromptID:   row.PromptID,
		PromptText: row.PromptText,
		Category:   row.Category,
		CreatedAt:  row.CreatedAt,
	}
	if err := json.Unmarshal(row.Summary, &audit.Summary); err != nil {
		return audit, fmt.Errorf("failed to decode summary of %s: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.ModelResults, &audit.ModelResults); err != nil {
		return audit, fmt.Errorf("failed to decode model results of %s: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.TopSources, &audit.TopSources); err != nil {
		return audit, fmt.Errorf("failed to decode top sources of %s: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.TopCompetitors, &audit.TopCompetitors); err != nil {
		return audit, fmt.Errorf("failed to decode top competitors of %s: %w", row.ID, err)
	}
	return audit, nil
}
