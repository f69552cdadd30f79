// internal/repository/interfaces.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

// ErrNotFound is returned when an audit result does not exist
var ErrNotFound = errors.New("audit result not found")

// AuditRepository persists audit results. Results are append-only: a re-run is a new row.
type AuditRepository interface {
	Create(ctx context.Context, audit *models.AuditResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AuditResult, error)
	// ListByClient returns a client's audits oldest first; nil bounds are open
	ListByClient(ctx context.Context, clientID string, from, to *time.Time) ([]models.AuditResult, error)
	ListClientIDs(ctx context.Context) ([]string, error)
}
