package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/internal/repository"
)

// memoryAuditRepo is an in-memory repository.AuditRepository
type memoryAuditRepo struct {
	mu      sync.Mutex
	audits  []models.AuditResult
	failErr error
}

func (r *memoryAuditRepo) Create(ctx context.Context, audit *models.AuditResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.audits = append(r.audits, *audit)
	return nil
}

func (r *memoryAuditRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AuditResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.audits {
		if a.ID == id {
			audit := a
			return &audit, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryAuditRepo) ListByClient(ctx context.Context, clientID string, from, to *time.Time) ([]models.AuditResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	var out []models.AuditResult
	for _, a := range r.audits {
		if a.ClientID != clientID {
			continue
		}
		if from != nil && a.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && a.CreatedAt.After(*to) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryAuditRepo) ListClientIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var ids []string
	for _, a := range r.audits {
		if !seen[a.ClientID] {
			seen[a.ClientID] = true
			ids = append(ids, a.ClientID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
