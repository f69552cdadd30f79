package providers

import (
	"context"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

// ResponseSource fetches the finished answers one engine gave for a snapshot of prompts
type ResponseSource interface {
	FetchResponses(ctx context.Context, snapshotID string) ([]models.RawModelResponse, error)
	GetProviderName() string
	ModelID() string
}
