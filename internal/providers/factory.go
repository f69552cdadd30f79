package providers

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/internal/config"
	"github.com/AI-Template-SDK/senso-visibility/internal/providers/brightdata"
)

// snapshotEngines are the answer engines whose results arrive as BrightData snapshots
var snapshotEngines = []string{"chatgpt", "perplexity", "gemini", "aioverview", "copilot"}

// NewResponseSource creates the response source for a model ID
func NewResponseSource(modelID string, cfg *config.Config) (ResponseSource, error) {
	modelLower := strings.ToLower(strings.TrimSpace(modelID))
	if modelLower == "" {
		return nil, fmt.Errorf("model id is required")
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	for _, engine := range snapshotEngines {
		if strings.Contains(modelLower, engine) {
			log.Debug().Str("model_id", modelID).Str("engine", engine).Msg("Selected BrightData response source")
			return brightdata.NewProvider(cfg.BrightData, modelID), nil
		}
	}

	return nil, fmt.Errorf("unsupported model: %s", modelID)
}
