// services/anthropic_name_variation_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/internal/config"
	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

// AnthropicNameVariationModel is the Claude model used for tag suggestions
const AnthropicNameVariationModel = "claude-sonnet-4-20250514"

type anthropicNameVariationService struct {
	client      *anthropic.Client
	costService CostService
}

// NewAnthropicNameVariationService suggests tags with Claude. Claude has no
// strict schema mode here, so the JSON shape is requested in the prompt.
func NewAnthropicNameVariationService(cfg *config.Config, opts ...option.RequestOption) NameVariationService {
	requestOpts := append([]option.RequestOption{option.WithAPIKey(cfg.AnthropicAPIKey)}, opts...)
	client := anthropic.NewClient(requestOpts...)
	return &anthropicNameVariationService{
		client:      &client,
		costService: NewCostService(),
	}
}

func (s *anthropicNameVariationService) SuggestTags(ctx context.Context, brandName string, domain string) ([]string, error) {
	brandName = strings.TrimSpace(brandName)
	if brandName == "" {
		return nil, fmt.Errorf("%w: brand name is required", ErrInvalidAudit)
	}

	prompt := buildNameVariationPrompt(brandName, domain) + `

Return ONLY a JSON object of the form {"names": ["variation 1", "variation 2"]}, no other text.`

	response, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(AnthropicNameVariationModel),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate name variations: %w", err)
	}

	var textParts []string
	for _, block := range response.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			textParts = append(textParts, variant.Text)
		}
	}
	if len(textParts) == 0 {
		return nil, fmt.Errorf("no text content returned from Anthropic")
	}

	var parsed NameListResponse
	if err := json.Unmarshal([]byte(stripCodeFence(strings.Join(textParts, ""))), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse name variations response: %w", err)
	}

	inputTokens := int(response.Usage.InputTokens)
	outputTokens := int(response.Usage.OutputTokens)
	log.Info().
		Str("brand", brandName).
		Int("suggestions", len(parsed.Names)).
		Int("input_tokens", inputTokens).
		Int("output_tokens", outputTokens).
		Float64("cost", s.costService.CalculateCost("anthropic", AnthropicNameVariationModel, inputTokens, outputTokens, false)).
		Msg("Generated name variations")

	return MergeTags(models.BrandIdentity{Name: brandName}, parsed.Names), nil
}

// stripCodeFence unwraps a ```json fenced block if the model added one
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
