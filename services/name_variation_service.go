// services/name_variation_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/internal/config"
	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

// NameVariationModel is the chat model used for tag suggestions
const NameVariationModel = "gpt-4.1-mini"

// NameListResponse is the structured output returned by the model
type NameListResponse struct {
	Names []string `json:"names" jsonschema_description:"List of realistic brand name variations"`
}

type nameVariationService struct {
	openAIClient *openai.Client
	costService  CostService
}

// NewNameVariationService creates the tag suggester. Extra options are appended
// after the API key, so tests can point the client at a local server.
func NewNameVariationService(cfg *config.Config, opts ...option.RequestOption) NameVariationService {
	requestOpts := append([]option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}, opts...)
	client := openai.NewClient(requestOpts...)
	return &nameVariationService{
		openAIClient: &client,
		costService:  NewCostService(),
	}
}

func (s *nameVariationService) SuggestTags(ctx context.Context, brandName string, domain string) ([]string, error) {
	brandName = strings.TrimSpace(brandName)
	if brandName == "" {
		return nil, fmt.Errorf("%w: brand name is required", ErrInvalidAudit)
	}

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "name_variations_extraction",
		Description: openai.String("Generate realistic brand name variations"),
		Schema:      GenerateSchema[NameListResponse](),
		Strict:      openai.Bool(true),
	}

	chatResponse, err := s.openAIClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are an expert in brand name analysis. Generate realistic brand name variations that an AI assistant might use when writing about the brand."),
			openai.UserMessage(buildNameVariationPrompt(brandName, domain)),
		},
		Model: openai.ChatModel(NameVariationModel),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate name variations: %w", err)
	}
	if len(chatResponse.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned from OpenAI")
	}

	var parsed NameListResponse
	if err := json.Unmarshal([]byte(chatResponse.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse name variations response: %w", err)
	}

	inputTokens := int(chatResponse.Usage.PromptTokens)
	outputTokens := int(chatResponse.Usage.CompletionTokens)
	log.Info().
		Str("brand", brandName).
		Int("suggestions", len(parsed.Names)).
		Int("input_tokens", inputTokens).
		Int("output_tokens", outputTokens).
		Float64("cost", s.costService.CalculateCost("openai", NameVariationModel, inputTokens, outputTokens, false)).
		Msg("Generated name variations")

	return MergeTags(models.BrandIdentity{Name: brandName}, parsed.Names), nil
}

// MergeTags adds suggestions to a brand's tags, dropping blanks, URLs, emails
// and anything case-insensitively equal to an existing synonym.
func MergeTags(brand models.BrandIdentity, suggestions []string) []string {
	seen := make(map[string]bool)
	for _, s := range brand.Synonyms() {
		seen[strings.ToLower(s)] = true
	}

	tags := append([]string{}, brand.Tags...)
	for _, name := range suggestions {
		name = strings.TrimSpace(name)
		lower := strings.ToLower(name)
		if name == "" || seen[lower] || strings.Contains(lower, "://") || strings.HasPrefix(lower, "www.") || strings.Contains(lower, "@") {
			continue
		}
		seen[lower] = true
		tags = append(tags, name)
	}
	return tags
}

func buildNameVariationPrompt(brandName, domain string) string {
	website := "(none provided)"
	if domain != "" {
		website = domain
	}
	return fmt.Sprintf(`Generate REALISTIC variations of this brand name that would actually appear in answers written about the company. Focus on:

1. **Spacing variations**: for compound names include spaced, unspaced and hyphenated versions ("SunLife" -> "Sun Life", "Sun-Life")
2. **Legal/formal variations**: "Inc", "LLC", "Ltd" only when realistic for this company
3. **Natural shortened versions**: "Senso.ai" -> "Senso", "Microsoft Corporation" -> "Microsoft"
4. **Realistic acronyms**: only for multi-word names where each word contributes a letter
5. **Domain-based variations**: the bare domain root ("senso" from "senso.ai")

IMPORTANT CONSTRAINTS:
- Do NOT include email addresses or full website URLs
- Do NOT invent arbitrary abbreviations
- Case-only variations are unnecessary, matching is case-insensitive
- Return 5-15 variations, quality over quantity

The brand name is %s

Associated website: %s`, "`"+brandName+"`", website)
}
