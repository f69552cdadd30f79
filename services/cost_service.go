// services/cost_service.go
package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

type costService struct{}

func NewCostService() CostService {
	return &costService{}
}

// Cost per 1M tokens
var costPerToken = map[string]struct{ input, output float64 }{
	"gpt-5":                    {input: 1.25, output: 10.00},
	"gpt-5-mini":               {input: 0.25, output: 2.00},
	"gpt-4.1":                  {input: 3.00, output: 12.00},
	"gpt-4.1-mini":             {input: 0.80, output: 3.20},
	"gpt-4o-2024-08-06":        {input: 2.50, output: 10.00},
	"claude-sonnet-4-20250514": {input: 3.00, output: 15.00},
	"sonar":                    {input: 1.00, output: 1.00},
	"gemini-2.5-flash":         {input: 0.30, output: 2.50},
}

// Cost per 1000 web searches
var costPerWebSearch = map[string]float64{
	"openai":     35.00,
	"anthropic":  10.00,
	"perplexity": 8.00,
	"gemini":     35.00,
}

var million = decimal.NewFromInt(1_000_000)

func (s *costService) CalculateCost(provider string, model string, inputTokens int, outputTokens int, websearch bool) float64 {
	modelCosts, exists := costPerToken[model]
	if !exists {
		// Default to GPT-4.1 costs if model not found
		modelCosts = costPerToken["gpt-4.1"]
	}

	inputCost := decimal.NewFromInt(int64(inputTokens)).Div(million).Mul(decimal.NewFromFloat(modelCosts.input))
	outputCost := decimal.NewFromInt(int64(outputTokens)).Div(million).Mul(decimal.NewFromFloat(modelCosts.output))
	totalCost := inputCost.Add(outputCost)

	if websearch {
		if searchCost, exists := costPerWebSearch[s.getProviderKey(provider)]; exists {
			totalCost = totalCost.Add(decimal.NewFromFloat(searchCost).Div(decimal.NewFromInt(1000)))
		}
	}

	return totalCost.InexactFloat64()
}

// CostForResponse prefers the cost the fetcher reported, then token pricing
// (plus the provider's search fee for web-search engines), then the model's
// flat per-query cost.
func (s *costService) CostForResponse(resp models.RawModelResponse, model models.ModelConfig) float64 {
	if resp.APICost > 0 {
		return resp.APICost
	}
	if resp.InputTokens > 0 || resp.OutputTokens > 0 {
		name := model.Name
		if name == "" {
			name = model.ID
		}
		return s.CalculateCost(model.ID, strings.ToLower(name), resp.InputTokens, resp.OutputTokens, model.WebSearch)
	}
	return model.CostPerQuery
}

func (s *costService) getProviderKey(provider string) string {
	provider = strings.ToLower(provider)
	if strings.Contains(provider, "openai") || strings.Contains(provider, "gpt") || strings.Contains(provider, "chatgpt") {
		return "openai"
	}
	if strings.Contains(provider, "anthropic") || strings.Contains(provider, "claude") {
		return "anthropic"
	}
	if strings.Contains(provider, "perplexity") || strings.Contains(provider, "sonar") {
		return "perplexity"
	}
	if strings.Contains(provider, "gemini") || strings.Contains(provider, "google") {
		return "gemini"
	}
	return "openai" // default
}
