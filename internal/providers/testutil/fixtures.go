package testutil

import (
	"github.com/AI-Template-SDK/senso-visibility/internal/config"
	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

// SampleConfig returns a test configuration
func SampleConfig() *config.Config {
	return &config.Config{
		Environment:        "test",
		OpenAIAPIKey:       "test-openai-key",
		RateLimitPerMinute: 1000,
		Analysis: config.AnalysisConfig{
			DashboardTopN: 5,
		},
		BrightData: config.BrightDataConfig{
			APIKey: "test-api-key",
		},
	}
}

// SampleBrand returns the brand used across fixtures
func SampleBrand() models.BrandIdentity {
	domain := "juleo.com"
	return models.BrandIdentity{
		Name:   "Juleo",
		Domain: &domain,
		Tags:   []string{"Juleo App"},
	}
}

// SampleCompetitors returns competitors matching SampleSnapshotResponse
func SampleCompetitors() []models.CompetitorIdentity {
	return []models.CompetitorIdentity{{Name: "Bumble"}, {Name: "Hinge"}, {Name: "Tinder"}}
}

// SampleModels returns the engines configured for a prompt run
func SampleModels() []models.ModelConfig {
	return []models.ModelConfig{
		{ID: "chatgpt", Name: "ChatGPT", Weight: 1, CostPerQuery: 0.0015},
		{ID: "perplexity", Name: "Perplexity", Weight: 1, CostPerQuery: 0.005},
		{ID: "gemini", Name: "Gemini", Weight: 0.5, CostPerQuery: 0.001},
	}
}

// SampleResponses returns one raw answer per SampleModels entry
func SampleResponses() []models.RawModelResponse {
	return []models.RawModelResponse{
		{
			ModelID: "chatgpt",
			Text:    "Top dating apps:\n1. **Juleo** - the best for serious relationships.\n2. Bumble\n3. Hinge",
			Citations: []models.RawCitation{
				{URL: "https://juleo.com/about", Title: "About Juleo"},
				{URL: "https://www.reddit.com/r/dating"},
			},
			Success: true,
		},
		{
			ModelID:   "perplexity",
			Text:      "Popular picks are Tinder and Bumble. Some users also like Juleo.",
			Citations: []models.RawCitation{{URL: "https://www.reddit.com/r/dating?utm_source=pplx"}},
			APICost:   0.004,
			Success:   true,
		},
		{
			ModelID: "gemini",
			Error:   "Request timeout",
		},
	}
}

// SampleSnapshotResponse returns a mock BrightData snapshot body
func SampleSnapshotResponse() string {
	return `[
		{
			"url": "https://chatgpt.com/",
			"prompt": "Which dating apps are best for serious relationships?",
			"answer_text_markdown": "1. **Juleo** - verified profiles \\[1\\]\n2. Hinge \\[2\\]",
			"citations": ["https://juleo.com/about", "https://hinge.co/mission"],
			"links_attached": [
				{"url": "https://juleo.com/about", "text": "About Juleo", "position": 1},
				{"url": "https://hinge.co/mission", "text": "Hinge mission", "position": 2}
			],
			"country": "US",
			"web_search_triggered": true,
			"index": 2
		},
		{
			"url": "https://chatgpt.com/",
			"prompt": "Which dating app has the best matching?",
			"answer_text_markdown": "Bumble is popular. See https://www.bumble.com/the-buzz and https://cdn.example.com/logo.png",
			"citations": null,
			"country": "US",
			"web_search_triggered": true,
			"index": 1
		},
		{
			"url": "https://chatgpt.com/",
			"prompt": "Is Juleo legit?",
			"answer_text_markdown": "Juleo is a verified dating app.",
			"citations": "https://www.trustpilot.com/review/juleo.com",
			"country": "US",
			"web_search_triggered": true,
			"index": 3
		}
	]`
}

// SampleErrorResponse returns a mock error response from BrightData
func SampleErrorResponse() string {
	return `[
		{
			"error": "Request timeout",
			"input": {
				"url": "https://chatgpt.com/",
				"prompt": "Which dating apps are best for serious relationships?",
				"country": "US",
				"index": 1
			}
		}
	]`
}

// SampleStatusResponse returns a mock status response (building)
func SampleStatusResponse() string {
	return `{
		"status": "building",
		"message": "Snapshot is still being built"
	}`
}

// SampleReadyProgressResponse returns a ready progress response
func SampleReadyProgressResponse() string {
	return `{
		"status": "ready",
		"snapshot_id": "test-snapshot-123",
		"dataset_id": "gd_abc123"
	}`
}
