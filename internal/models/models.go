// internal/models/models.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentiment is the tone of the text surrounding a mention
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// AuthorityType describes how strongly a model result substantiates the brand.
// The zero value means the brand was not mentioned at all.
type AuthorityType string

const (
	AuthorityNone        AuthorityType = ""
	AuthorityAuthority   AuthorityType = "authority"
	AuthorityAlternative AuthorityType = "alternative"
	AuthorityMentioned   AuthorityType = "mentioned"
)

// BrandIdentity is the tracked brand. Name always matches itself; Tags are alternate names.
type BrandIdentity struct {
	Name   string   `json:"name"`
	Domain *string  `json:"domain,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// Synonyms returns {Name} ∪ Tags, case-insensitively deduplicated in first-seen order
func (b BrandIdentity) Synonyms() []string {
	return dedupeTerms(append([]string{b.Name}, b.Tags...))
}

// DomainOrEmpty returns the declared brand domain or ""
func (b BrandIdentity) DomainOrEmpty() string {
	if b.Domain == nil {
		return ""
	}
	return *b.Domain
}

// CompetitorIdentity is matched by name only
type CompetitorIdentity struct {
	Name string `json:"name"`
}

func (c CompetitorIdentity) Synonyms() []string {
	return dedupeTerms([]string{c.Name})
}

func dedupeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		key := strings.ToLower(term)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, term)
	}
	return out
}

// ModelConfig is the static metadata for an answer engine
type ModelConfig struct {
	ID           string  `json:"id"`   // e.g., "chatgpt", "perplexity", "gemini"
	Name         string  `json:"name"` // display name
	Weight       float64 `json:"weight"`
	CostPerQuery float64 `json:"cost_per_query"`

	// WebSearch marks engines that ground answers in a live search, which is billed per query
	WebSearch bool `json:"web_search,omitempty"`
}

// RawCitation is a source reference attached to a model response, as fetched
type RawCitation struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
	Position *int   `json:"position,omitempty"`
}

// RawModelResponse is one engine's answer to one prompt. Immutable once fetched.
type RawModelResponse struct {
	ModelID        string        `json:"model_id"`
	Text           string        `json:"text"`
	Citations      []RawCitation `json:"citations_raw,omitempty"`
	ResponseTimeMs *int          `json:"response_time_ms,omitempty"`
	APICost        float64       `json:"api_cost"`
	InputTokens    int           `json:"input_tokens,omitempty"`
	OutputTokens   int           `json:"output_tokens,omitempty"`
	Success        bool          `json:"success"`
	Error          string        `json:"error,omitempty"`
}

// Citation is a normalized, deduplicated source reference
type Citation struct {
	URL           string `json:"url"`
	Title         string `json:"title,omitempty"`
	Domain        string `json:"domain"`
	Snippet       string `json:"snippet,omitempty"`
	Position      *int   `json:"position,omitempty"`
	IsBrandSource bool   `json:"is_brand_source"`
}

// CompetitorResult holds the signals for one competitor in one model result
type CompetitorResult struct {
	Name         string    `json:"name"`
	Count        int       `json:"count"`
	Rank         *int      `json:"rank"`
	Sentiment    Sentiment `json:"sentiment"`
	MatchedTerms []string  `json:"matched_terms"`
}

// ModelResult is derived once from a RawModelResponse and never mutated
type ModelResult struct {
	ModelID           string             `json:"model_id"`
	BrandMentioned    bool               `json:"brand_mentioned"`
	BrandMentionCount int                `json:"brand_mention_count"`
	BrandRank         *int               `json:"brand_rank"`
	BrandSentiment    Sentiment          `json:"brand_sentiment"`
	MatchedTerms      []string           `json:"matched_terms"`
	CompetitorsFound  []CompetitorResult `json:"competitors_found"`
	Citations         []Citation         `json:"citations"`
	CitationCount     int                `json:"citation_count"`
	IsCited           bool               `json:"is_cited"`
	AuthorityType     AuthorityType      `json:"authority_type,omitempty"`
	VisibilityScore   float64            `json:"visibility_score"`
	Cost              float64            `json:"cost"`
	ResponseTimeMs    *int               `json:"response_time_ms,omitempty"`
	Error             string             `json:"error,omitempty"`
}

// AuditSummary aggregates the model results of one prompt run
type AuditSummary struct {
	ShareOfVoice       int      `json:"share_of_voice"`
	AverageRank        *float64 `json:"average_rank"`
	VisibilityScore    float64  `json:"visibility_score"`
	WeightedVisibility float64  `json:"weighted_visibility"`
	TrustIndex         float64  `json:"trust_index"` // 0-100
	TotalCitations     int      `json:"total_citations"`
	TotalCost          float64  `json:"total_cost"`
	VisibleIn          int      `json:"visible_in"`
	CitedIn            int      `json:"cited_in"`
	TotalModelsChecked int      `json:"total_models_checked"`
}

// SourceCount is a citation domain with its occurrence count
type SourceCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// CompetitorSummary is a competitor with its summed mention count
type CompetitorSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AuditResult is one prompt run. A re-run produces a new AuditResult.
type AuditResult struct {
	ID             uuid.UUID           `json:"id"`
	ClientID       string              `json:"client_id"`
	PromptID       string              `json:"prompt_id"`
	PromptText     string              `json:"prompt_text"`
	Category       string              `json:"category,omitempty"`
	ModelResults   []ModelResult       `json:"model_results"`
	Summary        AuditSummary        `json:"summary"`
	TopSources     []SourceCount       `json:"top_sources"`
	TopCompetitors []CompetitorSummary `json:"top_competitors"`
	CreatedAt      time.Time           `json:"created_at"`
}

// CitationSummary merges one source across all of a client's audits
type CitationSummary struct {
	Key        string   `json:"key"`
	URL        string   `json:"url,omitempty"`
	Title      string   `json:"title,omitempty"`
	Domain     string   `json:"domain"`
	Count      int      `json:"count"`
	Prompts    []string `json:"prompts"`
	Models     []string `json:"models"`
	Categories []string `json:"categories"`
}

// ModelVisibility counts visible results per model across prompts
type ModelVisibility struct {
	ModelID    string  `json:"model_id"`
	Visible    int     `json:"visible"`
	Total      int     `json:"total"`
	Cost       float64 `json:"cost"`
	Percentage int     `json:"percentage"`
}

// CategoryVisibility counts visible results per prompt category
type CategoryVisibility struct {
	Category   string  `json:"category"`
	Visible    int     `json:"visible"`
	Total      int     `json:"total"`
	Cost       float64 `json:"cost"`
	Percentage int     `json:"percentage"`
}

// CompetitorGap is a competitor's total mentions relative to the top competitor
type CompetitorGap struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// DashboardSummary is recomputed from a client's AuditResults on every read
type DashboardSummary struct {
	ClientID             string               `json:"client_id"`
	TotalAudits          int                  `json:"total_audits"`
	ShareOfVoice         float64              `json:"share_of_voice"`
	VisibilityScore      float64              `json:"visibility_score"`
	TrustIndex           float64              `json:"trust_index"`
	AverageRank          *float64             `json:"average_rank"`
	TotalCitations       int                  `json:"total_citations"`
	TotalCost            float64              `json:"total_cost"`
	VisibilityByModel    []ModelVisibility    `json:"visibility_by_model"`
	VisibilityByCategory []CategoryVisibility `json:"visibility_by_category"`
	CompetitorGap        []CompetitorGap      `json:"competitor_gap"`
	TopSources           []SourceCount        `json:"top_sources"`
	TopSourcesDisplay    []SourceCount        `json:"top_sources_display"`
	GeneratedAt          time.Time            `json:"generated_at"`
}
