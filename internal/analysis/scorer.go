package analysis

import (
	"strings"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

// DefaultFailureError is recorded when a response failed without an error message
const DefaultFailureError = "model response unsuccessful"

// Engine scores raw model responses. It holds only immutable configuration and
// is safe for concurrent use.
type Engine struct {
	lexicon   Lexicon
	sentiment *sentimentScorer
}

// NewEngine builds an Engine around a keyword lexicon
func NewEngine(lex Lexicon) *Engine {
	lex = lex.withDefaults()
	return &Engine{
		lexicon:   lex,
		sentiment: newSentimentScorer(lex),
	}
}

// Lexicon returns the engine's keyword configuration
func (e *Engine) Lexicon() Lexicon {
	return e.lexicon
}

// ScoreResponse turns one raw response into a ModelResult. A failed or empty
// response yields a zeroed result carrying the error; it is "no signal", not a failure.
func (e *Engine) ScoreResponse(resp models.RawModelResponse, brand models.BrandIdentity, competitors []models.CompetitorIdentity) models.ModelResult {
	result := models.ModelResult{
		ModelID:          resp.ModelID,
		BrandSentiment:   models.SentimentNeutral,
		MatchedTerms:     []string{},
		CompetitorsFound: []models.CompetitorResult{},
		Citations:        []models.Citation{},
		Cost:             resp.APICost,
		ResponseTimeMs:   copyInt(resp.ResponseTimeMs),
		Error:            resp.Error,
	}
	if !resp.Success {
		if result.Error == "" {
			result.Error = DefaultFailureError
		}
		return result
	}

	normalized := Normalize(resp.Text)
	if strings.TrimSpace(normalized) == "" {
		return result
	}

	brandSynonyms := brand.Synonyms()
	mention := DetectMentions(normalized, brandSynonyms)
	result.BrandMentionCount = mention.Count
	result.BrandMentioned = mention.Mentioned()
	result.MatchedTerms = mention.MatchedTerms
	if mention.Mentioned() {
		result.BrandRank = ExtractRank(resp.Text, brandSynonyms)
		result.BrandSentiment = e.sentiment.classify(normalized, mention.Spans)
	}

	result.CompetitorsFound = e.scoreCompetitors(resp.Text, normalized, brandSynonyms, competitors)

	result.Citations = ExtractCitations(resp.Citations, brand)
	result.CitationCount = len(result.Citations)
	for _, c := range result.Citations {
		if c.IsBrandSource {
			result.IsCited = true
			break
		}
	}

	result.AuthorityType = ClassifyAuthority(result.IsCited, result.BrandMentionCount)
	result.VisibilityScore = VisibilityScore(result)
	return result
}

func (e *Engine) scoreCompetitors(raw, normalized string, brandSynonyms []string, competitors []models.CompetitorIdentity) []models.CompetitorResult {
	isBrand := make(map[string]bool, len(brandSynonyms))
	for _, s := range brandSynonyms {
		isBrand[strings.ToLower(s)] = true
	}

	found := []models.CompetitorResult{}
	seen := make(map[string]bool, len(competitors))
	for _, competitor := range competitors {
		key := strings.ToLower(strings.TrimSpace(competitor.Name))
		if key == "" || isBrand[key] || seen[key] {
			continue
		}
		seen[key] = true

		synonyms := competitor.Synonyms()
		mention := DetectMentions(normalized, synonyms)
		if !mention.Mentioned() {
			continue
		}
		found = append(found, models.CompetitorResult{
			Name:         competitor.Name,
			Count:        mention.Count,
			Rank:         ExtractRank(raw, synonyms),
			Sentiment:    e.sentiment.classify(normalized, mention.Spans),
			MatchedTerms: mention.MatchedTerms,
		})
	}
	return found
}

// VisibilityScore is the composite for one model result: a base for citation or
// mention, a bonus for a top-3 list position and up to 20 points for frequency.
func VisibilityScore(r models.ModelResult) float64 {
	score := 0
	switch {
	case r.IsCited:
		score = 100
	case r.BrandMentioned:
		score = 50
	}
	if r.BrandRank != nil {
		switch *r.BrandRank {
		case 1:
			score += 30
		case 2:
			score += 20
		case 3:
			score += 10
		}
	}
	frequency := r.BrandMentionCount * 5
	if frequency > 20 {
		frequency = 20
	}
	return float64(score + frequency)
}
