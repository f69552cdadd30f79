package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

// Trust index weights, applied to rates expressed as fractions. The index is on a 0-100 scale.
const (
	citationRateWeight  = 60.0
	authorityRateWeight = 40.0
)

// PromptAudit is the input to AggregatePrompt: every model result available for one prompt run
type PromptAudit struct {
	ID         uuid.UUID
	ClientID   string
	PromptID   string
	PromptText string
	Category   string
	Results    []models.ModelResult
	Models     []models.ModelConfig
	CreatedAt  time.Time
}

// AggregatePrompt rolls the model results of one prompt into an AuditResult.
// A partial set is fine: TotalModelsChecked is however many results are present.
func AggregatePrompt(in PromptAudit) models.AuditResult {
	configs := make(map[string]models.ModelConfig, len(in.Models))
	for _, m := range in.Models {
		configs[m.ID] = m
	}

	results := make([]models.ModelResult, len(in.Results))
	copy(results, in.Results)
	for i := range results {
		if results[i].Cost == 0 {
			results[i].Cost = configs[results[i].ModelID].CostPerQuery
		}
	}

	return models.AuditResult{
		ID:             in.ID,
		ClientID:       in.ClientID,
		PromptID:       in.PromptID,
		PromptText:     in.PromptText,
		Category:       in.Category,
		ModelResults:   results,
		Summary:        summarize(results, configs),
		TopSources:     countSources(results),
		TopCompetitors: countCompetitors(results),
		CreatedAt:      in.CreatedAt,
	}
}

func summarize(results []models.ModelResult, configs map[string]models.ModelConfig) models.AuditSummary {
	summary := models.AuditSummary{TotalModelsChecked: len(results)}
	if len(results) == 0 {
		return summary
	}

	var (
		ranks     []float64
		scores    []float64
		weights   []float64
		authority int
		cost      = decimal.Zero
	)
	for _, r := range results {
		if r.BrandMentioned {
			summary.VisibleIn++
		}
		if r.IsCited {
			summary.CitedIn++
		}
		if r.AuthorityType == models.AuthorityAuthority {
			authority++
		}
		if r.BrandRank != nil {
			ranks = append(ranks, float64(*r.BrandRank))
		}
		summary.TotalCitations += r.CitationCount
		cost = cost.Add(decimal.NewFromFloat(r.Cost))

		weight := configs[r.ModelID].Weight
		if weight <= 0 {
			weight = 1
		}
		scores = append(scores, r.VisibilityScore)
		weights = append(weights, weight)
	}

	total := float64(len(results))
	summary.ShareOfVoice = percentage(summary.VisibleIn, len(results))
	if len(ranks) > 0 {
		avg := round2(stat.Mean(ranks, nil))
		summary.AverageRank = &avg
	}
	summary.VisibilityScore = round2(stat.Mean(scores, nil))
	summary.WeightedVisibility = round2(stat.Mean(scores, weights))

	citationRate := float64(summary.CitedIn) / total
	authorityRate := float64(authority) / total
	summary.TrustIndex = round2(citationRate*citationRateWeight + authorityRate*authorityRateWeight)
	summary.TotalCost = cost.InexactFloat64()
	return summary
}

// countSources counts citation domains across model results, highest first
func countSources(results []models.ModelResult) []models.SourceCount {
	c := newCounter()
	for _, r := range results {
		for _, citation := range r.Citations {
			c.add(citation.Domain, 1)
		}
	}
	sources := []models.SourceCount{}
	for _, e := range c.sorted() {
		sources = append(sources, models.SourceCount{Domain: e.key, Count: e.count})
	}
	return sources
}

// countCompetitors sums competitor mentions across model results, highest first
func countCompetitors(results []models.ModelResult) []models.CompetitorSummary {
	c := newCounter()
	for _, r := range results {
		for _, comp := range r.CompetitorsFound {
			c.add(comp.Name, comp.Count)
		}
	}
	competitors := []models.CompetitorSummary{}
	for _, e := range c.sorted() {
		competitors = append(competitors, models.CompetitorSummary{Name: e.key, Count: e.count})
	}
	return competitors
}

type counterEntry struct {
	key   string
	count int
}

// counter keeps insertion order so ties sort by first appearance
type counter struct {
	entries []counterEntry
	index   map[string]int
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(key string, n int) {
	if key == "" || n <= 0 {
		return
	}
	i, ok := c.index[key]
	if !ok {
		i = len(c.entries)
		c.index[key] = i
		c.entries = append(c.entries, counterEntry{key: key})
	}
	c.entries[i].count += n
}

func (c *counter) sorted() []counterEntry {
	out := make([]counterEntry, len(c.entries))
	copy(out, c.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].count > out[j].count
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
