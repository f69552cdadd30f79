package analysis

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

// DefaultTopSources is how many sources the dashboard shows by default
const DefaultTopSources = 5

// UncategorizedLabel groups prompts saved without a category
const UncategorizedLabel = "uncategorized"

// DashboardOptions controls the dashboard rollup
type DashboardOptions struct {
	From *time.Time // inclusive
	To   *time.Time // inclusive
	TopN int        // size of TopSourcesDisplay, DefaultTopSources when <= 0
	Now  time.Time  // stamped as GeneratedAt
}

type visibilityCounter struct {
	visible int
	total   int
	cost    decimal.Decimal
}

// BuildDashboard folds a client's audit results into a DashboardSummary.
// It is a pure function of its inputs: recompute it whenever the results change.
func BuildDashboard(clientID string, results []models.AuditResult, opts DashboardOptions) models.DashboardSummary {
	dash := models.DashboardSummary{
		ClientID:             clientID,
		VisibilityByModel:    []models.ModelVisibility{},
		VisibilityByCategory: []models.CategoryVisibility{},
		CompetitorGap:        []models.CompetitorGap{},
		TopSources:           []models.SourceCount{},
		TopSourcesDisplay:    []models.SourceCount{},
		GeneratedAt:          opts.Now,
	}

	audits := FilterByDate(results, opts.From, opts.To)
	dash.TotalAudits = len(audits)
	if len(audits) == 0 {
		return dash
	}

	var (
		sov, visibility, trust, ranks []float64
		cost                          = decimal.Zero
		byModel                       = map[string]*visibilityCounter{}
		byCategory                    = map[string]*visibilityCounter{}
		competitors                   = newCounter()
		sources                       = newCounter()
	)
	for _, audit := range audits {
		sov = append(sov, float64(audit.Summary.ShareOfVoice))
		visibility = append(visibility, audit.Summary.VisibilityScore)
		trust = append(trust, audit.Summary.TrustIndex)
		if audit.Summary.AverageRank != nil {
			ranks = append(ranks, *audit.Summary.AverageRank)
		}
		dash.TotalCitations += audit.Summary.TotalCitations
		cost = cost.Add(decimal.NewFromFloat(audit.Summary.TotalCost))

		category := audit.Category
		if category == "" {
			category = UncategorizedLabel
		}
		for _, mr := range audit.ModelResults {
			tally(byModel, mr.ModelID, mr)
			tally(byCategory, category, mr)
		}
		for _, comp := range audit.TopCompetitors {
			competitors.add(comp.Name, comp.Count)
		}
		for _, src := range audit.TopSources {
			sources.add(src.Domain, src.Count)
		}
	}

	dash.ShareOfVoice = round2(stat.Mean(sov, nil))
	dash.VisibilityScore = round2(stat.Mean(visibility, nil))
	dash.TrustIndex = round2(stat.Mean(trust, nil))
	if len(ranks) > 0 {
		avg := round2(stat.Mean(ranks, nil))
		dash.AverageRank = &avg
	}
	dash.TotalCost = cost.InexactFloat64()

	for _, id := range sortedKeys(byModel) {
		c := byModel[id]
		dash.VisibilityByModel = append(dash.VisibilityByModel, models.ModelVisibility{
			ModelID:    id,
			Visible:    c.visible,
			Total:      c.total,
			Cost:       c.cost.InexactFloat64(),
			Percentage: percentage(c.visible, c.total),
		})
	}
	for _, name := range sortedKeys(byCategory) {
		c := byCategory[name]
		dash.VisibilityByCategory = append(dash.VisibilityByCategory, models.CategoryVisibility{
			Category:   name,
			Visible:    c.visible,
			Total:      c.total,
			Cost:       c.cost.InexactFloat64(),
			Percentage: percentage(c.visible, c.total),
		})
	}

	gaps := competitors.sorted()
	for _, e := range gaps {
		dash.CompetitorGap = append(dash.CompetitorGap, models.CompetitorGap{
			Name:       e.key,
			Count:      e.count,
			Percentage: percentage(e.count, gaps[0].count),
		})
	}

	for _, e := range sources.sorted() {
		dash.TopSources = append(dash.TopSources, models.SourceCount{Domain: e.key, Count: e.count})
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopSources
	}
	if topN > len(dash.TopSources) {
		topN = len(dash.TopSources)
	}
	dash.TopSourcesDisplay = append(dash.TopSourcesDisplay, dash.TopSources[:topN]...)

	return dash
}

// FilterByDate keeps audits created within [from, to] and orders them by creation time
func FilterByDate(results []models.AuditResult, from, to *time.Time) []models.AuditResult {
	out := make([]models.AuditResult, 0, len(results))
	for _, r := range results {
		if from != nil && r.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && r.CreatedAt.After(*to) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func tally(counters map[string]*visibilityCounter, key string, mr models.ModelResult) {
	c, ok := counters[key]
	if !ok {
		c = &visibilityCounter{cost: decimal.Zero}
		counters[key] = c
	}
	c.total++
	if mr.BrandMentioned {
		c.visible++
	}
	c.cost = c.cost.Add(decimal.NewFromFloat(mr.Cost))
}

func sortedKeys(m map[string]*visibilityCounter) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
