// cmd/fetch_snapshot/main.go
//
// Fetches a BrightData snapshot for one engine, prints the decoded responses
// and, when a brand is given, the scored model result for each of them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/internal/analysis"
	"github.com/AI-Template-SDK/senso-visibility/internal/config"
	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/internal/providers"
)

func main() {
	modelID := flag.String("model", "chatgpt", "engine the snapshot was collected from")
	snapshotID := flag.String("snapshot", "", "BrightData snapshot ID")
	brandName := flag.String("brand", "", "optional brand to score the answers for")
	competitors := flag.String("competitors", "", "comma-separated competitor names")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}
	cfg := config.Load()

	if *snapshotID == "" {
		fmt.Fprintln(os.Stderr, "usage: fetch_snapshot -model chatgpt -snapshot s_abc123 [-brand Juleo -competitors Bumble,Hinge]")
		os.Exit(2)
	}
	if cfg.BrightData.APIKey == "" {
		log.Fatal().Msg("BRIGHTDATA_API_KEY must be set")
	}

	source, err := providers.NewResponseSource(*modelID, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create response source")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	responses, err := source.FetchResponses(ctx, *snapshotID)
	if err != nil {
		log.Fatal().Err(err).Str("snapshot_id", *snapshotID).Msg("Failed to fetch snapshot")
	}
	fmt.Printf("Fetched %d responses from %s/%s in %v\n\n", len(responses), source.GetProviderName(), source.ModelID(), time.Since(start).Round(time.Millisecond))

	var engine *analysis.Engine
	brand := models.BrandIdentity{Name: strings.TrimSpace(*brandName)}
	var rivals []models.CompetitorIdentity
	if brand.Name != "" {
		lexicon, err := analysis.LoadLexicon(cfg.Analysis.LexiconPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load lexicon")
		}
		engine = analysis.NewEngine(lexicon)
		for _, name := range strings.Split(*competitors, ",") {
			if name = strings.TrimSpace(name); name != "" {
				rivals = append(rivals, models.CompetitorIdentity{Name: name})
			}
		}
	}

	for i, resp := range responses {
		fmt.Printf("Response %d\n", i+1)
		if !resp.Success {
			fmt.Printf("  Failed: %s\n\n", resp.Error)
			continue
		}
		fmt.Printf("  Text: %s\n", truncate(resp.Text, 120))
		fmt.Printf("  Citations: %d\n", len(resp.Citations))
		fmt.Printf("  API cost: $%.6f\n", resp.APICost)

		if engine != nil {
			result := engine.ScoreResponse(resp, brand, rivals)
			fmt.Printf("  Brand mentioned: %t (count %d, rank %s, sentiment %s)\n",
				result.BrandMentioned, result.BrandMentionCount, formatRank(result.BrandRank), result.BrandSentiment)
			fmt.Printf("  Cited: %t, authority: %q, visibility: %.0f\n", result.IsCited, result.AuthorityType, result.VisibilityScore)
			for _, c := range result.CompetitorsFound {
				fmt.Printf("    competitor %s: count %d, rank %s\n", c.Name, c.Count, formatRank(c.Rank))
			}
		}
		fmt.Println()
	}
}

func formatRank(rank *int) string {
	if rank == nil {
		return "-"
	}
	return fmt.Sprintf("#%d", *rank)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
