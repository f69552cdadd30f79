// cmd/suggest_tags/main.go
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

	"github.com/AI-Template-SDK/senso-visibility/internal/config"
	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/services"
)

func main() {
	brandName := flag.String("brand", "", "brand name to suggest tags for")
	domain := flag.String("domain", "", "brand website, e.g. juleo.com")
	existing := flag.String("tags", "", "comma-separated tags already tracked")
	provider := flag.String("provider", "openai", "model provider: openai or anthropic")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using existing environment variables")
	}

	cfg := config.Load()
	var service services.NameVariationService
	switch *provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Fatal().Msg("OPENAI_API_KEY must be set")
		}
		service = services.NewNameVariationService(cfg)
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Fatal().Msg("ANTHROPIC_API_KEY must be set")
		}
		service = services.NewAnthropicNameVariationService(cfg)
	default:
		log.Fatal().Str("provider", *provider).Msg("Unknown provider")
	}
	if strings.TrimSpace(*brandName) == "" {
		fmt.Fprintln(os.Stderr, "usage: suggest_tags -brand \"Juleo\" [-domain juleo.com] [-tags \"Juleo App\"] [-provider anthropic]")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	suggestions, err := service.SuggestTags(ctx, *brandName, *domain)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to suggest tags")
	}

	brand := models.BrandIdentity{Name: *brandName}
	if *existing != "" {
		for _, tag := range strings.Split(*existing, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				brand.Tags = append(brand.Tags, tag)
			}
		}
	}
	tags := services.MergeTags(brand, suggestions)

	fmt.Printf("Suggested tags for %s (%d):\n", *brandName, len(tags))
	for i, tag := range tags {
		fmt.Printf("  %2d. %s\n", i+1, tag)
	}
}
