// main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/inngest/inngestgo"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/internal/analysis"
	"github.com/AI-Template-SDK/senso-visibility/internal/api"
	"github.com/AI-Template-SDK/senso-visibility/internal/config"
	"github.com/AI-Template-SDK/senso-visibility/internal/providers"
	"github.com/AI-Template-SDK/senso-visibility/internal/repository/postgresql"
	"github.com/AI-Template-SDK/senso-visibility/services"
	"github.com/AI-Template-SDK/senso-visibility/workflows"
)

// connectDatabase opens the audit store using our config structure
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}

func main() {
	envSource := ".env"
	if err := godotenv.Load(); err != nil {
		envSource = "dev.env"
		if err := godotenv.Load("dev.env"); err != nil {
			envSource = ""
		}
	}

	cfg := config.Load()
	setupLogger(cfg)

	if envSource == "" {
		log.Info().Msg("No .env or dev.env file loaded, using process environment")
	} else {
		log.Info().Str("file", envSource).Msg("Loaded environment file")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("port", cfg.Port).
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.Name).
		Msg("Configuration loaded")

	if cfg.BrightData.APIKey == "" {
		log.Warn().Msg("BrightData API key not loaded, snapshot audits will fail")
	}

	ctx := context.Background()
	db, err := connectDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := postgresql.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply audit schema")
	}
	log.Info().Msg("Successfully connected to database")

	lexicon, err := analysis.LoadLexicon(cfg.Analysis.LexiconPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Analysis.LexiconPath).Msg("Failed to load lexicon")
	}
	engine := analysis.NewEngine(lexicon)

	auditRepo := postgresql.NewAuditRepo(db)
	costService := services.NewCostService()
	analysisService := services.NewAnalysisService(engine, auditRepo, costService, cfg.Analysis.DefaultCategory)
	dashboardService := services.NewDashboardService(auditRepo, cfg.Analysis.DashboardTopN)

	if cfg.Environment == "development" || cfg.Environment == "" {
		os.Unsetenv("INNGEST_SIGNING_KEY")
		cfg.InngestSigningKey = ""
		log.Info().Msg("Running in development mode - signing key verification disabled")
	}

	client, err := inngestgo.NewClient(
		inngestgo.ClientOpts{
			AppID:    "senso-visibility",
			EventKey: inngestgo.StrPtr(cfg.InngestEventKey),
			Env:      inngestgo.StrPtr(cfg.Environment),
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Inngest client")
	}

	auditProcessor := workflows.NewAuditProcessor(analysisService, func(modelID string) (providers.ResponseSource, error) {
		return providers.NewResponseSource(modelID, cfg)
	})
	auditProcessor.SetClient(client)
	auditProcessor.ProcessPromptAudit()

	dashboardProcessor := workflows.NewDashboardProcessor(dashboardService)
	dashboardProcessor.SetClient(client)
	dashboardProcessor.RefreshDashboard()
	dashboardProcessor.DailyDashboardRollup()

	log.Info().Msg("All processors initialized and functions registered")

	router := api.NewRouter(cfg, analysisService, dashboardService, client.Serve())

	log.Info().Str("port", cfg.Port).Msg("Starting Senso Visibility service")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
