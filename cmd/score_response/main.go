// cmd/score_response/main.go
//
// Scores a prompt run from a JSON file and prints the resulting audit, without
// touching the database:
//
//	go run ./cmd/score_response -input run.json [-lexicon lexicon.yaml]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AI-Template-SDK/senso-visibility/internal/analysis"
	"github.com/AI-Template-SDK/senso-visibility/services"
)

func main() {
	inputPath := flag.String("input", "", "path to a JSON file with brand, competitors, models and responses")
	lexiconPath := flag.String("lexicon", os.Getenv("LEXICON_PATH"), "optional lexicon YAML")
	clientID := flag.String("client", "local", "client ID recorded on the audit when the file has none")
	verbose := flag.Bool("v", false, "log scoring details to stderr")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *inputPath == "" && flag.NArg() > 0 {
		*inputPath = flag.Arg(0)
	}
	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: score_response -input run.json [-lexicon lexicon.yaml]")
		os.Exit(2)
	}

	if err := run(*inputPath, *lexiconPath, *clientID); err != nil {
		log.Fatal().Err(err).Msg("Scoring failed")
	}
}

func run(inputPath, lexiconPath, clientID string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var req services.AuditRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}
	if req.ClientID == "" {
		req.ClientID = clientID
	}

	lexicon, err := analysis.LoadLexicon(lexiconPath)
	if err != nil {
		return err
	}

	service := services.NewAnalysisService(analysis.NewEngine(lexicon), nil, services.NewCostService(), "")
	audit, err := service.AuditPrompt(context.Background(), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(audit)
}
