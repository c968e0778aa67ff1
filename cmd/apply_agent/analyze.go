package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mathieu/apply-pilot/internal/config"
	"github.com/mathieu/apply-pilot/internal/fetch"
	"github.com/mathieu/apply-pilot/internal/llm"
	"github.com/mathieu/apply-pilot/internal/observability"
	"github.com/mathieu/apply-pilot/internal/pipeline"
	"github.com/mathieu/apply-pilot/internal/staging"
)

var (
	analyzeJSON       bool
	analyzeUseBrowser bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Score a job posting against the profile",
	Long: `Fetch a job-posting URL, extract the structured posting and score it
against the personal profile. Nothing is persisted and no documents are
compiled; use the generate command for the full flow.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON instead of formatted boxes")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", true, "Render JS-heavy pages with a headless browser (overrides USE_BROWSER)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg := config.Load()
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = analyzeUseBrowser
	}

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	// Extraction falls back to heuristics without a model, so the API key
	// is optional for a quick score check.
	var client llm.Client
	if cfg.GeminiAPIKey != "" {
		client, err = llm.NewClient(ctx, nil, cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close()
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, extraction uses heuristics only")
	}

	pipe := pipeline.New(pipeline.Options{
		Profile:    profile,
		Client:     client,
		Fetcher:    fetch.NewCachedFetcher(nil, nil),
		Staging:    staging.NewMemoryStore(cfg.StagingTTL),
		UseBrowser: cfg.UseBrowser,
	})

	res, err := pipe.Analyze(ctx, args[0])
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintJobPosting(res.Posting)
	printer.PrintMatchResult(res.Match, res.Posting.Language)
	return nil
}
