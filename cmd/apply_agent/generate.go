package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mathieu/apply-pilot/internal/compiler"
	"github.com/mathieu/apply-pilot/internal/config"
	"github.com/mathieu/apply-pilot/internal/db"
	"github.com/mathieu/apply-pilot/internal/fetch"
	"github.com/mathieu/apply-pilot/internal/llm"
	"github.com/mathieu/apply-pilot/internal/notify"
	"github.com/mathieu/apply-pilot/internal/observability"
	"github.com/mathieu/apply-pilot/internal/pipeline"
	"github.com/mathieu/apply-pilot/internal/staging"
)

var (
	generateUseBrowser bool
	generateOutputDir  string
)

var generateCmd = &cobra.Command{
	Use:   "generate <url>",
	Short: "Generate CV and cover-letter PDFs for a posting",
	Long: `Run the full flow for one posting: fetch and extract the page, score it
against the profile, compose both drafts, compile the PDFs and record the
application as submitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateUseBrowser, "use-browser", true, "Render JS-heavy pages with a headless browser (overrides USE_BROWSER)")
	generateCmd.Flags().StringVarP(&generateOutputDir, "out", "o", "", "Directory for compiled PDFs (overrides OUTPUT_DIR)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg := config.Load()
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = generateUseBrowser
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = generateOutputDir
	}
	if err := cfg.ValidateForPipeline(); err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}

	client, err := llm.NewClient(ctx, nil, cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	comp, err := compiler.New()
	if err != nil {
		return err
	}

	notifier, err := notify.New(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		return fmt.Errorf("failed to init Telegram notifier: %w", err)
	}

	pipe := pipeline.New(pipeline.Options{
		Profile:    profile,
		Client:     client,
		Fetcher:    fetch.NewCachedFetcher(nil, nil),
		Store:      database,
		Staging:    staging.NewMemoryStore(cfg.StagingTTL),
		Compiler:   comp,
		Notifier:   notifier,
		OutputDir:  cfg.OutputDir,
		UseBrowser: cfg.UseBrowser,
	})

	res, err := pipe.Analyze(ctx, args[0])
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintJobPosting(res.Posting)
	printer.PrintMatchResult(res.Match, res.Posting.Language)

	app, err := pipe.Finalize(ctx, res.ID, nil, nil)
	if err != nil {
		var compErr *compiler.CompilationError
		if errors.As(err, &compErr) && compErr.LogOutput != "" {
			fmt.Fprintln(os.Stderr, compErr.LogOutput)
		}
		return err
	}

	printer.PrintApplication(app)
	return nil
}
