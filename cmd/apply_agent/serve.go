package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mathieu/apply-pilot/internal/compiler"
	"github.com/mathieu/apply-pilot/internal/config"
	"github.com/mathieu/apply-pilot/internal/db"
	"github.com/mathieu/apply-pilot/internal/email"
	"github.com/mathieu/apply-pilot/internal/fetch"
	"github.com/mathieu/apply-pilot/internal/llm"
	"github.com/mathieu/apply-pilot/internal/logging"
	"github.com/mathieu/apply-pilot/internal/notify"
	"github.com/mathieu/apply-pilot/internal/pipeline"
	"github.com/mathieu/apply-pilot/internal/server"
	"github.com/mathieu/apply-pilot/internal/staging"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start the HTTP server that exposes the dashboard REST API: posting analysis, draft editing, PDF generation and application tracking.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// The server logs JSON unless LOG_FORMAT says otherwise.
	if os.Getenv("LOG_FORMAT") == "" {
		logging.Init(os.Getenv("LOG_LEVEL"), "json")
	}

	cfg := config.Load()
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	ctx := context.Background()

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

	// Document generation is the point of the dashboard, so a missing
	// LaTeX engine is a startup failure rather than a request-time 500.
	comp, err := compiler.New()
	if err != nil {
		return err
	}

	notifier, err := notify.New(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		return fmt.Errorf("failed to init Telegram notifier: %w", err)
	}

	var stagingStore staging.Store
	var pageCache fetch.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		stagingStore = staging.NewRedisStore(rdb, cfg.StagingTTL)
		pageCache = fetch.NewRedisCache(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, staged analyses will not survive a restart")
		stagingStore = staging.NewMemoryStore(cfg.StagingTTL)
	}

	pipe := pipeline.New(pipeline.Options{
		Profile:    profile,
		Client:     client,
		Fetcher:    fetch.NewCachedFetcher(pageCache, nil),
		Store:      database,
		Staging:    stagingStore,
		Compiler:   comp,
		Notifier:   notifier,
		OutputDir:  cfg.OutputDir,
		UseBrowser: cfg.UseBrowser,
	})

	srv, err := server.New(server.Config{
		Port:     cfg.Port,
		Store:    database,
		Pipeline: pipe,
		Analyzer: email.NewAnalyzer(client),
		Notifier: notifier,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
