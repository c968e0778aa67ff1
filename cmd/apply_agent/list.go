package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mathieu/apply-pilot/internal/config"
	"github.com/mathieu/apply-pilot/internal/db"
	"github.com/mathieu/apply-pilot/internal/observability"
	"github.com/mathieu/apply-pilot/internal/status"
)

var (
	listStatusFlag string
	listSearchFlag string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked applications",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listStatusFlag, "status", "s", "", "Filter by status")
	listCmd.Flags().StringVar(&listSearchFlag, "search", "", "Case-insensitive search over company, position and location")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	filter := db.ListFilter{Search: listSearchFlag}
	if listStatusFlag != "" {
		canonical, ok := status.Normalize(listStatusFlag)
		if !ok {
			return fmt.Errorf("unknown status %q (valid: %s)", listStatusFlag, strings.Join(status.All, ", "))
		}
		filter.Status = canonical
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	apps, err := database.ListApplications(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list applications: %w", err)
	}

	refs := make([]*db.Application, len(apps))
	for i := range apps {
		refs[i] = &apps[i]
	}
	observability.NewPrinter(os.Stdout).PrintApplicationList(refs)
	return nil
}
