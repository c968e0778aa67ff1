// Package main provides the entry point for the apply_agent CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mathieu/apply-pilot/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "apply_agent",
	Short: "Personal job-application assistant",
	Long:  "apply_agent analyzes job postings against a personal profile, composes tailored CV and cover-letter drafts, compiles them to PDF, and tracks every application through its status workflow.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()
	logging.InitFromEnv()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
