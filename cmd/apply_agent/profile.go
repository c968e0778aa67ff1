package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mathieu/apply-pilot/internal/config"
)

var profileFilePath string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect the personal profile",
}

var profileCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and validate the profile file",
	Long:  "Load the profile YAML, run the same normalization and validation the server applies at startup, and print a short summary.",
	RunE:  runProfileCheck,
}

func init() {
	profileCheckCmd.Flags().StringVar(&profileFilePath, "profile", "", "Path to the profile YAML (overrides PROFILE_PATH)")
	profileCmd.AddCommand(profileCheckCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileCheck(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if cmd.Flags().Changed("profile") {
		cfg.ProfilePath = profileFilePath
	}

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Profile OK: %s, %s\n", profile.Identity.Name, profile.Identity.Title)
	fmt.Fprintf(os.Stdout, "  summary templates: %d\n", len(profile.SummaryTemplates))
	fmt.Fprintf(os.Stdout, "  skill groups:      %d\n", len(profile.Skills))
	fmt.Fprintf(os.Stdout, "  experiences:       %d\n", len(profile.Experiences))
	fmt.Fprintf(os.Stdout, "  projects:          %d\n", len(profile.Projects))
	fmt.Fprintf(os.Stdout, "  certifications:    %d\n", len(profile.Certifications))
	return nil
}
