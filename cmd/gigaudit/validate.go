package main

import (
	"fmt"

	"github.com/jonathan/gig-directory-audit/internal/observability"
	"github.com/jonathan/gig-directory-audit/internal/quality"
	"github.com/spf13/cobra"
)

var (
	validateConfigPath string
	validateLimit      int
	validateJSON       bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report data-quality issues for listed companies",
	Long: `Checks every listed company for description mismatches, missing websites,
thin descriptions and websites that do not match the company name. Read-only.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateConfigPath, "config", "", "Path to config file (JSON or YAML)")
	validateCmd.Flags().IntVar(&validateLimit, "limit", 0, "Maximum companies to check (0 for all)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print issues as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(validateConfigPath)
	if err != nil {
		return err
	}
	database, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := database.ListActiveCompanies(ctx, validateLimit)
	if err != nil {
		return fmt.Errorf("failed to load companies: %w", err)
	}

	results := quality.NewValidator(cfg.Quality).ValidateAll(records)
	if validateJSON {
		if results == nil {
			results = []quality.RecordIssues{}
		}
		return writeJSON(out, results)
	}

	observability.NewPrinter(out).PrintQualityIssues(results)
	_, _ = fmt.Fprintf(out, "%d companies checked\n", len(records))
	return nil
}
