package main

import (
	"fmt"

	"github.com/jonathan/gig-directory-audit/internal/observability"
	"github.com/jonathan/gig-directory-audit/internal/quality"
	"github.com/jonathan/gig-directory-audit/internal/schemas"
	"github.com/spf13/cobra"
)

const coverageSchema = "schemas/coverage_report.schema.json"

var (
	coverageConfigPath string
	coverageJSON       bool
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Report category, region and industry-leader coverage gaps",
	Long: `Counts listed companies per service vertical and state, lists missing industry
leaders and underrepresented name patterns, and proposes search strategies. Read-only.`,
	RunE: runCoverage,
}

func init() {
	coverageCmd.Flags().StringVar(&coverageConfigPath, "config", "", "Path to config file (JSON or YAML)")
	coverageCmd.Flags().BoolVar(&coverageJSON, "json", false, "Print the coverage report as JSON")
	rootCmd.AddCommand(coverageCmd)
}

func runCoverage(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(coverageConfigPath)
	if err != nil {
		return err
	}
	database, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := database.ListActiveCompanies(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to load companies: %w", err)
	}

	report := quality.Coverage(records, cfg.Quality)
	if coverageJSON {
		if path := schemas.ResolveSchemaPath(coverageSchema); path != "" {
			if err := schemas.ValidateDocument(path, report); err != nil {
				return fmt.Errorf("coverage report failed schema validation: %w", err)
			}
		}
		return writeJSON(out, report)
	}

	observability.NewPrinter(out).PrintCoverage(&report)
	return nil
}
