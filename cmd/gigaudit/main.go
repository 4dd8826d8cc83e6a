// Package main provides the entry point for the gig directory audit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gigaudit",
	Short: "Company authenticity and data-quality audit for the gig directory",
	Long: `gigaudit scores every listed company for authenticity risk, optionally escalates
ambiguous entries to an LLM verifier, and deactivates or deletes the entries that fail.
It also reports data-quality issues and coverage gaps.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return setupLogger(verbose)
	}
}

// setupLogger replaces the global zap logger used by every internal package
func setupLogger(debug bool) error {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = zap.L().Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
