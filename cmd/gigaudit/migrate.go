package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/gig-directory-audit/internal/db"
	"github.com/spf13/cobra"
)

var migrateConfigPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate [command] [args...]",
	Short: "Apply or inspect database migrations",
	Long: fmt.Sprintf(`Runs the embedded goose migrations against DATABASE_URL.

Commands: %s (default up).`, strings.Join(db.MigrationCommands, ", ")),
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateConfigPath, "config", "", "Path to config file (JSON or YAML)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	cfg, err := loadConfig(migrateConfigPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or database_url config is required")
	}

	if err := db.Migrate(cmd.Context(), cfg.DatabaseURL, command, args...); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
