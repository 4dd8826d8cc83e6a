package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/gig-directory-audit/internal/config"
	"github.com/jonathan/gig-directory-audit/internal/db"
	"github.com/jonathan/gig-directory-audit/internal/llm"
	"github.com/jonathan/gig-directory-audit/internal/pipeline"
	"go.uber.org/zap"
)

// Compile-time check that the Postgres store satisfies the pipeline
var _ pipeline.Store = (*db.DB)(nil)

// loadConfig loads the config file when given, otherwise the defaults,
// then fills connection settings from the environment.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// connect opens the directory database named by cfg
func connect(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or database_url config is required")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

// newVerifierClient returns nil without error when no API key is configured,
// which leaves the run on heuristic decisions only.
func newVerifierClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		zap.L().Warn("gigaudit: GEMINI_API_KEY not set, verifier disabled")
		return nil, nil
	}
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
