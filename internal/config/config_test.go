package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"top_n": 3,
		"tiers": {"medium": 20, "high": 45},
		"detectors": {"contact": {"weight": 25}},
		"remediation": {"hard_removal_floor": 90, "disable_delete": true}
	}`

	cfg, err := LoadConfig(writeConfig(t, "config.json", content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, 20, cfg.Tiers.Medium)
	assert.Equal(t, 45, cfg.Tiers.High)
	assert.Equal(t, 25, cfg.Detectors.Contact.Weight)
	assert.Equal(t, 90, cfg.Remediation.HardRemovalFloor)
	assert.True(t, cfg.Remediation.DisableDelete)

	// Omitted fields keep their defaults
	assert.Equal(t, 30, cfg.Detectors.PayRealism.Weight)
	assert.Equal(t, 5, cfg.Verifier.MaxEscalations)
	assert.Equal(t, 80, cfg.Remediation.OracleMinConfidence)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
workers: 2
detectors:
  generic_name:
    weight: 10
    terms: [elite, premium]
verifier:
  max_escalations: 12
`
	cfg, err := LoadConfig(writeConfig(t, "config.yaml", content))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 10, cfg.Detectors.GenericName.Weight)
	assert.Equal(t, []string{"elite", "premium"}, cfg.Detectors.GenericName.Terms)
	assert.Equal(t, 12, cfg.Verifier.MaxEscalations)
	assert.Equal(t, 50, cfg.Tiers.High)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.json", `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.yml", "tiers: [unclosed"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLoadConfig_InvalidValuesDoNotFallBack(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.json", `{"tiers": {"medium": 60, "high": 50}}`))
	require.Error(t, err)
	assert.Nil(t, cfg)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestValidate_Default(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		contains string
	}{
		{
			name:     "negative weight",
			mutate:   func(c *Config) { c.Detectors.PayRealism.Weight = -5 },
			contains: "Weight",
		},
		{
			name:     "inverted tiers",
			mutate:   func(c *Config) { c.Tiers.Medium = 50; c.Tiers.High = 25 },
			contains: "tiers",
		},
		{
			name:     "equal tiers",
			mutate:   func(c *Config) { c.Tiers.Medium = 50 },
			contains: "tiers",
		},
		{
			name:     "floor below high tier",
			mutate:   func(c *Config) { c.Remediation.HardRemovalFloor = 40 },
			contains: "hard_removal_floor",
		},
		{
			name:     "confidence above 100",
			mutate:   func(c *Config) { c.Remediation.OracleMinConfidence = 101 },
			contains: "OracleMinConfidence",
		},
		{
			name:     "extreme pay below threshold",
			mutate:   func(c *Config) { c.Detectors.PayRealism.ExtremeThreshold = 90 },
			contains: "extreme_threshold",
		},
		{
			name:     "zero workers",
			mutate:   func(c *Config) { c.Workers = 0 },
			contains: "Workers",
		},
		{
			name:     "unknown model tier",
			mutate:   func(c *Config) { c.Verifier.ModelTier = "huge" },
			contains: "ModelTier",
		},
		{
			name:     "empty generic term",
			mutate:   func(c *Config) { c.Detectors.GenericName.Terms = []string{"elite", ""} },
			contains: "Terms",
		},
		{
			name:     "blank conclusive detector",
			mutate:   func(c *Config) { c.Remediation.ConclusiveDetectors = []string{" "} },
			contains: "conclusive_detectors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidate_ZeroWeightDisablesDetector(t *testing.T) {
	cfg := Default()
	cfg.Detectors.Licensing.InsuranceWeight = 0
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg := Default()
	cfg.APIKey = "file-key"
	cfg.ApplyEnv()

	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "file-key", cfg.APIKey, "file value wins over environment")
}

func TestConfigurationError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ConfigurationError{Field: "tiers", Message: "bad", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "config error: 'tiers': bad: boom", err.Error())
}
