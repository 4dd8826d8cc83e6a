// Package config provides configuration loading and validation for the audit CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/gig-directory-audit/internal/types"
	"gopkg.in/yaml.v3"
)

// Config is the full audit configuration. Every field is optional in the file;
// anything omitted keeps the value from Default().
type Config struct {
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	APIKey      string `json:"api_key,omitempty" yaml:"api_key,omitempty"` // Gemini API key

	// Workers bounds parallel detector/aggregator evaluation
	Workers int `json:"workers" yaml:"workers" validate:"gte=1,lte=256"`
	// TopN is the number of flagged entries listed in the run summary
	TopN int `json:"top_n" yaml:"top_n" validate:"gte=0"`

	Detectors   Detectors   `json:"detectors" yaml:"detectors"`
	Tiers       Tiers       `json:"tiers" yaml:"tiers"`
	Verifier    Verifier    `json:"verifier" yaml:"verifier"`
	Remediation Remediation `json:"remediation" yaml:"remediation"`
	Quality     Quality     `json:"quality" yaml:"quality"`
}

// Detectors holds the weights, thresholds and term lists of every detector.
// A weight of 0 disables the flag.
type Detectors struct {
	PayRealism  PayRealism  `json:"pay_realism" yaml:"pay_realism"`
	Contact     Contact     `json:"contact" yaml:"contact"`
	GenericName GenericName `json:"generic_name" yaml:"generic_name"`
	Licensing   Licensing   `json:"licensing" yaml:"licensing"`
	Placeholder Placeholder `json:"placeholder" yaml:"placeholder"`

	// VagueVertical has weight 0 by default
	VagueVertical VagueVertical `json:"vague_vertical" yaml:"vague_vertical"`
}

// PayRealism flags pay above Threshold, and again above ExtremeThreshold
type PayRealism struct {
	Threshold        float64 `json:"threshold" yaml:"threshold" validate:"gte=0"`
	Weight           int     `json:"weight" yaml:"weight" validate:"gte=0"`
	ExtremeThreshold float64 `json:"extreme_threshold" yaml:"extreme_threshold" validate:"gte=0"`
	ExtremeWeight    int     `json:"extreme_weight" yaml:"extreme_weight" validate:"gte=0"`
}

// Contact flags records with no website, phone or email
type Contact struct {
	Weight int `json:"weight" yaml:"weight" validate:"gte=0"`
}

// GenericName flags promotional or generic terms in the company name
type GenericName struct {
	Weight int      `json:"weight" yaml:"weight" validate:"gte=0"`
	Terms  []string `json:"terms" yaml:"terms" validate:"dive,required"`
}

// Licensing flags "no license"/"no insurance" requirements paired with high pay
type Licensing struct {
	PayFloor          float64 `json:"pay_floor" yaml:"pay_floor" validate:"gte=0"`
	Weight            int     `json:"weight" yaml:"weight" validate:"gte=0"`
	InsurancePayFloor float64 `json:"insurance_pay_floor" yaml:"insurance_pay_floor" validate:"gte=0"`
	InsuranceWeight   int     `json:"insurance_weight" yaml:"insurance_weight" validate:"gte=0"`
}

// Placeholder flags obvious test/placeholder names
type Placeholder struct {
	Weight int      `json:"weight" yaml:"weight" validate:"gte=0"`
	Tokens []string `json:"tokens" yaml:"tokens" validate:"dive,required"`
	// MinRepeatRun is the shortest all-same-letter name treated as a placeholder
	MinRepeatRun int `json:"min_repeat_run" yaml:"min_repeat_run" validate:"gte=2"`
}

// VagueVertical flags records with no service vertical or only generic ones
type VagueVertical struct {
	Weight int      `json:"weight" yaml:"weight" validate:"gte=0"`
	Terms  []string `json:"terms" yaml:"terms" validate:"dive,required"`
}

// Tiers are inclusive lower bounds: score >= Medium is MEDIUM, score >= High is HIGH
type Tiers struct {
	Medium int `json:"medium" yaml:"medium" validate:"gte=1"`
	High   int `json:"high" yaml:"high" validate:"gte=1"`
}

// Verifier configures escalation to the external LLM judge
type Verifier struct {
	Enabled                bool    `json:"enabled" yaml:"enabled"`
	ModelTier              string  `json:"model_tier" yaml:"model_tier" validate:"oneof=lite standard advanced"`
	MaxEscalations         int     `json:"max_escalations" yaml:"max_escalations" validate:"gte=0"`
	Concurrency            int     `json:"concurrency" yaml:"concurrency" validate:"gte=1,lte=16"`
	TimeoutSeconds         int     `json:"timeout_seconds" yaml:"timeout_seconds" validate:"gte=1"`
	RequestsPerSecond      float64 `json:"requests_per_second" yaml:"requests_per_second" validate:"gt=0"`
	MaxConsecutiveFailures int     `json:"max_consecutive_failures" yaml:"max_consecutive_failures" validate:"gte=1"`
}

// Remediation configures the decision policy and executor
type Remediation struct {
	// HardRemovalFloor is the minimum HIGH score that is deleted instead of deactivated
	HardRemovalFloor int `json:"hard_removal_floor" yaml:"hard_removal_floor" validate:"gte=1"`
	// DisableDelete downgrades every DELETE to DEACTIVATE
	DisableDelete bool `json:"disable_delete" yaml:"disable_delete"`
	// ConclusiveDetectors force DELETE for HIGH entries they flag, regardless of score
	ConclusiveDetectors []string `json:"conclusive_detectors" yaml:"conclusive_detectors"`
	// DisableOracleOverride stops a confident KEEP verdict from sparing an entry
	DisableOracleOverride bool `json:"disable_oracle_override" yaml:"disable_oracle_override"`
	OracleMinConfidence   int  `json:"oracle_min_confidence" yaml:"oracle_min_confidence" validate:"gte=0,lte=100"`
}

// MismatchRule pairs name patterns with description terms that contradict them
type MismatchRule struct {
	Category         string   `json:"category" yaml:"category" validate:"required"`
	NamePatterns     []string `json:"name_patterns" yaml:"name_patterns" validate:"min=1,dive,required"`
	DescriptionTerms []string `json:"description_terms" yaml:"description_terms" validate:"min=1,dive,required"`
}

// CoverageTarget proposes search terms when Count(Match) falls below Minimum
type CoverageTarget struct {
	Focus       string   `json:"focus" yaml:"focus" validate:"required"`
	Priority    string   `json:"priority" yaml:"priority" validate:"oneof=HIGH MEDIUM LOW"`
	Field       string   `json:"field" yaml:"field" validate:"oneof=vertical name"`
	Match       string   `json:"match" yaml:"match" validate:"required"`
	Minimum     int      `json:"minimum" yaml:"minimum" validate:"gte=0"`
	TargetCount string   `json:"target_count" yaml:"target_count"`
	SearchTerms []string `json:"search_terms" yaml:"search_terms"`
	Rationale   string   `json:"rationale" yaml:"rationale"` // may reference {{.Count}}
}

// Quality configures the data-quality validator and coverage report
type Quality struct {
	MinWebsiteLength     int                    `json:"min_website_length" yaml:"min_website_length" validate:"gte=0"`
	MinDescriptionLength int                    `json:"min_description_length" yaml:"min_description_length" validate:"gte=0"`
	Rules                []MismatchRule         `json:"rules" yaml:"rules" validate:"dive"`
	Targets              []CoverageTarget       `json:"targets" yaml:"targets" validate:"dive"`
	MinStates            int                    `json:"min_states" yaml:"min_states" validate:"gte=0"`
	StateSearchTerms     []string               `json:"state_search_terms" yaml:"state_search_terms"`
	Leaders              []types.IndustryLeader `json:"leaders" yaml:"leaders"`
	NamingPatterns       []string               `json:"naming_patterns" yaml:"naming_patterns"`

	// CheckProfile reports blank year_established, company_size, headquarters or business_model
	CheckProfile bool `json:"check_profile" yaml:"check_profile"`
}

// LoadConfig loads configuration from a JSON or YAML file on top of Default().
// Returns an error if the file cannot be read or parsed; the result is validated.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv fills connection settings from the environment when not set in the file
func (c *Config) ApplyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Validate checks field ranges and the cross-field invariants between tiers,
// thresholds and the removal floor. Every failure is a *ConfigurationError.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ConfigurationError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed '%s' check (value %v)", fe.Tag(), fe.Value()),
				Cause:   err,
			}
		}
		return &ConfigurationError{Message: "invalid configuration", Cause: err}
	}

	if c.Tiers.Medium >= c.Tiers.High {
		return &ConfigurationError{
			Field:   "tiers",
			Message: fmt.Sprintf("medium boundary (%d) must be below high boundary (%d)", c.Tiers.Medium, c.Tiers.High),
		}
	}
	if c.Remediation.HardRemovalFloor < c.Tiers.High {
		return &ConfigurationError{
			Field:   "remediation.hard_removal_floor",
			Message: fmt.Sprintf("must be at least the high tier boundary (%d)", c.Tiers.High),
		}
	}
	if c.Detectors.PayRealism.ExtremeThreshold < c.Detectors.PayRealism.Threshold {
		return &ConfigurationError{
			Field:   "detectors.pay_realism.extreme_threshold",
			Message: "must not be below threshold",
		}
	}
	for _, name := range c.Remediation.ConclusiveDetectors {
		if strings.TrimSpace(name) == "" {
			return &ConfigurationError{
				Field:   "remediation.conclusive_detectors",
				Message: "detector names must not be empty",
			}
		}
	}

	return nil
}
