// Package llm provides the LLM client abstraction used by the secondary verifier.
// It hides the provider behind model tiers so callers never name a model directly.
package llm

import "fmt"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short structured verdicts
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning
	TierAdvanced ModelTier = "advanced"
)

// ParseModelTier converts a configured tier name into a ModelTier
func ParseModelTier(name string) (ModelTier, error) {
	switch ModelTier(name) {
	case TierLite, TierStandard, TierAdvanced:
		return ModelTier(name), nil
	case "":
		return TierLite, nil
	default:
		return "", fmt.Errorf("unknown model tier %q", name)
	}
}

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the only supported provider
const ProviderGemini Provider = "gemini"

// defaultTemperature keeps verdicts stable across runs
const defaultTemperature float32 = 0.1

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: defaultTemperature,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
