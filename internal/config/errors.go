package config

import "fmt"

// ConfigurationError represents an invalid threshold, weight or policy setting.
// It is fatal at startup; callers must not fall back to defaults.
type ConfigurationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	prefix := "config error"
	if e.Field != "" {
		prefix = fmt.Sprintf("config error: '%s'", e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
