package core

import "fmt"

// ConfigError reports a render configuration that was rejected before any
// rendering work started.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewConfigError builds a ConfigError with a formatted reason
func NewConfigError(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
