package common

import "fmt"

// ConfigurationError reports a mistake made during application setup: an
// empty method set, a malformed route pattern, middleware added after the
// pipeline froze, and similar. It is fatal and surfaced immediately to the
// caller of the registration API, never retried.
type ConfigurationError struct {
	Msg string
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Msg)
}

// Unwrap returns the underlying cause, if any.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a ConfigurationError with a formatted message.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}
