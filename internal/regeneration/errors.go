package regeneration

import "fmt"

// ImproveError represents a failed improvement round
type ImproveError struct {
	Message string
	Cause   error
}

func (e *ImproveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("improve error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("improve error: %s", e.Message)
}

func (e *ImproveError) Unwrap() error {
	return e.Cause
}

// ConfigError is returned when a generation config fails validation
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid generation config: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid generation config: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
