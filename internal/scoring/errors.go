package scoring

import "fmt"

// AIScoreError represents a failure of the external AI scorer
type AIScoreError struct {
	Message string
	Cause   error
}

func (e *AIScoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ai scoring failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("ai scoring failed: %s", e.Message)
}

func (e *AIScoreError) Unwrap() error {
	return e.Cause
}

// InputError represents a missing or malformed scoring input
type InputError struct {
	Message string
	Field   string
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid scoring input %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid scoring input: %s", e.Message)
}
