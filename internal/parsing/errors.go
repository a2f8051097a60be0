package parsing

import "fmt"

// responseSnippet is how much of an unparseable reply ParseError keeps
const responseSnippet = 120

// ExtractionError means the LLM could not be asked for a job profile
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("job profile extraction: %s: %v", e.Message, e.Cause)
	}
	return "job profile extraction: " + e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ParseError means the LLM answered with something that is not a job
// profile. Response holds the start of the reply.
type ParseError struct {
	Message  string
	Response string
	Cause    error
}

func newParseError(message, response string, cause error) *ParseError {
	if r := []rune(response); len(r) > responseSnippet {
		response = string(r[:responseSnippet]) + "..."
	}
	return &ParseError{Message: message, Response: response, Cause: cause}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s: %v (response %q)", e.Message, e.Cause, e.Response)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError rejects job input before any extraction runs
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid job input: " + e.Message
	}
	return fmt.Sprintf("invalid job input: %s: %s", e.Field, e.Message)
}
