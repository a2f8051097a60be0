package consolidation

import "fmt"

// RewriteError represents a failed polish call
type RewriteError struct {
	Message string
	Cause   error
}

func (e *RewriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rewrite failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rewrite failed: %s", e.Message)
}

func (e *RewriteError) Unwrap() error {
	return e.Cause
}

// CountMismatchError is returned when a rewrite does not return one bullet per request bullet
type CountMismatchError struct {
	Want int
	Got  int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("rewrite returned %d bullets, want %d", e.Got, e.Want)
}
