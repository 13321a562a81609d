package gemini

import (
	"errors"
	"fmt"
	"strings"
)

// APIError represents a generic failure from the generation endpoint.
type APIError struct {
	Op      string // which call failed: "grounded", "json", "structured"
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API error: %s (op: %s)", e.Message, e.Op)
}

// RateLimitError represents a rate limit or quota exhaustion failure.
type RateLimitError struct {
	Op      string
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("gemini rate limit exceeded: %s (op: %s)", e.Message, e.Op)
}

// classifyErr converts a raw SDK error into a typed error. Rate-limit
// signatures ("429", RESOURCE_EXHAUSTED, "quota") are sniffed here and only
// here; downstream code uses errors.As, never substring matching.
func classifyErr(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "429") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "quota") {
		return &RateLimitError{Op: op, Message: msg}
	}
	return &APIError{Op: op, Message: msg}
}

// IsRateLimit reports whether the error chain contains a RateLimitError.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
