package gemini

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantRateLimit bool
	}{
		{"status 429", errors.New("Error 429, Message: too many requests"), true},
		{"quota lowercase", errors.New("quota exceeded for project"), true},
		{"quota uppercase", errors.New("QUOTA exceeded"), true},
		{"resource exhausted", errors.New("Status: RESOURCE_EXHAUSTED"), true},
		{"generic failure", errors.New("connection reset by peer"), false},
		{"server error", errors.New("Error 500, Message: internal error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifyErr("structured", tt.err)
			require.Error(t, classified)

			if tt.wantRateLimit {
				var rl *RateLimitError
				assert.True(t, errors.As(classified, &rl), "expected RateLimitError, got %T", classified)
			} else {
				var api *APIError
				assert.True(t, errors.As(classified, &api), "expected APIError, got %T", classified)
			}
		})
	}
}

func TestClassifyErrNil(t *testing.T) {
	assert.NoError(t, classifyErr("json", nil))
}

func TestIsRateLimit(t *testing.T) {
	rl := &RateLimitError{Op: "grounded", Message: "quota exceeded"}
	assert.True(t, IsRateLimit(rl))

	// Detection survives wrapping
	wrapped := fmt.Errorf("grounded search failed: %w", rl)
	assert.True(t, IsRateLimit(wrapped))

	assert.False(t, IsRateLimit(&APIError{Op: "json", Message: "boom"}))
	assert.False(t, IsRateLimit(errors.New("plain error")))
	assert.False(t, IsRateLimit(nil))
}

func TestErrorMessages(t *testing.T) {
	rl := &RateLimitError{Op: "grounded", Message: "quota exceeded"}
	assert.Contains(t, rl.Error(), "rate limit")
	assert.Contains(t, rl.Error(), "grounded")

	api := &APIError{Op: "structured", Message: "bad schema"}
	assert.Contains(t, api.Error(), "structured")
}
