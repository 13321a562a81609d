package interfaces

import (
	"context"

	"google.golang.org/genai"
)

// GroundingSource is one citation source returned by a search-grounded call.
type GroundingSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// GroundedResult is the outcome of a search-grounded generation call: the
// generated text plus the grounding sources and the web queries the model ran.
type GroundedResult struct {
	Text          string
	Sources       []GroundingSource
	SearchQueries []string
}

// GenerationService defines the interface for the external generation
// endpoint. Three call shapes are used per cycle: one search-grounded
// retrieval, one free-form-to-JSON extraction, and one schema-constrained
// classification.
type GenerationService interface {
	// GenerateGrounded issues a generation call with the GoogleSearch tool
	// enabled and returns the text together with grounding metadata.
	GenerateGrounded(ctx context.Context, prompt string) (*GroundedResult, error)

	// GenerateJSON issues a generation call constrained to an
	// application/json response and returns the raw JSON text.
	GenerateJSON(ctx context.Context, prompt string) (string, error)

	// GenerateStructured issues a generation call constrained to the given
	// response schema and returns the raw JSON text.
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}
