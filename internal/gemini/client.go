package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ternarybob/aurum/internal/interfaces"
)

const (
	// DefaultModel is the generation model used when none is configured.
	DefaultModel = "gemini-2.0-flash"

	// DefaultTimeout is the default per-call timeout.
	DefaultTimeout = 2 * time.Minute

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5
)

// Client wraps the genai SDK for the three call shapes the pipeline uses.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  arbor.ILogger
	limiter *rate.Limiter
}

// Compile-time assertion: Client implements GenerationService
var _ interfaces.GenerationService = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithModel sets the generation model name.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new generation endpoint client.
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set AURUM_GEMINI_API_KEY or gemini.api_key in config)")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	c := &Client{
		client:  genaiClient,
		model:   DefaultModel,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateGrounded issues a generation call with the GoogleSearch tool and
// returns the text plus grounding sources.
func (c *Client) GenerateGrounded(ctx context.Context, prompt string) (*interfaces.GroundedResult, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	resp, err := c.generate(ctx, "grounded", prompt, config)
	if err != nil {
		return nil, err
	}

	result := &interfaces.GroundedResult{}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				result.Text += part.Text
			}
		}

		if gm := resp.Candidates[0].GroundingMetadata; gm != nil {
			if gm.WebSearchQueries != nil {
				result.SearchQueries = gm.WebSearchQueries
			}
			for _, chunk := range gm.GroundingChunks {
				if chunk.Web != nil {
					result.Sources = append(result.Sources, interfaces.GroundingSource{
						Title: chunk.Web.Title,
						URL:   chunk.Web.URI,
					})
				}
			}
		}
	}

	if result.Text == "" {
		return nil, &APIError{Op: "grounded", Message: "empty response from generation endpoint"}
	}

	if c.logger != nil {
		c.logger.Debug().
			Int("text_length", len(result.Text)).
			Int("source_count", len(result.Sources)).
			Msg("Grounded generation completed")
	}

	return result, nil
}

// GenerateJSON issues a generation call constrained to an application/json
// response and returns the raw JSON text.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := c.generate(ctx, "json", prompt, config)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", &APIError{Op: "json", Message: "empty response from generation endpoint"}
	}

	return text, nil
}

// GenerateStructured issues a generation call constrained to the given
// response schema and returns the raw JSON text.
func (c *Client) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := c.generate(ctx, "structured", prompt, config)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", &APIError{Op: "structured", Message: "empty response from generation endpoint"}
	}

	return text, nil
}

// generate performs one GenerateContent call with rate limiting and timeout.
func (c *Client) generate(ctx context.Context, op, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classifyErr(op, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	if c.logger != nil {
		c.logger.Debug().
			Str("op", op).
			Str("model", c.model).
			Int("prompt_length", len(prompt)).
			Msg("Issuing generation call")
	}

	resp, err := c.client.Models.GenerateContent(
		callCtx,
		c.model,
		[]*genai.Content{
			genai.NewContentFromText(prompt, genai.RoleUser),
		},
		config,
	)
	if err != nil {
		if c.logger != nil {
			c.logger.Error().
				Err(err).
				Str("op", op).
				Msg("Generation call failed")
		}
		return nil, classifyErr(op, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &APIError{Op: op, Message: "no candidates in response"}
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("op", op).
			Dur("duration", time.Since(startTime)).
			Msg("Generation call completed")
	}

	return resp, nil
}
