package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/aurum/internal/interfaces"
	"github.com/ternarybob/aurum/internal/models"
)

const (
	// DefaultBaseURL is the Telegram bot API base URL.
	DefaultBaseURL = "https://api.telegram.org"

	// DefaultTimeout is the default HTTP timeout for sendMessage.
	DefaultTimeout = 30 * time.Second
)

// sendMessageRequest is the sendMessage POST body.
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Service implements the Notifier interface against the Telegram bot API.
type Service struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
}

// Compile-time assertion: Service implements Notifier
var _ interfaces.Notifier = (*Service)(nil)

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(baseURL string) ServiceOption {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ServiceOption {
	return func(s *Service) {
		s.httpClient = httpClient
	}
}

// NewService creates a new report dispatcher. Empty credentials are allowed;
// Send becomes a logged no-op returning false.
func NewService(botToken, chatID string, logger arbor.ILogger, opts ...ServiceOption) *Service {
	s := &Service{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// IsConfigured reports whether webhook credentials are present.
func (s *Service) IsConfigured() bool {
	return s.botToken != "" && s.chatID != ""
}

// Send renders the intelligence report and posts it to the chat webhook.
// Returns true only on an HTTP 2xx response. Missing credentials, marshal
// errors, network errors, and non-2xx responses all return false; Send never
// returns an error to the caller.
func (s *Service) Send(ctx context.Context, biases map[models.Asset]models.BiasOutput) bool {
	if !s.IsConfigured() {
		s.logger.Warn().Msg("Telegram configuration missing, skipping report")
		return false
	}

	message := FormatReport(biases, time.Now().UTC())

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    s.chatID,
		Text:      message,
		ParseMode: "Markdown",
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal Telegram request")
		return false
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create Telegram request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Msg("Telegram transmission failed")
		return false
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok {
		s.logger.Info().
			Int("message_length", len(message)).
			Msg("Intelligence report dispatched")
	} else {
		s.logger.Error().
			Int("status", resp.StatusCode).
			Msg("Telegram endpoint rejected report")
	}

	return ok
}
