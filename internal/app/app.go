package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/aurum/internal/common"
	"github.com/ternarybob/aurum/internal/gemini"
	"github.com/ternarybob/aurum/internal/handlers"
	"github.com/ternarybob/aurum/internal/interfaces"
	"github.com/ternarybob/aurum/internal/services/bias"
	"github.com/ternarybob/aurum/internal/services/events"
	"github.com/ternarybob/aurum/internal/services/ingestion"
	"github.com/ternarybob/aurum/internal/services/scheduler"
	"github.com/ternarybob/aurum/internal/services/telegram"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Collaborator clients
	GenerationService interfaces.GenerationService

	// Pipeline services
	EventService interfaces.EventService
	Collector    interfaces.Collector
	Classifier   interfaces.Classifier
	Notifier     interfaces.Notifier
	CycleService interfaces.CycleService

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	SnapshotHandler *handlers.SnapshotHandler
	CycleHandler    *handlers.CycleHandler
	WSHandler       *handlers.WebSocketHandler
	PageHandler     *handlers.PageHandler
}

// New initializes the application with all services and handlers
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	geminiTimeout, err := time.ParseDuration(config.Gemini.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid gemini timeout '%s': %w", config.Gemini.Timeout, err)
	}

	generationService, err := gemini.NewClient(context.Background(), config.Gemini.APIKey,
		gemini.WithModel(config.Gemini.Model),
		gemini.WithTimeout(geminiTimeout),
		gemini.WithRateLimit(config.Gemini.RateLimit),
		gemini.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation client: %w", err)
	}
	a.GenerationService = generationService

	a.EventService = events.NewService(logger)

	a.Collector = ingestion.NewService(a.GenerationService, logger)
	a.Classifier = bias.NewService(a.GenerationService, config.Scheduler.TopNewsLimit, logger)

	telegramOpts := []telegram.ServiceOption{}
	if config.Telegram.Timeout != "" {
		if timeout, err := time.ParseDuration(config.Telegram.Timeout); err == nil {
			telegramOpts = append(telegramOpts, telegram.WithHTTPClient(newHTTPClient(timeout)))
		} else {
			logger.Warn().
				Str("timeout", config.Telegram.Timeout).
				Msg("Invalid telegram timeout, using default")
		}
	}
	a.Notifier = telegram.NewService(config.Telegram.BotToken, config.Telegram.ChatID, logger, telegramOpts...)

	a.CycleService = scheduler.NewService(
		a.Collector,
		a.Classifier,
		a.Notifier,
		a.EventService,
		config.Macro,
		config.Scheduler.Schedule,
		config.Scheduler.RunOnStartup,
		logger,
	)

	// HTTP handlers
	a.APIHandler = handlers.NewAPIHandler(logger)
	a.SnapshotHandler = handlers.NewSnapshotHandler(a.CycleService, logger)
	a.CycleHandler = handlers.NewCycleHandler(a.CycleService, logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, logger)
	a.PageHandler = handlers.NewPageHandler(logger)

	if err := a.CycleService.Start(); err != nil {
		return nil, fmt.Errorf("failed to start cycle scheduler: %w", err)
	}

	logger.Info().
		Str("model", config.Gemini.Model).
		Str("schedule", config.Scheduler.Schedule).
		Msg("Application initialized")

	return a, nil
}

// newHTTPClient builds a plain HTTP client with the given timeout
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// Close stops the scheduler and releases resources
func (a *App) Close() {
	if a.CycleService != nil {
		a.CycleService.Stop()
	}
	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}
	a.Logger.Info().Msg("Application closed")
}
