package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/aurum/internal/models"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Telegram    TelegramConfig  `toml:"telegram"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	// Macro anchor values fed to the classifier each cycle. Injected from
	// configuration, never derived from ingestion output.
	Macro models.MacroContext `toml:"macro"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// GeminiConfig configures the generation endpoint client
type GeminiConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model" validate:"required"`
	Timeout   string `toml:"timeout" validate:"required"` // per-call timeout, e.g. "2m"
	RateLimit int    `toml:"rate_limit" validate:"gt=0"`  // requests per second
}

// TelegramConfig configures the report webhook. Both fields empty is a
// recognized state: dispatch is skipped, not an error.
type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
	Timeout  string `toml:"timeout"` // HTTP timeout for sendMessage, e.g. "30s"
}

// SchedulerConfig configures the cycle timer
type SchedulerConfig struct {
	Schedule     string `toml:"schedule" validate:"required"` // cron expression or @every duration
	RunOnStartup bool   `toml:"run_on_startup"`
	TopNewsLimit int    `toml:"top_news_limit" validate:"gt=0"` // articles forwarded to the classifier
}

// NewDefaultConfig returns a Config populated with defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Gemini: GeminiConfig{
			Model:     "gemini-2.0-flash",
			Timeout:   "2m",
			RateLimit: 5,
		},
		Telegram: TelegramConfig{
			Timeout: "30s",
		},
		Scheduler: SchedulerConfig{
			Schedule:     "@every 1h",
			RunOnStartup: true,
			TopNewsLimit: 15,
		},
		// Same anchor values the bias engine has always run with.
		Macro: models.MacroContext{
			USDTrend:      "NEUTRAL",
			YieldsTrend:   "STABLE",
			RiskSentiment: "MIXED",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> environment variables.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against struct validation tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("AURUM_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("AURUM_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("AURUM_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("AURUM_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Gemini configuration
	if apiKey := os.Getenv("AURUM_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("AURUM_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if timeout := os.Getenv("AURUM_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}

	// Telegram configuration
	if token := os.Getenv("AURUM_TELEGRAM_BOT_TOKEN"); token != "" {
		config.Telegram.BotToken = token
	} else if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		config.Telegram.BotToken = token
	}
	if chatID := os.Getenv("AURUM_TELEGRAM_CHAT_ID"); chatID != "" {
		config.Telegram.ChatID = chatID
	} else if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		config.Telegram.ChatID = chatID
	}

	// Scheduler configuration
	if schedule := os.Getenv("AURUM_SCHEDULER_SCHEDULE"); schedule != "" {
		config.Scheduler.Schedule = schedule
	}

	// Macro anchor overrides
	if usd := os.Getenv("AURUM_MACRO_USD_TREND"); usd != "" {
		config.Macro.USDTrend = usd
	}
	if yields := os.Getenv("AURUM_MACRO_YIELDS_TREND"); yields != "" {
		config.Macro.YieldsTrend = yields
	}
	if risk := os.Getenv("AURUM_MACRO_RISK_SENTIMENT"); risk != "" {
		config.Macro.RiskSentiment = risk
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
