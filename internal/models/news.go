package models

import "time"

// NewsArticle is one ingested headline. Articles live for a single cycle and
// are replaced wholesale by the next ingestion run.
type NewsArticle struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	FetchedAt   time.Time `json:"fetched_at"`
	Assets      []Asset   `json:"assets"`
	ImpactScore int       `json:"impact_score"` // 0-100 editorial significance
}

// EventImpact is the significance level of an economic event.
type EventImpact string

const (
	EventImpactLow    EventImpact = "LOW"
	EventImpactMedium EventImpact = "MEDIUM"
	EventImpactHigh   EventImpact = "HIGH"
)

// EconomicEvent is a macro data point emitted per ingestion cycle.
type EconomicEvent struct {
	ID          string      `json:"id"`
	EventName   string      `json:"event_name"`
	Country     string      `json:"country"`
	Impact      EventImpact `json:"impact"`
	Actual      string      `json:"actual"`
	Forecast    string      `json:"forecast"`
	Previous    string      `json:"previous"`
	ReleaseTime time.Time   `json:"release_time"`
}

// IngestionBundle is the output of one collector run.
type IngestionBundle struct {
	News   []NewsArticle   `json:"news"`
	Events []EconomicEvent `json:"events"`
}

// MacroContext is the point-in-time macro snapshot fed to the classifier.
// Values are configuration-injected, not derived from ingestion output.
type MacroContext struct {
	USDTrend      string `json:"usd_trend" toml:"usd_trend"`
	YieldsTrend   string `json:"yields_trend" toml:"yields_trend"`
	RiskSentiment string `json:"risk_sentiment" toml:"risk_sentiment"`
}
