package models

import "time"

// HorizonAnalysis is the classifier verdict for one (asset, horizon) pair.
type HorizonAnalysis struct {
	Bias       Bias    `json:"bias"`
	Confidence float64 `json:"confidence"` // 0.0 - 1.0
	Driver     string  `json:"driver"`
}

// Horizons holds the three trading-timeframe verdicts for an asset.
type Horizons struct {
	Scalping HorizonAnalysis `json:"scalping"`
	Intraday HorizonAnalysis `json:"intraday"`
	Swing    HorizonAnalysis `json:"swing"`
}

// BiasOutput is the full classifier verdict for one asset. Produced once per
// cycle and fully replaced by the next cycle; no history is retained.
type BiasOutput struct {
	Asset             Asset    `json:"asset"`
	Horizons          Horizons `json:"horizons"`
	KeyDrivers        []string `json:"key_drivers"`
	SupportingNewsIDs []string `json:"supporting_news_ids"`
	InvalidatedIf     []string `json:"invalidated_if"`
	Timestamp         string   `json:"timestamp"`
}

// Snapshot is the complete result of one successful cycle. The scheduler
// replaces the whole snapshot atomically; a failed cycle never produces one.
type Snapshot struct {
	News        []NewsArticle        `json:"news"`
	Events      []EconomicEvent      `json:"events"`
	Biases      map[Asset]BiasOutput `json:"biases"`
	GeneratedAt time.Time            `json:"generated_at"`
}
