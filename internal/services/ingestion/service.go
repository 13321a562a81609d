package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/aurum/internal/common"
	"github.com/ternarybob/aurum/internal/interfaces"
	"github.com/ternarybob/aurum/internal/models"
)

const (
	// fallbackSource is used when the extraction omits a source name.
	fallbackSource = "Financial Feed"

	// fallbackURL is used when the extraction omits an article URL.
	fallbackURL = "https://www.reuters.com/business/commodities"

	// defaultImpactScore is assigned when the extraction omits a score.
	defaultImpactScore = 50
)

// articleStub is the shape of one element in the extraction response.
type articleStub struct {
	AssetContext string `json:"asset_context"`
	Headline     string `json:"headline"`
	Summary      string `json:"summary"`
	SourceName   string `json:"source_name"`
	URL          string `json:"url"`
	ImpactScore  int    `json:"impact_score"`
}

// Service implements the Collector interface. One Collect run issues two
// generation calls: a search-grounded retrieval, then a free-text-to-JSON
// extraction constrained to the grounding source list.
type Service struct {
	generation interfaces.GenerationService
	logger     arbor.ILogger
}

// Compile-time assertion: Service implements Collector
var _ interfaces.Collector = (*Service)(nil)

// NewService creates a new ingestion collector.
func NewService(generation interfaces.GenerationService, logger arbor.ILogger) *Service {
	return &Service{
		generation: generation,
		logger:     logger,
	}
}

// Collect gathers recent commodity news for the tracked assets. Any network
// or parse error propagates unmodified to the caller; there is no retry and
// no partial bundle.
func (s *Service) Collect(ctx context.Context) (*models.IngestionBundle, error) {
	startTime := time.Now()
	s.logger.Info().Msg("Starting ingestion cycle")

	grounded, err := s.generation.GenerateGrounded(ctx, buildSearchPrompt())
	if err != nil {
		return nil, fmt.Errorf("grounded search failed: %w", err)
	}

	s.logger.Debug().
		Int("text_length", len(grounded.Text)).
		Int("source_count", len(grounded.Sources)).
		Strs("search_queries", grounded.SearchQueries).
		Msg("Grounded search completed")

	raw, err := s.generation.GenerateJSON(ctx, buildExtractionPrompt(grounded.Text, grounded.Sources))
	if err != nil {
		return nil, fmt.Errorf("article extraction failed: %w", err)
	}

	var stubs []articleStub
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &stubs); err != nil {
		return nil, fmt.Errorf("failed to parse extracted articles: %w", err)
	}

	now := time.Now().UTC()
	news := make([]models.NewsArticle, 0, len(stubs))
	dropped := 0

	for _, stub := range stubs {
		assets := TagAssets(stub.Headline+" "+stub.Summary, stub.AssetContext)
		if len(assets) == 0 {
			dropped++
			continue
		}

		article := models.NewsArticle{
			ID:          common.NewArticleID(),
			Source:      stub.SourceName,
			Title:       stub.Headline,
			Content:     stub.Summary,
			URL:         stub.URL,
			PublishedAt: now,
			FetchedAt:   now,
			Assets:      assets,
			ImpactScore: stub.ImpactScore,
		}
		if article.Source == "" {
			article.Source = fallbackSource
		}
		if article.URL == "" {
			article.URL = fallbackURL
		}
		if article.ImpactScore == 0 {
			article.ImpactScore = defaultImpactScore
		}

		news = append(news, article)
	}

	bundle := &models.IngestionBundle{
		News:   news,
		Events: []models.EconomicEvent{synthesizeMacroEvent(now)},
	}

	s.logger.Info().
		Int("articles", len(news)).
		Int("dropped", dropped).
		Int("events", len(bundle.Events)).
		Dur("duration", time.Since(startTime)).
		Msg("Ingestion cycle completed")

	return bundle, nil
}

// synthesizeMacroEvent emits the fixed macro-event record. Field values are
// static and not derived from ingested content.
func synthesizeMacroEvent(now time.Time) models.EconomicEvent {
	return models.EconomicEvent{
		ID:          common.NewEventID(),
		EventName:   "Unified Macro Pulse",
		Country:     "US/GLOBAL",
		Impact:      models.EventImpactHigh,
		Actual:      "MONITORED",
		Forecast:    "N/A",
		Previous:    "N/A",
		ReleaseTime: now,
	}
}
