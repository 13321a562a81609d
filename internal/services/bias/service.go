package bias

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/aurum/internal/interfaces"
	"github.com/ternarybob/aurum/internal/models"
)

// DefaultTopNewsLimit is how many of the highest-impact articles are
// forwarded to the classification call.
const DefaultTopNewsLimit = 15

// Service implements the Classifier interface with one schema-constrained
// generation call per cycle.
type Service struct {
	generation   interfaces.GenerationService
	logger       arbor.ILogger
	topNewsLimit int
}

// Compile-time assertion: Service implements Classifier
var _ interfaces.Classifier = (*Service)(nil)

// NewService creates a new bias classifier.
func NewService(generation interfaces.GenerationService, topNewsLimit int, logger arbor.ILogger) *Service {
	if topNewsLimit <= 0 {
		topNewsLimit = DefaultTopNewsLimit
	}
	return &Service{
		generation:   generation,
		logger:       logger,
		topNewsLimit: topNewsLimit,
	}
}

// Classify maps each tracked asset to its BiasOutput. A non-success response,
// a schema violation, or a parse failure is fatal for the cycle; no partial
// or degraded bias set is returned. An empty article list is still sent.
func (s *Service) Classify(ctx context.Context, news []models.NewsArticle, events []models.EconomicEvent, macro models.MacroContext) (map[models.Asset]models.BiasOutput, error) {
	topNews := selectTopNews(news, s.topNewsLimit)
	prompt := buildPrompt(topNews, macro)

	startTime := time.Now()
	s.logger.Info().
		Int("articles", len(topNews)).
		Int("events", len(events)).
		Msg("Starting bias classification")

	raw, err := s.generation.GenerateStructured(ctx, prompt, systemBiasSchema())
	if err != nil {
		return nil, fmt.Errorf("bias classification failed: %w", err)
	}

	biases, err := parseBiases(raw)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("assets", len(biases)).
		Dur("duration", time.Since(startTime)).
		Msg("Bias classification completed")

	return biases, nil
}

// parseBiases decodes the schema-constrained response and stamps each record
// with its own asset key. Every tracked asset must be present.
func parseBiases(raw string) (map[models.Asset]models.BiasOutput, error) {
	var decoded map[string]models.BiasOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse bias response: %w", err)
	}

	biases := make(map[models.Asset]models.BiasOutput, len(models.AllAssets()))
	for _, asset := range models.AllAssets() {
		output, ok := decoded[string(asset)]
		if !ok {
			return nil, fmt.Errorf("bias response missing asset %s", asset)
		}
		output.Asset = asset
		biases[asset] = output
	}

	return biases, nil
}
