package interfaces

import (
	"context"

	"github.com/ternarybob/aurum/internal/models"
)

// Collector gathers recent commodity news and economic events.
type Collector interface {
	// Collect returns a fresh ingestion bundle or fails. Errors propagate
	// unmodified; there is no retry and no partial bundle.
	Collect(ctx context.Context) (*models.IngestionBundle, error)
}

// Classifier produces the per-asset directional bias verdicts.
type Classifier interface {
	// Classify maps each tracked asset to its BiasOutput or fails. The
	// result covers exactly the three tracked assets; there is no partial
	// or degraded bias set.
	Classify(ctx context.Context, news []models.NewsArticle, events []models.EconomicEvent, macro models.MacroContext) (map[models.Asset]models.BiasOutput, error)
}

// Notifier forwards a formatted bias report to an external chat webhook.
type Notifier interface {
	// Send returns true when the report was delivered. It never returns an
	// error: missing credentials, network failures, and non-2xx responses
	// all report false.
	Send(ctx context.Context, biases map[models.Asset]models.BiasOutput) bool
}
