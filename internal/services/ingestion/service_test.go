package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ternarybob/aurum/internal/common"
	"github.com/ternarybob/aurum/internal/interfaces"
	"github.com/ternarybob/aurum/internal/models"
)

// fakeGeneration is a scripted GenerationService for collector tests.
type fakeGeneration struct {
	groundedResult *interfaces.GroundedResult
	groundedErr    error
	jsonResult     string
	jsonErr        error

	lastGroundedPrompt string
	lastJSONPrompt     string
}

func (f *fakeGeneration) GenerateGrounded(ctx context.Context, prompt string) (*interfaces.GroundedResult, error) {
	f.lastGroundedPrompt = prompt
	return f.groundedResult, f.groundedErr
}

func (f *fakeGeneration) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	f.lastJSONPrompt = prompt
	return f.jsonResult, f.jsonErr
}

func (f *fakeGeneration) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	return "", errors.New("not used by collector")
}

func newGrounded() *interfaces.GroundedResult {
	return &interfaces.GroundedResult{
		Text: "Gold rallied on central bank buying. OPEC cut output.",
		Sources: []interfaces.GroundingSource{
			{Title: "Reuters Commodities", URL: "https://www.reuters.com/markets/commodities/x"},
			{Title: "EIA Report", URL: "https://www.eia.gov/petroleum/y"},
		},
		SearchQueries: []string{"gold news today"},
	}
}

func TestCollect(t *testing.T) {
	fake := &fakeGeneration{
		groundedResult: newGrounded(),
		jsonResult: `[
			{"asset_context":"GOLD","headline":"Central bank gold buying hits record","summary":"Bullion demand accelerates","source_name":"Reuters","url":"https://www.reuters.com/markets/commodities/x","impact_score":85},
			{"asset_context":"OIL","headline":"OPEC+ extends cuts","summary":"Crude supply tightens","source_name":"EIA","url":"https://www.eia.gov/petroleum/y","impact_score":78},
			{"asset_context":"","headline":"Tech stocks rally","summary":"Nasdaq at highs","source_name":"CNBC","url":"https://cnbc.com/z","impact_score":60}
		]`,
	}

	svc := NewService(fake, common.GetLogger())
	bundle, err := svc.Collect(context.Background())
	require.NoError(t, err)

	// Zero-asset article is discarded
	require.Len(t, bundle.News, 2)

	gold := bundle.News[0]
	assert.Equal(t, "Central bank gold buying hits record", gold.Title)
	assert.Equal(t, "Reuters", gold.Source)
	assert.Equal(t, 85, gold.ImpactScore)
	assert.Contains(t, gold.Assets, models.AssetGold)
	assert.NotEmpty(t, gold.ID)
	assert.False(t, gold.FetchedAt.IsZero())

	// Extraction prompt carries the grounding text and source list
	assert.Contains(t, fake.lastJSONPrompt, "Gold rallied on central bank buying")
	assert.Contains(t, fake.lastJSONPrompt, "[S0]: Reuters Commodities - https://www.reuters.com/markets/commodities/x")
	assert.Contains(t, fake.lastJSONPrompt, "MUST BE FROM SOURCES LIST")

	// Search prompt names all tracked assets
	assert.Contains(t, fake.lastGroundedPrompt, "GOLD, SILVER, OIL")
}

func TestCollectSynthesizesMacroEvent(t *testing.T) {
	fake := &fakeGeneration{
		groundedResult: newGrounded(),
		jsonResult:     `[]`,
	}

	svc := NewService(fake, common.GetLogger())
	bundle, err := svc.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, bundle.Events, 1)
	evt := bundle.Events[0]
	assert.Equal(t, "Unified Macro Pulse", evt.EventName)
	assert.Equal(t, "US/GLOBAL", evt.Country)
	assert.Equal(t, models.EventImpactHigh, evt.Impact)
	assert.Equal(t, "MONITORED", evt.Actual)
	assert.Equal(t, "N/A", evt.Forecast)
	assert.NotEmpty(t, evt.ID)
}

func TestCollectAppliesFallbacks(t *testing.T) {
	fake := &fakeGeneration{
		groundedResult: newGrounded(),
		jsonResult:     `[{"asset_context":"GOLD","headline":"Gold steady","summary":"","source_name":"","url":"","impact_score":0}]`,
	}

	svc := NewService(fake, common.GetLogger())
	bundle, err := svc.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, bundle.News, 1)
	assert.Equal(t, fallbackSource, bundle.News[0].Source)
	assert.Equal(t, fallbackURL, bundle.News[0].URL)
	assert.Equal(t, defaultImpactScore, bundle.News[0].ImpactScore)
}

func TestCollectPropagatesGroundedError(t *testing.T) {
	fake := &fakeGeneration{groundedErr: errors.New("endpoint unreachable")}

	svc := NewService(fake, common.GetLogger())
	_, err := svc.Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint unreachable")
}

func TestCollectPropagatesParseError(t *testing.T) {
	fake := &fakeGeneration{
		groundedResult: newGrounded(),
		jsonResult:     `not valid json`,
	}

	svc := NewService(fake, common.GetLogger())
	_, err := svc.Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}
