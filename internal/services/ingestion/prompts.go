package ingestion

import (
	"fmt"
	"strings"

	"github.com/ternarybob/aurum/internal/interfaces"
	"github.com/ternarybob/aurum/internal/models"
)

// buildSearchPrompt builds the search-grounded retrieval query for the
// tracked assets.
func buildSearchPrompt() string {
	assets := make([]string, 0, 3)
	for _, a := range models.AllAssets() {
		assets = append(assets, string(a))
	}

	return fmt.Sprintf(`Search for high-impact financial news from the last 24 hours for: %s.
Focus on: Reuters, CNBC, Bloomberg, and EIA reports.
Specifically find:
1. Gold/XAU: Fed sentiment, central bank buying, yield shifts.
2. Silver/XAG: Industrial demand, solar/EV manufacturing, silver/gold ratio.
3. Oil/WTI: OPEC+ output, EIA inventory data, geopolitical supply risks.

Return a detailed summary of high-impact intelligence.`, strings.Join(assets, ", "))
}

// buildExtractionPrompt builds the free-text-to-JSON conversion prompt. The
// numbered source list constrains article URLs to the grounding results.
func buildExtractionPrompt(intelligence string, sources []interfaces.GroundingSource) string {
	var sourceList strings.Builder
	for i, s := range sources {
		fmt.Fprintf(&sourceList, "[S%d]: %s - %s\n", i, s.Title, s.URL)
	}

	return fmt.Sprintf(`Convert the following market intelligence into a structured JSON array.

INTELLIGENCE:
%s

SOURCES/URLS AVAILABLE:
%s
RULES:
1. Map the most relevant Source URL from the list above to each article.
2. Set "impact_score" 1-100 based on institutional significance.

JSON SCHEMA:
Array<{
  "asset_context": "GOLD" | "SILVER" | "OIL",
  "headline": "string",
  "summary": "string",
  "source_name": "string",
  "url": "string (MUST BE FROM SOURCES LIST)",
  "impact_score": number
}>`, intelligence, sourceList.String())
}
