package bias

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/aurum/internal/models"
)

// selectTopNews returns the limit highest-impact articles, sorted by impact
// score descending. The input slice is not modified.
func selectTopNews(news []models.NewsArticle, limit int) []models.NewsArticle {
	sorted := make([]models.NewsArticle, len(news))
	copy(sorted, news)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ImpactScore > sorted[j].ImpactScore
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// buildPrompt assembles the classification prompt. The stability rules are
// literal instruction text to the model; they are not enforced in code.
func buildPrompt(topNews []models.NewsArticle, macro models.MacroContext) string {
	var newsLines strings.Builder
	for _, n := range topNews {
		tags := make([]string, 0, len(n.Assets))
		for _, a := range n.Assets {
			tags = append(tags, string(a))
		}
		fmt.Fprintf(&newsLines, "[%s] IMPACT:%d | %s\n", strings.Join(tags, ","), n.ImpactScore, n.Title)
	}

	return fmt.Sprintf(`Role: Institutional Commodity Strategist.
Task: Generate directional bias for GOLD, SILVER, and OIL.

STABILITY RULES:
1. PRIORITIZE STRUCTURAL MACRO: USD (DXY) and Real Yields are the "Anchor Drivers" for Swing/Intraday.
2. TRANSIENT NOISE: Headlines with Impact < 70 should only influence the SCALPING horizon.
3. SILVER INDEPENDENCE: Evaluate Silver based on manufacturing/industrial PMIs and solar demand. Do not auto-copy Gold bias.
4. CONFIDENCE: If news is contradictory, bias MUST be NEUTRAL with low confidence.

INPUT DATA:
%s
MACRO ANCHOR:
- USD Trend: %s
- Yields: %s
- Risk: %s

Provide the response in the specified JSON schema. Ensure the 'driver' field contains a concise, logical justification.`,
		newsLines.String(), macro.USDTrend, macro.YieldsTrend, macro.RiskSentiment)
}
