package ingestion

import (
	"sort"
	"strings"

	"github.com/ternarybob/aurum/internal/models"
)

// assetKeywords is the fixed per-asset keyword table used for local tagging.
// Matching is case-insensitive substring search over title + summary.
var assetKeywords = map[models.Asset][]string{
	models.AssetGold:   {"gold", "xau", "bullion", "fed", "yields", "inflation", "central bank", "haven"},
	models.AssetSilver: {"silver", "xag", "industrial metals", "manufacturing", "solar", "photovoltaic", "white metal"},
	models.AssetOil:    {"oil", "crude", "wti", "brent", "opec", "inventory", "eia", "energy", "petroleum"},
}

// TagAssets returns the set of assets whose keyword list matches the text,
// unioned with the suggested asset when it names a tracked commodity.
// Tagging is idempotent: the same text always yields the same asset set.
func TagAssets(text string, suggested string) []models.Asset {
	matched := make(map[models.Asset]bool)
	lower := strings.ToLower(text)

	for asset, keywords := range assetKeywords {
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				matched[asset] = true
				break
			}
		}
	}

	if suggestedAsset := models.Asset(strings.ToUpper(strings.TrimSpace(suggested))); suggestedAsset.IsValid() {
		matched[suggestedAsset] = true
	}

	assets := make([]models.Asset, 0, len(matched))
	for asset := range matched {
		assets = append(assets, asset)
	}

	// Stable order for deterministic output
	sort.Slice(assets, func(i, j int) bool {
		return assets[i] < assets[j]
	})

	return assets
}
