package models

// Asset identifies a tracked commodity.
type Asset string

const (
	AssetGold   Asset = "GOLD"
	AssetSilver Asset = "SILVER"
	AssetOil    Asset = "OIL"
)

// AllAssets returns the tracked assets in fixed display order.
func AllAssets() []Asset {
	return []Asset{AssetGold, AssetSilver, AssetOil}
}

// IsValid reports whether the asset is one of the tracked commodities.
func (a Asset) IsValid() bool {
	switch a {
	case AssetGold, AssetSilver, AssetOil:
		return true
	}
	return false
}

// Bias is a directional market view.
type Bias string

const (
	BiasBullish Bias = "BULLISH"
	BiasBearish Bias = "BEARISH"
	BiasNeutral Bias = "NEUTRAL"
)
