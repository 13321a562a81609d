package bias

import (
	"google.golang.org/genai"

	"github.com/ternarybob/aurum/internal/models"
)

// horizonSchema constrains one (asset, horizon) verdict.
func horizonSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"bias":       {Type: genai.TypeString, Description: "BULLISH, BEARISH, or NEUTRAL"},
			"confidence": {Type: genai.TypeNumber},
			"driver":     {Type: genai.TypeString},
		},
		Required: []string{"bias", "confidence", "driver"},
	}
}

// assetBiasSchema constrains the full verdict for one asset.
func assetBiasSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"horizons": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"scalping": horizonSchema(),
					"intraday": horizonSchema(),
					"swing":    horizonSchema(),
				},
				Required: []string{"scalping", "intraday", "swing"},
			},
			"key_drivers":         {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"supporting_news_ids": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"invalidated_if":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"timestamp":           {Type: genai.TypeString},
		},
		Required: []string{"horizons", "key_drivers", "supporting_news_ids", "invalidated_if", "timestamp"},
	}
}

// systemBiasSchema constrains the classification response: one record per
// tracked asset, all three required.
func systemBiasSchema() *genai.Schema {
	properties := make(map[string]*genai.Schema, 3)
	required := make([]string, 0, 3)
	for _, asset := range models.AllAssets() {
		properties[string(asset)] = assetBiasSchema()
		required = append(required, string(asset))
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}
}
