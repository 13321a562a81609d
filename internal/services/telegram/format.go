package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/aurum/internal/models"
)

// maxKeyDrivers caps the per-asset key-driver bullets in the report.
const maxKeyDrivers = 3

// FormatReport renders the per-asset bias summary in the fixed message
// template. Assets render in fixed order; an asset missing from the map is
// skipped.
func FormatReport(biases map[models.Asset]models.BiasOutput, now time.Time) string {
	var msg strings.Builder

	msg.WriteString("🚨 *INSTITUTIONAL COMMODITY INTELLIGENCE*\n")
	fmt.Fprintf(&msg, "🕒 _%s UTC_\n\n", now.Format("1/2/2006, 15:04:05"))

	for _, asset := range models.AllAssets() {
		data, ok := biases[asset]
		if !ok {
			continue
		}

		fmt.Fprintf(&msg, "%s *%s BIAS SUMMARY*\n", biasEmoji(data.Horizons.Intraday.Bias), asset)
		fmt.Fprintf(&msg, "┣ *Scalp:* %s (%.0f%%)\n", data.Horizons.Scalping.Bias, data.Horizons.Scalping.Confidence*100)
		fmt.Fprintf(&msg, "┣ *Intraday:* %s (%.0f%%)\n", data.Horizons.Intraday.Bias, data.Horizons.Intraday.Confidence*100)
		fmt.Fprintf(&msg, "┗ *Swing:* %s (%.0f%%)\n\n", data.Horizons.Swing.Bias, data.Horizons.Swing.Confidence*100)

		fmt.Fprintf(&msg, "📝 *Brief:* %s\n\n", data.Horizons.Intraday.Driver)

		msg.WriteString("📍 *Key Drivers:*\n")
		drivers := data.KeyDrivers
		if len(drivers) > maxKeyDrivers {
			drivers = drivers[:maxKeyDrivers]
		}
		for _, kd := range drivers {
			fmt.Fprintf(&msg, "• %s\n", kd)
		}
		msg.WriteString("\n───────────────────\n\n")
	}

	msg.WriteString("🛡 *Invalidation:* Bias invalidated if drivers flip.")

	return msg.String()
}

func biasEmoji(b models.Bias) string {
	switch b {
	case models.BiasBullish:
		return "📈"
	case models.BiasBearish:
		return "📉"
	default:
		return "⚖️"
	}
}
