package marketdata

import "MarketLens/internal/domain/models"

// Normalize maps the labeled market state and news sentiment onto the
// four [-1,1] evidence signals the reasoning engine consumes. Risk and
// volatility penalize (negative when elevated); trend and news carry the
// direction.
func Normalize(snapshot models.MarketSnapshot, news models.NewsSentiment) models.NormalizedSignals {
	return models.NormalizedSignals{
		Trend:      trendSignal(snapshot.Trend),
		News:       newsSignal(news.Label),
		Risk:       riskSignal(snapshot.RiskLevel),
		Volatility: volatilitySignal(snapshot.VolatilityLabel),
	}
}

func trendSignal(trend string) float64 {
	switch trend {
	case "Uptrend":
		return 1.0
	case "Downtrend":
		return -1.0
	}
	return 0.0
}

func newsSignal(label string) float64 {
	switch label {
	case "Positive":
		return 1.0
	case "Negative":
		return -1.0
	}
	return 0.0
}

func riskSignal(level string) float64 {
	switch level {
	case "High":
		return -0.3
	case "Low":
		return 0.3
	}
	return 0.0
}

func volatilitySignal(label string) float64 {
	switch label {
	case "Very High":
		return -0.4
	case "High":
		return -0.2
	case "Low":
		return 0.2
	}
	return 0.0
}

// MarketStateOf assembles the response-facing state view from the
// resolved snapshot and news sentiment.
func MarketStateOf(snapshot models.MarketSnapshot, news models.NewsSentiment) models.MarketState {
	return models.MarketState{
		Trend:         snapshot.Trend,
		Confidence:    snapshot.Confidence,
		RiskLevel:     snapshot.RiskLevel,
		Volatility:    snapshot.VolatilityLabel,
		NewsSentiment: news.Label,
	}
}
