package models

// MarketSnapshot is the resolved view of price-derived state for one
// symbol, produced by a market-data provider.
type MarketSnapshot struct {
	Symbol          string
	Trend           string // "Uptrend", "Sideways", "Downtrend"
	TrendChangePct  float64
	CurrentPrice    float64
	Confidence      float64 // 0-100, higher when the trend is consistent
	AnnualVol       float64 // stddev of daily returns
	RiskLevel       string  // "High", "Medium", "Low"
	VolatilityLabel string  // "Very High", "High", "Moderate", "Low"
}

// NewsSentiment is the aggregated read of recent headlines for a symbol.
type NewsSentiment struct {
	Symbol     string
	Label      string  // "Positive", "Neutral", "Negative"
	Confidence float64 // 0-1 share of headlines behind the label
	Headlines  []string
}
