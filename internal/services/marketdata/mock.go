package marketdata

import (
	"context"
	"hash/fnv"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
)

// MockProvider produces reproducible snapshots when no market-data API is
// configured. Everything derives from a pure hash of the symbol string:
// no global seed, no mutable state, so concurrent calls and repeated
// calls for the same symbol always agree.
type MockProvider struct{}

func NewMockProvider() *MockProvider { return &MockProvider{} }

func (p *MockProvider) Snapshot(_ context.Context, symbol string) (models.MarketSnapshot, error) {
	h := symbolHash(symbol)

	// trend change in [-10, +10) percent
	trendPct := float64(h%2000)/100 - 10
	// daily volatility in [0.010, 0.060)
	vol := 0.010 + float64((h>>16)%50)/1000
	// a stable but arbitrary price in [20, 1000)
	price := 20 + float64((h>>32)%98000)/100

	return models.MarketSnapshot{
		Symbol:          symbol,
		Trend:           ClassifyTrend(trendPct),
		TrendChangePct:  trendPct,
		CurrentPrice:    price,
		Confidence:      ConfidenceFromVol(vol),
		AnnualVol:       vol,
		RiskLevel:       ClassifyRisk(vol),
		VolatilityLabel: ClassifyVolatility(vol),
	}, nil
}

func symbolHash(symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum64()
}

var _ domsvc.MarketDataProvider = (*MockProvider)(nil)
