// Package marketdata resolves price-derived market state for symbols.
// Providers return labeled snapshots; the reasoning engine never sees raw
// prices.
package marketdata

import (
	"fmt"
	"math"

	"MarketLens/internal/domain/models"
)

// trendLookback is the number of trading days used for the trend change,
// roughly one calendar month.
const trendLookback = 20

// SimpleReturns computes r_t = C_t/C_{t-1} - 1. It returns a slice of
// length len(closes)-1, or nil if insufficient data.
func SimpleReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, closes[i]/prev-1)
	}
	return out
}

// StdDev computes the sample standard deviation.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum, sum2 float64
	for _, x := range xs {
		sum += x
		sum2 += x * x
	}
	n := float64(len(xs))
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// SnapshotFromCloses derives the full labeled snapshot from a daily close
// series in ascending time order.
func SnapshotFromCloses(symbol string, closes []float64) (models.MarketSnapshot, error) {
	if len(closes) < trendLookback+1 {
		return models.MarketSnapshot{}, fmt.Errorf("need at least %d closes for %s, got %d", trendLookback+1, symbol, len(closes))
	}

	current := closes[len(closes)-1]
	prev := closes[len(closes)-1-trendLookback]
	trendPct := 0.0
	if prev > 0 {
		trendPct = (current - prev) / prev * 100
	}

	vol := StdDev(SimpleReturns(closes))

	return models.MarketSnapshot{
		Symbol:          symbol,
		Trend:           ClassifyTrend(trendPct),
		TrendChangePct:  trendPct,
		CurrentPrice:    current,
		Confidence:      ConfidenceFromVol(vol),
		AnnualVol:       vol,
		RiskLevel:       ClassifyRisk(vol),
		VolatilityLabel: ClassifyVolatility(vol),
	}, nil
}

// ClassifyTrend labels a one-month price change percentage.
func ClassifyTrend(changePct float64) string {
	switch {
	case changePct > 2:
		return "Uptrend"
	case changePct < -2:
		return "Downtrend"
	}
	return "Sideways"
}

// ClassifyRisk buckets daily-return volatility into a risk level.
func ClassifyRisk(vol float64) string {
	switch {
	case vol > 0.04:
		return "High"
	case vol > 0.025:
		return "Medium"
	}
	return "Low"
}

// ClassifyVolatility buckets volatility into a display label.
func ClassifyVolatility(vol float64) string {
	switch {
	case vol > 0.05:
		return "Very High"
	case vol > 0.035:
		return "High"
	case vol > 0.02:
		return "Moderate"
	}
	return "Low"
}

// ConfidenceFromVol maps volatility to trend confidence: steadier price
// action supports the trend read more. Floored at 40.
func ConfidenceFromVol(vol float64) float64 {
	c := 100 - vol*100
	if c < 40 {
		return 40
	}
	return c
}
