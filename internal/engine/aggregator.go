package engine

import "MarketLens/internal/domain/models"

// Aggregate combines the normalized signals into one composite score under
// the configured weights and rescales it to a 0-100 confidence value.
// Weights are process-wide configuration validated at startup; only the
// signals are request input here.
func Aggregate(signals models.NormalizedSignals, w Weights) (models.CompositeResult, error) {
	for _, s := range []struct {
		name  string
		value float64
	}{
		{"trend", signals.Trend},
		{"news", signals.News},
		{"risk", signals.Risk},
		{"volatility", signals.Volatility},
	} {
		if s.value < -1 || s.value > 1 {
			return models.CompositeResult{}, &InputRangeError{Field: s.name, Value: s.value}
		}
	}

	composite := signals.Trend*w.Trend +
		signals.News*w.News +
		signals.Risk*w.Risk +
		signals.Volatility*w.Volatility

	return models.CompositeResult{
		Composite:   composite,
		Confidence:  ((composite + 1) / 2) * 100,
		Conflicting: DetectConflict(signals),
	}, nil
}
