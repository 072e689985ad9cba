package engine

import (
	"math"

	"MarketLens/internal/domain/models"
)

// Classify maps a composite result to a market bias and signal strength.
// Bias uses a symmetric dead-zone around zero; strength grades |composite|
// and is downgraded one level when the signals conflict, so a conflicting
// set can never classify as Strong.
func Classify(res models.CompositeResult, t Thresholds) (models.MarketBias, models.SignalStrength) {
	var bias models.MarketBias
	switch {
	case res.Composite > t.BiasEpsilon:
		bias = models.BiasBullish
	case res.Composite < -t.BiasEpsilon:
		bias = models.BiasBearish
	default:
		bias = models.BiasNeutral
	}

	abs := math.Abs(res.Composite)
	var strength models.SignalStrength
	switch {
	case abs >= t.Strong:
		strength = models.StrengthStrong
	case abs >= t.Moderate:
		strength = models.StrengthModerate
	default:
		strength = models.StrengthWeak
	}

	if res.Conflicting {
		strength = downgrade(strength)
	}
	return bias, strength
}

func downgrade(s models.SignalStrength) models.SignalStrength {
	switch s {
	case models.StrengthStrong:
		return models.StrengthModerate
	case models.StrengthModerate:
		return models.StrengthWeak
	}
	return models.StrengthWeak
}
