package engine

import "MarketLens/internal/domain/models"

// intensityTable is total over (strength x investor type): every valid
// combination resolves without branching in callers. Conservative rows sit
// at least one step below Balanced, Aggressive at least one step above,
// so the same evidence reads softer or sharper with the caller's risk
// tolerance.
var intensityTable = map[models.SignalStrength]map[models.InvestorType]models.LanguageIntensity{
	models.StrengthStrong: {
		models.InvestorConservative: models.IntensityCautious,
		models.InvestorBalanced:     models.IntensityConfident,
		models.InvestorAggressive:   models.IntensityVeryConfident,
	},
	models.StrengthModerate: {
		models.InvestorConservative: models.IntensityVeryCautious,
		models.InvestorBalanced:     models.IntensityNeutral,
		models.InvestorAggressive:   models.IntensityConfident,
	},
	models.StrengthWeak: {
		models.InvestorConservative: models.IntensityVeryCautious,
		models.InvestorBalanced:     models.IntensityCautious,
		models.InvestorAggressive:   models.IntensityNeutral,
	},
}

// AdjustIntensity resolves the language intensity for a classified signal
// and investor type. Goal and time horizon are carried through to the
// rendered text but deliberately do not move the intensity.
func AdjustIntensity(strength models.SignalStrength, investorType models.InvestorType) (models.LanguageIntensity, error) {
	row, ok := intensityTable[strength]
	if !ok {
		return "", &InputRangeError{Field: "signal_strength", Value: string(strength)}
	}
	intensity, ok := row[investorType]
	if !ok {
		return "", &InputRangeError{Field: "investor_type", Value: string(investorType)}
	}
	return intensity, nil
}

// validateIntensityTable guards against a hole in the grid; called from
// Engine construction so a gap aborts startup instead of a request.
func validateIntensityTable() error {
	strengths := []models.SignalStrength{models.StrengthStrong, models.StrengthModerate, models.StrengthWeak}
	types := []models.InvestorType{models.InvestorConservative, models.InvestorBalanced, models.InvestorAggressive}
	for _, s := range strengths {
		row, ok := intensityTable[s]
		if !ok {
			return &ConfigurationError{Reason: "intensity table missing strength row " + string(s)}
		}
		for _, t := range types {
			if _, ok := row[t]; !ok {
				return &ConfigurationError{Reason: "intensity table missing entry " + string(s) + "/" + string(t)}
			}
		}
	}
	return nil
}
