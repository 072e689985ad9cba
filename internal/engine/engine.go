// Package engine implements the market narrative reasoning core: it turns
// four normalized market signals and an investor profile into a bias,
// strength and language-intensity verdict. Every stage is a pure function
// of its inputs; the engine performs no I/O, reads no clock and keeps no
// per-request state, so concurrent evaluations need no coordination and
// identical inputs always produce identical outputs.
package engine

import "MarketLens/internal/domain/models"

// Evaluation is the engine's verdict for one request.
type Evaluation struct {
	Result    models.CompositeResult
	Bias      models.MarketBias
	Strength  models.SignalStrength
	Intensity models.LanguageIntensity
}

// Engine evaluates signal sets under an immutable configuration.
type Engine struct {
	cfg Config
}

// New validates the configuration and builds an engine. A
// *ConfigurationError here means the deployment is broken; callers must
// abort startup rather than serve requests.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateIntensityTable(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate runs the full reasoning chain: aggregate, detect conflict,
// classify, adjust for the investor profile.
func (e *Engine) Evaluate(signals models.NormalizedSignals, profile models.InvestorProfile) (Evaluation, error) {
	if err := validateProfile(profile); err != nil {
		return Evaluation{}, err
	}

	res, err := Aggregate(signals, e.cfg.Weights)
	if err != nil {
		return Evaluation{}, err
	}

	bias, strength := Classify(res, e.cfg.Thresholds)

	intensity, err := AdjustIntensity(strength, profile.Type)
	if err != nil {
		return Evaluation{}, err
	}

	return Evaluation{
		Result:    res,
		Bias:      bias,
		Strength:  strength,
		Intensity: intensity,
	}, nil
}

func validateProfile(p models.InvestorProfile) error {
	switch p.Type {
	case models.InvestorConservative, models.InvestorBalanced, models.InvestorAggressive:
	default:
		return &InputRangeError{Field: "investor_type", Value: string(p.Type)}
	}
	switch p.PrimaryGoal {
	case models.GoalGrowth, models.GoalIncome, models.GoalPreservation, models.GoalSpeculative:
	default:
		return &InputRangeError{Field: "primary_goal", Value: p.PrimaryGoal}
	}
	switch p.TimeHorizon {
	case models.HorizonShortTerm, models.HorizonMediumTerm, models.HorizonLongTerm:
	default:
		return &InputRangeError{Field: "time_horizon", Value: p.TimeHorizon}
	}
	return nil
}
