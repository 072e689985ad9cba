package models

import "time"

// MarketBias is the directional read on a symbol.
type MarketBias string

const (
	BiasBullish MarketBias = "Bullish"
	BiasNeutral MarketBias = "Neutral"
	BiasBearish MarketBias = "Bearish"
)

// SignalStrength grades how decisive the combined evidence is.
type SignalStrength string

const (
	StrengthStrong   SignalStrength = "Strong"
	StrengthModerate SignalStrength = "Moderate"
	StrengthWeak     SignalStrength = "Weak"
)

// LanguageIntensity is the tone applied to generated narrative text.
type LanguageIntensity string

const (
	IntensityVeryCautious  LanguageIntensity = "very_cautious"
	IntensityCautious      LanguageIntensity = "cautious"
	IntensityNeutral       LanguageIntensity = "neutral"
	IntensityConfident     LanguageIntensity = "confident"
	IntensityVeryConfident LanguageIntensity = "very_confident"
)

// Rank orders intensities from most cautious (0) to most confident (4).
// Unknown values rank below very_cautious.
func (i LanguageIntensity) Rank() int {
	switch i {
	case IntensityVeryCautious:
		return 0
	case IntensityCautious:
		return 1
	case IntensityNeutral:
		return 2
	case IntensityConfident:
		return 3
	case IntensityVeryConfident:
		return 4
	}
	return -1
}

// InvestorType is the caller's risk-tolerance bucket.
type InvestorType string

const (
	InvestorConservative InvestorType = "Conservative"
	InvestorBalanced     InvestorType = "Balanced"
	InvestorAggressive   InvestorType = "Aggressive"
)

// InvestorProfile is supplied per request and never mutated.
type InvestorProfile struct {
	Type        InvestorType `json:"type"`
	TimeHorizon string       `json:"time_horizon"`
	PrimaryGoal string       `json:"primary_goal"`
}

// Recognized profile enum values beyond Type.
const (
	HorizonShortTerm  = "Short-term"
	HorizonMediumTerm = "Medium-term"
	HorizonLongTerm   = "Long-term"

	GoalGrowth       = "Growth"
	GoalIncome       = "Income"
	GoalPreservation = "Capital Preservation"
	GoalSpeculative  = "Speculative"
)

// NormalizedSignals holds the four evidence sources, each in [-1, 1].
// They arrive already resolved; the reasoning engine never fetches data.
type NormalizedSignals struct {
	Trend      float64 `json:"trend"`
	News       float64 `json:"news"`
	Risk       float64 `json:"risk"`
	Volatility float64 `json:"volatility"`
}

// CompositeResult is the weighted combination of the normalized signals.
type CompositeResult struct {
	Composite   float64 `json:"composite"`   // [-1, 1]
	Confidence  float64 `json:"confidence"`  // [0, 100], pure rescale of Composite
	Conflicting bool    `json:"conflicting"` // signal directions disagree
}

// MarketState is the labeled market snapshot merged back into responses.
type MarketState struct {
	Trend         string  `json:"trend"`
	Confidence    float64 `json:"confidence"`
	RiskLevel     string  `json:"risk_level"`
	Volatility    string  `json:"volatility"`
	NewsSentiment string  `json:"news_sentiment"`
}

// NarrativeOutput is the generated text. Built fresh per request.
type NarrativeOutput struct {
	Headline     string `json:"headline"`
	Text         string `json:"text"`
	InvestorType string `json:"investor_type"`
}

// SignalVerdict pairs the classified bias and strength.
type SignalVerdict struct {
	MarketBias     MarketBias     `json:"market_bias"`
	SignalStrength SignalStrength `json:"signal_strength"`
}

// Assessment is one complete investor-tailored market read. The timestamp
// is attached by the calling layer, not by the reasoning engine.
type Assessment struct {
	Symbol      string          `json:"symbol"`
	Timestamp   time.Time       `json:"timestamp"`
	MarketState MarketState     `json:"market_state"`
	Signals     SignalVerdict   `json:"signals"`
	Narrative   NarrativeOutput `json:"narrative"`

	// Diagnostics carried for history/metrics, not part of the public
	// response envelope.
	Composite   float64           `json:"-"`
	Confidence  float64           `json:"-"`
	Conflicting bool              `json:"-"`
	Intensity   LanguageIntensity `json:"-"`
}
