// Package narrative renders investor-facing market text. The default
// renderer assembles fixed sentence slots, so output is byte-identical
// for identical inputs and safe under concurrency.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
)

// TemplateRenderer is the deterministic default renderer.
type TemplateRenderer struct{}

func NewTemplateRenderer() *TemplateRenderer { return &TemplateRenderer{} }

var strengthAdjectives = map[models.SignalStrength]string{
	models.StrengthStrong:   "Clear",
	models.StrengthModerate: "Moderate",
	models.StrengthWeak:     "Mixed",
}

func (r *TemplateRenderer) Render(_ context.Context, in domsvc.RenderInput) (models.NarrativeOutput, error) {
	adjective, ok := strengthAdjectives[in.Strength]
	if !ok {
		adjective = "Moderate"
	}
	headline := fmt.Sprintf("%s %s Outlook with %s Risk", adjective, in.Bias, in.State.RiskLevel)

	return models.NarrativeOutput{
		Headline:     headline,
		Text:         strings.Join(bodySentences(in), " "),
		InvestorType: string(in.Profile.Type),
	}, nil
}

// bodySentences fills the fixed slots: trend, alignment, news, volatility,
// goal guidance, intensity-toned action, horizon framing.
func bodySentences(in domsvc.RenderInput) []string {
	sentences := make([]string, 0, 7)
	bias := strings.ToLower(string(in.Bias))
	strength := strings.ToLower(string(in.Strength))

	sentences = append(sentences, fmt.Sprintf(
		"%s is currently in a %s with %.0f%% confidence based on technical analysis.",
		in.Symbol, strings.ToLower(in.State.Trend), in.State.Confidence))

	if in.Conflicting {
		sentences = append(sentences, fmt.Sprintf(
			"Market signals show conflicting patterns, suggesting %s conviction in the current direction.", strength))
	} else {
		sentences = append(sentences, fmt.Sprintf(
			"Multiple indicators align, providing %s support for %s momentum.", strength, bias))
	}

	sentences = append(sentences, fmt.Sprintf(
		"Recent news sentiment is %s, %s the technical outlook.",
		strings.ToLower(in.State.NewsSentiment), newsRelation(in.Bias, in.State.NewsSentiment)))

	if in.State.Volatility == "High" || in.State.Volatility == "Very High" {
		sentences = append(sentences, fmt.Sprintf(
			"Volatility levels are currently %s, requiring careful position sizing.", strings.ToLower(in.State.Volatility)))
	} else {
		sentences = append(sentences, fmt.Sprintf(
			"Volatility levels are currently %s, providing a stable backdrop for new positions.", strings.ToLower(in.State.Volatility)))
	}

	sentences = append(sentences, goalSentence(in.Bias, in.Profile.PrimaryGoal, strength))
	sentences = append(sentences, actionSentence(in.Intensity, bias, in.State.RiskLevel))

	sentences = append(sentences, fmt.Sprintf(
		"This read is framed for a %s horizon.", strings.ToLower(in.Profile.TimeHorizon)))

	return sentences
}

func newsRelation(bias models.MarketBias, sentiment string) string {
	switch {
	case bias == models.BiasBullish && sentiment == "Positive",
		bias == models.BiasBearish && sentiment == "Negative":
		return "supporting"
	case bias == models.BiasBullish && sentiment == "Negative",
		bias == models.BiasBearish && sentiment == "Positive":
		return "running counter to"
	}
	return "adding little direction to"
}

func goalSentence(bias models.MarketBias, goal, strength string) string {
	if bias == models.BiasBullish {
		switch goal {
		case models.GoalGrowth:
			return fmt.Sprintf("For growth-oriented investors this bias could present upside opportunity, though confirmation is advised given %s signal strength.", strength)
		case models.GoalIncome:
			return "For income-focused strategies the uptrend may provide entry points for covered calls or other income-generating tactics."
		case models.GoalSpeculative:
			return "For speculative positioning the setup offers momentum to trade against, provided exits are planned in advance."
		default:
			return "The bullish setup sits uneasily with capital preservation objectives; consider waiting for confirmation or hedging exposure."
		}
	}
	switch goal {
	case models.GoalPreservation:
		return fmt.Sprintf("The %s backdrop aligns with capital preservation goals; reduce exposure or consider defensive positioning.", strings.ToLower(string(bias)))
	case models.GoalGrowth:
		return fmt.Sprintf("Growth investors may treat this as a watching brief, adding only if conviction firms beyond %s.", strength)
	case models.GoalSpeculative:
		return "Speculative traders may find short-side or range setups here, but tight risk control is essential."
	default:
		return "The current market state suggests caution before initiating large positions; wait for clearer directional signals."
	}
}

func actionSentence(intensity models.LanguageIntensity, bias, riskLevel string) string {
	var s string
	switch intensity {
	case models.IntensityVeryConfident:
		s = fmt.Sprintf("Signals strongly favor acting on the %s bias while conditions hold.", bias)
	case models.IntensityConfident:
		s = fmt.Sprintf("Signals support positioning in line with the %s bias.", bias)
	case models.IntensityNeutral:
		s = fmt.Sprintf("Consider measured steps aligned with the %s bias and reassess as new data arrives.", bias)
	case models.IntensityCautious:
		s = "A cautious stance is warranted; smaller position sizes fit the current picture."
	default:
		s = "Patience is warranted; wait for clearer direction before committing capital."
	}
	if riskLevel == "High" {
		return "Watch volatility closely; " + strings.ToLower(s[:1]) + s[1:]
	}
	return s
}
