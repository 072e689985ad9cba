package narrative

import (
	"context"
	"strings"
	"testing"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
)

func renderInput() domsvc.RenderInput {
	return domsvc.RenderInput{
		Symbol:    "MSFT",
		Bias:      models.BiasBullish,
		Strength:  models.StrengthStrong,
		Intensity: models.IntensityConfident,
		State: models.MarketState{
			Trend:         "Uptrend",
			Confidence:    61,
			RiskLevel:     "Medium",
			Volatility:    "Moderate",
			NewsSentiment: "Positive",
		},
		Profile: models.InvestorProfile{
			Type:        models.InvestorBalanced,
			TimeHorizon: models.HorizonMediumTerm,
			PrimaryGoal: models.GoalGrowth,
		},
	}
}

func TestHeadlineTemplate(t *testing.T) {
	r := NewTemplateRenderer()
	out, err := r.Render(context.Background(), renderInput())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.Headline != "Clear Bullish Outlook with Medium Risk" {
		t.Fatalf("headline = %q", out.Headline)
	}
	if out.InvestorType != "Balanced" {
		t.Fatalf("investor type = %q", out.InvestorType)
	}
}

func TestHeadlineAdjectives(t *testing.T) {
	r := NewTemplateRenderer()
	cases := []struct {
		strength models.SignalStrength
		bias     models.MarketBias
		want     string
	}{
		{models.StrengthStrong, models.BiasBullish, "Clear Bullish Outlook with Medium Risk"},
		{models.StrengthModerate, models.BiasBearish, "Moderate Bearish Outlook with Medium Risk"},
		{models.StrengthWeak, models.BiasNeutral, "Mixed Neutral Outlook with Medium Risk"},
	}
	for _, tc := range cases {
		in := renderInput()
		in.Strength = tc.strength
		in.Bias = tc.bias
		out, err := r.Render(context.Background(), in)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if out.Headline != tc.want {
			t.Fatalf("headline = %q, want %q", out.Headline, tc.want)
		}
	}
}

func TestBodySentenceCount(t *testing.T) {
	r := NewTemplateRenderer()
	inputs := []domsvc.RenderInput{renderInput()}

	conflicted := renderInput()
	conflicted.Conflicting = true
	conflicted.Bias = models.BiasBearish
	conflicted.Strength = models.StrengthWeak
	conflicted.Intensity = models.IntensityVeryCautious
	conflicted.State.RiskLevel = "High"
	conflicted.State.Volatility = "Very High"
	conflicted.Profile.PrimaryGoal = models.GoalPreservation
	inputs = append(inputs, conflicted)

	speculative := renderInput()
	speculative.Profile.PrimaryGoal = models.GoalSpeculative
	speculative.Bias = models.BiasNeutral
	inputs = append(inputs, speculative)

	for i, in := range inputs {
		out, err := r.Render(context.Background(), in)
		if err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
		n := strings.Count(out.Text, ". ") + 1
		if n < 5 || n > 7 {
			t.Fatalf("input %d: %d sentences, want 5-7: %q", i, n, out.Text)
		}
	}
}

func TestBodyReflectsConflict(t *testing.T) {
	r := NewTemplateRenderer()
	in := renderInput()
	in.Conflicting = true
	out, err := r.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.Text, "conflicting patterns") {
		t.Fatalf("conflicting input not reflected: %q", out.Text)
	}
}

func TestBodyHighRiskNote(t *testing.T) {
	r := NewTemplateRenderer()
	in := renderInput()
	in.State.RiskLevel = "High"
	out, err := r.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.Text, "Watch volatility closely;") {
		t.Fatalf("high risk note missing: %q", out.Text)
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := NewTemplateRenderer()
	in := renderInput()
	first, err := r.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for i := 0; i < 20; i++ {
		got, err := r.Render(context.Background(), in)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if got != first {
			t.Fatalf("output diverged on run %d", i)
		}
	}
}

func TestIntensityChangesTone(t *testing.T) {
	r := NewTemplateRenderer()
	in := renderInput()
	in.Intensity = models.IntensityVeryConfident
	confident, _ := r.Render(context.Background(), in)
	in.Intensity = models.IntensityVeryCautious
	cautious, _ := r.Render(context.Background(), in)
	if confident.Text == cautious.Text {
		t.Fatalf("intensity change did not alter text")
	}
	if !strings.Contains(cautious.Text, "Patience is warranted") {
		t.Fatalf("very_cautious tone missing: %q", cautious.Text)
	}
}
