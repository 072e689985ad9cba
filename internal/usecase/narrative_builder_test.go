package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
	"MarketLens/internal/engine"
	"MarketLens/pkg/cache"
)

type fakeMarket struct {
	snapshot models.MarketSnapshot
	err      error
	calls    int
}

func (f *fakeMarket) Snapshot(_ context.Context, symbol string) (models.MarketSnapshot, error) {
	f.calls++
	if f.err != nil {
		return models.MarketSnapshot{}, f.err
	}
	s := f.snapshot
	s.Symbol = symbol
	return s, nil
}

type fakeNews struct {
	sentiment models.NewsSentiment
	err       error
}

func (f *fakeNews) Sentiment(_ context.Context, symbol string) (models.NewsSentiment, error) {
	if f.err != nil {
		return models.NewsSentiment{}, f.err
	}
	s := f.sentiment
	s.Symbol = symbol
	return s, nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(_ context.Context, in domsvc.RenderInput) (models.NarrativeOutput, error) {
	return models.NarrativeOutput{
		Headline:     string(in.Bias) + " outlook",
		Text:         "narrative for " + in.Symbol,
		InvestorType: string(in.Profile.Type),
	}, nil
}

type countMetrics struct {
	assessments int
	errs        map[string]int
}

func (m *countMetrics) RecordAssessment(symbol, bias, strength string, confidence float64) {
	m.assessments++
}
func (m *countMetrics) RecordError(kind string) {
	if m.errs == nil {
		m.errs = map[string]int{}
	}
	m.errs[kind]++
}
func (m *countMetrics) RecordCacheHit(kind string)               {}
func (m *countMetrics) RecordCacheMiss(kind string)              {}
func (m *countMetrics) RecordLatency(op string, seconds float64) {}

func balancedProfile() models.InvestorProfile {
	return models.InvestorProfile{
		Type:        models.InvestorBalanced,
		TimeHorizon: models.HorizonMediumTerm,
		PrimaryGoal: models.GoalGrowth,
	}
}

func newTestBuilder(t *testing.T, market domsvc.MarketDataProvider, news domsvc.NewsProvider, metrics *countMetrics) *NarrativeBuilder {
	t.Helper()
	eng, err := engine.New(engine.DefaultConfig())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return NewNarrativeBuilder(eng, market, news, fakeRenderer{}, nil, nil, metrics, nil)
}

func TestBuildBullishAssessment(t *testing.T) {
	market := &fakeMarket{snapshot: models.MarketSnapshot{
		Trend:           "Uptrend",
		TrendChangePct:  5.2,
		CurrentPrice:    182.5,
		Confidence:      80,
		AnnualVol:       0.018,
		RiskLevel:       "Low",
		VolatilityLabel: "Low",
	}}
	news := &fakeNews{sentiment: models.NewsSentiment{Label: "Positive", Confidence: 0.7}}
	metrics := &countMetrics{}
	b := newTestBuilder(t, market, news, metrics)

	a, err := b.Build(context.Background(), "AAPL", balancedProfile())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a.Symbol != "AAPL" {
		t.Fatalf("symbol = %q", a.Symbol)
	}
	if a.Signals.MarketBias != models.BiasBullish {
		t.Fatalf("bias = %s, want Bullish", a.Signals.MarketBias)
	}
	if a.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}
	if a.MarketState.Trend != "Uptrend" || a.MarketState.NewsSentiment != "Positive" {
		t.Fatalf("market state = %+v", a.MarketState)
	}
	if !strings.Contains(a.Narrative.Text, "AAPL") {
		t.Fatalf("narrative text = %q", a.Narrative.Text)
	}
	if metrics.assessments != 1 {
		t.Fatalf("assessments recorded = %d, want 1", metrics.assessments)
	}
}

func TestBuildAllNeutralSignals(t *testing.T) {
	market := &fakeMarket{snapshot: models.MarketSnapshot{
		Trend:           "Sideways",
		RiskLevel:       "Medium",
		VolatilityLabel: "Moderate",
		Confidence:      60,
	}}
	news := &fakeNews{sentiment: models.NewsSentiment{Label: "Neutral"}}
	b := newTestBuilder(t, market, news, &countMetrics{})

	a, err := b.Build(context.Background(), "MSFT", balancedProfile())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a.Signals.MarketBias != models.BiasNeutral {
		t.Fatalf("bias = %s, want Neutral", a.Signals.MarketBias)
	}
	if a.Signals.SignalStrength != models.StrengthWeak {
		t.Fatalf("strength = %s, want Weak", a.Signals.SignalStrength)
	}
	if a.Conflicting {
		t.Fatalf("all-neutral signals must not be conflicting")
	}
}

func TestBuildMarketDataFailure(t *testing.T) {
	market := &fakeMarket{err: errors.New("rate limited")}
	news := &fakeNews{sentiment: models.NewsSentiment{Label: "Neutral"}}
	metrics := &countMetrics{}
	b := newTestBuilder(t, market, news, metrics)

	if _, err := b.Build(context.Background(), "TSLA", balancedProfile()); err == nil {
		t.Fatalf("expected error when market data fails")
	}
	if metrics.errs["build_fetch"] != 1 {
		t.Fatalf("build_fetch errors = %d, want 1", metrics.errs["build_fetch"])
	}
}

func TestBuildNewsFailure(t *testing.T) {
	market := &fakeMarket{snapshot: models.MarketSnapshot{
		Trend: "Sideways", RiskLevel: "Medium", VolatilityLabel: "Moderate",
	}}
	news := &fakeNews{err: errors.New("upstream 503")}
	b := newTestBuilder(t, market, news, &countMetrics{})

	if _, err := b.Build(context.Background(), "TSLA", balancedProfile()); err == nil {
		t.Fatalf("expected error when news fails")
	}
}

func TestBuildRejectsUnknownProfile(t *testing.T) {
	market := &fakeMarket{snapshot: models.MarketSnapshot{
		Trend: "Sideways", RiskLevel: "Medium", VolatilityLabel: "Moderate",
	}}
	news := &fakeNews{sentiment: models.NewsSentiment{Label: "Neutral"}}
	b := newTestBuilder(t, market, news, &countMetrics{})

	profile := balancedProfile()
	profile.Type = "Daredevil"
	if _, err := b.Build(context.Background(), "AAPL", profile); err == nil {
		t.Fatalf("expected error for unknown investor type")
	}
}

func TestBuildReusesCachedSources(t *testing.T) {
	market := &fakeMarket{snapshot: models.MarketSnapshot{
		Trend: "Uptrend", RiskLevel: "Low", VolatilityLabel: "Low",
	}}
	news := &fakeNews{sentiment: models.NewsSentiment{Label: "Positive", Confidence: 0.8}}
	eng, err := engine.New(engine.DefaultConfig())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	b := NewNarrativeBuilder(eng, market, news, fakeRenderer{}, cache.NewMemoryCache(), nil, &countMetrics{}, nil)

	if _, err := b.Build(context.Background(), "AAPL", balancedProfile()); err != nil {
		t.Fatalf("first build: %v", err)
	}

	// A different profile misses the assessment cache but shares the
	// per-symbol snapshot, so the provider is not called again.
	conservative := models.InvestorProfile{
		Type:        models.InvestorConservative,
		TimeHorizon: models.HorizonLongTerm,
		PrimaryGoal: models.GoalPreservation,
	}
	if _, err := b.Build(context.Background(), "AAPL", conservative); err != nil {
		t.Fatalf("second build: %v", err)
	}
	if market.calls != 1 {
		t.Fatalf("expected one snapshot fetch, got %d", market.calls)
	}
}
