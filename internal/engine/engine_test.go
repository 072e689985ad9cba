package engine

import (
	"errors"
	"math"
	"testing"

	"MarketLens/internal/domain/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func balancedProfile() models.InvestorProfile {
	return models.InvestorProfile{
		Type:        models.InvestorBalanced,
		TimeHorizon: models.HorizonMediumTerm,
		PrimaryGoal: models.GoalGrowth,
	}
}

func TestAggregateWorkedExample(t *testing.T) {
	// trend=0.6 news=0.2 risk=-0.1 vol=-0.1 under default weights
	res, err := Aggregate(models.NormalizedSignals{Trend: 0.6, News: 0.2, Risk: -0.1, Volatility: -0.1}, DefaultConfig().Weights)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if math.Abs(res.Composite-0.22) > 1e-9 {
		t.Fatalf("composite = %v, want 0.22", res.Composite)
	}
	if math.Abs(res.Confidence-61.0) > 1e-9 {
		t.Fatalf("confidence = %v, want 61.0", res.Confidence)
	}
	bias, _ := Classify(res, DefaultConfig().Thresholds)
	if bias != models.BiasBullish {
		t.Fatalf("bias = %v, want Bullish", bias)
	}
}

func TestAggregateRanges(t *testing.T) {
	w := DefaultConfig().Weights
	cases := []models.NormalizedSignals{
		{Trend: 1, News: 1, Risk: 1, Volatility: 1},
		{Trend: -1, News: -1, Risk: -1, Volatility: -1},
		{Trend: 0.3, News: -0.8, Risk: 0.1, Volatility: -0.5},
		{},
	}
	for _, s := range cases {
		res, err := Aggregate(s, w)
		if err != nil {
			t.Fatalf("aggregate %+v: %v", s, err)
		}
		if res.Composite < -1 || res.Composite > 1 {
			t.Fatalf("composite %v out of [-1,1] for %+v", res.Composite, s)
		}
		if res.Confidence < 0 || res.Confidence > 100 {
			t.Fatalf("confidence %v out of [0,100] for %+v", res.Confidence, s)
		}
	}
}

func TestAggregateRejectsOutOfRangeSignal(t *testing.T) {
	w := DefaultConfig().Weights
	for _, s := range []models.NormalizedSignals{
		{Trend: 1.2},
		{News: -1.01},
		{Risk: 2},
		{Volatility: -3},
	} {
		_, err := Aggregate(s, w)
		var rerr *InputRangeError
		if !errors.As(err, &rerr) {
			t.Fatalf("expected InputRangeError for %+v, got %v", s, err)
		}
	}
}

func TestAggregateMonotonicity(t *testing.T) {
	w := DefaultConfig().Weights
	base := models.NormalizedSignals{Trend: 0.0, News: 0.2, Risk: -0.1, Volatility: -0.1}
	lo, err := Aggregate(base, w)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	base.Trend = 0.6
	hi, err := Aggregate(base, w)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if hi.Composite < lo.Composite {
		t.Fatalf("raising trend lowered composite: %v -> %v", lo.Composite, hi.Composite)
	}
}

func TestWeightSumValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Trend: 0.35, News: 0.25, Risk: 0.20, Volatility: 0.15} // 0.95
	var cerr *ConfigurationError
	if _, err := New(cfg); !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigurationError for weight sum 0.95, got %v", err)
	}

	// Within tolerance must pass.
	cfg.Weights = Weights{Trend: 0.35, News: 0.25, Risk: 0.20, Volatility: 0.20 + 1e-9}
	if _, err := New(cfg); err != nil {
		t.Fatalf("tolerance rejected: %v", err)
	}
}

func TestDetectConflict(t *testing.T) {
	cases := []struct {
		name    string
		signals models.NormalizedSignals
		want    bool
	}{
		{"all positive", models.NormalizedSignals{Trend: 1, News: 0.5, Risk: 0.3, Volatility: 0.2}, false},
		{"three vs one", models.NormalizedSignals{Trend: 1, News: 0.5, Risk: 0.3, Volatility: -0.2}, false},
		{"two vs two tie", models.NormalizedSignals{Trend: 1, News: 0.5, Risk: -0.3, Volatility: -0.2}, true},
		{"one vs one tie", models.NormalizedSignals{Trend: 1, News: 0, Risk: -0.3, Volatility: 0}, true},
		{"single direction", models.NormalizedSignals{Trend: 1}, false},
		{"all neutral", models.NormalizedSignals{}, false},
	}
	for _, tc := range cases {
		if got := DetectConflict(tc.signals); got != tc.want {
			t.Fatalf("%s: conflict = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestClassifyBiasDeadZone(t *testing.T) {
	th := DefaultConfig().Thresholds
	cases := []struct {
		composite float64
		want      models.MarketBias
	}{
		{0.22, models.BiasBullish},
		{0.05, models.BiasNeutral}, // exactly epsilon stays neutral
		{0.0, models.BiasNeutral},
		{-0.05, models.BiasNeutral},
		{-0.06, models.BiasBearish},
		{-0.8, models.BiasBearish},
	}
	for _, tc := range cases {
		bias, _ := Classify(models.CompositeResult{Composite: tc.composite}, th)
		if bias != tc.want {
			t.Fatalf("composite %v: bias = %v, want %v", tc.composite, bias, tc.want)
		}
	}
}

func TestClassifyStrength(t *testing.T) {
	th := DefaultConfig().Thresholds
	cases := []struct {
		composite   float64
		conflicting bool
		want        models.SignalStrength
	}{
		{0.6, false, models.StrengthStrong},
		{0.5, false, models.StrengthStrong},
		{-0.5, false, models.StrengthStrong},
		{0.3, false, models.StrengthModerate},
		{0.2, false, models.StrengthModerate},
		{0.1, false, models.StrengthWeak},
		{0.6, true, models.StrengthModerate}, // conflict downgrades
		{0.3, true, models.StrengthWeak},
		{0.1, true, models.StrengthWeak}, // weak stays weak
	}
	for _, tc := range cases {
		_, strength := Classify(models.CompositeResult{Composite: tc.composite, Conflicting: tc.conflicting}, th)
		if strength != tc.want {
			t.Fatalf("composite %v conflict %v: strength = %v, want %v", tc.composite, tc.conflicting, strength, tc.want)
		}
	}
}

func TestConflictNeverStrong(t *testing.T) {
	th := DefaultConfig().Thresholds
	for c := -1.0; c <= 1.0; c += 0.05 {
		_, strength := Classify(models.CompositeResult{Composite: c, Conflicting: true}, th)
		if strength == models.StrengthStrong {
			t.Fatalf("conflicting composite %v classified Strong", c)
		}
	}
}

func TestIntensityTableOrdering(t *testing.T) {
	for _, s := range []models.SignalStrength{models.StrengthStrong, models.StrengthModerate, models.StrengthWeak} {
		cons, err := AdjustIntensity(s, models.InvestorConservative)
		if err != nil {
			t.Fatalf("conservative %v: %v", s, err)
		}
		bal, err := AdjustIntensity(s, models.InvestorBalanced)
		if err != nil {
			t.Fatalf("balanced %v: %v", s, err)
		}
		agg, err := AdjustIntensity(s, models.InvestorAggressive)
		if err != nil {
			t.Fatalf("aggressive %v: %v", s, err)
		}
		if cons.Rank() >= bal.Rank() {
			t.Fatalf("%v: conservative %v not below balanced %v", s, cons, bal)
		}
		if agg.Rank() <= bal.Rank() {
			t.Fatalf("%v: aggressive %v not above balanced %v", s, agg, bal)
		}
	}
}

func TestIntensityStrongRow(t *testing.T) {
	cases := []struct {
		investor models.InvestorType
		want     models.LanguageIntensity
	}{
		{models.InvestorConservative, models.IntensityCautious},
		{models.InvestorBalanced, models.IntensityConfident},
		{models.InvestorAggressive, models.IntensityVeryConfident},
	}
	for _, tc := range cases {
		got, err := AdjustIntensity(models.StrengthStrong, tc.investor)
		if err != nil {
			t.Fatalf("adjust %v: %v", tc.investor, err)
		}
		if got != tc.want {
			t.Fatalf("strong/%v = %v, want %v", tc.investor, got, tc.want)
		}
	}
}

func TestEvaluateRejectsUnknownProfileValues(t *testing.T) {
	e := newTestEngine(t)
	signals := models.NormalizedSignals{Trend: 0.5}

	p := balancedProfile()
	p.Type = "Reckless"
	var rerr *InputRangeError
	if _, err := e.Evaluate(signals, p); !errors.As(err, &rerr) {
		t.Fatalf("unknown investor type: got %v", err)
	}

	p = balancedProfile()
	p.PrimaryGoal = "Gambling"
	if _, err := e.Evaluate(signals, p); !errors.As(err, &rerr) {
		t.Fatalf("unknown goal: got %v", err)
	}

	p = balancedProfile()
	p.TimeHorizon = "Forever"
	if _, err := e.Evaluate(signals, p); !errors.As(err, &rerr) {
		t.Fatalf("unknown horizon: got %v", err)
	}
}

func TestEvaluateAllZerosBoundary(t *testing.T) {
	e := newTestEngine(t)
	ev, err := e.Evaluate(models.NormalizedSignals{}, balancedProfile())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if ev.Result.Composite != 0 {
		t.Fatalf("composite = %v, want 0", ev.Result.Composite)
	}
	if ev.Result.Conflicting {
		t.Fatalf("all-neutral signals flagged conflicting")
	}
	if ev.Bias != models.BiasNeutral {
		t.Fatalf("bias = %v, want Neutral", ev.Bias)
	}
	if ev.Strength != models.StrengthWeak {
		t.Fatalf("strength = %v, want Weak", ev.Strength)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	e := newTestEngine(t)
	signals := models.NormalizedSignals{Trend: 0.6, News: 0.2, Risk: -0.1, Volatility: -0.1}
	profile := balancedProfile()

	first, err := e.Evaluate(signals, profile)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	for i := 0; i < 50; i++ {
		got, err := e.Evaluate(signals, profile)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if got != first {
			t.Fatalf("run %d diverged: %+v != %+v", i, got, first)
		}
	}
}

func TestEvaluateDeterministicConcurrent(t *testing.T) {
	e := newTestEngine(t)
	signals := models.NormalizedSignals{Trend: -0.7, News: 0.4, Risk: 0.2, Volatility: -0.3}
	profile := balancedProfile()

	want, err := e.Evaluate(signals, profile)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	done := make(chan Evaluation, 32)
	for i := 0; i < 32; i++ {
		go func() {
			got, _ := e.Evaluate(signals, profile)
			done <- got
		}()
	}
	for i := 0; i < 32; i++ {
		if got := <-done; got != want {
			t.Fatalf("concurrent run diverged: %+v != %+v", got, want)
		}
	}
}
