package service

import (
	"context"

	"MarketLens/internal/domain/models"
)

// MarketDataProvider resolves price-derived market state for a symbol.
type MarketDataProvider interface {
	Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error)
}

// NewsProvider resolves aggregated news sentiment for a symbol.
type NewsProvider interface {
	Sentiment(ctx context.Context, symbol string) (models.NewsSentiment, error)
}

// RenderInput carries everything a renderer may use. All fields are
// resolved values; renderers never fetch data.
type RenderInput struct {
	Symbol      string
	Bias        models.MarketBias
	Strength    models.SignalStrength
	Intensity   models.LanguageIntensity
	Conflicting bool
	State       models.MarketState
	Profile     models.InvestorProfile
}

// NarrativeRenderer produces the headline and body text for an
// assessment. The template implementation is the default; a generative
// implementation can be selected by configuration without touching any
// upstream component, since both honor the same input and output shapes.
type NarrativeRenderer interface {
	Render(ctx context.Context, in RenderInput) (models.NarrativeOutput, error)
}
