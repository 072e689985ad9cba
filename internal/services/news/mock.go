package news

import (
	"context"
	"fmt"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
)

// MockProvider serves deterministic sentiment when no news API key is
// configured. The label and confidence are pure functions of the symbol
// string, so repeated and concurrent requests always agree.
type MockProvider struct{}

func NewMockProvider() *MockProvider { return &MockProvider{} }

var mockLabels = [3]string{"Positive", "Neutral", "Negative"}

func (p *MockProvider) Sentiment(_ context.Context, symbol string) (models.NewsSentiment, error) {
	label := mockLabels[len(symbol)%3]

	var sum int
	for _, c := range symbol {
		sum += int(c)
	}
	// strength in [40, 100)
	strength := float64(sum%60+40) / 100

	return models.NewsSentiment{
		Symbol:     symbol,
		Label:      label,
		Confidence: strength,
		Headlines: []string{
			fmt.Sprintf("Market analysis for %s", symbol),
			fmt.Sprintf("Investor sentiment on %s", symbol),
			fmt.Sprintf("Technical outlook for %s", symbol),
		},
	}, nil
}

var _ domsvc.NewsProvider = (*MockProvider)(nil)
