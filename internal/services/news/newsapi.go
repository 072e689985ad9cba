package news

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
	applogger "MarketLens/pkg/logger"

	"github.com/go-resty/resty/v2"
)

const newsAPIURL = "https://newsapi.org"

// NewsAPIConfig configures the headline fetcher.
type NewsAPIConfig struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Days     int // headline lookback window
	PageSize int
}

// NewsAPIProvider fetches recent headlines for a symbol and scores them
// with the fixed lexicon.
type NewsAPIProvider struct {
	client   *resty.Client
	apiKey   string
	days     int
	pageSize int
	l        *applogger.Logger
}

func NewNewsAPIProvider(cfg NewsAPIConfig, l *applogger.Logger) *NewsAPIProvider {
	base := cfg.BaseURL
	if base == "" {
		base = newsAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	days := cfg.Days
	if days <= 0 {
		days = 3
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &NewsAPIProvider{
		client: resty.New().
			SetBaseURL(base).
			SetTimeout(timeout).
			SetRetryCount(2),
		apiKey:   cfg.APIKey,
		days:     days,
		pageSize: pageSize,
		l:        l,
	}
}

type everythingResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

func (p *NewsAPIProvider) Sentiment(ctx context.Context, symbol string) (models.NewsSentiment, error) {
	from := time.Now().UTC().AddDate(0, 0, -p.days).Format("2006-01-02")

	var body everythingResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        symbol,
			"from":     from,
			"sortBy":   "relevancy",
			"language": "en",
			"pageSize": fmt.Sprintf("%d", p.pageSize),
			"apiKey":   p.apiKey,
		}).
		SetResult(&body).
		Get("/v2/everything")
	if err != nil {
		return models.NewsSentiment{}, fmt.Errorf("newsapi request: %w", err)
	}
	if resp.IsError() || body.Status == "error" {
		return models.NewsSentiment{}, fmt.Errorf("newsapi status %d for %s: %s", resp.StatusCode(), symbol, body.Message)
	}

	headlines := make([]string, 0, len(body.Articles))
	for _, a := range body.Articles {
		if a.Title != "" {
			headlines = append(headlines, a.Title)
		}
	}

	label, confidence := ScoreHeadlines(headlines)
	if p.l != nil {
		p.l.Info("news sentiment resolved",
			applogger.String("symbol", symbol),
			applogger.String("label", label),
			applogger.Int("headlines", len(headlines)),
		)
	}

	return models.NewsSentiment{
		Symbol:     symbol,
		Label:      label,
		Confidence: confidence,
		Headlines:  headlines,
	}, nil
}

var _ domsvc.NewsProvider = (*NewsAPIProvider)(nil)
