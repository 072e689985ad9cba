package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
	"MarketLens/internal/service/ratelimit"
	applogger "MarketLens/pkg/logger"

	"github.com/go-resty/resty/v2"
)

const alphaVantageURL = "https://www.alphavantage.co"

// AlphaVantageConfig configures the daily-series client.
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RequestsPerMinute caps outbound calls; the free tier allows 5/min.
	RequestsPerMinute float64
}

// AlphaVantageProvider resolves snapshots from the Alpha Vantage daily
// time series.
type AlphaVantageProvider struct {
	client  *resty.Client
	apiKey  string
	limiter *ratelimit.Limiter
	rpm     float64
	l       *applogger.Logger
}

func NewAlphaVantageProvider(cfg AlphaVantageConfig, l *applogger.Logger) *AlphaVantageProvider {
	base := cfg.BaseURL
	if base == "" {
		base = alphaVantageURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 5
	}
	return &AlphaVantageProvider{
		client: resty.New().
			SetBaseURL(base).
			SetTimeout(timeout).
			SetRetryCount(2),
		apiKey:  cfg.APIKey,
		limiter: ratelimit.New(),
		rpm:     rpm,
		l:       l,
	}
}

type dailySeriesResponse struct {
	Series       map[string]map[string]string `json:"Time Series (Daily)"`
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
}

func (p *AlphaVantageProvider) Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	if !p.limiter.AllowPerMinute("alphavantage", p.rpm) {
		return models.MarketSnapshot{}, fmt.Errorf("alphavantage: rate limit reached for %s", symbol)
	}

	start := time.Now()
	var body dailySeriesResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   "TIME_SERIES_DAILY",
			"symbol":     symbol,
			"outputsize": "compact",
			"apikey":     p.apiKey,
		}).
		SetResult(&body).
		Get("/query")
	if err != nil {
		return models.MarketSnapshot{}, fmt.Errorf("alphavantage request: %w", err)
	}
	if resp.IsError() {
		return models.MarketSnapshot{}, fmt.Errorf("alphavantage status %d for %s", resp.StatusCode(), symbol)
	}
	if body.ErrorMessage != "" {
		return models.MarketSnapshot{}, fmt.Errorf("alphavantage: %s", body.ErrorMessage)
	}
	if body.Note != "" || body.Information != "" {
		// throttle messages arrive with HTTP 200
		return models.MarketSnapshot{}, fmt.Errorf("alphavantage throttled for %s", symbol)
	}
	if len(body.Series) == 0 {
		return models.MarketSnapshot{}, fmt.Errorf("alphavantage: no data for %s", symbol)
	}

	closes, err := closesAscending(body.Series)
	if err != nil {
		return models.MarketSnapshot{}, fmt.Errorf("alphavantage parse: %w", err)
	}

	snapshot, err := SnapshotFromCloses(symbol, closes)
	if err != nil {
		return models.MarketSnapshot{}, err
	}

	if p.l != nil {
		p.l.Info("market data resolved",
			applogger.String("symbol", symbol),
			applogger.String("trend", snapshot.Trend),
			applogger.String("risk", snapshot.RiskLevel),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return snapshot, nil
}

// closesAscending flattens the keyed series into closes ordered oldest
// first.
func closesAscending(series map[string]map[string]string) ([]float64, error) {
	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Strings(dates) // ISO dates sort chronologically

	closes := make([]float64, 0, len(dates))
	for _, d := range dates {
		raw, ok := series[d]["4. close"]
		if !ok {
			return nil, fmt.Errorf("missing close for %s", d)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("close for %s: %w", d, err)
		}
		closes = append(closes, v)
	}
	return closes, nil
}

var _ domsvc.MarketDataProvider = (*AlphaVantageProvider)(nil)
