package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MarketLens/internal/engine"
	"MarketLens/internal/narrative"
	"MarketLens/internal/services/marketdata"
	"MarketLens/internal/services/news"
	"MarketLens/internal/usecase"
	xlogger "MarketLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

type nopMetrics struct{}

func (nopMetrics) RecordAssessment(symbol, bias, strength string, confidence float64) {}
func (nopMetrics) RecordError(kind string)                                            {}
func (nopMetrics) RecordCacheHit(kind string)                                         {}
func (nopMetrics) RecordCacheMiss(kind string)                                        {}
func (nopMetrics) RecordLatency(op string, seconds float64)                           {}

func newTestHandler(t *testing.T) *NarrativeHandler {
	t.Helper()
	eng, err := engine.New(engine.DefaultConfig())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	logger, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	builder := usecase.NewNarrativeBuilder(
		eng,
		marketdata.NewMockProvider(),
		news.NewMockProvider(),
		narrative.NewTemplateRenderer(),
		nil, nil, nopMetrics{}, logger,
	)
	return NewNarrativeHandler(logger, builder, nil, nil)
}

func doRequest(t *testing.T, h *NarrativeHandler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestNarrativeEndpoint(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h, http.MethodPost, "/api/narrative",
		`{"symbol":"AAPL","investor_type":"Conservative","time_horizon":"Long-term","primary_goal":"Income"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d", env.Status)
	}

	var data struct {
		Symbol    string `json:"symbol"`
		Narrative struct {
			Headline     string `json:"headline"`
			Text         string `json:"text"`
			InvestorType string `json:"investor_type"`
		} `json:"narrative"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data.Symbol != "AAPL" {
		t.Fatalf("symbol = %q", data.Symbol)
	}
	if data.Narrative.Headline == "" || data.Narrative.Text == "" {
		t.Fatalf("empty narrative: %+v", data.Narrative)
	}
	if data.Narrative.InvestorType != "Conservative" {
		t.Fatalf("investor type = %q", data.Narrative.InvestorType)
	}
}

func TestNarrativeDefaultsProfile(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h, http.MethodPost, "/api/narrative", `{"symbol":"MSFT"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"investor_type":"Balanced"`) {
		t.Fatalf("expected Balanced default, body = %s", rec.Body.String())
	}
}

func TestNarrativeRejectsBadSymbol(t *testing.T) {
	h := newTestHandler(t)
	for _, body := range []string{
		`{}`,
		`{"symbol":"AAPL;DROP"}`,
		`{"symbol":"WAYTOOLONGSYMBOLNAME42X"}`,
	} {
		rec := doRequest(t, h, http.MethodPost, "/api/narrative", body)
		var env envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if env.Status != http.StatusBadRequest {
			t.Fatalf("body %s: envelope status = %d, want 400", body, env.Status)
		}
	}
}

func TestNarrativeRejectsBadProfile(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h, http.MethodPost, "/api/narrative",
		`{"symbol":"AAPL","investor_type":"Reckless"}`)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", env.Status)
	}
}

func TestHistoryDisabledStorage(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h, http.MethodGet, "/api/history?symbol=AAPL", "")
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Status != http.StatusNotFound {
		t.Fatalf("envelope status = %d, want 404", env.Status)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
