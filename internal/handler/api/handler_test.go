package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"StockCast/internal/domain/models"
	"StockCast/internal/service/features"
	"StockCast/internal/service/marketdata"
	"StockCast/internal/service/regress"
	"StockCast/internal/usecase"
	xlogger "StockCast/pkg/logger"
)

type stubSource struct {
	series   *models.BarSeries
	err      error
	lastDays int
}

func (s *stubSource) DailyBars(_ context.Context, symbol string, days int) (*models.BarSeries, error) {
	s.lastDays = days
	if s.err != nil {
		return nil, s.err
	}
	out := *s.series
	out.Symbol = symbol
	return &out, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordForecast(string, string)        {}
func (nopMetrics) RecordError(string)                   {}
func (nopMetrics) RecordPredictedClose(string, float64) {}
func (nopMetrics) RecordLatency(string, time.Duration)  {}

func testSeries(n int) *models.BarSeries {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 0, n)
	d := start
	for len(bars) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			c := 100 + float64(len(bars)) + 2*math.Sin(float64(len(bars))/3)
			bars = append(bars, models.Bar{
				Date: d, Open: c - 0.3, High: c + 1, Low: c - 1, Close: c, Volume: 1e6,
			})
		}
		d = d.AddDate(0, 0, 1)
	}
	return &models.BarSeries{Symbol: "TEST", Bars: bars, FetchedAt: time.Now()}
}

func newTestEcho(t *testing.T, src *stubSource) *echo.Echo {
	t.Helper()
	logger, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	forecaster := usecase.NewForecaster(
		src, nopMetrics{}, logger,
		features.Config{Lags: 5, SMAWindows: []int{10, 20}, RSIWindow: 14},
		regress.DefaultParams(),
		0.2,
		usecase.WithSeed(42),
		usecase.WithLookback(200),
	)

	e := echo.New()
	NewForecastHandler(forecaster, logger).RegisterRoutes(e)
	return e
}

func TestPredictEndpoint(t *testing.T) {
	e := newTestEcho(t, &stubSource{series: testSeries(120)})

	req := httptest.NewRequest(http.MethodGet, "/api/predict?symbol=test&model=linear&days=120", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status int             `json:"status"`
		Data   models.Forecast `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Prediction.Symbol != "TEST" {
		t.Fatalf("symbol = %q, want normalized TEST", resp.Data.Prediction.Symbol)
	}
	if resp.Data.Prediction.Value == 0 {
		t.Fatalf("zero prediction")
	}
	if resp.Data.Evaluation == nil {
		t.Fatalf("missing evaluation")
	}
	wd := resp.Data.Prediction.TargetDate.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		t.Fatalf("predicted a weekend: %v", resp.Data.Prediction.TargetDate)
	}
}

func TestPredictOmittedDaysUsesConfiguredLookback(t *testing.T) {
	src := &stubSource{series: testSeries(120)}
	e := newTestEcho(t, src)

	req := httptest.NewRequest(http.MethodGet, "/api/predict?symbol=TEST&model=linear", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if src.lastDays != 200 {
		t.Fatalf("source fetched %d days, want the configured 200", src.lastDays)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/predict?symbol=TEST&model=linear&days=90", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if src.lastDays != 90 {
		t.Fatalf("source fetched %d days, want the requested 90", src.lastDays)
	}
}

func TestPredictMissingSymbol(t *testing.T) {
	e := newTestEcho(t, &stubSource{series: testSeries(120)})

	req := httptest.NewRequest(http.MethodGet, "/api/predict?model=linear", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
}

func TestPredictInvalidModel(t *testing.T) {
	e := newTestEcho(t, &stubSource{series: testSeries(120)})

	req := httptest.NewRequest(http.MethodGet, "/api/predict?symbol=TEST&model=forest", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
}

func TestPredictUnknownTicker(t *testing.T) {
	e := newTestEcho(t, &stubSource{err: marketdata.ErrNoData})

	req := httptest.NewRequest(http.MethodGet, "/api/predict?symbol=NOPE", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Status)
	}
}

func TestEvaluateEndpoint(t *testing.T) {
	e := newTestEcho(t, &stubSource{series: testSeries(120)})

	req := httptest.NewRequest(http.MethodGet, "/api/evaluate?symbol=TEST&model=tree&days=120", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.Evaluation `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Model != "tree" {
		t.Fatalf("model = %q", resp.Data.Model)
	}
	if resp.Data.TestSize == 0 {
		t.Fatalf("empty test set")
	}
}

func TestHistoryEndpoint(t *testing.T) {
	e := newTestEcho(t, &stubSource{series: testSeries(120)})

	req := httptest.NewRequest(http.MethodGet, "/api/history?symbol=TEST&days=120", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Data struct {
			Rows  []models.Bar `json:"rows"`
			Total int64        `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Total != 120 || len(resp.Data.Rows) != 120 {
		t.Fatalf("rows = %d, total = %d", len(resp.Data.Rows), resp.Data.Total)
	}
}

func TestIndexPage(t *testing.T) {
	e := newTestEcho(t, &stubSource{series: testSeries(120)})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`action="/forecast"`, `name="symbol"`, `name="model"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("index page missing %q", want)
		}
	}
}

func TestForecastPage(t *testing.T) {
	e := newTestEcho(t, &stubSource{series: testSeries(120)})

	req := httptest.NewRequest(http.MethodGet, "/forecast?symbol=TEST&model=linear&days=120", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Predicted close", "Held-out metrics", "/chart?", "Recent bars"} {
		if !strings.Contains(body, want) {
			t.Fatalf("result page missing %q", want)
		}
	}
}
