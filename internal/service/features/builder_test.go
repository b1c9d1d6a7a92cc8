package features

import (
	"math"
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

func makeBars(closes []float64) []models.Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000 + float64(i),
		}
	}
	return bars
}

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return closes
}

func TestBuildRowCount(t *testing.T) {
	cfg := DefaultConfig()
	n := 60
	frame, err := Build(makeBars(risingCloses(n)), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := n - (cfg.LongestWindow() - 1)
	if frame.Len() != want {
		t.Fatalf("rows = %d, want %d", frame.Len(), want)
	}
	if len(frame.X) != frame.Len() || len(frame.Dates) != frame.Len() {
		t.Fatalf("X/Dates lengths diverge from Y")
	}
	if len(frame.Columns) != cfg.Lags+len(cfg.SMAWindows)+1 {
		t.Fatalf("columns = %d", len(frame.Columns))
	}
	for i, row := range frame.X {
		if len(row) != len(frame.Columns) {
			t.Fatalf("row %d width %d, want %d", i, len(row), len(frame.Columns))
		}
	}
}

func TestLongestWindow(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		// The dominant indicator window plus the target bar it predicts.
		{"default", DefaultConfig(), 51},
		{"lags dominate", Config{Lags: 9, SMAWindows: []int{3}, RSIWindow: 2}, 10},
		{"rsi dominates", Config{Lags: 2, SMAWindows: []int{3}, RSIWindow: 7}, 9},
		{"raw", Config{RawOHLCV: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.LongestWindow(); got != tt.want {
				t.Fatalf("longest window = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildShortSeries(t *testing.T) {
	cfg := DefaultConfig()
	frame, err := Build(makeBars(risingCloses(cfg.LongestWindow()-1)), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if frame.Len() != 0 {
		t.Fatalf("expected zero rows, got %d", frame.Len())
	}
}

func TestBuildLagValues(t *testing.T) {
	cfg := Config{Lags: 3, SMAWindows: []int{3}, RSIWindow: 2}
	closes := risingCloses(20)
	frame, err := Build(makeBars(closes), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// First row targets index LongestWindow-1; lag_1 is the close before it.
	i := cfg.LongestWindow() - 1
	row := frame.X[0]
	if row[0] != closes[i-1] || row[1] != closes[i-2] || row[2] != closes[i-3] {
		t.Fatalf("lags = %v, closes around target %v", row[:3], closes[i-3:i])
	}
	if frame.Y[0] != closes[i] {
		t.Fatalf("target = %v, want %v", frame.Y[0], closes[i])
	}
}

func TestBuildRawOHLCV(t *testing.T) {
	cfg := Config{RawOHLCV: true}
	bars := makeBars(risingCloses(15))
	frame, err := Build(bars, cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if frame.Len() != len(bars) {
		t.Fatalf("raw variant should keep every bar, got %d rows", frame.Len())
	}
	if len(frame.X[0]) != 4 {
		t.Fatalf("raw row width = %d, want 4", len(frame.X[0]))
	}
	if frame.X[3][0] != bars[3].Open || frame.X[3][3] != bars[3].Volume {
		t.Fatalf("raw row does not match bar fields")
	}
}

func TestLatestUsesFreshestBars(t *testing.T) {
	cfg := Config{Lags: 2, SMAWindows: []int{3}, RSIWindow: 2}
	closes := risingCloses(30)
	row, err := Latest(makeBars(closes), cfg)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if row[0] != closes[len(closes)-1] || row[1] != closes[len(closes)-2] {
		t.Fatalf("latest lags = %v", row[:2])
	}
}

func TestLatestShortSeries(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := Latest(makeBars(risingCloses(10)), cfg); err == nil {
		t.Fatalf("expected error on short series")
	}
}

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	if got := SMA(closes, 3, 4); got != 4 {
		t.Fatalf("sma = %v, want 4", got)
	}
	if got := SMA(closes, 5, 4); got != 3 {
		t.Fatalf("sma = %v, want 3", got)
	}
}

func TestRSIBounds(t *testing.T) {
	closes := []float64{100, 102, 101, 104, 103, 105, 102, 106, 104, 107}
	got := RSI(closes, 5, len(closes)-1)
	if got < 0 || got > 100 {
		t.Fatalf("rsi = %v, want within [0, 100]", got)
	}
}

func TestRSIAllGains(t *testing.T) {
	// Zero average loss divides through as +Inf relative strength, RSI 100.
	got := RSI(risingCloses(10), 5, 9)
	if got != 100 {
		t.Fatalf("rsi = %v, want 100", got)
	}
}

func TestRSIFlatSeriesIsNaN(t *testing.T) {
	flat := []float64{50, 50, 50, 50, 50, 50}
	got := RSI(flat, 4, 5)
	if !math.IsNaN(got) {
		t.Fatalf("rsi = %v, want NaN on a flat series", got)
	}
}
