package features

import (
	"fmt"

	"StockCast/internal/domain/models"
)

// Config selects which features get derived from a bar series.
//
// The default variant feeds lagged closes, trailing simple moving averages,
// and a trailing RSI into the model; target is the current close and every
// feature only looks at bars strictly before it. RawOHLCV switches to the
// same-day open/high/low/volume columns instead.
type Config struct {
	Lags       int
	SMAWindows []int
	RSIWindow  int
	RawOHLCV   bool
}

// DefaultConfig mirrors the common indicator setup: 5 lags, SMA-20/50, RSI-14.
func DefaultConfig() Config {
	return Config{
		Lags:       5,
		SMAWindows: []int{20, 50},
		RSIWindow:  14,
	}
}

// LongestWindow returns the number of consecutive bars one row needs,
// target bar included. Because indicators end on the bar before the target,
// this is one more than the longest rolling window itself (SMA-50 spans 51
// bars, so 100 bars yield 50 rows, not 51). Rows before that point are
// undefined and dropped.
func (c Config) LongestWindow() int {
	if c.RawOHLCV {
		return 1
	}
	longest := c.Lags + 1
	if w := c.RSIWindow + 2; w > longest {
		longest = w
	}
	for _, w := range c.SMAWindows {
		if w+1 > longest {
			longest = w + 1
		}
	}
	return longest
}

// Columns returns feature column names in build order.
func (c Config) Columns() []string {
	if c.RawOHLCV {
		return []string{"open", "high", "low", "volume"}
	}
	cols := make([]string, 0, c.Lags+len(c.SMAWindows)+1)
	for j := 1; j <= c.Lags; j++ {
		cols = append(cols, fmt.Sprintf("lag_%d", j))
	}
	for _, w := range c.SMAWindows {
		cols = append(cols, fmt.Sprintf("sma_%d", w))
	}
	cols = append(cols, fmt.Sprintf("rsi_%d", c.RSIWindow))
	return cols
}

// Build derives the feature frame from an ordered bar series. Rows without
// full history for every feature are excluded entirely; no imputation.
// Pure function of its inputs.
func Build(bars []models.Bar, cfg Config) (*models.FeatureFrame, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	frame := &models.FeatureFrame{Columns: cfg.Columns()}
	start := cfg.LongestWindow() - 1
	if start >= len(bars) {
		return frame, nil // shorter than the longest window: zero rows
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	for i := start; i < len(bars); i++ {
		frame.Dates = append(frame.Dates, bars[i].Date)
		frame.X = append(frame.X, cfg.vector(closes, bars, i))
		frame.Y = append(frame.Y, closes[i])
	}
	return frame, nil
}

// Latest builds the feature vector for the bar after the last observed one,
// i.e. the row the look-ahead prediction runs on.
func Latest(bars []models.Bar, cfg Config) ([]float64, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(bars) < cfg.LongestWindow() {
		return nil, fmt.Errorf("features: need at least %d bars, have %d", cfg.LongestWindow(), len(bars))
	}

	if cfg.RawOHLCV {
		// Next-day OHLC is unknowable; the freshest observed bar stands in.
		last := bars[len(bars)-1]
		return []float64{last.Open, last.High, last.Low, last.Volume}, nil
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return cfg.vector(closes, bars, len(bars)), nil
}

// vector builds the feature row for target index i. All indicator windows end
// at i-1, so i == len(bars) yields the look-ahead row.
func (c Config) vector(closes []float64, bars []models.Bar, i int) []float64 {
	if c.RawOHLCV {
		b := bars[i]
		return []float64{b.Open, b.High, b.Low, b.Volume}
	}

	row := make([]float64, 0, c.Lags+len(c.SMAWindows)+1)
	for j := 1; j <= c.Lags; j++ {
		row = append(row, closes[i-j])
	}
	for _, w := range c.SMAWindows {
		row = append(row, SMA(closes, w, i-1))
	}
	row = append(row, RSI(closes, c.RSIWindow, i-1))
	return row
}

func (c Config) validate() error {
	if c.RawOHLCV {
		return nil
	}
	if c.Lags < 0 {
		return fmt.Errorf("features: lags must not be negative")
	}
	if c.RSIWindow <= 0 {
		return fmt.Errorf("features: rsi window must be positive")
	}
	for _, w := range c.SMAWindows {
		if w <= 0 {
			return fmt.Errorf("features: sma window must be positive, got %d", w)
		}
	}
	return nil
}

// SMA computes the trailing simple moving average of closes[end-window+1..end].
// The caller guarantees the window fits.
func SMA(closes []float64, window, end int) float64 {
	sum := 0.0
	for i := end - window + 1; i <= end; i++ {
		sum += closes[i]
	}
	return sum / float64(window)
}

// RSI computes the simple-average relative strength index over the `window`
// close-to-close changes ending at index end. A zero average loss divides
// through as IEEE infinity (RSI 100) or NaN when gains are zero too; the
// degenerate value flows downstream on purpose.
func RSI(closes []float64, window, end int) float64 {
	var gain, loss float64
	for i := end - window + 1; i <= end; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	avgGain := gain / float64(window)
	avgLoss := loss / float64(window)

	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
