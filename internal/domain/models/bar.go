package models

import (
	"time"

	"StockCast/pkg/util"
)

// Bar represents one trading day's OHLCV record. Immutable once fetched;
// a series is ordered by date with unique dates per symbol.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// BarSeries holds the fetched window for one ticker.
type BarSeries struct {
	Symbol    string
	Bars      []Bar
	FetchedAt time.Time
}

// Closes extracts the close column.
func (s *BarSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Last returns the most recent bar and false when the series is empty.
func (s *BarSeries) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// HasDate reports whether a bar already exists for the given calendar day.
func (s *BarSeries) HasDate(t time.Time) bool {
	for _, b := range s.Bars {
		if util.SameDay(b.Date, t) {
			return true
		}
	}
	return false
}
