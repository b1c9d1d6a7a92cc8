package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
)

// BarSource returns daily bars for a ticker, the most recent `days` of
// history, ordered by date ascending. An unresolvable ticker yields a typed
// "no data" error, never a panic.
type BarSource interface {
	DailyBars(ctx context.Context, symbol string, days int) (*models.BarSeries, error)
}

// Recorder appends served forecasts to durable storage. Fire-and-forget from
// the pipeline's point of view; failures are logged, never propagated.
type Recorder interface {
	Record(ctx context.Context, f *models.Forecast) error
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits forecast events to an external bus.
type Publisher interface {
	Publish(ctx context.Context, f *models.Forecast) error
	Close() error
}

// Metrics abstracts the Prometheus recorder from the use case layer.
type Metrics interface {
	RecordForecast(model, symbol string)
	RecordError(kind string)
	RecordPredictedClose(symbol string, value float64)
	RecordLatency(op string, d time.Duration)
}
