package repository

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/pkg/clickhouse"
)

// forecastSchema is applied once at startup; idempotent.
var forecastSchema = []string{
	`CREATE TABLE IF NOT EXISTS forecasts (
		symbol       LowCardinality(String),
		model        LowCardinality(String),
		target_date  Date,
		value        Float64,
		last_close   Float64,
		last_date    Date,
		bars         UInt32,
		mae          Float64,
		rmse         Float64,
		r2           Float64,
		created_at   DateTime64(3)
	) ENGINE = MergeTree()
	ORDER BY (symbol, created_at)
	TTL toDateTime(created_at) + INTERVAL 90 DAY`,
}

// ForecastLog appends every served forecast to ClickHouse for later
// backtesting against realized closes.
type ForecastLog struct {
	client *clickhouse.Client
}

// NewForecastLog creates the log and ensures its table exists.
func NewForecastLog(ctx context.Context, client *clickhouse.Client) (*ForecastLog, error) {
	if err := client.InitSchema(ctx, forecastSchema); err != nil {
		return nil, fmt.Errorf("forecast log: %w", err)
	}
	return &ForecastLog{client: client}, nil
}

func (l *ForecastLog) Record(ctx context.Context, f *models.Forecast) error {
	var mae, rmse, r2 float64
	if f.Evaluation != nil {
		mae = f.Evaluation.MAE
		rmse = f.Evaluation.RMSE
		r2 = f.Evaluation.R2
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := l.client.DB().ExecContext(ctx,
		`INSERT INTO forecasts
			(symbol, model, target_date, value, last_close, last_date, bars, mae, rmse, r2, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Prediction.Symbol,
		f.Prediction.Model,
		f.Prediction.TargetDate,
		f.Prediction.Value,
		f.Prediction.LastClose,
		f.Prediction.LastDate,
		uint32(f.Prediction.Bars),
		mae,
		rmse,
		r2,
		f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert forecast: %w", err)
	}
	return nil
}

func (l *ForecastLog) Health(ctx context.Context) error {
	return l.client.Health(ctx)
}

func (l *ForecastLog) Close() error {
	return l.client.Close()
}
