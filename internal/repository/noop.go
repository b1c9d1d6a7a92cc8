package repository

import (
	"context"

	"StockCast/internal/domain/models"
)

// NoopRecorder stands in when ClickHouse is disabled.
type NoopRecorder struct{}

func (NoopRecorder) Record(context.Context, *models.Forecast) error { return nil }
func (NoopRecorder) Health(context.Context) error                   { return nil }
func (NoopRecorder) Close() error                                   { return nil }

// NoopPublisher stands in when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *models.Forecast) error { return nil }
func (NoopPublisher) Close() error                                    { return nil }
