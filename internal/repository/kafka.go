package repository

import (
	"context"

	"StockCast/internal/domain/models"
	"StockCast/pkg/kafka"
)

// ForecastPublisher emits each served forecast as a JSON event, keyed by
// symbol so per-ticker ordering is preserved within a partition.
type ForecastPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewForecastPublisher wraps a producer for the given topic.
func NewForecastPublisher(producer *kafka.Producer, topic string) *ForecastPublisher {
	return &ForecastPublisher{producer: producer, topic: topic}
}

func (p *ForecastPublisher) Publish(ctx context.Context, f *models.Forecast) error {
	return p.producer.Publish(ctx, p.topic, []byte(f.Prediction.Symbol), f)
}

func (p *ForecastPublisher) Close() error {
	return p.producer.Close()
}
