//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"StockCast/pkg/config"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/server"
)

// InitializeApp wires the full application graph.
func InitializeApp(cfg *config.Config, logger *xlogger.Logger) (*server.App, func(), error) {
	wire.Build(
		ProvideBarSource,
		ProvideRecorder,
		ProvidePublisher,
		ProvideMetrics,
		ProvideForecaster,
		ProvideHandler,
		ProvideServer,
		ProvideApp,
	)
	return nil, nil, nil
}
