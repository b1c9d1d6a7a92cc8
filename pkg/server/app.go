package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
)

// App owns the process lifecycle: start the HTTP server, block until an
// interrupt arrives, then drain within the shutdown timeout.
type App struct {
	httpServer      *xhttp.Server
	logger          *xlogger.Logger
	shutdownTimeout time.Duration
}

// NewApp creates the application wrapper.
func NewApp(httpServer *xhttp.Server, logger *xlogger.Logger, shutdownTimeout time.Duration) *App {
	return &App{
		httpServer:      httpServer,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run starts the server and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	if err := a.httpServer.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit

	a.logger.Info("shutting down", xlogger.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	return a.httpServer.Stop(ctx)
}
