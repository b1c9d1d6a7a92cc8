package main

import (
	"flag"
	"log"
	"os"

	"StockCast/internal/di"
	"StockCast/pkg/config"
	xlogger "StockCast/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := xlogger.New(&xlogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	app, cleanup, err := di.InitializeApp(cfg, logger)
	if err != nil {
		logger.Error("initialize app", xlogger.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	logger.Info("starting",
		xlogger.String("environment", cfg.Environment),
		xlogger.Int("port", cfg.Server.Port),
	)

	if err := app.Run(); err != nil {
		logger.Error("run", xlogger.Error(err))
		os.Exit(1)
	}
}
