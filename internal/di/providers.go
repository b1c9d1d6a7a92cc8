package di

import (
	"context"
	"time"

	"StockCast/internal/domain/repository"
	"StockCast/internal/handler/api"
	repoimpl "StockCast/internal/repository"
	"StockCast/internal/service/features"
	"StockCast/internal/service/marketdata"
	"StockCast/internal/service/regress"
	"StockCast/internal/usecase"
	"StockCast/pkg/cache"
	"StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	"StockCast/pkg/kafka"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/server"
)

// ProvideBarSource builds the Yahoo source, wrapped in a cache when enabled.
func ProvideBarSource(cfg *config.Config, logger *xlogger.Logger) (repository.BarSource, func(), error) {
	src := marketdata.NewYahooSource(
		cfg.MarketData.BaseURL,
		cfg.MarketData.UserAgent,
		cfg.MarketData.Timeout,
	)
	if !cfg.Cache.Enabled {
		return src, func() {}, nil
	}

	var svc cache.Service
	if cfg.Cache.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, nil, err
		}
		svc = cache.NewLayeredCache(redisCache)
	} else {
		svc = cache.NewMemoryCache()
	}

	cleanup := func() { _ = svc.Close() }
	return marketdata.NewCachedSource(src, svc, cfg.Cache.TTL, logger), cleanup, nil
}

// ProvideRecorder builds the ClickHouse forecast log, or a noop when disabled.
func ProvideRecorder(cfg *config.Config) (repository.Recorder, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return repoimpl.NoopRecorder{}, func() {}, nil
	}

	client, err := clickhouse.NewClient(
		clickhouse.WithHost(cfg.ClickHouse.Host),
		clickhouse.WithPort(cfg.ClickHouse.Port),
		clickhouse.WithDatabase(cfg.ClickHouse.Database),
		clickhouse.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		clickhouse.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		clickhouse.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log, err := repoimpl.NewForecastLog(ctx, client)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return log, func() { _ = log.Close() }, nil
}

// ProvidePublisher builds the Kafka forecast publisher, or a noop when disabled.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return repoimpl.NoopPublisher{}, func() {}, nil
	}

	opts := []kafka.ProducerOption{
		kafka.WithBrokers(cfg.Kafka.Brokers),
		kafka.WithAsync(cfg.Kafka.Async),
	}
	if cfg.Kafka.Compression != "" {
		opts = append(opts, kafka.WithCompression(cfg.Kafka.Compression))
	}
	if cfg.Kafka.RequiredAcks != 0 {
		opts = append(opts, kafka.WithRequiredAcks(cfg.Kafka.RequiredAcks))
	}
	if cfg.Kafka.MaxAttempts != 0 {
		opts = append(opts, kafka.WithMaxAttempts(cfg.Kafka.MaxAttempts))
	}
	if cfg.Kafka.WriteTimeout != 0 {
		opts = append(opts, kafka.WithWriteTimeout(cfg.Kafka.WriteTimeout))
	}

	producer, err := kafka.NewProducer(opts...)
	if err != nil {
		return nil, nil, err
	}

	pub := repoimpl.NewForecastPublisher(producer, cfg.Kafka.Topic)
	return pub, func() { _ = pub.Close() }, nil
}

// ProvideMetrics builds the Prometheus recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideForecaster assembles the pipeline from config.
func ProvideForecaster(
	cfg *config.Config,
	source repository.BarSource,
	recorder repository.Recorder,
	publisher repository.Publisher,
	m repository.Metrics,
	logger *xlogger.Logger,
) *usecase.Forecaster {
	featureCfg := features.Config{
		Lags:       cfg.Features.Lags,
		SMAWindows: cfg.Features.SMAWindows,
		RSIWindow:  cfg.Features.RSIWindow,
		RawOHLCV:   cfg.Features.RawOHLCV,
	}
	params := regress.Params{
		SVRC:       cfg.Models.SVR.C,
		SVREpsilon: cfg.Models.SVR.Epsilon,
		SVRGamma:   cfg.Models.SVR.Gamma,
		TreeDepth:  cfg.Models.Tree.MaxDepth,
	}
	return usecase.NewForecaster(
		source, m, logger, featureCfg, params, cfg.Models.TestRatio,
		usecase.WithRecorder(recorder),
		usecase.WithPublisher(publisher),
		usecase.WithSeed(cfg.Models.Seed),
		usecase.WithLookback(cfg.MarketData.LookbackDays),
	)
}

// ProvideHandler builds the HTTP handler.
func ProvideHandler(forecaster *usecase.Forecaster, logger *xlogger.Logger) *api.ForecastHandler {
	return api.NewForecastHandler(forecaster, logger)
}

// ProvideServer builds the echo server with routes registered.
func ProvideServer(cfg *config.Config, handler *api.ForecastHandler) *xhttp.Server {
	return xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
}

// ProvideApp builds the application lifecycle wrapper.
func ProvideApp(cfg *config.Config, srv *xhttp.Server, logger *xlogger.Logger) *server.App {
	shutdown := cfg.Server.ShutdownTimeout
	if shutdown == 0 {
		shutdown = 10 * time.Second
	}
	return server.NewApp(srv, logger, shutdown)
}
