package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
	"StockCast/internal/service/features"
	"StockCast/internal/service/marketdata"
	"StockCast/internal/service/regress"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// ErrCalendar signals that no plausible next trading date was found within
// the iteration cap; only malformed bar data can trigger it.
var ErrCalendar = errors.New("could not find next trading day")

// ErrInsufficientHistory means the fetched window is shorter than the longest
// feature lookback, so not a single training row could be built.
var ErrInsufficientHistory = errors.New("not enough history")

// nextDateCap bounds the date-advance loop. Real calendars resolve within
// three steps; anything past the cap means the input dates are broken.
const nextDateCap = 10

// defaultLookback is the fallback fetch window when neither the request nor
// the configuration names one.
const defaultLookback = 150

// Forecaster runs the whole pipeline per invocation: fetch bars, evaluate on
// a random split, refit on the full window, and predict one step past the
// last bar. Nothing fitted survives between calls, so concurrent requests
// never share model or scaler state.
type Forecaster struct {
	source   repository.BarSource
	recorder repository.Recorder
	pub      repository.Publisher
	metrics  repository.Metrics
	logger   *xlogger.Logger

	features  features.Config
	params    regress.Params
	testRatio float64
	seed      int64
	lookback  int
}

// Option configures a Forecaster.
type Option func(*Forecaster)

// WithRecorder attaches a forecast recorder.
func WithRecorder(r repository.Recorder) Option {
	return func(f *Forecaster) { f.recorder = r }
}

// WithPublisher attaches a forecast publisher.
func WithPublisher(p repository.Publisher) Option {
	return func(f *Forecaster) { f.pub = p }
}

// WithSeed fixes the train/test shuffle seed (tests only; 0 = from clock).
func WithSeed(seed int64) Option {
	return func(f *Forecaster) { f.seed = seed }
}

// WithLookback sets the fetch window used when a request omits days.
func WithLookback(days int) Option {
	return func(f *Forecaster) { f.lookback = days }
}

// NewForecaster creates a forecaster over the given bar source.
func NewForecaster(
	source repository.BarSource,
	metrics repository.Metrics,
	logger *xlogger.Logger,
	featureCfg features.Config,
	params regress.Params,
	testRatio float64,
	opts ...Option,
) *Forecaster {
	f := &Forecaster{
		source:    source,
		metrics:   metrics,
		logger:    logger,
		features:  featureCfg,
		params:    params,
		testRatio: testRatio,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// History returns the raw bar window for a ticker.
func (f *Forecaster) History(ctx context.Context, symbol string, days int) (*models.BarSeries, error) {
	return f.source.DailyBars(ctx, symbol, f.windowDays(days))
}

func (f *Forecaster) windowDays(days int) int {
	if days > 0 {
		return days
	}
	if f.lookback > 0 {
		return f.lookback
	}
	return defaultLookback
}

// Evaluate fits a fresh model on a random 80/20 split and scores it on the
// held-out rows.
func (f *Forecaster) Evaluate(ctx context.Context, symbol, modelKind string, days int) (*models.Evaluation, error) {
	series, err := f.fetch(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	frame, err := f.buildFrame(series)
	if err != nil {
		return nil, err
	}
	return f.evaluate(frame, modelKind)
}

// Forecast runs the full pipeline: held-out evaluation for reporting, then a
// refit on the entire window and a one-step look-ahead prediction.
func (f *Forecaster) Forecast(ctx context.Context, symbol, modelKind string, days int) (*models.Forecast, error) {
	series, err := f.fetch(ctx, symbol, days)
	if err != nil {
		f.metrics.RecordError("fetch")
		return nil, err
	}

	frame, err := f.buildFrame(series)
	if err != nil {
		f.metrics.RecordError("features")
		return nil, err
	}

	// Held-out metrics come from their own model instance (and, for SVR, its
	// own train-only scalers); the deployment fit below never feeds them.
	eval, err := f.evaluate(frame, modelKind)
	if err != nil {
		f.metrics.RecordError("evaluate")
		return nil, err
	}

	prediction, err := f.predictNext(series, frame, modelKind)
	if err != nil {
		f.metrics.RecordError("predict")
		return nil, err
	}

	forecast := &models.Forecast{
		Prediction: *prediction,
		Evaluation: eval,
		CreatedAt:  time.Now(),
	}

	f.metrics.RecordForecast(modelKind, symbol)
	f.metrics.RecordPredictedClose(symbol, prediction.Value)
	f.logger.Info("forecast served",
		xlogger.String("symbol", symbol),
		xlogger.String("model", modelKind),
		xlogger.Time("target_date", prediction.TargetDate),
		xlogger.Float64("value", prediction.Value),
	)

	f.sideEffects(ctx, forecast)
	return forecast, nil
}

// fetch is the pipeline's first state: terminal failure on an empty window,
// no retry. A non-positive days falls back to the configured lookback.
func (f *Forecaster) fetch(ctx context.Context, symbol string, days int) (*models.BarSeries, error) {
	days = f.windowDays(days)
	start := time.Now()
	series, err := f.source.DailyBars(ctx, symbol, days)
	f.metrics.RecordLatency("fetch", time.Since(start))
	if err != nil {
		return nil, err
	}
	if len(series.Bars) == 0 {
		return nil, fmt.Errorf("%w: %s", marketdata.ErrNoData, symbol)
	}
	return series, nil
}

func (f *Forecaster) buildFrame(series *models.BarSeries) (*models.FeatureFrame, error) {
	frame, err := features.Build(series.Bars, f.features)
	if err != nil {
		return nil, err
	}
	if frame.Len() == 0 {
		return nil, fmt.Errorf("%w for %s: %d bars, need %d",
			ErrInsufficientHistory, series.Symbol, len(series.Bars), f.features.LongestWindow())
	}
	return frame, nil
}

func (f *Forecaster) evaluate(frame *models.FeatureFrame, modelKind string) (*models.Evaluation, error) {
	model, err := regress.New(modelKind, f.params)
	if err != nil {
		return nil, err
	}

	split := regress.RandomSplit(frame.X, frame.Y, f.testRatio, f.seed)
	if len(split.TestY) == 0 {
		return nil, fmt.Errorf("split left no test rows (%d total)", frame.Len())
	}

	start := time.Now()
	if err := model.Fit(split.TrainX, split.TrainY); err != nil {
		return nil, fmt.Errorf("fit %s: %w", modelKind, err)
	}
	f.metrics.RecordLatency("fit", time.Since(start))

	pred, err := model.Predict(split.TestX)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", modelKind, err)
	}

	report, err := regress.Score(split.TestY, pred)
	if err != nil {
		return nil, err
	}

	return &models.Evaluation{
		Model:     modelKind,
		TrainSize: len(split.TrainY),
		TestSize:  len(split.TestY),
		MAE:       report.MAE,
		MSE:       report.MSE,
		RMSE:      report.RMSE,
		R2:        report.R2,
	}, nil
}

// predictNext is FitFull followed by Predict: a fresh model (and fresh
// scalers, where applicable) fit on every usable row, then one inference for
// the next plausible trading date.
func (f *Forecaster) predictNext(series *models.BarSeries, frame *models.FeatureFrame, modelKind string) (*models.Prediction, error) {
	model, err := regress.New(modelKind, f.params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := model.Fit(frame.X, frame.Y); err != nil {
		return nil, fmt.Errorf("full fit %s: %w", modelKind, err)
	}
	f.metrics.RecordLatency("fit_full", time.Since(start))

	latest, err := features.Latest(series.Bars, f.features)
	if err != nil {
		return nil, err
	}
	values, err := model.Predict([][]float64{latest})
	if err != nil {
		return nil, fmt.Errorf("look-ahead predict %s: %w", modelKind, err)
	}

	targetDate, err := NextTradingDay(series)
	if err != nil {
		return nil, err
	}

	last, _ := series.Last()
	return &models.Prediction{
		Symbol:     series.Symbol,
		Model:      modelKind,
		TargetDate: targetDate,
		Value:      values[0],
		LastClose:  last.Close,
		LastDate:   last.Date,
		Bars:       len(series.Bars),
	}, nil
}

// NextTradingDay advances from the day after the last bar, skipping weekends
// and dates that already have a bar, with a hard iteration cap.
func NextTradingDay(series *models.BarSeries) (time.Time, error) {
	last, ok := series.Last()
	if !ok {
		return time.Time{}, ErrCalendar
	}

	candidate := last.Date.AddDate(0, 0, 1)
	for i := 0; i < nextDateCap; i++ {
		if !util.IsWeekend(candidate) && !series.HasDate(candidate) {
			return candidate, nil
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	return time.Time{}, fmt.Errorf("%w after %d candidates past %s",
		ErrCalendar, nextDateCap, last.Date.Format("2006-01-02"))
}

// sideEffects records and publishes the forecast; both are best-effort.
func (f *Forecaster) sideEffects(ctx context.Context, forecast *models.Forecast) {
	if f.recorder != nil {
		if err := f.recorder.Record(ctx, forecast); err != nil {
			f.metrics.RecordError("record")
			f.logger.Warn("forecast record failed", xlogger.Error(err))
		}
	}
	if f.pub != nil {
		if err := f.pub.Publish(ctx, forecast); err != nil {
			f.metrics.RecordError("publish")
			f.logger.Warn("forecast publish failed", xlogger.Error(err))
		}
	}
}
