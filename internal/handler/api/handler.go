package api

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"StockCast/internal/domain/models"
	"StockCast/internal/service/marketdata"
	"StockCast/internal/service/regress"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
)

// ForecastHandler serves the HTML form pages and the JSON API.
type ForecastHandler struct {
	forecaster *usecase.Forecaster
	logger     *xlogger.Logger
}

// NewForecastHandler creates the handler.
func NewForecastHandler(forecaster *usecase.Forecaster, logger *xlogger.Logger) *ForecastHandler {
	return &ForecastHandler{forecaster: forecaster, logger: logger}
}

// RegisterRoutes registers all routes on the echo instance.
func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/forecast", h.ForecastPage)
	e.GET("/chart", h.Chart)
	e.GET("/health", h.Healthz)

	api := e.Group("/api")
	api.GET("/predict", h.Predict)
	api.POST("/predict", h.Predict)
	api.GET("/evaluate", h.Evaluate)
	api.GET("/history", h.History)
}

// Predict runs the full pipeline and returns the forecast as JSON.
func (h *ForecastHandler) Predict(c echo.Context) error {
	req := new(models.ForecastRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}
	normalize(&req.Symbol)

	forecast, err := h.forecaster.Forecast(c.Request().Context(), req.Symbol, req.Model, req.Days)
	if err != nil {
		return h.fail(c, req.Symbol, err)
	}
	return xhttp.SuccessResponse(c, forecast)
}

// Evaluate returns held-out metrics only, without a look-ahead prediction.
func (h *ForecastHandler) Evaluate(c echo.Context) error {
	req := new(models.ForecastRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}
	normalize(&req.Symbol)

	eval, err := h.forecaster.Evaluate(c.Request().Context(), req.Symbol, req.Model, req.Days)
	if err != nil {
		return h.fail(c, req.Symbol, err)
	}
	return xhttp.SuccessResponse(c, eval)
}

// History returns the raw daily bars for a ticker.
func (h *ForecastHandler) History(c echo.Context) error {
	req := new(models.HistoryRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}
	normalize(&req.Symbol)

	series, err := h.forecaster.History(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		return h.fail(c, req.Symbol, err)
	}
	return xhttp.ListResponse(c, series.Bars, int64(len(series.Bars)))
}

// Healthz is a liveness probe.
func (h *ForecastHandler) Healthz(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *ForecastHandler) fail(c echo.Context, symbol string, err error) error {
	h.logger.Error("request failed",
		xlogger.String("symbol", symbol),
		xlogger.String("path", c.Path()),
		xlogger.Error(err),
	)
	return xhttp.AppErrorResponse(c, mapError(err))
}

// mapError translates pipeline errors into HTTP-facing ones.
func mapError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, marketdata.ErrNoData):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, usecase.ErrInsufficientHistory):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, regress.ErrShape):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	default:
		return xhttp.InternalError("forecast failed").WithError(err)
	}
}

func normalize(symbol *string) {
	*symbol = strings.ToUpper(strings.TrimSpace(*symbol))
}
