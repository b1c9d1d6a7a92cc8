package api

import (
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/labstack/echo/v4"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

// Chart renders the close history plus the look-ahead point as a standalone
// echarts page, embedded by the result page via iframe.
func (h *ForecastHandler) Chart(c echo.Context) error {
	req := new(models.ForecastRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}
	normalize(&req.Symbol)

	forecast, err := h.forecaster.Forecast(c.Request().Context(), req.Symbol, req.Model, req.Days)
	if err != nil {
		return h.fail(c, req.Symbol, err)
	}
	series, err := h.forecaster.History(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		return h.fail(c, req.Symbol, err)
	}

	line := buildChart(series, forecast)

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return line.Render(c.Response().Writer)
}

func buildChart(series *models.BarSeries, forecast *models.Forecast) *charts.Line {
	n := len(series.Bars)
	dates := make([]string, 0, n+1)
	closes := make([]opts.LineData, 0, n)
	predicted := make([]opts.LineData, n+1)

	for _, b := range series.Bars {
		dates = append(dates, b.Date.Format("2006-01-02"))
		closes = append(closes, opts.LineData{Value: b.Close})
	}
	dates = append(dates, forecast.Prediction.TargetDate.Format("2006-01-02"))

	// The forecast series is empty except for a two-point segment joining the
	// last observed close to the predicted one.
	if n > 0 {
		predicted[n-1] = opts.LineData{Value: forecast.Prediction.LastClose}
	}
	predicted[n] = opts.LineData{Value: forecast.Prediction.Value}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: series.Symbol,
			Width:     "940px",
			Height:    "520px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: series.Symbol,
			Subtitle: fmt.Sprintf("%s forecast for %s: %.2f",
				forecast.Prediction.Model,
				forecast.Prediction.TargetDate.Format("2006-01-02"),
				forecast.Prediction.Value),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	line.SetXAxis(dates).
		AddSeries("Close", closes).
		AddSeries("Forecast", predicted)

	return line
}
