package api

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>StockCast</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 40px auto; }
label { display: block; margin-top: 12px; }
input, select { padding: 6px; width: 200px; }
button { margin-top: 16px; padding: 8px 24px; }
</style>
</head>
<body>
<h1>StockCast</h1>
<p>Next-day close forecast from daily bars.</p>
<form action="/forecast" method="get">
  <label>Ticker
    <input type="text" name="symbol" placeholder="AAPL" required maxlength="12">
  </label>
  <label>Model
    <select name="model">
      <option value="linear">linear</option>
      <option value="tree">tree</option>
      <option value="svr">svr</option>
    </select>
  </label>
  <label>History (days)
    <input type="number" name="days" placeholder="server default" min="60" max="1000">
  </label>
  <button type="submit">Forecast</button>
</form>
</body>
</html>
`))

var resultTmpl = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Symbol}} forecast</title>
<style>
body { font-family: sans-serif; max-width: 980px; margin: 40px auto; }
table { border-collapse: collapse; margin-top: 12px; }
th, td { border: 1px solid #ccc; padding: 6px 14px; text-align: right; }
th { background: #f4f4f4; }
iframe { border: none; width: 100%; height: 560px; margin-top: 16px; }
.headline { font-size: 1.3em; }
a { color: #06c; }
</style>
</head>
<body>
<p><a href="/">&larr; new forecast</a></p>
<h1>{{.Symbol}}</h1>
<p class="headline">
  Predicted close for {{.TargetDate}} ({{.Model}}): <strong>{{printf "%.2f" .Value}}</strong>
  (last close {{printf "%.2f" .LastClose}} on {{.LastDate}}, {{.Bars}} bars)
</p>

<h2>Held-out metrics</h2>
<table>
  <tr><th>Train</th><th>Test</th><th>MAE</th><th>MSE</th><th>RMSE</th><th>R&sup2;</th></tr>
  <tr>
    <td>{{.Eval.TrainSize}}</td>
    <td>{{.Eval.TestSize}}</td>
    <td>{{printf "%.4f" .Eval.MAE}}</td>
    <td>{{printf "%.4f" .Eval.MSE}}</td>
    <td>{{printf "%.4f" .Eval.RMSE}}</td>
    <td>{{printf "%.4f" .Eval.R2}}</td>
  </tr>
</table>

<iframe src="{{.ChartURL}}"></iframe>

<h2>Recent bars</h2>
<table>
  <tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close</th><th>Volume</th></tr>
  {{range .Recent}}
  <tr>
    <td>{{.Date.Format "2006-01-02"}}</td>
    <td>{{printf "%.2f" .Open}}</td>
    <td>{{printf "%.2f" .High}}</td>
    <td>{{printf "%.2f" .Low}}</td>
    <td>{{printf "%.2f" .Close}}</td>
    <td>{{.Volume}}</td>
  </tr>
  {{end}}
</table>
</body>
</html>
`))

type resultView struct {
	Symbol     string
	Model      string
	TargetDate string
	Value      float64
	LastClose  float64
	LastDate   string
	Bars       int
	Eval       models.Evaluation
	ChartURL   string
	Recent     []models.Bar
}

// Index renders the forecast form.
func (h *ForecastHandler) Index(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return indexTmpl.Execute(c.Response().Writer, nil)
}

// ForecastPage runs the pipeline and renders the result as HTML.
func (h *ForecastHandler) ForecastPage(c echo.Context) error {
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

	recent := series.Bars
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	// Newest first for the table.
	reversed := make([]models.Bar, len(recent))
	for i, b := range recent {
		reversed[len(recent)-1-i] = b
	}

	view := resultView{
		Symbol:     forecast.Prediction.Symbol,
		Model:      forecast.Prediction.Model,
		TargetDate: forecast.Prediction.TargetDate.Format("2006-01-02"),
		Value:      forecast.Prediction.Value,
		LastClose:  forecast.Prediction.LastClose,
		LastDate:   forecast.Prediction.LastDate.Format("2006-01-02"),
		Bars:       forecast.Prediction.Bars,
		ChartURL:   chartURL(req),
		Recent:     reversed,
	}
	if forecast.Evaluation != nil {
		view.Eval = *forecast.Evaluation
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return resultTmpl.Execute(c.Response().Writer, view)
}

func chartURL(req *models.ForecastRequest) string {
	q := url.Values{}
	q.Set("symbol", req.Symbol)
	q.Set("model", req.Model)
	if req.Days > 0 {
		q.Set("days", fmt.Sprintf("%d", req.Days))
	}
	return "/chart?" + q.Encode()
}
