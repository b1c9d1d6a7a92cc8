package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

// ErrNoData signals an empty or unresolvable ticker. The pipeline halts on it
// before any fitting; callers map it to a user-visible "no data" message.
var ErrNoData = errors.New("no data for ticker")

// YahooSource fetches daily OHLCV bars from the Yahoo Finance chart API.
type YahooSource struct {
	client    *xhttp.Client
	baseURL   string
	userAgent string
}

// NewYahooSource creates a Yahoo Finance bar source.
func NewYahooSource(baseURL, userAgent string, timeout time.Duration) *YahooSource {
	return &YahooSource{
		client:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

// yahooChart is the response structure from the Yahoo Finance chart API.
// Null entries (holidays, suspended sessions) decode into nil pointers.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// DailyBars returns the most recent `days` daily bars for symbol, ordered by
// date ascending.
func (s *YahooSource) DailyBars(ctx context.Context, symbol string, days int) (*models.BarSeries, error) {
	bars, err := s.fetchChart(ctx, symbol, "1d", rangeForDays(days))
	if err != nil {
		return nil, err
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return &models.BarSeries{
		Symbol:    symbol,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}

func (s *YahooSource) fetchChart(ctx context.Context, symbol, interval, rng string) ([]models.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s", s.baseURL, url.PathEscape(symbol))

	var chart yahooChart
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    u,
		Headers: map[string]string{
			"User-Agent": s.userAgent,
		},
		QueryParams: map[string][]string{
			"interval": {interval},
			"range":    {rng},
		},
	}, &chart)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}

	if chart.Chart.Error != nil {
		// "Not Found" and friends mean the ticker does not resolve.
		return nil, fmt.Errorf("%w: %s (%s)", ErrNoData, symbol, chart.Chart.Error.Code)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	quote := result.Indicators.Quote[0]
	bars := make([]models.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		o := deref(at(quote.Open, i))
		h := deref(at(quote.High, i))
		l := deref(at(quote.Low, i))
		c := deref(at(quote.Close, i))
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, models.Bar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: deref(at(quote.Volume, i)),
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func at(xs []*float64, i int) *float64 {
	if i < len(xs) {
		return xs[i]
	}
	return nil
}

// rangeForDays maps a calendar-day lookback onto Yahoo's coarse range values.
func rangeForDays(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}
