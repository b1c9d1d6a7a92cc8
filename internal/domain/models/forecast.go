package models

import "time"

// FeatureFrame is the numeric table derived from a bar series: one row per
// trading day that has enough history for every configured feature. X and Y
// always have equal length; Dates[i] is the day row i's target belongs to.
type FeatureFrame struct {
	Columns []string
	Dates   []time.Time
	X       [][]float64
	Y       []float64
}

// Len returns the number of usable rows.
func (f *FeatureFrame) Len() int { return len(f.Y) }

// Evaluation holds held-out metrics from one train/test split.
type Evaluation struct {
	Model     string  `json:"model"`
	TrainSize int     `json:"train_size"`
	TestSize  int     `json:"test_size"`
	MAE       float64 `json:"mae"`
	MSE       float64 `json:"mse"`
	RMSE      float64 `json:"rmse"`
	R2        float64 `json:"r2"`
}

// Prediction is one look-ahead forecast: the first plausible trading day
// after the last observed bar and the model's value for it.
type Prediction struct {
	Symbol     string    `json:"symbol"`
	Model      string    `json:"model"`
	TargetDate time.Time `json:"target_date"`
	Value      float64   `json:"value"`
	LastClose  float64   `json:"last_close"`
	LastDate   time.Time `json:"last_date"`
	Bars       int       `json:"bars"`
}

// Forecast bundles what one pipeline run produces for the caller.
type Forecast struct {
	Prediction Prediction  `json:"prediction"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
