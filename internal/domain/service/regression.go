package service

// Regressor is the common contract all model variants satisfy: fit on a
// feature matrix and target vector, then predict values for new rows.
// A Regressor instance belongs to a single pipeline invocation; fitted
// parameters are never shared across requests.
type Regressor interface {
	Name() string
	Fit(x [][]float64, y []float64) error
	Predict(x [][]float64) ([]float64, error)
}
