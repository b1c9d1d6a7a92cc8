package regress

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Report holds the held-out evaluation scalars.
type Report struct {
	MAE  float64
	MSE  float64
	RMSE float64
	R2   float64
}

// Score computes MAE, MSE, RMSE, and R² for equal-length true/predicted
// sequences. A zero total sum of squares leaves R² undefined; the NaN/Inf
// from the division flows through unguarded.
func Score(yTrue, yPred []float64) (Report, error) {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return Report{}, fmt.Errorf("%w: %d true vs %d predicted values", ErrShape, len(yTrue), len(yPred))
	}

	absErr := make([]float64, len(yTrue))
	sqErr := make([]float64, len(yTrue))
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		absErr[i] = math.Abs(d)
		sqErr[i] = d * d
	}

	mae, err := stats.Mean(stats.Float64Data(absErr))
	if err != nil {
		return Report{}, fmt.Errorf("mae: %w", err)
	}
	mse, err := stats.Mean(stats.Float64Data(sqErr))
	if err != nil {
		return Report{}, fmt.Errorf("mse: %w", err)
	}

	mean, err := stats.Mean(stats.Float64Data(yTrue))
	if err != nil {
		return Report{}, fmt.Errorf("r2: %w", err)
	}
	var ssRes, ssTot float64
	for i := range yTrue {
		ssRes += sqErr[i]
		d := yTrue[i] - mean
		ssTot += d * d
	}

	return Report{
		MAE:  mae,
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		R2:   1 - ssRes/ssTot,
	}, nil
}
