package regress

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Scaler standardizes columns to zero mean and unit variance. A fitted Scaler
// must be the one reused for inverse-transforming its own predictions;
// a zero standard deviation is not guarded and divides through as NaN/Inf.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes per-column mean and population standard deviation.
func FitScaler(x [][]float64) (*Scaler, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return nil, fmt.Errorf("%w: nothing to fit scaler on", ErrShape)
	}
	width := len(x[0])
	s := &Scaler{
		Mean: make([]float64, width),
		Std:  make([]float64, width),
	}

	col := make([]float64, len(x))
	for j := 0; j < width; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		mean, err := stats.Mean(stats.Float64Data(col))
		if err != nil {
			return nil, fmt.Errorf("scaler mean: %w", err)
		}
		std, err := stats.StandardDeviationPopulation(stats.Float64Data(col))
		if err != nil {
			return nil, fmt.Errorf("scaler std: %w", err)
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}
	return s, nil
}

// Transform standardizes rows column-wise.
func (s *Scaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out
}

// InverseTransform is the exact algebraic inverse of Transform.
func (s *Scaler) InverseTransform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		raw := make([]float64, len(row))
		for j, v := range row {
			raw[j] = v*s.Std[j] + s.Mean[j]
		}
		out[i] = raw
	}
	return out
}

// FitVecScaler fits a single-column scaler for a target vector.
func FitVecScaler(y []float64) (*Scaler, error) {
	rows := make([][]float64, len(y))
	for i, v := range y {
		rows[i] = []float64{v}
	}
	return FitScaler(rows)
}

// TransformVec standardizes a vector with a single-column scaler.
func (s *Scaler) TransformVec(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = (v - s.Mean[0]) / s.Std[0]
	}
	return out
}

// InverseTransformVec undoes TransformVec.
func (s *Scaler) InverseTransformVec(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = v*s.Std[0] + s.Mean[0]
	}
	return out
}
