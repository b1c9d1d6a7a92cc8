package regress

import (
	"fmt"

	"StockCast/internal/domain/service"
)

// Standardized wraps a scale-sensitive regressor with feature and target
// standardization. Every Fit creates fresh scalers from exactly the rows it
// was given, so an evaluation fit (train rows only) and a deployment fit
// (full window) end up with two distinct scaler instances with separate
// lifetimes; predictions are inverse-transformed with the scalers of the fit
// that produced them, never with anyone else's.
type Standardized struct {
	inner   service.Regressor
	xScaler *Scaler
	yScaler *Scaler
}

// Standardize wraps inner with per-fit standardization.
func Standardize(inner service.Regressor) *Standardized {
	return &Standardized{inner: inner}
}

func (m *Standardized) Name() string { return m.inner.Name() }

func (m *Standardized) Fit(x [][]float64, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}

	xs, err := FitScaler(x)
	if err != nil {
		return err
	}
	ys, err := FitVecScaler(y)
	if err != nil {
		return err
	}
	m.xScaler = xs
	m.yScaler = ys

	return m.inner.Fit(xs.Transform(x), ys.TransformVec(y))
}

func (m *Standardized) Predict(x [][]float64) ([]float64, error) {
	if m.xScaler == nil {
		return nil, fmt.Errorf("%s: predict before fit", m.inner.Name())
	}
	scaled, err := m.inner.Predict(m.xScaler.Transform(x))
	if err != nil {
		return nil, err
	}
	return m.yScaler.InverseTransformVec(scaled), nil
}

// Scalers exposes the scalers of the most recent fit.
func (m *Standardized) Scalers() (x, y *Scaler) { return m.xScaler, m.yScaler }
