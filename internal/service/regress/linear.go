package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Linear is ordinary least squares with an intercept, solved in closed form
// via QR decomposition. No regularization.
type Linear struct {
	coef  []float64 // intercept first, then one weight per feature
	width int
}

// NewLinear creates an unfitted OLS model.
func NewLinear() *Linear { return &Linear{} }

func (m *Linear) Name() string { return "linear" }

// Fit solves min ||Xw - y|| over the training rows.
func (m *Linear) Fit(x [][]float64, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}

	n := len(x)
	p := len(x[0])

	a := mat.NewDense(n, p+1, nil)
	for i, row := range x {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(a)

	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, b); err != nil {
		// Collinear columns (a flat indicator, say) surface as a Condition
		// warning; the minimum-norm solution is still usable.
		if _, ok := err.(mat.Condition); !ok {
			return fmt.Errorf("ols solve: %w", err)
		}
	}

	m.coef = make([]float64, p+1)
	for j := 0; j <= p; j++ {
		m.coef[j] = sol.AtVec(j)
	}
	m.width = p
	return nil
}

// Predict evaluates the fitted hyperplane for each row.
func (m *Linear) Predict(x [][]float64) ([]float64, error) {
	if m.coef == nil {
		return nil, fmt.Errorf("linear: predict before fit")
	}
	if err := checkPredict(x, m.width); err != nil {
		return nil, err
	}

	out := make([]float64, len(x))
	for i, row := range x {
		v := m.coef[0]
		for j, f := range row {
			v += m.coef[j+1] * f
		}
		out[i] = v
	}
	return out, nil
}
