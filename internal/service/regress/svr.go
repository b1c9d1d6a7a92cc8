package regress

import (
	"fmt"
	"math"
)

// SVR is epsilon-insensitive support vector regression with an RBF kernel and
// fixed hyperparameters; no search happens at runtime. The dual problem is
// solved by projected gradient ascent over beta = alpha - alpha*, with the
// box constraint |beta_i| <= C and the equality constraint sum(beta) = 0.
//
// Inputs are expected standardized; wrap with Standardize for raw prices.
type SVR struct {
	c       float64
	epsilon float64
	gamma   float64 // 0 resolves to 1/(n_features * var(X)) at fit time

	x     [][]float64
	beta  []float64
	bias  float64
	width int
}

// NewSVR creates an unfitted RBF-kernel SVR.
func NewSVR(c, epsilon, gamma float64) *SVR {
	return &SVR{c: c, epsilon: epsilon, gamma: gamma}
}

func (m *SVR) Name() string { return "svr" }

const (
	svrIterations = 2000
	svrTolerance  = 1e-6
)

func (m *SVR) Fit(x [][]float64, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}

	n := len(x)
	m.width = len(x[0])
	m.x = x

	gamma := m.gamma
	if gamma <= 0 {
		gamma = scaleGamma(x)
	}
	m.gamma = gamma

	k := make([][]float64, n)
	for i := range k {
		k[i] = make([]float64, n)
		for j := 0; j <= i; j++ {
			v := rbf(x[i], x[j], gamma)
			k[i][j] = v
			k[j][i] = v
		}
	}

	beta := make([]float64, n)
	grad := make([]float64, n)
	step := 1.0 / float64(n)

	for iter := 0; iter < svrIterations; iter++ {
		// grad_i = y_i - (K beta)_i - epsilon*sign(beta_i)
		maxMove := 0.0
		for i := 0; i < n; i++ {
			kb := 0.0
			for j := 0; j < n; j++ {
				kb += k[i][j] * beta[j]
			}
			grad[i] = y[i] - kb - m.epsilon*sign(beta[i])
		}

		for i := 0; i < n; i++ {
			next := beta[i] + step*grad[i]
			if next > m.c {
				next = m.c
			} else if next < -m.c {
				next = -m.c
			}
			if d := math.Abs(next - beta[i]); d > maxMove {
				maxMove = d
			}
			beta[i] = next
		}

		// Project back onto sum(beta) = 0, then re-clip.
		mean := 0.0
		for _, b := range beta {
			mean += b
		}
		mean /= float64(n)
		for i := range beta {
			beta[i] -= mean
			if beta[i] > m.c {
				beta[i] = m.c
			} else if beta[i] < -m.c {
				beta[i] = -m.c
			}
		}

		if maxMove < svrTolerance {
			break
		}
	}

	m.beta = beta
	m.bias = m.computeBias(k, y)
	return nil
}

// computeBias averages the KKT residual over free support vectors, falling
// back to all rows when every beta sits on the box boundary.
func (m *SVR) computeBias(k [][]float64, y []float64) float64 {
	n := len(y)
	var sum float64
	var count int
	for i := 0; i < n; i++ {
		if m.beta[i] == 0 || math.Abs(m.beta[i]) >= m.c {
			continue
		}
		kb := 0.0
		for j := 0; j < n; j++ {
			kb += k[i][j] * m.beta[j]
		}
		sum += y[i] - kb - m.epsilon*sign(m.beta[i])
		count++
	}
	if count > 0 {
		return sum / float64(count)
	}
	for i := 0; i < n; i++ {
		kb := 0.0
		for j := 0; j < n; j++ {
			kb += k[i][j] * m.beta[j]
		}
		sum += y[i] - kb
	}
	return sum / float64(n)
}

func (m *SVR) Predict(x [][]float64) ([]float64, error) {
	if m.beta == nil {
		return nil, fmt.Errorf("svr: predict before fit")
	}
	if err := checkPredict(x, m.width); err != nil {
		return nil, err
	}

	out := make([]float64, len(x))
	for i, row := range x {
		v := m.bias
		for j, sv := range m.x {
			if m.beta[j] == 0 {
				continue
			}
			v += m.beta[j] * rbf(sv, row, m.gamma)
		}
		out[i] = v
	}
	return out, nil
}

func rbf(a, b []float64, gamma float64) float64 {
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return math.Exp(-gamma * d)
}

// scaleGamma mirrors the common "scale" default: 1 / (n_features * var(X)).
func scaleGamma(x [][]float64) float64 {
	n := float64(len(x) * len(x[0]))
	var sum, sq float64
	for _, row := range x {
		for _, v := range row {
			sum += v
			sq += v * v
		}
	}
	mean := sum / n
	variance := sq/n - mean*mean
	if variance <= 0 {
		return 1.0 / float64(len(x[0]))
	}
	return 1.0 / (float64(len(x[0])) * variance)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
