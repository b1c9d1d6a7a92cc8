package regress

import (
	"math"
	"testing"
)

func linearData(n int) (x [][]float64, y []float64) {
	for i := 0; i < n; i++ {
		a := float64(i)
		b := float64((i * i) % 13)
		x = append(x, []float64{a, b})
		y = append(y, 3+2*a-b)
	}
	return x, y
}

func TestLinearExactFit(t *testing.T) {
	x, y := linearData(30)
	m := NewLinear()
	if err := m.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}

	pred, err := m.Predict([][]float64{{100, 5}, {0, 0}})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	want := []float64{3 + 200 - 5, 3}
	for i := range want {
		if math.Abs(pred[i]-want[i]) > 1e-6 {
			t.Fatalf("pred[%d] = %v, want %v", i, pred[i], want[i])
		}
	}
}

func TestLinearPredictBeforeFit(t *testing.T) {
	if _, err := NewLinear().Predict([][]float64{{1}}); err == nil {
		t.Fatalf("expected error before fit")
	}
}

func TestTreeMemorizesDistinctRows(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	y := []float64{10, 20, 15, 40, 35, 60}

	m := NewTree(0)
	if err := m.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	pred, err := m.Predict(x)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	// Uncapped depth with distinct feature values splits down to single-row
	// leaves, so the training set is reproduced exactly.
	for i := range y {
		if pred[i] != y[i] {
			t.Fatalf("pred[%d] = %v, want %v", i, pred[i], y[i])
		}
	}
}

func TestTreeDepthCap(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{1, 2, 3, 4}

	m := NewTree(1)
	if err := m.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	pred, err := m.Predict(x)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	// Depth one allows a single split: two leaves, each a group mean.
	distinct := map[float64]bool{}
	for _, v := range pred {
		distinct[v] = true
	}
	if len(distinct) > 2 {
		t.Fatalf("depth-1 tree produced %d distinct outputs", len(distinct))
	}
}

func TestTreeConstantTarget(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}}
	y := []float64{7, 7, 7}

	m := NewTree(0)
	if err := m.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	pred, err := m.Predict([][]float64{{1.5}, {99}})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	for _, v := range pred {
		if v != 7 {
			t.Fatalf("pred = %v, want 7", v)
		}
	}
}

func TestTreePredictBeforeFit(t *testing.T) {
	if _, err := NewTree(0).Predict([][]float64{{1}}); err == nil {
		t.Fatalf("expected error before fit")
	}
}

func TestSVRFitsLinearTrend(t *testing.T) {
	var x [][]float64
	var y []float64
	for i := 0; i < 40; i++ {
		x = append(x, []float64{float64(i)})
		y = append(y, 2*float64(i)+1)
	}

	m, err := New("svr", DefaultParams())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := m.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	pred, err := m.Predict(x)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	var mae float64
	for i := range y {
		mae += math.Abs(pred[i] - y[i])
	}
	mae /= float64(len(y))

	// Standard deviation of y is roughly 23; a fit within a small fraction of
	// that shows the solver converged on the trend.
	if mae > 5 {
		t.Fatalf("mae = %v, want < 5", mae)
	}
}

func TestSVRPredictBeforeFit(t *testing.T) {
	m, err := New("svr", DefaultParams())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := m.Predict([][]float64{{1}}); err == nil {
		t.Fatalf("expected error before fit")
	}
}

func TestStandardizedScalersFreshPerFit(t *testing.T) {
	x1, y1 := linearData(20)
	x2 := x1[:10]
	y2 := y1[:10]

	m := Standardize(NewLinear())
	if err := m.Fit(x1, y1); err != nil {
		t.Fatalf("fit: %v", err)
	}
	xs1, ys1 := m.Scalers()

	if err := m.Fit(x2, y2); err != nil {
		t.Fatalf("refit: %v", err)
	}
	xs2, ys2 := m.Scalers()

	if xs1 == xs2 || ys1 == ys2 {
		t.Fatalf("refit reused scaler instances")
	}
	if xs1.Mean[0] == xs2.Mean[0] {
		t.Fatalf("scalers fitted on different windows share a mean")
	}
}
