package regress

import (
	"errors"
	"math"
	"testing"
)

func TestNewKnownKinds(t *testing.T) {
	for _, kind := range []string{"linear", "tree", "svr"} {
		m, err := New(kind, DefaultParams())
		if err != nil {
			t.Fatalf("new %s: %v", kind, err)
		}
		if m.Name() != kind {
			t.Fatalf("name = %q, want %q", m.Name(), kind)
		}
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New("forest", DefaultParams()); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestFitShapeMismatch(t *testing.T) {
	m := NewLinear()
	err := m.Fit([][]float64{{1}, {2}}, []float64{1})
	if !errors.Is(err, ErrShape) {
		t.Fatalf("err = %v, want ErrShape", err)
	}
	if err := m.Fit(nil, nil); !errors.Is(err, ErrShape) {
		t.Fatalf("err = %v, want ErrShape on empty input", err)
	}
	if err := m.Fit([][]float64{{1, 2}, {3}}, []float64{1, 2}); !errors.Is(err, ErrShape) {
		t.Fatalf("err = %v, want ErrShape on ragged rows", err)
	}
}

func TestRandomSplitSizes(t *testing.T) {
	n := 100
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = []float64{float64(i)}
		y[i] = float64(i)
	}

	s := RandomSplit(x, y, 0.2, 42)
	if len(s.TestY) != 20 || len(s.TrainY) != 80 {
		t.Fatalf("split sizes = %d/%d, want 80/20", len(s.TrainY), len(s.TestY))
	}
	if len(s.TrainX) != len(s.TrainY) || len(s.TestX) != len(s.TestY) {
		t.Fatalf("X/Y lengths diverge")
	}

	// Every row lands in exactly one side.
	seen := make(map[float64]bool, n)
	for _, v := range append(append([]float64(nil), s.TrainY...), s.TestY...) {
		if seen[v] {
			t.Fatalf("row %v appears twice", v)
		}
		seen[v] = true
	}
	if len(seen) != n {
		t.Fatalf("rows lost in split: %d of %d", len(seen), n)
	}
}

func TestRandomSplitDeterministicSeed(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9}, {10}}
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	a := RandomSplit(x, y, 0.2, 7)
	b := RandomSplit(x, y, 0.2, 7)
	for i := range a.TrainY {
		if a.TrainY[i] != b.TrainY[i] {
			t.Fatalf("same seed produced different shuffles")
		}
	}
}

func TestScorePerfectPrediction(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5}
	r, err := Score(y, y)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if r.MAE != 0 || r.MSE != 0 || r.RMSE != 0 {
		t.Fatalf("errors = %v/%v/%v, want all zero", r.MAE, r.MSE, r.RMSE)
	}
	if r.R2 != 1 {
		t.Fatalf("r2 = %v, want 1", r.R2)
	}
}

func TestScoreKnownValues(t *testing.T) {
	yTrue := []float64{1, 2, 3}
	yPred := []float64{2, 2, 2}
	r, err := Score(yTrue, yPred)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if math.Abs(r.MAE-2.0/3.0) > 1e-12 {
		t.Fatalf("mae = %v", r.MAE)
	}
	if math.Abs(r.MSE-2.0/3.0) > 1e-12 {
		t.Fatalf("mse = %v", r.MSE)
	}
	if math.Abs(r.RMSE-math.Sqrt(2.0/3.0)) > 1e-12 {
		t.Fatalf("rmse = %v", r.RMSE)
	}
	// ssRes = 2, ssTot = 2.
	if math.Abs(r.R2) > 1e-12 {
		t.Fatalf("r2 = %v, want 0", r.R2)
	}
}

func TestScoreLengthMismatch(t *testing.T) {
	if _, err := Score([]float64{1, 2}, []float64{1}); !errors.Is(err, ErrShape) {
		t.Fatalf("err = %v, want ErrShape", err)
	}
}

func TestScalerRoundTrip(t *testing.T) {
	x := [][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}}
	s, err := FitScaler(x)
	if err != nil {
		t.Fatalf("fit scaler: %v", err)
	}

	back := s.InverseTransform(s.Transform(x))
	for i := range x {
		for j := range x[i] {
			if math.Abs(back[i][j]-x[i][j]) > 1e-12 {
				t.Fatalf("round trip drift at (%d,%d): %v vs %v", i, j, back[i][j], x[i][j])
			}
		}
	}
}

func TestScalerStandardizes(t *testing.T) {
	x := [][]float64{{2}, {4}, {6}, {8}}
	s, err := FitScaler(x)
	if err != nil {
		t.Fatalf("fit scaler: %v", err)
	}
	scaled := s.Transform(x)

	var mean float64
	for _, row := range scaled {
		mean += row[0]
	}
	mean /= float64(len(scaled))
	if math.Abs(mean) > 1e-12 {
		t.Fatalf("scaled mean = %v, want 0", mean)
	}

	var sq float64
	for _, row := range scaled {
		sq += row[0] * row[0]
	}
	if std := math.Sqrt(sq / float64(len(scaled))); math.Abs(std-1) > 1e-12 {
		t.Fatalf("scaled std = %v, want 1", std)
	}
}

func TestVecScalerRoundTrip(t *testing.T) {
	y := []float64{5, 7, 9, 11}
	s, err := FitVecScaler(y)
	if err != nil {
		t.Fatalf("fit vec scaler: %v", err)
	}
	back := s.InverseTransformVec(s.TransformVec(y))
	for i := range y {
		if math.Abs(back[i]-y[i]) > 1e-12 {
			t.Fatalf("round trip drift at %d: %v vs %v", i, back[i], y[i])
		}
	}
}
