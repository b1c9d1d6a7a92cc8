package regress

import (
	"errors"
	"fmt"

	"StockCast/internal/domain/service"
)

// ErrShape signals an empty feature matrix or a feature/target length
// mismatch passed to Fit or Predict.
var ErrShape = errors.New("regress: input shape error")

// Params carries the fixed hyperparameters for model construction. SVR values
// are deliberately not tuned at runtime.
type Params struct {
	SVRC       float64
	SVREpsilon float64
	SVRGamma   float64 // 0 means 1/(n_features * var(X))
	TreeDepth  int     // 0 means unbounded
}

// DefaultParams returns the stock hyperparameters: RBF SVR with C=100,
// epsilon=0.1, and an uncapped tree.
func DefaultParams() Params {
	return Params{SVRC: 100, SVREpsilon: 0.1}
}

// New constructs a fresh, unfitted regressor of the given kind. Each pipeline
// invocation gets its own instance; fitted state is never shared.
func New(kind string, p Params) (service.Regressor, error) {
	switch kind {
	case "linear":
		return NewLinear(), nil
	case "tree":
		return NewTree(p.TreeDepth), nil
	case "svr":
		// SVR is scale-sensitive: standardize features and target around it.
		return Standardize(NewSVR(p.SVRC, p.SVREpsilon, p.SVRGamma)), nil
	default:
		return nil, fmt.Errorf("regress: unknown model %q", kind)
	}
}

// checkXY validates the common fit contract.
func checkXY(x [][]float64, y []float64) error {
	if len(x) == 0 {
		return fmt.Errorf("%w: empty feature matrix", ErrShape)
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d feature rows vs %d targets", ErrShape, len(x), len(y))
	}
	width := len(x[0])
	if width == 0 {
		return fmt.Errorf("%w: zero-width feature rows", ErrShape)
	}
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), width)
		}
	}
	return nil
}

func checkPredict(x [][]float64, width int) error {
	if len(x) == 0 {
		return fmt.Errorf("%w: empty prediction input", ErrShape)
	}
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), width)
		}
	}
	return nil
}
