package regress

import (
	"math"
	"math/rand"
	"time"
)

// Split is a random partition of feature rows into train and test sets.
// No temporal ordering is enforced; rows are shuffled uniformly.
type Split struct {
	TrainX [][]float64
	TrainY []float64
	TestX  [][]float64
	TestY  []float64
}

// RandomSplit shuffles rows and holds out testRatio of them. A zero seed
// derives one from the clock.
func RandomSplit(x [][]float64, y []float64, testRatio float64, seed int64) Split {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(len(x))

	var s Split
	cut := int(math.Round(float64(len(x)) * (1 - testRatio)))
	for i, idx := range indices {
		if i < cut {
			s.TrainX = append(s.TrainX, x[idx])
			s.TrainY = append(s.TrainY, y[idx])
		} else {
			s.TestX = append(s.TestX, x[idx])
			s.TestY = append(s.TestY, y[idx])
		}
	}
	return s
}
