package regress

import (
	"fmt"
	"math"
	"sort"
)

// Tree is a CART regression tree: splits greedily minimize the summed squared
// error of the two children. Depth is uncapped by default, giving the model
// full capacity to overfit.
type Tree struct {
	maxDepth int // 0 = unbounded
	minLeaf  int
	root     *treeNode
	width    int
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// NewTree creates an unfitted regression tree. maxDepth 0 means unbounded.
func NewTree(maxDepth int) *Tree {
	return &Tree{maxDepth: maxDepth, minLeaf: 1}
}

func (m *Tree) Name() string { return "tree" }

func (m *Tree) Fit(x [][]float64, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	m.width = len(x[0])
	m.root = m.grow(x, y, 1)
	return nil
}

func (m *Tree) Predict(x [][]float64) ([]float64, error) {
	if m.root == nil {
		return nil, fmt.Errorf("tree: predict before fit")
	}
	if err := checkPredict(x, m.width); err != nil {
		return nil, err
	}

	out := make([]float64, len(x))
	for i, row := range x {
		n := m.root
		for !n.leaf {
			if row[n.feature] <= n.threshold {
				n = n.left
			} else {
				n = n.right
			}
		}
		out[i] = n.value
	}
	return out, nil
}

func (m *Tree) grow(x [][]float64, y []float64, depth int) *treeNode {
	if len(y) <= m.minLeaf || allEqual(y) || (m.maxDepth > 0 && depth > m.maxDepth) {
		return &treeNode{leaf: true, value: meanOf(y)}
	}

	feature, threshold, ok := bestSplit(x, y)
	if !ok {
		return &treeNode{leaf: true, value: meanOf(y)}
	}

	var lx, rx [][]float64
	var ly, ry []float64
	for i, row := range x {
		if row[feature] <= threshold {
			lx = append(lx, row)
			ly = append(ly, y[i])
		} else {
			rx = append(rx, row)
			ry = append(ry, y[i])
		}
	}
	if len(ly) == 0 || len(ry) == 0 {
		return &treeNode{leaf: true, value: meanOf(y)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      m.grow(lx, ly, depth+1),
		right:     m.grow(rx, ry, depth+1),
	}
}

// bestSplit scans every feature and every midpoint between adjacent distinct
// values, keeping the split with the lowest child SSE.
func bestSplit(x [][]float64, y []float64) (feature int, threshold float64, ok bool) {
	best := math.Inf(1)
	width := len(x[0])

	type pair struct{ v, y float64 }
	col := make([]pair, len(x))

	for j := 0; j < width; j++ {
		for i, row := range x {
			col[i] = pair{v: row[j], y: y[i]}
		}
		sort.Slice(col, func(a, b int) bool { return col[a].v < col[b].v })

		// Running sums let each candidate split score in O(1).
		var totalSum, totalSq float64
		for _, p := range col {
			totalSum += p.y
			totalSq += p.y * p.y
		}

		var leftSum, leftSq float64
		for i := 0; i < len(col)-1; i++ {
			leftSum += col[i].y
			leftSq += col[i].y * col[i].y
			if col[i].v == col[i+1].v {
				continue
			}
			nl := float64(i + 1)
			nr := float64(len(col) - i - 1)
			sse := (leftSq - leftSum*leftSum/nl) +
				((totalSq - leftSq) - (totalSum-leftSum)*(totalSum-leftSum)/nr)
			if sse < best {
				best = sse
				feature = j
				threshold = (col[i].v + col[i+1].v) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func meanOf(y []float64) float64 {
	sum := 0.0
	for _, v := range y {
		sum += v
	}
	return sum / float64(len(y))
}

func allEqual(y []float64) bool {
	for _, v := range y[1:] {
		if v != y[0] {
			return false
		}
	}
	return true
}
