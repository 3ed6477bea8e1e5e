package training

import (
	"errors"
	"sort"

	"github.com/OldStager01/motortemp/internal/artifacts"
)

type TreeConfig struct {
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
}

func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		MaxDepth:        15,
		MinSamplesSplit: 10,
		MinSamplesLeaf:  5,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	if c.MaxDepth <= 0 {
		c.MaxDepth = 15
	}
	if c.MinSamplesSplit < 2 {
		c.MinSamplesSplit = 2
	}
	if c.MinSamplesLeaf < 1 {
		c.MinSamplesLeaf = 1
	}
	return c
}

// FitTree grows a regression tree greedily, picking at each node the split
// with the lowest summed squared error of its children.
func FitTree(x [][]float64, y []float64, cfg TreeConfig) (*artifacts.DecisionTree, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, errors.New("tree fit needs matching non-empty inputs")
	}

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	return fitTreeOn(x, y, idx, cfg), nil
}

func fitTreeOn(x [][]float64, y []float64, idx []int, cfg TreeConfig) *artifacts.DecisionTree {
	b := &treeBuilder{
		cfg:   cfg.withDefaults(),
		x:     x,
		y:     y,
		width: len(x[0]),
	}
	b.grow(idx, 0)
	return &artifacts.DecisionTree{Nodes: b.nodes}
}

type treeBuilder struct {
	cfg   TreeConfig
	x     [][]float64
	y     []float64
	width int
	nodes []artifacts.TreeNode
}

type split struct {
	feature   int
	threshold float64
	position  int
	sse       float64
}

func (b *treeBuilder) grow(idx []int, depth int) int {
	mean, sse := b.moments(idx)
	node := len(b.nodes)
	b.nodes = append(b.nodes, artifacts.TreeNode{
		Feature: -1,
		Value:   mean,
		Samples: len(idx),
		Leaf:    true,
	})

	if depth >= b.cfg.MaxDepth || len(idx) < b.cfg.MinSamplesSplit || len(idx) < 2*b.cfg.MinSamplesLeaf || sse <= 0 {
		return node
	}

	best, ok := b.bestSplit(idx, sse)
	if !ok {
		return node
	}

	b.sortBy(idx, best.feature)
	left := append([]int(nil), idx[:best.position]...)
	right := append([]int(nil), idx[best.position:]...)

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)

	b.nodes[node].Leaf = false
	b.nodes[node].Feature = best.feature
	b.nodes[node].Threshold = best.threshold
	b.nodes[node].Left = l
	b.nodes[node].Right = r
	return node
}

func (b *treeBuilder) moments(idx []int) (mean, sse float64) {
	var sum, sumSq float64
	for _, i := range idx {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	n := float64(len(idx))
	mean = sum / n
	sse = sumSq - sum*sum/n
	return mean, sse
}

func (b *treeBuilder) sortBy(idx []int, feature int) {
	sort.SliceStable(idx, func(i, j int) bool {
		return b.x[idx[i]][feature] < b.x[idx[j]][feature]
	})
}

// bestSplit scans every feature in sorted order using running sums.
func (b *treeBuilder) bestSplit(idx []int, parentSSE float64) (split, bool) {
	n := len(idx)
	minLeaf := b.cfg.MinSamplesLeaf
	best := split{sse: parentSSE}
	found := false

	order := append([]int(nil), idx...)
	var total, totalSq float64
	for _, i := range order {
		total += b.y[i]
		totalSq += b.y[i] * b.y[i]
	}

	for f := 0; f < b.width; f++ {
		b.sortBy(order, f)

		var leftSum, leftSq float64
		for pos := 1; pos < n; pos++ {
			yi := b.y[order[pos-1]]
			leftSum += yi
			leftSq += yi * yi

			if pos < minLeaf || n-pos < minLeaf {
				continue
			}
			lo, hi := b.x[order[pos-1]][f], b.x[order[pos]][f]
			if lo == hi {
				continue
			}

			nl, nr := float64(pos), float64(n-pos)
			rightSum, rightSq := total-leftSum, totalSq-leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)

			if sse < best.sse-1e-12 {
				threshold := lo + (hi-lo)/2
				if threshold >= hi {
					threshold = lo
				}
				best = split{
					feature:   f,
					threshold: threshold,
					position:  pos,
					sse:       sse,
				}
				found = true
			}
		}
	}

	return best, found
}
