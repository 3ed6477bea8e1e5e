package artifacts

import (
	"errors"
	"fmt"
)

const (
	KindLinearRegression = "linear_regression"
	KindDecisionTree     = "decision_tree"
	KindRandomForest     = "random_forest"
)

var ErrInvalidModel = errors.New("invalid model")

// Regressor predicts a scalar from one scaled feature vector.
type Regressor interface {
	Predict(x []float64) (float64, error)

	// Kind is the artifact discriminator written to disk
	Kind() string

	// TypeName is the human-facing model family name
	TypeName() string

	Validate(features int) error
}

// LinearRegression is an ordinary least squares fit.
type LinearRegression struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func (m *LinearRegression) Kind() string     { return KindLinearRegression }
func (m *LinearRegression) TypeName() string { return "LinearRegression" }

func (m *LinearRegression) Predict(x []float64) (float64, error) {
	if len(x) != len(m.Coefficients) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x), len(m.Coefficients))
	}

	y := m.Intercept
	for j, c := range m.Coefficients {
		y += c * x[j]
	}
	return y, nil
}

func (m *LinearRegression) Validate(features int) error {
	if len(m.Coefficients) != features {
		return fmt.Errorf("%w: %d coefficients for %d features", ErrInvalidModel, len(m.Coefficients), features)
	}
	return nil
}

// TreeNode is a node of a flattened binary regression tree.
// Children always sit after their parent in the node slice.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Samples   int     `json:"samples"`
	Leaf      bool    `json:"leaf"`
}

// DecisionTree routes a sample left when feature <= threshold.
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (t *DecisionTree) Kind() string     { return KindDecisionTree }
func (t *DecisionTree) TypeName() string { return "DecisionTreeRegressor" }

func (t *DecisionTree) Predict(x []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, fmt.Errorf("%w: tree has no nodes", ErrInvalidModel)
	}

	idx := 0
	for {
		node := t.Nodes[idx]
		if node.Leaf {
			return node.Value, nil
		}
		if node.Feature < 0 || node.Feature >= len(x) {
			return 0, fmt.Errorf("%w: feature index %d out of range", ErrDimensionMismatch, node.Feature)
		}
		if x[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
		if idx <= 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("%w: invalid child index %d", ErrInvalidModel, idx)
		}
	}
}

// Depth returns the longest root-to-leaf path length in edges.
func (t *DecisionTree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(idx int) int
	walk = func(idx int) int {
		n := t.Nodes[idx]
		if n.Leaf {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

func (t *DecisionTree) Validate(features int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("%w: tree has no nodes", ErrInvalidModel)
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("%w: node %d splits on feature %d", ErrInvalidModel, i, n.Feature)
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("%w: node %d has invalid children", ErrInvalidModel, i)
		}
	}
	return nil
}

// RandomForest averages the predictions of its trees.
type RandomForest struct {
	Trees []*DecisionTree `json:"trees"`
}

func (f *RandomForest) Kind() string     { return KindRandomForest }
func (f *RandomForest) TypeName() string { return "RandomForestRegressor" }

func (f *RandomForest) Predict(x []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("%w: forest has no trees", ErrInvalidModel)
	}

	sum := 0.0
	for i, tree := range f.Trees {
		y, err := tree.Predict(x)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += y
	}
	return sum / float64(len(f.Trees)), nil
}

func (f *RandomForest) Validate(features int) error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("%w: forest has no trees", ErrInvalidModel)
	}
	for i, tree := range f.Trees {
		if tree == nil {
			return fmt.Errorf("%w: tree %d is empty", ErrInvalidModel, i)
		}
		if err := tree.Validate(features); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}
