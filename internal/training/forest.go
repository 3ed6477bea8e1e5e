package training

import (
	"context"
	"errors"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/OldStager01/motortemp/internal/artifacts"
)

type ForestConfig struct {
	Trees   int
	Seed    uint64
	Workers int
	Tree    TreeConfig
}

func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees: 100,
		Seed:  DefaultSeed,
		Tree: TreeConfig{
			MaxDepth:        15,
			MinSamplesSplit: 10,
			MinSamplesLeaf:  1,
		},
	}
}

// FitForest grows bootstrapped trees in parallel. Each tree draws its sample
// from its own seeded stream, so the result does not depend on scheduling.
func FitForest(ctx context.Context, x [][]float64, y []float64, cfg ForestConfig) (*artifacts.RandomForest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, errors.New("forest fit needs matching non-empty inputs")
	}
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	forest := &artifacts.RandomForest{Trees: make([]*artifacts.DecisionTree, cfg.Trees)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for t := 0; t < cfg.Trees; t++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			forest.Trees[t] = fitTreeOn(x, y, bootstrap(len(x), cfg.Seed, uint64(t)), cfg.Tree)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return forest, nil
}

func bootstrap(n int, seed, stream uint64) []int {
	rng := rand.New(rand.NewPCG(seed, stream))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}
