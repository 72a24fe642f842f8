package runner

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// SeedScore pairs a seed with its extracted score.
type SeedScore struct {
	Seed  int
	Score int64
}

// RunBatch executes every seed concurrently, bounded by r.Workers, and
// returns scores positionally aligned with seeds regardless of completion
// order. The batch is fail-fast: the first seed failure becomes the batch
// error and no partial scores are returned. In-flight siblings are not
// cancelled; they finish before the error surfaces.
func (r *Runner) RunBatch(ctx context.Context, solverPath string, seeds []int, outDir string) ([]SeedScore, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir %s: %w", outDir, err)
	}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	// One slot per seed index, written exactly once by its owning worker.
	results := make([]SeedScore, len(seeds))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, seed := range seeds {
		g.Go(func() error {
			score, err := r.RunSeed(ctx, solverPath, seed, outDir)
			if err != nil {
				return err
			}
			results[i] = SeedScore{Seed: seed, Score: score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
