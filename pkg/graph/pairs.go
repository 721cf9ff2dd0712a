package graph

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ninjagl/intersects/pkg/collide"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PairOptions controls CheckPairs.
type PairOptions struct {
	// Workers caps concurrent tests. Zero or less means GOMAXPROCS.
	Workers int
	// Prefilter skips pairs whose world bounds do not overlap. Skipped
	// pairs report no intersection and a zero Distance.
	Prefilter bool
	Logger    *zap.Logger
}

// PairResult is the outcome for one unordered pair of colliders.
type PairResult struct {
	A       NodeID         `json:"a"`
	B       NodeID         `json:"b"`
	NameA   string         `json:"name_a"`
	NameB   string         `json:"name_b"`
	Result  collide.Result `json:"result"`
	Skipped bool           `json:"skipped,omitempty"`
}

// CheckPairs tests every unordered pair of colliders in g. Results follow
// the Colliders order: (0,1), (0,2), ..., (1,2), ... Cancelling ctx stops
// pairs that have not started and returns the context error.
func CheckPairs(ctx context.Context, g *SceneGraph, opts PairOptions) ([]PairResult, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	objs, err := g.WorldObjects()
	if err != nil {
		return nil, err
	}
	prims := make([]collide.Primitive, len(objs))
	for i, o := range objs {
		p, err := collide.Resolve(o.Object)
		if err != nil {
			return nil, fmt.Errorf("collider %q: %w", o.Name, err)
		}
		prims[i] = p
	}

	n := len(objs)
	results := make([]PairResult, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			results = append(results, PairResult{
				A: objs[i].ID, B: objs[j].ID,
				NameA: objs[i].Name, NameB: objs[j].Name,
			})
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	k := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			slot, a, b := k, prims[i], prims[j]
			k++
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if opts.Prefilter && !a.Bounds().Overlaps(b.Bounds()) {
					results[slot].Skipped = true
					return nil
				}
				results[slot].Result = collide.Detect(a, b)
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	hits := 0
	for _, r := range results {
		if r.Result.Intersect {
			hits++
			log.Debug("colliders intersect",
				zap.String("a", r.NameA),
				zap.String("b", r.NameB),
				zap.Float64("distance", r.Result.Distance))
		}
	}
	log.Info("pairs checked",
		zap.Int("colliders", n),
		zap.Int("pairs", len(results)),
		zap.Int("intersecting", hits))

	return results, nil
}

// Intersecting returns the set of collider IDs that take part in at least
// one intersecting pair.
func Intersecting(results []PairResult) map[NodeID]bool {
	out := make(map[NodeID]bool)
	for _, r := range results {
		if r.Result.Intersect {
			out[r.A] = true
			out[r.B] = true
		}
	}
	return out
}
