package automation

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/metrics"
	"github.com/san-kum/slitsim/internal/optics"
)

// GridSearch tries every combination of the given parameter values and
// keeps the one minimizing a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

// NewGridSearch pairs each parameter name with its candidate values.
func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("automation: %d parameters but %d value ranges", len(params), len(ranges))
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search returns the best parameter values and the metric there. Grid
// points the bench rejects, or where the metric does not exist, are
// skipped; if every point is skipped the result map is nil and best is +Inf.
func (g *GridSearch) Search(ctx context.Context, base optics.Parameters, metricName string, opts ...bench.Option) (map[string]float64, float64, error) {
	metric, err := metrics.Get(metricName)
	if err != nil {
		return nil, 0, err
	}
	for _, name := range g.paramNames {
		if _, err := optics.DefaultLimits().Domain(name); err != nil {
			return nil, 0, err
		}
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, base, make(map[string]float64), metric, opts, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	base optics.Parameters,
	current map[string]float64,
	metric metrics.Metric,
	opts []bench.Option,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.paramNames) {
		p := base
		for k, v := range current {
			next, err := p.With(k, v)
			if err != nil {
				return
			}
			p = next
		}

		ctrl, err := bench.New(p, opts...)
		if err != nil {
			return
		}
		snap, err := ctrl.Snapshot()
		if err != nil {
			return
		}

		val := metric(snap)
		if !math.IsNaN(val) && val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, base, newParams, metric, opts, best, bestParams)
	}
}
