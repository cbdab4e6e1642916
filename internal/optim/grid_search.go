// Package optim searches run settings for the combination that minimizes
// a metric, such as the largest dt that keeps energy drift small.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Point is one combination of parameter values, keyed by parameter name.
type Point map[string]float64

// RunFunc runs one trial and returns its metrics.
type RunFunc func(ctx context.Context, p Point) (map[string]float64, error)

// Trial is the outcome of running one grid point.
type Trial struct {
	Params  Point
	Metrics map[string]float64
	Err     error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d parameters with %d ranges", dynamo.ErrParameterBounds, len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: empty range for %s", dynamo.ErrParameterBounds, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every grid point, the first parameter varying slowest. It
// returns all trials in run order and the successful trial with the
// lowest metric value, or nil when none succeeded.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, metricName string) ([]Trial, *Trial, error) {
	trials := make([]Trial, 0, g.Size())
	if err := g.searchRecursive(ctx, 0, Point{}, run, &trials); err != nil {
		return trials, nil, err
	}

	best := math.Inf(1)
	var bestTrial *Trial
	for i := range trials {
		t := &trials[i]
		if t.Err != nil {
			continue
		}
		val, ok := t.Metrics[metricName]
		if !ok {
			return trials, nil, fmt.Errorf("trial %v has no metric %q", t.Params, metricName)
		}
		if val < best {
			best = val
			bestTrial = t
		}
	}
	return trials, bestTrial, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current Point, run RunFunc, trials *[]Trial) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		m, err := run(ctx, current)
		*trials = append(*trials, Trial{Params: current, Metrics: m, Err: err})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(Point, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, run, trials); err != nil {
			return err
		}
	}
	return nil
}
