package automation

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/metrics"
	"github.com/san-kum/slitsim/internal/optics"
)

// ParameterSweep steps one parameter across [Min, Max] from a fixed base.
type ParameterSweep struct {
	Base      optics.Parameters
	ParamName string
	Min, Max  float64
	NumSteps  int
	Options   []bench.Option
}

// SweepResult is one sweep point. Err is set when the controller rejected
// the value; Snapshot and Metrics are then empty.
type SweepResult struct {
	ParamValue float64
	Snapshot   bench.Snapshot
	Metrics    map[string]float64
	Err        error
}

// Values returns the swept values, evenly spaced and including both ends.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.NumSteps-1)
	vals := make([]float64, s.NumSteps)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	vals[len(vals)-1] = s.Max
	return vals
}

// RunSweep evaluates every sweep point. Points run concurrently, each on its
// own controller, and results come back in sweep order. A rejected value is
// reported on its own result and does not stop the sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: %d sweep steps", optics.ErrInvalidSampling, sweep.NumSteps)
	}
	if _, err := optics.DefaultLimits().Domain(sweep.ParamName); err != nil {
		return nil, err
	}

	vals := sweep.Values()
	results := make([]SweepResult, len(vals))

	workers := runtime.NumCPU()
	if workers > len(vals) {
		workers = len(vals)
	}
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = sweepPoint(sweep, vals[idx])
			}
		}()
	}

	for i := range vals {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

func sweepPoint(sweep *ParameterSweep, v float64) SweepResult {
	res := SweepResult{ParamValue: v}
	ctrl, err := bench.New(sweep.Base, sweep.Options...)
	if err != nil {
		res.Err = err
		return res
	}
	snap, err := ctrl.Set(sweep.ParamName, v)
	if err != nil {
		res.Err = fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
		return res
	}
	res.Snapshot = snap
	res.Metrics = metrics.Evaluate(snap)
	return res
}

// Failed returns the results whose value was rejected.
func Failed(results []SweepResult) []SweepResult {
	var out []SweepResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Series extracts one metric across a sweep. Rejected points and points where
// the metric does not exist are NaN.
func Series(results []SweepResult, metric string) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		v, ok := r.Metrics[metric]
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}
