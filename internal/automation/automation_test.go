package automation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/diffraction"
	"github.com/san-kum/slitsim/internal/metrics"
	"github.com/san-kum/slitsim/internal/optics"
)

type recordingSaver struct {
	names []string
}

func (r *recordingSaver) Save(name string, snap bench.Snapshot, m map[string]float64) (string, error) {
	r.names = append(r.names, name)
	return name + "_id", nil
}

func sampling() bench.Option {
	return bench.WithSampling(diffraction.Symmetric(10*optics.Millimetre), 201)
}

const scenarioYAML = `name: demo
description: narrow then wide
steps:
  - preset: narrow
    save_as: narrow-run
  - set:
      slit_width: 0.0002
      probe: 0.003
  - preset: wide
    set:
      screen_distance: 2
    save_as: wide-far
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "demo" || len(sc.Steps) != 3 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	saver := &recordingSaver{}
	results, err := RunScenario(context.Background(), sc, saver, sampling())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if got := results[0].Snapshot.Parameters.SlitWidth; got != 0.05*optics.Millimetre {
		t.Errorf("step 1: expected narrow slit, got %g", got)
	}
	p := results[1].Snapshot.Parameters
	if p.SlitWidth != 0.0002 || p.Probe != 0.003 {
		t.Errorf("step 2: settings not applied: %+v", p)
	}
	if got := results[2].Snapshot.Parameters.ScreenDistance; got != 2 {
		t.Errorf("step 3: expected 2m, got %g", got)
	}

	if len(saver.names) != 2 || saver.names[0] != "narrow-run" || saver.names[1] != "wide-far" {
		t.Errorf("unexpected saves %v", saver.names)
	}
	if results[0].Name != "narrow-run_id" {
		t.Errorf("expected run id in result, got %q", results[0].Name)
	}
	if _, ok := results[0].Metrics[metrics.ProbeIntensity]; !ok {
		t.Error("missing metrics")
	}
}

func TestRunScenarioStopsOnRejectedStep(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Preset: "default"},
		{Set: map[string]float64{optics.ParamSlitWidth: 1}},
		{Preset: "wide"},
	}}

	results, err := RunScenario(context.Background(), sc, nil, sampling())
	var rangeErr *optics.RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected range error, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 completed step, got %d", len(results))
	}
}

func TestRunScenarioUnknownInputs(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "laboratory"}}}
	if _, err := RunScenario(context.Background(), sc, nil); err == nil {
		t.Error("expected error for unknown preset")
	}

	sc = &Scenario{Steps: []ScenarioStep{{Set: map[string]float64{"colour": 1}}}}
	if _, err := RunScenario(context.Background(), sc, nil); !errors.Is(err, optics.ErrUnknownParameter) {
		t.Errorf("expected unknown parameter, got %v", err)
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestSweepFirstNullShrinksWithSlit(t *testing.T) {
	sweep := &ParameterSweep{
		Base:      optics.DefaultParameters(),
		ParamName: optics.ParamSlitWidth,
		Min:       0.05 * optics.Millimetre,
		Max:       0.5 * optics.Millimetre,
		NumSteps:  10,
		Options:   []bench.Option{sampling()},
	}

	results, err := RunSweep(context.Background(), sweep)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	if results[0].ParamValue != sweep.Min || results[9].ParamValue != sweep.Max {
		t.Errorf("sweep ends %g..%g", results[0].ParamValue, results[9].ParamValue)
	}

	nulls := Series(results, metrics.FirstNull)
	for i := 1; i < len(nulls); i++ {
		if !(nulls[i] < nulls[i-1]) {
			t.Errorf("first null did not shrink at step %d: %g -> %g", i, nulls[i-1], nulls[i])
		}
	}
	for i, r := range results {
		if r.Snapshot.Parameters.SlitWidth != r.ParamValue {
			t.Errorf("result %d out of order", i)
		}
	}
}

func TestSweepReportsRejectedPoints(t *testing.T) {
	sweep := &ParameterSweep{
		Base:      optics.DefaultParameters(),
		ParamName: optics.ParamSlitWidth,
		Min:       0.1 * optics.Millimetre,
		Max:       0.61 * optics.Millimetre,
		NumSteps:  4,
		Options:   []bench.Option{sampling()},
	}

	results, err := RunSweep(context.Background(), sweep)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results[:3] {
		if r.Err != nil {
			t.Errorf("point %d (%g): unexpected error %v", i, r.ParamValue, r.Err)
		}
		if r.Snapshot.Parameters.SlitWidth != r.ParamValue {
			t.Errorf("point %d: snapshot slit %g, want %g", i, r.Snapshot.Parameters.SlitWidth, r.ParamValue)
		}
	}

	last := results[3]
	var rangeErr *optics.RangeError
	if !errors.As(last.Err, &rangeErr) {
		t.Errorf("expected range error on the last point, got %v", last.Err)
	}
	if last.ParamValue != sweep.Max {
		t.Errorf("rejected point lost its value: %g", last.ParamValue)
	}

	failed := Failed(results)
	if len(failed) != 1 || failed[0].ParamValue != sweep.Max {
		t.Errorf("expected only the last point to fail, got %+v", failed)
	}
	if s := Series(results, metrics.ProbeIntensity); !math.IsNaN(s[3]) || math.IsNaN(s[0]) {
		t.Errorf("unexpected series %v", s)
	}
}

func TestSweepErrors(t *testing.T) {
	base := &ParameterSweep{Base: optics.DefaultParameters(), ParamName: "colour", NumSteps: 3}
	if _, err := RunSweep(context.Background(), base); !errors.Is(err, optics.ErrUnknownParameter) {
		t.Errorf("expected unknown parameter, got %v", err)
	}

	base = &ParameterSweep{Base: optics.DefaultParameters(), ParamName: optics.ParamProbe, NumSteps: 0}
	if _, err := RunSweep(context.Background(), base); !errors.Is(err, optics.ErrInvalidSampling) {
		t.Errorf("expected invalid sampling, got %v", err)
	}

	base = &ParameterSweep{
		Base:      optics.DefaultParameters(),
		ParamName: optics.ParamProbe,
		Min:       0,
		Max:       5 * optics.Millimetre,
		NumSteps:  3,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	base.Max = 5 * optics.Millimetre
	base.NumSteps = 1000
	if _, err := RunSweep(ctx, base); !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
}

func TestGridSearchPlacesNullOnProbe(t *testing.T) {
	base := optics.DefaultParameters()
	base.Probe = 5 * optics.Millimetre

	var widths []float64
	for a := 50; a <= 200; a++ {
		widths = append(widths, float64(a)*1e-6)
	}

	gs, err := NewGridSearch([]string{optics.ParamSlitWidth}, [][]float64{widths})
	if err != nil {
		t.Fatal(err)
	}
	best, val, err := gs.Search(context.Background(), base, metrics.ProbeIntensity, sampling())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	// first null at the probe: a = λ / sin(atan(y/L))
	want := base.Wavelength / math.Sin(math.Atan(base.Probe/base.ScreenDistance))
	if math.Abs(best[optics.ParamSlitWidth]-want) > 1e-6 {
		t.Errorf("expected slit near %g, got %g", want, best[optics.ParamSlitWidth])
	}
	if val > 1e-3 {
		t.Errorf("expected near-zero intensity, got %g", val)
	}
}

func TestGridSearchUnknownMetric(t *testing.T) {
	gs, err := NewGridSearch([]string{optics.ParamSlitWidth}, [][]float64{{1e-4}})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := gs.Search(context.Background(), optics.DefaultParameters(), "energy"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestNewGridSearchMismatchedRanges(t *testing.T) {
	params := []string{optics.ParamSlitWidth, optics.ParamFocalLength}
	if _, err := NewGridSearch(params, [][]float64{{1e-4}}); err == nil {
		t.Error("expected error for fewer ranges than parameters")
	}
	if _, err := NewGridSearch(params[:1], [][]float64{{1e-4}, {0.5}}); err == nil {
		t.Error("expected error for more ranges than parameters")
	}
}
