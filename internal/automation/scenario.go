package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/metrics"
	"github.com/san-kum/slitsim/internal/optics"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of bench settings.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (default when empty) and applies Set in
// the order of optics.ParamNames. Values are metres.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Set    map[string]float64 `yaml:"set"`
	SaveAs string             `yaml:"save_as"`
}

type StepResult struct {
	Name     string
	Snapshot bench.Snapshot
	Metrics  map[string]float64
}

// Saver persists a step result and returns its run id.
type Saver interface {
	Save(name string, snap bench.Snapshot, metrics map[string]float64) (string, error)
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// RunScenario executes the steps in order. It stops at the first step whose
// preset is unknown or whose settings the bench rejects, returning the
// results gathered so far. Steps with SaveAs set are handed to saver when
// it is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, saver Saver, opts ...bench.Option) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		name := step.Preset
		if name == "" {
			name = "default"
		}
		cfg := config.GetPreset(name)
		if cfg == nil {
			return results, fmt.Errorf("step %d: unknown preset %s", i+1, name)
		}

		ctrl, err := bench.New(cfg.Parameters, opts...)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		for param := range step.Set {
			if _, err := optics.DefaultLimits().Domain(param); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		for _, param := range optics.ParamNames {
			v, ok := step.Set[param]
			if !ok {
				continue
			}
			if _, err := ctrl.SetParameter(param, v); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		snap, err := ctrl.Snapshot()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res := StepResult{Name: step.SaveAs, Snapshot: snap, Metrics: metrics.Evaluate(snap)}
		if step.SaveAs != "" && saver != nil {
			runID, err := saver.Save(step.SaveAs, snap, res.Metrics)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.Name = runID
		}

		log.WithFields(log.Fields{
			"step":  i + 1,
			"steps": len(scenario.Steps),
			"name":  res.Name,
		}).Info("scenario step done")
		results = append(results, res)
	}

	return results, nil
}
