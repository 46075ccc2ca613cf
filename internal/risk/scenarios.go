package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/born-ml/aad/internal/parallel"
)

// RunScenarios computes the gradient of f at every scenario concurrently.
// Each worker owns one Engine, and therefore one tape, for the whole run.
func RunScenarios(ctx context.Context, f Func, scenarios [][]float64, cfg Config) ([]Sensitivities, error) {
	start := time.Now()
	engines := make([]*Engine, cfg.Parallel.Workers(len(scenarios)))
	defer func() {
		for _, e := range engines {
			if e != nil {
				e.Close()
			}
		}
	}()

	results := make([]Sensitivities, len(scenarios))
	err := parallel.Run(ctx, len(scenarios), cfg.Parallel, func(_ context.Context, w, i int) error {
		e := engines[w]
		if e == nil {
			e = NewEngine(cfg)
			engines[w] = e
		}
		s, err := e.Gradient(f, scenarios[i])
		if err != nil {
			return fmt.Errorf("scenario %d: %w", i, err)
		}
		results[i] = s
		if cfg.Collector != nil {
			cfg.Collector.Update(fmt.Sprintf("worker-%d", w), e.Tape().Stats())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cfg.logger().Info("scenarios done",
		"scenarios", len(scenarios),
		"workers", len(engines),
		"elapsed", time.Since(start),
	)
	return results, nil
}
