// Package optimize searches a grid of pit strategies for the fastest plan
// per stop count.
package optimize

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mpapenbr/iracelog-strategy/log"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
	"github.com/mpapenbr/iracelog-strategy/pkg/racestints"
)

type (
	Option func(*searchConfig)

	searchConfig struct {
		workers int
		simOpts []racestints.Option
		logger  *log.Logger
	}

	// candidate result, ordinal is the position in the enumeration
	best struct {
		ordinal int
		total   float64
	}
)

// WithWorkers limits the number of goroutines evaluating candidates.
// Values < 1 use runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(c *searchConfig) {
		c.workers = n
	}
}

func WithFuelCorrection(enabled bool) Option {
	return func(c *searchConfig) {
		c.simOpts = append(c.simOpts, racestints.WithFuelCorrection(enabled))
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *searchConfig) {
		c.logger = l
	}
}

// FindOptimal returns the fastest plan for 1 to MaxStops stops. Stop counts
// without any candidate (race too short) are missing in the result.
// The result does not depend on the number of workers.
//
//nolint:whitespace // readability
func FindOptimal(
	ctx context.Context,
	models model.Models,
	pitLoss float64,
	totalLaps int,
	opts ...Option,
) (map[int]model.OptimalResult, error) {
	cfg := &searchConfig{
		workers: runtime.NumCPU(),
		logger:  log.Default().Named("optimize"),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = runtime.NumCPU()
	}
	ret := map[int]model.OptimalResult{}
	for stops := 1; stops <= MaxStops; stops++ {
		candidates := Candidates(stops, totalLaps)
		if len(candidates) == 0 {
			cfg.logger.Debug("no candidates", log.Int("stops", stops), log.Int("laps", totalLaps))
			continue
		}
		b, err := searchParallel(ctx, cfg, candidates, models, pitLoss, totalLaps)
		if err != nil {
			return nil, err
		}
		ret[stops] = model.OptimalResult{
			Stops:     stops,
			TotalTime: b.total,
			Plan:      candidates[b.ordinal],
		}
		cfg.logger.Debug("best plan",
			log.Int("stops", stops),
			log.Int("candidates", len(candidates)),
			log.String("plan", candidates[b.ordinal].String()),
			log.Float64("total", b.total))
	}
	return ret, nil
}

// Evaluate simulates plan and returns its total race time
//
//nolint:whitespace // readability
func Evaluate(
	models model.Models,
	plan model.StrategyPlan,
	pitLoss float64,
	totalLaps int,
	opts ...racestints.Option,
) float64 {
	return racestints.TotalTime(racestints.Simulate(models, plan, pitLoss, totalLaps, opts...))
}

// searchParallel splits candidates into contiguous chunks. Each chunk yields
// its local best, the chunk results are reduced by (total, ordinal).
//
//nolint:whitespace // readability
func searchParallel(
	ctx context.Context,
	cfg *searchConfig,
	candidates []model.StrategyPlan,
	models model.Models,
	pitLoss float64,
	totalLaps int,
) (best, error) {
	chunks := min(cfg.workers, len(candidates))
	size := (len(candidates) + chunks - 1) / chunks
	results := make([]best, chunks)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < chunks; i++ {
		from := i * size
		to := min(from+size, len(candidates))
		g.Go(func() error {
			results[i] = best{ordinal: -1, total: math.Inf(1)}
			for idx := from; idx < to; idx++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				total := Evaluate(models, candidates[idx], pitLoss, totalLaps, cfg.simOpts...)
				if better(best{ordinal: idx, total: total}, results[i]) {
					results[i] = best{ordinal: idx, total: total}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return best{}, err
	}
	ret := best{ordinal: -1, total: math.Inf(1)}
	for _, r := range results {
		if better(r, ret) {
			ret = r
		}
	}
	return ret, nil
}

// better orders by total time, equal totals keep the earlier candidate
func better(a, b best) bool {
	if a.ordinal < 0 {
		return false
	}
	if b.ordinal < 0 {
		return true
	}
	if a.total != b.total {
		return a.total < b.total
	}
	return a.ordinal < b.ordinal
}
