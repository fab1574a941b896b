package racestints

import (
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

const (
	// FuelPenaltyPerLap is the time (seconds) each remaining lap of fuel costs
	FuelPenaltyPerLap = 0.055
	// FallbackLapTime is used if no model at all is available
	FallbackLapTime = 90.0
)

type (
	Option func(*simConfig)

	simConfig struct {
		fuelCorrection bool
	}
)

// WithFuelCorrection adds (totalLaps - lap) * FuelPenaltyPerLap to each lap
func WithFuelCorrection(enabled bool) Option {
	return func(c *simConfig) {
		c.fuelCorrection = enabled
	}
}

// Simulate estimates every lap of plan. The last lap of each stint but the
// final one carries the pit loss and is marked as pit lap.
// The result depends on the arguments only.
//
//nolint:whitespace // readability
func Simulate(
	models model.Models,
	plan model.StrategyPlan,
	pitLoss float64,
	totalLaps int,
	opts ...Option,
) []model.SimulatedLap {
	cfg := &simConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	ret := make([]model.SimulatedLap, 0, plan.TotalLaps())
	curLap := 1
	for stintIdx, stint := range plan {
		for lapInStint := 0; lapInStint < stint.Laps; lapInStint++ {
			tyreLife := lapInStint + 1
			lapTime := EstimateLapTime(models, stint.Compound, tyreLife)
			if cfg.fuelCorrection {
				lapTime += FuelCorrection(totalLaps, curLap)
			}
			isPitLap := lapInStint == stint.Laps-1 && stintIdx < len(plan)-1
			if isPitLap {
				lapTime += pitLoss
			}
			ret = append(ret, model.SimulatedLap{
				Lap:      curLap,
				TimeSec:  lapTime,
				Compound: stint.Compound,
				TyreLife: tyreLife,
				IsPitLap: isPitLap,
			})
			curLap++
		}
	}
	return ret
}

// EstimateLapTime uses the model of compound. Compounds without a model are
// estimated with the average of all available models.
func EstimateLapTime(models model.Models, c model.Compound, tyreLife int) float64 {
	if m, ok := models[c]; ok {
		return m.LapTime(tyreLife)
	}
	if len(models) == 0 {
		return FallbackLapTime
	}
	// iterate in a fixed order, map order would make the sum unstable
	keys := lo.Keys(models)
	slices.Sort(keys)
	avg := model.DegradationModel{
		BaseTime: lo.MeanBy(keys, func(k model.Compound) float64 { return models[k].BaseTime }),
		DegRate:  lo.MeanBy(keys, func(k model.Compound) float64 { return models[k].DegRate }),
	}
	return avg.LapTime(tyreLife)
}

// FuelCorrection is the extra time of lap caused by the fuel still on board
func FuelCorrection(totalLaps, lap int) float64 {
	return float64(totalLaps-lap) * FuelPenaltyPerLap
}

// TotalTime sums up the simulated lap times
func TotalTime(laps []model.SimulatedLap) float64 {
	return lo.SumBy(laps, func(l model.SimulatedLap) float64 { return l.TimeSec })
}

// LapsInRange returns the simulated laps with from <= lap <= to
func LapsInRange(laps []model.SimulatedLap, from, to int) []model.SimulatedLap {
	return lo.Filter(laps, func(l model.SimulatedLap, _ int) bool {
		return l.Lap >= from && l.Lap <= to
	})
}

type FuelPoint struct {
	Lap        int     `json:"lap"`
	Correction float64 `json:"correction"`
}

// FuelEffect lists the fuel correction of laps 1..totalLaps
func FuelEffect(totalLaps int) []FuelPoint {
	ret := make([]FuelPoint, 0, max(totalLaps, 0))
	for lap := 1; lap <= totalLaps; lap++ {
		ret = append(ret, FuelPoint{Lap: lap, Correction: FuelCorrection(totalLaps, lap)})
	}
	return ret
}
