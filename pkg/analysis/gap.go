package analysis

import (
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-strategy/pkg/format"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

type GapPoint struct {
	Lap int     `json:"lap"`
	Gap float64 `json:"gap"` // running sum of simulated - actual
}

// CumulativeGap accumulates the lap time difference over the laps present in
// both series. A positive gap means the simulation is behind the actual race.
func CumulativeGap(sim []model.SimulatedLap, act *model.ActualStrategy) []GapPoint {
	ret := []GapPoint{}
	if act == nil || len(act.LapTimes) == 0 {
		return ret
	}
	actual := lo.SliceToMap(act.LapTimes, func(l model.LapTime) (int, float64) {
		return l.Lap, l.TimeSec
	})
	simulated := lo.SliceToMap(sim, func(l model.SimulatedLap) (int, float64) {
		return l.Lap, l.TimeSec
	})
	common := lo.Intersect(lo.Keys(actual), lo.Keys(simulated))
	slices.Sort(common)
	running := 0.0
	for _, lap := range common {
		running += simulated[lap] - actual[lap]
		ret = append(ret, GapPoint{Lap: lap, Gap: format.Round(running, 3)})
	}
	return ret
}
