// Package analysis compares simulated plans with what a driver actually did.
package analysis

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-strategy/pkg/actual"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
	"github.com/mpapenbr/iracelog-strategy/pkg/racestints"
)

const (
	// deltas below this are considered a match
	MatchThreshold = 1.0
	// degradation over a stint which counts as tyre cliff
	CliffThreshold = 1.5
	// pit lap differences above this are worth mentioning
	PitLapThreshold = 5
)

// stintWindow is the absolute lap range of a plan stint
type stintWindow struct {
	idx      int
	stint    model.Stint
	startLap int
	endLap   int
	last     bool
}

//nolint:whitespace // readability
func AnalyzeStints(
	models model.Models,
	plan model.StrategyPlan,
	act *model.ActualStrategy,
	pitLoss float64,
	totalLaps int,
	opts ...racestints.Option,
) []model.StintAnalysis {
	ret := []model.StintAnalysis{}
	if act == nil {
		return ret
	}
	sim := racestints.Simulate(models, plan, pitLoss, totalLaps, opts...)
	for _, w := range windows(plan) {
		actLaps := actual.LapsInRange(act, w.startLap, w.endLap)
		if len(actLaps) == 0 {
			continue
		}
		simTotal := racestints.TotalTime(racestints.LapsInRange(sim, w.startLap, w.endLap))
		actTotal := lo.SumBy(actLaps, func(l model.LapTime) float64 { return l.TimeSec })
		delta := simTotal - actTotal
		ret = append(ret, model.StintAnalysis{
			Stint:       w.idx + 1,
			Compound:    w.stint.Compound,
			Laps:        w.stint.Laps,
			Delta:       delta,
			Explanation: explain(models, w, delta, act, actLaps),
		})
	}
	return ret
}

func windows(plan model.StrategyPlan) []stintWindow {
	ret := make([]stintWindow, 0, len(plan))
	start := 1
	for i, s := range plan {
		ret = append(ret, stintWindow{
			idx:      i,
			stint:    s,
			startLap: start,
			endLap:   start + s.Laps - 1,
			last:     i == len(plan)-1,
		})
		start += s.Laps
	}
	return ret
}

// explain picks the first matching rule. The order of the rules matters,
// more specific diagnoses come first.
//
//nolint:whitespace // readability
func explain(
	models model.Models,
	w stintWindow,
	delta float64,
	act *model.ActualStrategy,
	actLaps []model.LapTime,
) string {
	c := w.stint.Compound
	if math.Abs(delta) < MatchThreshold {
		return fmt.Sprintf("Well matched: within %.1fs of the actual stint.", math.Abs(delta))
	}
	deg := racestints.EstimateLapTime(models, c, w.stint.Laps) -
		racestints.EstimateLapTime(models, c, 0)
	if deg >= CliffThreshold && delta > 0 {
		return fmt.Sprintf(
			"%s tyres are %.1fs slower by lap %d of the stint, losing %.1fs against actual. "+
				"Pitting earlier avoids the drop-off.",
			c, deg, w.stint.Laps, delta)
	}
	if pitLap, ok := nearestPitLap(act, w.endLap); ok && !w.last && delta > 0 {
		diff := w.endLap - pitLap
		if abs(diff) > PitLapThreshold {
			dir := "later"
			if diff < 0 {
				dir = "earlier"
			}
			return fmt.Sprintf("Pitted %d laps %s than the actual stop on lap %d, losing %.1fs.",
				abs(diff), dir, pitLap, delta)
		}
	}
	used := lo.Uniq(lo.Map(actLaps, func(l model.LapTime, _ int) model.Compound {
		return l.Compound
	}))
	if len(used) == 1 && used[0] != c {
		if delta > 0 {
			return fmt.Sprintf("%s was %.1fs slower than the %s actually used over these laps.",
				c, delta, used[0])
		}
		return fmt.Sprintf("%s was %.1fs faster than the %s actually used over these laps.",
			c, -delta, used[0])
	}
	if delta > 0 {
		return fmt.Sprintf("Lost %.1fs against the actual stint.", delta)
	}
	return fmt.Sprintf("Gained %.1fs against the actual stint.", -delta)
}

// nearestPitLap finds the actual pit lap closest to lap.
// On equal distance the earlier stop wins.
func nearestPitLap(act *model.ActualStrategy, lap int) (int, bool) {
	if len(act.PitLaps) == 0 {
		return 0, false
	}
	best := act.PitLaps[0].Lap
	for _, p := range act.PitLaps[1:] {
		if abs(p.Lap-lap) < abs(best-lap) {
			best = p.Lap
		}
	}
	return best, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
