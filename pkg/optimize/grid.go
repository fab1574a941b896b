package optimize

import (
	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

const (
	// MinStintLaps is the shortest stint the search considers
	MinStintLaps = 5
	// MaxStops is the highest stop count searched
	MaxStops = 3
)

// pitLapStep returns the grid resolution for pit lap positions.
// More stops mean a coarser grid.
func pitLapStep(stops int) int {
	switch stops {
	case 1:
		return 2
	case 2:
		return 3
	default:
		return 5
	}
}

// PitLapGrid lists all pit lap combinations for stops in ascending
// lexicographic order. Each stint is at least MinStintLaps long.
func PitLapGrid(stops, totalLaps int) [][]int {
	ret := [][]int{}
	if stops < 1 {
		return ret
	}
	step := pitLapStep(stops)
	cur := make([]int, 0, stops)
	var walk func(prev int)
	walk = func(prev int) {
		k := len(cur)
		if k == stops {
			ret = append(ret, append([]int{}, cur...))
			return
		}
		// leave room for the remaining stints
		last := totalLaps - MinStintLaps*(stops-k)
		for lap := prev + MinStintLaps; lap <= last; lap += step {
			cur = append(cur, lap)
			walk(lap)
			cur = cur[:k]
		}
	}
	walk(0)
	return ret
}

// CompoundCombinations returns all assignments of dry compounds to n stints
// which use at least two distinct compounds. The order is the cartesian
// product order of model.DryCompounds.
func CompoundCombinations(n int) [][]model.Compound {
	ret := [][]model.Compound{}
	if n < 2 {
		return ret
	}
	total := 1
	for i := 0; i < n; i++ {
		total *= len(model.DryCompounds)
	}
	for idx := 0; idx < total; idx++ {
		combo := make([]model.Compound, n)
		rest := idx
		for pos := n - 1; pos >= 0; pos-- {
			combo[pos] = model.DryCompounds[rest%len(model.DryCompounds)]
			rest /= len(model.DryCompounds)
		}
		if len(lo.Uniq(combo)) >= 2 {
			ret = append(ret, combo)
		}
	}
	return ret
}

// Candidates enumerates the plans for stops in search order: pit lap
// positions outermost, compound combinations innermost.
func Candidates(stops, totalLaps int) []model.StrategyPlan {
	ret := []model.StrategyPlan{}
	combos := CompoundCombinations(stops + 1)
	for _, pits := range PitLapGrid(stops, totalLaps) {
		lengths := stintLengths(pits, totalLaps)
		for _, combo := range combos {
			plan := make(model.StrategyPlan, len(lengths))
			for i := range lengths {
				plan[i] = model.Stint{Compound: combo[i], Laps: lengths[i]}
			}
			ret = append(ret, plan)
		}
	}
	return ret
}

func stintLengths(pits []int, totalLaps int) []int {
	ret := make([]int, 0, len(pits)+1)
	prev := 0
	for _, p := range pits {
		ret = append(ret, p-prev)
		prev = p
	}
	return append(ret, totalLaps-prev)
}
