package laps

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

type StintKey struct {
	Driver string
	Stint  int
}

// GroupByStint groups laps by driver and stint.
// The keys are returned in order of first appearance.
func GroupByStint(laps []TimedLap) (keys []StintKey, groups map[StintKey][]TimedLap) {
	groups = lo.GroupBy(laps, func(l TimedLap) StintKey {
		return StintKey{Driver: l.Driver, Stint: l.Stint}
	})
	keys = lo.Uniq(lo.Map(laps, func(l TimedLap, _ int) StintKey {
		return StintKey{Driver: l.Driver, Stint: l.Stint}
	}))
	return keys, groups
}

// ByDriver indexes the lap table by driver. Each driver's laps are sorted by lap number.
func ByDriver(laps []model.LapRecord) map[string][]model.LapRecord {
	ret := lo.GroupBy(laps, func(l model.LapRecord) string { return l.Driver })
	for _, v := range ret {
		slices.SortStableFunc(v, func(a, b model.LapRecord) int {
			return cmp.Compare(a.LapNumber, b.LapNumber)
		})
	}
	return ret
}

// DriverLaps returns the laps of driver sorted by lap number
func DriverLaps(laps []model.LapRecord, driver string) []model.LapRecord {
	ret := lo.Filter(laps, func(l model.LapRecord, _ int) bool { return l.Driver == driver })
	slices.SortStableFunc(ret, func(a, b model.LapRecord) int {
		return cmp.Compare(a.LapNumber, b.LapNumber)
	})
	return ret
}

// Drivers returns the sorted list of driver codes found in laps
func Drivers(laps []model.LapRecord) []string {
	ret := lo.Uniq(lo.Map(laps, func(l model.LapRecord, _ int) string { return l.Driver }))
	slices.Sort(ret)
	return ret
}

// RaceLength is the highest lap number in laps, 0 if there are none
func RaceLength(laps []model.LapRecord) int {
	if len(laps) == 0 {
		return 0
	}
	return lo.MaxBy(laps, func(a, b model.LapRecord) bool {
		return a.LapNumber > b.LapNumber
	}).LapNumber
}

// Fastest returns the fastest accurate lap with a lap time.
// ok is false if there is no such lap.
func Fastest(laps []model.LapRecord) (lap model.LapRecord, ok bool) {
	timed := lo.Filter(laps, func(l model.LapRecord, _ int) bool {
		return l.IsAccurate && l.LapTime.IsSet()
	})
	if len(timed) == 0 {
		return model.LapRecord{}, false
	}
	return lo.MinBy(timed, func(a, b model.LapRecord) bool {
		return a.LapTime.GetOr(0) < b.LapTime.GetOr(0)
	}), true
}
