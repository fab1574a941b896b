// Package actual reconstructs the strategy a driver used in a session.
package actual

import (
	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-strategy/pkg/laps"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

// Reconstruct extracts stints, lap times and pit stops of driver.
// ok is false if the table contains no laps of driver.
func Reconstruct(table []model.LapRecord, driver string) (ret *model.ActualStrategy, ok bool) {
	driverLaps := laps.DriverLaps(table, driver)
	if len(driverLaps) == 0 {
		return nil, false
	}
	stints := collectStints(driverLaps)
	lapTimes := make([]model.LapTime, 0, len(driverLaps))
	for i := range driverLaps {
		l := &driverLaps[i]
		sec, ok := l.LapSeconds()
		if !ok {
			continue
		}
		lapTimes = append(lapTimes, model.LapTime{
			Lap:      l.LapNumber,
			TimeSec:  sec,
			Compound: l.Compound,
			TyreLife: l.TyreLife,
		})
	}
	pits := make([]model.PitTransition, 0, len(stints))
	for i := 0; i < len(stints)-1; i++ {
		pits = append(pits, model.PitTransition{
			Lap:          stints[i].EndLap,
			FromCompound: stints[i].Compound,
			ToCompound:   stints[i+1].Compound,
		})
	}
	return &model.ActualStrategy{
		Stints:    stints,
		LapTimes:  lapTimes,
		PitLaps:   pits,
		TotalTime: lo.SumBy(lapTimes, func(lt model.LapTime) float64 { return lt.TimeSec }),
		TotalLaps: driverLaps[len(driverLaps)-1].LapNumber,
	}, true
}

// collectStints walks the laps in order. A new stint starts whenever the
// stint id differs from the previous lap.
func collectStints(driverLaps []model.LapRecord) []model.StintInfo {
	ret := []model.StintInfo{}
	var cur *model.StintInfo
	for i := range driverLaps {
		l := &driverLaps[i]
		if cur == nil || cur.Stint != l.Stint {
			if cur != nil {
				ret = append(ret, *cur)
			}
			cur = &model.StintInfo{
				Stint:    l.Stint,
				Compound: l.Compound,
				StartLap: l.LapNumber,
				EndLap:   l.LapNumber,
				Laps:     1,
			}
			continue
		}
		cur.EndLap = l.LapNumber
		cur.Laps++
	}
	if cur != nil {
		ret = append(ret, *cur)
	}
	return ret
}

// LapsInRange returns the lap times with from <= lap <= to
func LapsInRange(a *model.ActualStrategy, from, to int) []model.LapTime {
	return lo.Filter(a.LapTimes, func(lt model.LapTime, _ int) bool {
		return lt.Lap >= from && lt.Lap <= to
	})
}
