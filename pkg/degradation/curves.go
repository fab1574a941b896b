package degradation

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-strategy/pkg/laps"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

// MinCurveSamples is the number of laps a tyre life needs to appear in a curve
const MinCurveSamples = 2

type CurvePoint struct {
	TyreLife   int     `json:"tyreLife"`
	AvgLapTime float64 `json:"avgLapTime"`
	StdLapTime float64 `json:"stdLapTime"`
	Count      int     `json:"count"`
}

// Curves aggregates the clean laps of each dry compound by tyre life.
// Tyre life values seen less than MinCurveSamples times are dropped unless
// no value reaches that count. Compounds without clean laps are omitted.
func Curves(table []model.LapRecord) map[model.Compound][]CurvePoint {
	ret := map[model.Compound][]CurvePoint{}
	for _, c := range model.DryCompounds {
		filtered := laps.FilterCompound(table, c)
		if len(filtered) == 0 {
			continue
		}
		all := aggregate(filtered)
		points := lo.Filter(all, func(p CurvePoint, _ int) bool {
			return p.Count >= MinCurveSamples
		})
		if len(points) == 0 {
			points = all
		}
		ret[c] = points
	}
	return ret
}

func aggregate(filtered []laps.TimedLap) []CurvePoint {
	byLife := lo.GroupBy(filtered, func(l laps.TimedLap) int { return l.TyreLife })
	ret := make([]CurvePoint, 0, len(byLife))
	for life, group := range byLife {
		values := laps.Seconds(group)
		mean, std, ok := laps.MeanStdDev(values)
		if !ok {
			mean, std = lo.Mean(values), 0
		}
		ret = append(ret, CurvePoint{
			TyreLife:   life,
			AvgLapTime: mean,
			StdLapTime: std,
			Count:      len(group),
		})
	}
	slices.SortFunc(ret, func(a, b CurvePoint) int { return cmp.Compare(a.TyreLife, b.TyreLife) })
	return ret
}
