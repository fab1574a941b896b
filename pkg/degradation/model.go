// Package degradation builds linear tyre degradation models from session laps.
//
// Each stint of a driver is fitted on its own so the decreasing fuel load
// within a race does not mix into the degradation rate.
package degradation

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/iracelog-strategy/log"
	"github.com/mpapenbr/iracelog-strategy/pkg/laps"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

const (
	// MinStintLaps is the number of clean laps a stint needs for a regression
	MinStintLaps = 3
	// slopes outside of (MinDegRate,MaxDegRate) are treated as noise
	MinDegRate = 0.0
	MaxDegRate = 0.2

	DefaultBaseTime = 95.0
)

// compoundDefault describes a compound relative to a reference base time
type compoundDefault struct {
	offset  float64
	degRate float64
}

var defaults = map[model.Compound]compoundDefault{
	model.CompoundSoft:   {offset: -0.5, degRate: 0.065},
	model.CompoundMedium: {offset: 0.0, degRate: 0.045},
	model.CompoundHard:   {offset: 0.5, degRate: 0.030},
}

type stintFit struct {
	baseTime float64
	degRate  float64
}

// Build returns a model for each dry compound.
// Compounds without enough data are derived from the fitted ones. If nothing
// could be fitted at all, fixed default models are used.
func Build(table []model.LapRecord) model.Models {
	logger := log.Default().Named("degradation")
	ret := model.Models{}
	for _, c := range model.DryCompounds {
		fits := fitStints(laps.FilterCompound(table, c))
		if len(fits) == 0 {
			logger.Debug("no usable stints", log.String("compound", string(c)))
			continue
		}
		ret[c] = model.DegradationModel{
			BaseTime: lo.MeanBy(fits, func(f stintFit) float64 { return f.baseTime }),
			DegRate:  lo.MeanBy(fits, func(f stintFit) float64 { return f.degRate }),
			Source:   model.SourceFitted,
			Samples:  len(fits),
		}
	}
	fillMissing(ret)
	for _, c := range model.DryCompounds {
		m := ret[c]
		logger.Debug("model",
			log.String("compound", string(c)),
			log.Float64("baseTime", m.BaseTime),
			log.Float64("degRate", m.DegRate),
			log.String("source", m.Source.String()))
	}
	return ret
}

// fillMissing adds models for the dry compounds not present in models.
func fillMissing(models model.Models) {
	source := model.SourceSynthesized
	ref := DefaultBaseTime
	if len(models) == 0 {
		source = model.SourceDefault
	} else {
		fitted := lo.Filter(model.DryCompounds, func(c model.Compound, _ int) bool {
			_, ok := models[c]
			return ok
		})
		ref = lo.MeanBy(fitted, func(c model.Compound) float64 { return models[c].BaseTime })
	}
	for _, c := range model.DryCompounds {
		if _, ok := models[c]; ok {
			continue
		}
		d := defaults[c]
		models[c] = model.DegradationModel{
			BaseTime: ref + d.offset,
			DegRate:  d.degRate,
			Source:   source,
		}
	}
}

// fitStints performs a regression of lap time against tyre life for every
// driver stint with enough clean laps. Only plausible fits are returned.
func fitStints(filtered []laps.TimedLap) []stintFit {
	keys, groups := laps.GroupByStint(filtered)
	ret := make([]stintFit, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		if len(group) < MinStintLaps {
			continue
		}
		group = laps.RemoveOutliers(group)
		if len(group) < MinStintLaps {
			continue
		}
		fit, ok := fitLinear(group)
		if !ok || fit.degRate <= MinDegRate || fit.degRate >= MaxDegRate {
			continue
		}
		ret = append(ret, fit)
	}
	return ret
}

// fitLinear computes the least squares line through (tyreLife, lapTime).
// ok is false if all laps share the same tyre life.
func fitLinear(group []laps.TimedLap) (stintFit, bool) {
	x := lo.Map(group, func(l laps.TimedLap, _ int) float64 { return float64(l.TyreLife) })
	y := laps.Seconds(group)
	if lo.Min(x) == lo.Max(x) {
		return stintFit{}, false
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return stintFit{baseTime: alpha, degRate: beta}, true
}
