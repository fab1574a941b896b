// Package pitloss estimates the time lost by a pit stop from session laps.
package pitloss

import (
	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-strategy/log"
	"github.com/mpapenbr/iracelog-strategy/pkg/laps"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

// plausible ranges (exclusive) in seconds
const (
	MinPitDuration  = 15.0
	MaxPitDuration  = 60.0
	MinInferredLoss = 15.0
	MaxInferredLoss = 40.0
)

// Default is used when the session provides no usable pit stop data
var Default = model.PitLossEstimate{
	AvgPitTime: 22.0,
	MinPitTime: 20.0,
	MaxPitTime: 25.0,
	NumStops:   0,
}

// Estimate computes pit loss statistics. Recorded pit lane timestamps are
// preferred. If there are none, the loss is inferred from the lap times at
// stint changes. Default is returned if both approaches fail.
func Estimate(table []model.LapRecord) model.PitLossEstimate {
	logger := log.Default().Named("pitloss")
	samples := fromTimestamps(table)
	if len(samples) == 0 {
		logger.Debug("no pit timestamps, inferring from stint changes")
		samples = fromStintChanges(table)
	}
	if len(samples) == 0 {
		logger.Debug("no pit loss data, using defaults")
		return Default
	}
	return model.PitLossEstimate{
		AvgPitTime: lo.Mean(samples),
		MinPitTime: lo.Min(samples),
		MaxPitTime: lo.Max(samples),
		NumStops:   len(samples),
	}
}

// fromTimestamps collects pit lane durations of laps carrying both timestamps
func fromTimestamps(table []model.LapRecord) []float64 {
	ret := []float64{}
	byDriver := laps.ByDriver(table)
	for _, driver := range laps.Drivers(table) {
		for _, l := range byDriver[driver] {
			in, okIn := l.PitInTime.Get()
			out, okOut := l.PitOutTime.Get()
			if !okIn || !okOut {
				continue
			}
			d := (out - in).Seconds()
			if d > MinPitDuration && d < MaxPitDuration {
				ret = append(ret, d)
			}
		}
	}
	return ret
}

// fromStintChanges compares the first lap of a new stint with the session
// wide mean of clean lap times.
func fromStintChanges(table []model.LapRecord) []float64 {
	clean := laps.CleanLaps(table)
	if len(clean) == 0 {
		return nil
	}
	avg := lo.Mean(laps.Seconds(clean))
	ret := []float64{}
	byDriver := laps.ByDriver(table)
	for _, driver := range laps.Drivers(table) {
		dl := byDriver[driver]
		for i := 1; i < len(dl); i++ {
			cur, prev := dl[i], dl[i-1]
			if cur.Stint == prev.Stint {
				continue
			}
			_, prevOk := prev.LapSeconds()
			sec, curOk := cur.LapSeconds()
			if !prevOk || !curOk {
				continue
			}
			loss := sec - avg
			if loss > MinInferredLoss && loss < MaxInferredLoss {
				ret = append(ret, loss)
			}
		}
	}
	return ret
}
