// Package laps contains the cleaning and lookup helpers used on session lap tables.
package laps

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

// OutlierSigma is the distance from the mean (in standard deviations)
// beyond which a lap time is treated as an outlier.
const OutlierSigma = 2.0

// TimedLap is a lap accepted by the filter together with its lap time in seconds
type TimedLap struct {
	*model.LapRecord
	Seconds float64
}

// CleanLaps returns the laps without pit activity that are accurate and have a lap time.
func CleanLaps(laps []model.LapRecord) []TimedLap {
	ret := make([]TimedLap, 0, len(laps))
	for i := range laps {
		l := &laps[i]
		if l.IsPitLap() || !l.IsAccurate {
			continue
		}
		if sec, ok := l.LapSeconds(); ok {
			ret = append(ret, TimedLap{LapRecord: l, Seconds: sec})
		}
	}
	return ret
}

// Filter cleans a lap table. Pit laps, inaccurate laps, laps driven under
// safety car conditions and lap time outliers are removed.
// An empty result is a valid outcome.
func Filter(laps []model.LapRecord) []TimedLap {
	clean := lo.Filter(CleanLaps(laps), func(l TimedLap, _ int) bool {
		return l.IsRacingStatus()
	})
	return RemoveOutliers(clean)
}

// FilterCompound applies Filter to the laps driven on compound c
func FilterCompound(laps []model.LapRecord, c model.Compound) []TimedLap {
	return Filter(lo.Filter(laps, func(l model.LapRecord, _ int) bool {
		return l.Compound == c
	}))
}

// RemoveOutliers drops laps more than OutlierSigma standard deviations away
// from the mean lap time. Nothing is removed if the deviation is zero or undefined.
func RemoveOutliers(laps []TimedLap) []TimedLap {
	mean, std, ok := MeanStdDev(Seconds(laps))
	if !ok || std == 0 {
		return laps
	}
	lower := mean - OutlierSigma*std
	upper := mean + OutlierSigma*std
	return lo.Filter(laps, func(l TimedLap, _ int) bool {
		return l.Seconds >= lower && l.Seconds <= upper
	})
}

// MeanStdDev computes the mean and the sample standard deviation.
// ok is false if less than two values are given.
func MeanStdDev(values []float64) (mean, std float64, ok bool) {
	if len(values) < 2 {
		return 0, 0, false
	}
	mean, std = stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		return mean, 0, false
	}
	return mean, std, true
}

func Seconds(laps []TimedLap) []float64 {
	return lo.Map(laps, func(l TimedLap, _ int) float64 { return l.Seconds })
}
