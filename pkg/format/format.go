// Package format renders lap and race times for output.
package format

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds v half away from zero to places decimal places
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// LapTime formats seconds as M:SS.sss
func LapTime(sec float64) string {
	ms := toMillis(sec)
	minutes := ms / 60000
	return fmt.Sprintf("%d:%s", minutes, secPart(ms%60000))
}

// RaceTime formats seconds as H:MM:SS.sss. Hours are omitted if zero.
func RaceTime(sec float64) string {
	ms := toMillis(sec)
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%s", hours, minutes, secPart(ms%60000))
	}
	return fmt.Sprintf("%d:%s", minutes, secPart(ms%60000))
}

// Delta formats a signed difference in seconds, e.g. +1.234s
func Delta(sec float64) string {
	return fmt.Sprintf("%+.3fs", Round(sec, 3))
}

func toMillis(sec float64) int64 {
	return decimal.NewFromFloat(sec).Shift(3).Round(0).IntPart()
}

func secPart(ms int64) string {
	return fmt.Sprintf("%02d.%03d", ms/1000, ms%1000)
}
