// Package lapdata provides builders for lap tables used in tests
package lapdata

import (
	"math"
	"time"

	"github.com/aarondl/opt/omit"

	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

type LapOption func(l *model.LapRecord)

// Secs converts seconds to time.Duration
func Secs(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}

// Lap creates an accurate lap on SOFT tyres in stint 1 with tyre life equal to the lap number
func Lap(driver string, lapNo int, sec float64, opts ...LapOption) model.LapRecord {
	ret := model.LapRecord{
		Driver:     driver,
		LapNumber:  lapNo,
		LapTime:    omit.From(Secs(sec)),
		Compound:   model.CompoundSoft,
		TyreLife:   lapNo,
		Stint:      1,
		IsAccurate: true,
	}
	for _, opt := range opts {
		opt(&ret)
	}
	return ret
}

func WithCompound(c model.Compound) LapOption {
	return func(l *model.LapRecord) { l.Compound = c }
}

func WithStint(stint int) LapOption {
	return func(l *model.LapRecord) { l.Stint = stint }
}

func WithTyreLife(tyreLife int) LapOption {
	return func(l *model.LapRecord) { l.TyreLife = tyreLife }
}

func WithPitIn(sessionSec float64) LapOption {
	return func(l *model.LapRecord) { l.PitInTime = omit.From(Secs(sessionSec)) }
}

func WithPitOut(sessionSec float64) LapOption {
	return func(l *model.LapRecord) { l.PitOutTime = omit.From(Secs(sessionSec)) }
}

func WithTrackStatus(status string) LapOption {
	return func(l *model.LapRecord) { l.TrackStatus = omit.From(status) }
}

func WithInaccurate() LapOption {
	return func(l *model.LapRecord) { l.IsAccurate = false }
}

func WithoutTime() LapOption {
	return func(l *model.LapRecord) { l.LapTime = omit.Val[time.Duration]{} }
}

// StintLaps creates n consecutive laps of one stint starting at firstLap.
// The lap time grows linearly: base + deg*tyreLife.
//
//nolint:whitespace // readability
func StintLaps(
	driver string, stint int, c model.Compound, firstLap, n int, base, deg float64,
) []model.LapRecord {
	ret := make([]model.LapRecord, 0, n)
	for i := 0; i < n; i++ {
		tyreLife := i + 1
		ret = append(ret, Lap(driver, firstLap+i, base+deg*float64(tyreLife),
			WithCompound(c), WithStint(stint), WithTyreLife(tyreLife)))
	}
	return ret
}
