package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/aarondl/opt/omit"
)

type Compound string

const (
	CompoundSoft         Compound = "SOFT"
	CompoundMedium       Compound = "MEDIUM"
	CompoundHard         Compound = "HARD"
	CompoundIntermediate Compound = "INTERMEDIATE"
	CompoundWet          Compound = "WET"
	CompoundUnknown      Compound = "UNKNOWN"
)

// DryCompounds are the compounds a degradation model is always available for.
// The order is used for enumeration wherever compounds are iterated.
var DryCompounds = []Compound{CompoundSoft, CompoundMedium, CompoundHard}

// ParseCompound maps a compound name (case insensitive) to a Compound.
// Unrecognized values yield CompoundUnknown and an error.
func ParseCompound(s string) (Compound, error) {
	c := Compound(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CompoundSoft, CompoundMedium, CompoundHard,
		CompoundIntermediate, CompoundWet, CompoundUnknown:
		return c, nil
	}
	return CompoundUnknown, fmt.Errorf("unknown compound %q", s)
}

func (c Compound) IsDry() bool {
	return c == CompoundSoft || c == CompoundMedium || c == CompoundHard
}

// Track status codes which count as racing conditions
const (
	TrackStatusGreen  = "1"
	TrackStatusYellow = "2"
)

// LapRecord is a single timed lap of a driver as delivered by the session source.
// Values are never modified after loading.
type LapRecord struct {
	Driver    string                  `json:"driver"`
	LapNumber int                     `json:"lapNumber"`
	LapTime   omit.Val[time.Duration] `json:"lapTime"`
	Compound  Compound                `json:"compound"`

	// laps driven on the current set of tyres
	TyreLife int `json:"tyreLife"`
	// stint number, counted per driver
	Stint int `json:"stint"`

	// pit lane timestamps in session time
	PitInTime   omit.Val[time.Duration] `json:"pitInTime"`
	PitOutTime  omit.Val[time.Duration] `json:"pitOutTime"`
	TrackStatus omit.Val[string]        `json:"trackStatus"`
	IsAccurate  bool                    `json:"isAccurate"`
}

// LapSeconds returns the lap time in seconds. ok is false if the lap has no time.
func (l *LapRecord) LapSeconds() (sec float64, ok bool) {
	d, ok := l.LapTime.Get()
	if !ok {
		return 0, false
	}
	return d.Seconds(), true
}

// IsPitLap reports whether the car entered or left the pit lane on this lap
func (l *LapRecord) IsPitLap() bool {
	return l.PitInTime.IsSet() || l.PitOutTime.IsSet()
}

// IsRacingStatus reports whether the lap was driven under green or yellow flag.
// Laps without status information count as racing laps.
func (l *LapRecord) IsRacingStatus() bool {
	status, ok := l.TrackStatus.Get()
	if !ok || status == "" {
		return true
	}
	return status == TrackStatusGreen || status == TrackStatusYellow
}
