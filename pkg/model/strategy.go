package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type ModelSource int

const (
	// estimated from per stint regressions
	SourceFitted ModelSource = iota
	// derived from the compounds which could be fitted
	SourceSynthesized
	// fixed values, no compound could be fitted
	SourceDefault
)

func (s ModelSource) String() string {
	switch s {
	case SourceFitted:
		return "fitted"
	case SourceSynthesized:
		return "synthesized"
	case SourceDefault:
		return "default"
	}
	return fmt.Sprintf("ModelSource(%d)", int(s))
}

func (s ModelSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type (
	// DegradationModel estimates a lap time as BaseTime + DegRate * tyreLife
	DegradationModel struct {
		BaseTime float64     `json:"baseTime"`
		DegRate  float64     `json:"degRate"`
		Source   ModelSource `json:"source"`
		Samples  int         `json:"samples"` // number of stints used for the fit
	}
	Models map[Compound]DegradationModel

	PitLossEstimate struct {
		AvgPitTime float64 `json:"avgPitTime"`
		MinPitTime float64 `json:"minPitTime"`
		MaxPitTime float64 `json:"maxPitTime"`
		NumStops   int     `json:"numStops"`
	}
)

// LapTime returns the model estimate for the given tyre life
func (m DegradationModel) LapTime(tyreLife int) float64 {
	return m.BaseTime + m.DegRate*float64(tyreLife)
}

type (
	Stint struct {
		Compound Compound `json:"compound" yaml:"compound"`
		Laps     int      `json:"laps" yaml:"laps"`
	}
	StrategyPlan []Stint

	SimulatedLap struct {
		Lap      int      `json:"lap"`
		TimeSec  float64  `json:"timeSec"`
		Compound Compound `json:"compound"`
		TyreLife int      `json:"tyreLife"`
		IsPitLap bool     `json:"isPitLap"`
	}
)

func (p StrategyPlan) TotalLaps() int {
	return lo.SumBy(p, func(s Stint) int { return s.Laps })
}

// Compounds returns the distinct compounds in order of first use
func (p StrategyPlan) Compounds() []Compound {
	return lo.Uniq(lo.Map(p, func(s Stint, _ int) Compound { return s.Compound }))
}

// Stops is the number of pit stops the plan requires
func (p StrategyPlan) Stops() int {
	return max(len(p)-1, 0)
}

func (p StrategyPlan) String() string {
	parts := lo.Map(p, func(s Stint, _ int) string {
		return fmt.Sprintf("%s(%d)", s.Compound, s.Laps)
	})
	return strings.Join(parts, " -> ")
}

type (
	StintInfo struct {
		Stint    int      `json:"stint"`
		Compound Compound `json:"compound"`
		StartLap int      `json:"startLap"`
		EndLap   int      `json:"endLap"`
		Laps     int      `json:"laps"`
	}
	LapTime struct {
		Lap      int      `json:"lap"`
		TimeSec  float64  `json:"timeSec"`
		Compound Compound `json:"compound"`
		TyreLife int      `json:"tyreLife"`
	}
	PitTransition struct {
		Lap          int      `json:"lap"`
		FromCompound Compound `json:"fromCompound"`
		ToCompound   Compound `json:"toCompound"`
	}
	// ActualStrategy is what a driver actually did in a session
	ActualStrategy struct {
		Stints    []StintInfo     `json:"stints"`
		LapTimes  []LapTime       `json:"lapTimes"`
		PitLaps   []PitTransition `json:"pitLaps"`
		TotalTime float64         `json:"totalTime"`
		TotalLaps int             `json:"totalLaps"`
	}

	StintAnalysis struct {
		Stint       int      `json:"stint"` // 1-based index into the plan
		Compound    Compound `json:"compound"`
		Laps        int      `json:"laps"`
		Delta       float64  `json:"delta"` // simulated - actual, seconds
		Explanation string   `json:"explanation"`
	}

	OptimalResult struct {
		Stops     int          `json:"stops"`
		TotalTime float64      `json:"totalTime"`
		Plan      StrategyPlan `json:"plan"`
	}
)
