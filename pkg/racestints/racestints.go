// Package racestints simulates strategy plans lap by lap.
package racestints

import (
	"fmt"
	"time"

	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

type (
	PartType int
	Part     interface {
		Type() PartType
		Output() string
	}
	StintPart interface {
		Part
		Compound() model.Compound
		Laps() int
		LapStart() int
		LapEnd() int
		StintTime() time.Duration
	}
	PitPart interface {
		Part
		Lap() int
		PitTime() time.Duration
	}
)

const (
	PartTypeStint PartType = iota
	PartTypePit
)

type (
	stintPart struct {
		compound  model.Compound
		laps      int
		lapStart  int
		lapEnd    int
		stintTime time.Duration
	}
	pitPart struct {
		lap     int
		pitTime time.Duration
	}
)

func toDur(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

// Parts condenses simulated laps into alternating stint and pit parts.
// The pit loss is reported by the pit part and not included in the stint time.
func Parts(laps []model.SimulatedLap, pitLoss float64) []Part {
	ret := make([]Part, 0)
	var cur *stintPart
	var stintSec float64
	for i := range laps {
		l := &laps[i]
		if cur == nil {
			cur = &stintPart{compound: l.Compound, lapStart: l.Lap}
			stintSec = 0
		}
		stintSec += l.TimeSec
		cur.laps++
		cur.lapEnd = l.Lap
		if l.IsPitLap {
			stintSec -= pitLoss
		}
		if l.IsPitLap || i == len(laps)-1 {
			cur.stintTime = toDur(stintSec)
			ret = append(ret, cur)
			cur = nil
		}
		if l.IsPitLap {
			ret = append(ret, &pitPart{lap: l.Lap, pitTime: toDur(pitLoss)})
		}
	}
	return ret
}

func (s stintPart) Type() PartType {
	return PartTypeStint
}

func (s stintPart) Compound() model.Compound {
	return s.compound
}

func (s stintPart) Laps() int {
	return s.laps
}

func (s stintPart) LapStart() int {
	return s.lapStart
}

func (s stintPart) LapEnd() int {
	return s.lapEnd
}

func (s stintPart) StintTime() time.Duration {
	return s.stintTime
}

func (s stintPart) Output() string {
	return fmt.Sprintf("%d-%d (%d) %s: %s",
		s.lapStart, s.lapEnd, s.laps, s.compound, s.stintTime.Round(time.Millisecond))
}

func (p pitPart) Type() PartType {
	return PartTypePit
}

func (p pitPart) Lap() int {
	return p.lap
}

func (p pitPart) PitTime() time.Duration {
	return p.pitTime
}

func (p pitPart) Output() string {
	return fmt.Sprintf("Pit lap %d %s", p.lap, p.pitTime.Round(time.Millisecond))
}
