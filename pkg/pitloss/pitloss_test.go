//nolint:whitespace,lll,funlen // readability
package pitloss

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/iracelog-strategy/pkg/model"
	ld "github.com/mpapenbr/iracelog-strategy/testsupport/lapdata"
)

// pitLap creates a lap with pit in and out timestamps dur seconds apart
func pitLap(driver string, lapNo int, dur float64) model.LapRecord {
	return ld.Lap(driver, lapNo, 110, ld.WithPitIn(1000), ld.WithPitOut(1000+dur))
}

func TestEstimate_Timestamps(t *testing.T) {
	table := []model.LapRecord{
		ld.Lap("A", 1, 90),
		pitLap("A", 2, 23.5),
		pitLap("B", 2, 24.1),
		pitLap("C", 2, 68.0), // too long
		pitLap("D", 2, 10.0), // too short
		ld.Lap("A", 3, 90),
	}
	got := Estimate(table)
	assert.InDelta(t, 23.8, got.AvgPitTime, 1e-6)
	assert.InDelta(t, 23.5, got.MinPitTime, 1e-6)
	assert.InDelta(t, 24.1, got.MaxPitTime, 1e-6)
	assert.Equal(t, 2, got.NumStops)
}

func TestEstimate_BoundsExclusive(t *testing.T) {
	table := []model.LapRecord{
		pitLap("A", 2, 15.0),
		pitLap("B", 2, 60.0),
		pitLap("C", 2, 59.5),
	}
	got := Estimate(table)
	assert.Equal(t, 1, got.NumStops)
	assert.InDelta(t, 59.5, got.AvgPitTime, 1e-6)
}

func TestEstimate_OnlyOneTimestamp(t *testing.T) {
	// in and out on different laps do not count as a recorded stop,
	// the stint change is used instead
	table := []model.LapRecord{
		ld.Lap("A", 1, 90, ld.WithStint(1)),
		ld.Lap("A", 2, 90, ld.WithStint(1)),
		ld.Lap("A", 3, 90, ld.WithStint(1)),
		ld.Lap("A", 4, 110, ld.WithStint(1), ld.WithPitIn(400)),
		ld.Lap("A", 5, 112, ld.WithStint(2), ld.WithPitOut(425)),
		ld.Lap("A", 6, 90, ld.WithStint(2)),
	}
	got := Estimate(table)
	assert.Equal(t, 1, got.NumStops)
	// clean laps are 1,2,3,6 with mean 90
	assert.InDelta(t, 22.0, got.AvgPitTime, 1e-6)
}

func TestEstimate_StintChanges(t *testing.T) {
	table := []model.LapRecord{
		ld.Lap("A", 1, 90, ld.WithStint(1)),
		ld.Lap("A", 2, 91, ld.WithStint(1)),
		ld.Lap("A", 3, 125, ld.WithStint(2)),
		ld.Lap("A", 4, 90, ld.WithStint(2)),
		ld.Lap("B", 1, 90, ld.WithStint(1)),
		ld.Lap("B", 2, 89, ld.WithStint(1)),
		ld.Lap("B", 3, 170, ld.WithStint(2)), // outside of inferred range
		ld.Lap("C", 1, 90, ld.WithStint(1)),
		ld.Lap("C", 2, 109, ld.WithStint(2), ld.WithoutTime()),
	}
	got := Estimate(table)
	// clean mean over A1,A2,A3,A4,B1,B2,B3,C1
	avg := (90.0 + 91 + 125 + 90 + 90 + 89 + 170 + 90) / 8
	assert.Equal(t, 1, got.NumStops)
	assert.InDelta(t, 125-avg, got.AvgPitTime, 1e-6)
}

func TestEstimate_Defaults(t *testing.T) {
	tests := []struct {
		name  string
		table []model.LapRecord
	}{
		{name: "empty", table: nil},
		{name: "no stops", table: []model.LapRecord{ld.Lap("A", 1, 90), ld.Lap("A", 2, 90)}},
		{name: "implausible stops", table: []model.LapRecord{pitLap("A", 2, 5), pitLap("B", 2, 90)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Default, Estimate(tt.table))
		})
	}
}
