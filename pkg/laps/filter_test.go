//nolint:whitespace,lll,funlen // readability
package laps

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/iracelog-strategy/pkg/model"
	ld "github.com/mpapenbr/iracelog-strategy/testsupport/lapdata"
)

func lapNumbers(laps []TimedLap) []int {
	ret := make([]int, len(laps))
	for i := range laps {
		ret[i] = laps[i].LapNumber
	}
	return ret
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		laps []model.LapRecord
		want []int
	}{
		{
			name: "empty",
			laps: []model.LapRecord{},
			want: []int{},
		},
		{
			name: "pit laps removed",
			laps: []model.LapRecord{
				ld.Lap("A", 1, 90),
				ld.Lap("A", 2, 110, ld.WithPitIn(200)),
				ld.Lap("A", 3, 112, ld.WithPitOut(220)),
				ld.Lap("A", 4, 90),
			},
			want: []int{1, 4},
		},
		{
			name: "inaccurate and untimed laps removed",
			laps: []model.LapRecord{
				ld.Lap("A", 1, 90, ld.WithInaccurate()),
				ld.Lap("A", 2, 90, ld.WithoutTime()),
				ld.Lap("A", 3, 90),
			},
			want: []int{3},
		},
		{
			name: "only racing track status kept",
			laps: []model.LapRecord{
				ld.Lap("A", 1, 90, ld.WithTrackStatus("1")),
				ld.Lap("A", 2, 90, ld.WithTrackStatus("2")),
				ld.Lap("A", 3, 90, ld.WithTrackStatus("4")),
				ld.Lap("A", 4, 90, ld.WithTrackStatus("6")),
				ld.Lap("A", 5, 90),
			},
			want: []int{1, 2, 5},
		},
		{
			name: "outlier removed",
			laps: []model.LapRecord{
				ld.Lap("A", 1, 90.0), ld.Lap("A", 2, 90.1), ld.Lap("A", 3, 89.9),
				ld.Lap("A", 4, 90.0), ld.Lap("A", 5, 90.2), ld.Lap("A", 6, 89.8),
				ld.Lap("A", 7, 90.0), ld.Lap("A", 8, 90.1), ld.Lap("A", 9, 89.9),
				ld.Lap("A", 10, 105.0),
			},
			want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
		},
		{
			name: "zero deviation keeps all",
			laps: []model.LapRecord{ld.Lap("A", 1, 90), ld.Lap("A", 2, 90), ld.Lap("A", 3, 90)},
			want: []int{1, 2, 3},
		},
		{
			name: "single lap kept",
			laps: []model.LapRecord{ld.Lap("A", 1, 90)},
			want: []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.laps)
			assert.Equal(t, tt.want, lapNumbers(got))
		})
	}
}

func TestFilterCompound(t *testing.T) {
	laps := []model.LapRecord{
		ld.Lap("A", 1, 90, ld.WithCompound(model.CompoundSoft)),
		ld.Lap("A", 2, 91, ld.WithCompound(model.CompoundHard)),
		ld.Lap("B", 1, 90.5, ld.WithCompound(model.CompoundSoft)),
	}
	got := FilterCompound(laps, model.CompoundSoft)
	assert.Len(t, got, 2)
	for _, l := range got {
		assert.Equal(t, model.CompoundSoft, l.Compound)
	}
	assert.Empty(t, FilterCompound(laps, model.CompoundMedium))
}

func TestMeanStdDev(t *testing.T) {
	_, _, ok := MeanStdDev([]float64{1})
	assert.False(t, ok)

	mean, std, ok := MeanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.True(t, ok)
	assert.InDelta(t, 5.0, mean, 1e-9)
	// sample standard deviation
	assert.InDelta(t, 2.138089935, std, 1e-6)
}
