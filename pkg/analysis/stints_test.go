//nolint:whitespace,lll,funlen // readability
package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-strategy/pkg/actual"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
	"github.com/mpapenbr/iracelog-strategy/pkg/racestints"
	ld "github.com/mpapenbr/iracelog-strategy/testsupport/lapdata"
)

func sampleModels() model.Models {
	return model.Models{
		model.CompoundSoft:   {BaseTime: 92.0, DegRate: 0.08},
		model.CompoundMedium: {BaseTime: 93.0, DegRate: 0.05},
		model.CompoundHard:   {BaseTime: 94.0, DegRate: 0.03},
	}
}

// constLaps creates laps from..to of one stint with the same lap time
func constLaps(stint int, c model.Compound, from, to int, sec float64) []model.LapRecord {
	ret := []model.LapRecord{}
	for lap := from; lap <= to; lap++ {
		ret = append(ret, ld.Lap("A", lap, sec,
			ld.WithStint(stint), ld.WithCompound(c), ld.WithTyreLife(lap-from+1)))
	}
	return ret
}

func reconstruct(t *testing.T, table []model.LapRecord) *model.ActualStrategy {
	t.Helper()
	ret, ok := actual.Reconstruct(table, "A")
	require.True(t, ok)
	return ret
}

func TestAnalyzeStints_WellMatched(t *testing.T) {
	plan := model.StrategyPlan{
		{Compound: model.CompoundMedium, Laps: 3},
		{Compound: model.CompoundHard, Laps: 2},
	}
	sim := racestints.Simulate(sampleModels(), plan, 20.0, 5)
	table := []model.LapRecord{}
	for _, s := range sim {
		stint := 1
		if s.Lap > 3 {
			stint = 2
		}
		table = append(table, ld.Lap("A", s.Lap, s.TimeSec,
			ld.WithStint(stint), ld.WithCompound(s.Compound), ld.WithTyreLife(s.TyreLife)))
	}
	got := AnalyzeStints(sampleModels(), plan, reconstruct(t, table), 20.0, 5)
	require.Len(t, got, 2)
	for i, a := range got {
		assert.Equal(t, i+1, a.Stint)
		assert.InDelta(t, 0.0, a.Delta, 1e-6)
		assert.Equal(t, "Well matched: within 0.0s of the actual stint.", a.Explanation)
	}
	assert.Equal(t, model.CompoundMedium, got[0].Compound)
	assert.Equal(t, 3, got[0].Laps)
}

func TestAnalyzeStints_TyreCliff(t *testing.T) {
	models := model.Models{
		model.CompoundSoft: {BaseTime: 90.0, DegRate: 0.1},
		model.CompoundHard: {BaseTime: 91.0, DegRate: 0.02},
	}
	plan := model.StrategyPlan{
		{Compound: model.CompoundSoft, Laps: 20},
		{Compound: model.CompoundHard, Laps: 10},
	}
	table := constLaps(1, model.CompoundSoft, 1, 19, 90.0)
	table = append(table, ld.Lap("A", 20, 110.0,
		ld.WithStint(1), ld.WithCompound(model.CompoundSoft), ld.WithTyreLife(20)))
	table = append(table, constLaps(2, model.CompoundHard, 21, 30, 91.0)...)

	got := AnalyzeStints(models, plan, reconstruct(t, table), 20.0, 30)
	require.Len(t, got, 2)
	assert.InDelta(t, 21.0, got[0].Delta, 1e-6)
	assert.Equal(t,
		"SOFT tyres are 2.0s slower by lap 20 of the stint, losing 21.0s against actual. Pitting earlier avoids the drop-off.",
		got[0].Explanation)
	assert.InDelta(t, 1.1, got[1].Delta, 1e-6)
	assert.Equal(t, "Lost 1.1s against the actual stint.", got[1].Explanation)
}

func TestAnalyzeStints_PitLapDifference(t *testing.T) {
	plan := model.StrategyPlan{
		{Compound: model.CompoundMedium, Laps: 10},
		{Compound: model.CompoundHard, Laps: 30},
	}
	table := constLaps(1, model.CompoundMedium, 1, 20, 92.0)
	table = append(table, constLaps(2, model.CompoundHard, 21, 40, 93.0)...)

	got := AnalyzeStints(sampleModels(), plan, reconstruct(t, table), 22.0, 40)
	require.Len(t, got, 2)
	assert.Greater(t, got[0].Delta, 0.0)
	assert.Contains(t, got[0].Explanation, "Pitted 10 laps earlier than the actual stop on lap 20")
	// last stint has no stop, mixed actual compounds
	assert.Contains(t, got[1].Explanation, "Lost ")
}

func TestAnalyzeStints_PitLapLater(t *testing.T) {
	plan := model.StrategyPlan{
		{Compound: model.CompoundHard, Laps: 30},
		{Compound: model.CompoundMedium, Laps: 10},
	}
	table := constLaps(1, model.CompoundMedium, 1, 20, 92.0)
	table = append(table, constLaps(2, model.CompoundHard, 21, 40, 93.0)...)

	got := AnalyzeStints(sampleModels(), plan, reconstruct(t, table), 22.0, 40)
	require.Len(t, got, 2)
	assert.Contains(t, got[0].Explanation, "Pitted 10 laps later than the actual stop on lap 20")
}

func TestAnalyzeStints_CompoundChoice(t *testing.T) {
	plan := model.StrategyPlan{
		{Compound: model.CompoundHard, Laps: 5},
		{Compound: model.CompoundMedium, Laps: 5},
	}
	table := constLaps(1, model.CompoundMedium, 1, 4, 92.0)
	table = append(table, ld.Lap("A", 5, 112.0,
		ld.WithStint(1), ld.WithCompound(model.CompoundMedium), ld.WithTyreLife(5)))
	table = append(table, constLaps(2, model.CompoundHard, 6, 10, 95.0)...)

	got := AnalyzeStints(sampleModels(), plan, reconstruct(t, table), 20.0, 10)
	require.Len(t, got, 2)
	assert.Greater(t, got[0].Delta, 0.0)
	assert.Contains(t, got[0].Explanation, "HARD was ")
	assert.Contains(t, got[0].Explanation, "slower than the MEDIUM actually used")
	assert.Less(t, got[1].Delta, 0.0)
	assert.Contains(t, got[1].Explanation, "MEDIUM was ")
	assert.Contains(t, got[1].Explanation, "faster than the HARD actually used")
}

func TestAnalyzeStints_Gained(t *testing.T) {
	plan := model.StrategyPlan{
		{Compound: model.CompoundSoft, Laps: 5},
		{Compound: model.CompoundHard, Laps: 5},
	}
	table := constLaps(1, model.CompoundSoft, 1, 5, 95.0)
	table = append(table, constLaps(2, model.CompoundHard, 6, 10, 97.0)...)
	got := AnalyzeStints(sampleModels(), plan, reconstruct(t, table), 0.0, 10)
	require.Len(t, got, 2)
	// 5 * 92 + 0.08 * 15 = 461.2 vs 475
	assert.InDelta(t, -13.8, got[0].Delta, 1e-6)
	assert.Equal(t, "Gained 13.8s against the actual stint.", got[0].Explanation)
}

func TestAnalyzeStints_SkipsStintsWithoutActualLaps(t *testing.T) {
	plan := model.StrategyPlan{
		{Compound: model.CompoundSoft, Laps: 5},
		{Compound: model.CompoundHard, Laps: 5},
	}
	table := constLaps(1, model.CompoundSoft, 1, 5, 92.0)
	got := AnalyzeStints(sampleModels(), plan, reconstruct(t, table), 20.0, 10)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Stint)
}

func TestAnalyzeStints_NoActual(t *testing.T) {
	plan := model.StrategyPlan{
		{Compound: model.CompoundSoft, Laps: 5},
		{Compound: model.CompoundHard, Laps: 5},
	}
	assert.Empty(t, AnalyzeStints(sampleModels(), plan, nil, 20.0, 10))
}

func TestAnalyzeStints_Idempotent(t *testing.T) {
	plan := model.StrategyPlan{
		{Compound: model.CompoundMedium, Laps: 10},
		{Compound: model.CompoundHard, Laps: 30},
	}
	table := constLaps(1, model.CompoundMedium, 1, 20, 92.0)
	table = append(table, constLaps(2, model.CompoundHard, 21, 40, 93.0)...)
	act := reconstruct(t, table)
	first := AnalyzeStints(sampleModels(), plan, act, 22.0, 40, racestints.WithFuelCorrection(true))
	for range 5 {
		assert.Equal(t, first, AnalyzeStints(sampleModels(), plan, act, 22.0, 40, racestints.WithFuelCorrection(true)))
	}
}
