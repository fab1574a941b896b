//nolint:funlen // ok for tests
package strategy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-strategy/pkg/config"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
	"github.com/mpapenbr/iracelog-strategy/pkg/racestints"
	"github.com/mpapenbr/iracelog-strategy/pkg/service"
)

// writeSession creates a 20 lap race of VER: 10 laps SOFT, stop on lap 11, 10 laps HARD
func writeSession(t *testing.T) {
	t.Helper()
	rows := []string{}
	for lap := 1; lap <= 20; lap++ {
		compound, stint, life, base, deg := "SOFT", 1, lap, 90.0, 0.1
		if lap > 10 {
			compound, stint, life, base, deg = "HARD", 2, lap-10, 91.0, 0.03
		}
		pit := ""
		if lap == 11 {
			pit = `, "pitInTime": 1000.0, "pitOutTime": 1021.5`
		}
		rows = append(rows, fmt.Sprintf(
			`{"driver": "VER", "lapNumber": %d, "lapTime": %.3f, "compound": %q, `+
				`"tyreLife": %d, "stint": %d, "trackStatus": "1", "isAccurate": true%s}`,
			lap, base+deg*float64(life), compound, life, stint, pit))
	}
	dir := t.TempDir()
	raceDir := filepath.Join(dir, "2024", "Monza")
	require.NoError(t, os.MkdirAll(raceDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(raceDir, "R.json"),
		[]byte(`{"laps": [`+strings.Join(rows, ",\n")+`]}`), 0o600))

	oldDir, oldOutput, oldWorkers := config.LapsDir, config.Output, config.SearchWorkers
	t.Cleanup(func() {
		config.LapsDir, config.Output, config.SearchWorkers = oldDir, oldOutput, oldWorkers
	})
	config.LapsDir = dir
	config.Output = config.OutputText
	config.SearchWorkers = 2
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

var monzaArgs = []string{"--year", "2024", "--race", "Monza"}

func TestDriversCmd(t *testing.T) {
	writeSession(t)
	out, err := run(t, NewDriversCmd(), monzaArgs...)
	require.NoError(t, err)
	assert.Equal(t, "VER\n", out)

	_, err = run(t, NewDriversCmd(), "--year", "2024", "--race", "Spa")
	assert.Error(t, err)

	_, err = run(t, NewDriversCmd(), "--year", "2024")
	assert.Error(t, err)
}

func TestPitStatsCmd_JSON(t *testing.T) {
	writeSession(t)
	config.Output = config.OutputJSON
	out, err := run(t, NewPitStatsCmd(), monzaArgs...)
	require.NoError(t, err)
	var got model.PitLossEstimate
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.NumStops)
	assert.InDelta(t, 21.5, got.AvgPitTime, 1e-9)
}

func TestDegradationCmd(t *testing.T) {
	writeSession(t)
	out, err := run(t, NewDegradationCmd(), append(monzaArgs, "--curves")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Race laps: 20")
	assert.Contains(t, out, "fitted")
	assert.Contains(t, out, "synthesized")
	assert.Contains(t, out, "TYRE LIFE")
}

func TestActualCmd(t *testing.T) {
	writeSession(t)
	out, err := run(t, NewActualCmd(), append(monzaArgs, "--driver", "VER")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Pit lap 10")
	assert.Contains(t, out, "SOFT -> HARD")

	_, err = run(t, NewActualCmd(), append(monzaArgs, "--driver", "HAM")...)
	assert.ErrorIs(t, err, service.ErrDriverNotFound)
}

func TestSimulateCmd(t *testing.T) {
	writeSession(t)
	out, err := run(t, NewSimulateCmd(), append(monzaArgs,
		"--driver", "VER", "--stint", "SOFT:10", "--stint", "HARD:10", "--parts")...)
	require.NoError(t, err)
	assert.Contains(t, out, "SOFT(10) -> HARD(10)")
	assert.Contains(t, out, "Pit lap 10")
	assert.Contains(t, out, "Best 1-stop")
	assert.Contains(t, out, "Best 3-stop")

	_, err = run(t, NewSimulateCmd(), append(monzaArgs, "--stint", "SOFT:10", "--stint", "HARD:5")...)
	assert.ErrorIs(t, err, racestints.ErrInvalidPlan)

	_, err = run(t, NewSimulateCmd(), append(monzaArgs,
		"--stint", "SOFT:10", "--plan", "plan.yaml")...)
	assert.Error(t, err)
}

func TestOptimalCmd_JSON(t *testing.T) {
	writeSession(t)
	config.Output = config.OutputJSON
	out, err := run(t, NewOptimalCmd(), monzaArgs...)
	require.NoError(t, err)
	var got []model.OptimalResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	for i, r := range got {
		assert.Equal(t, i+1, r.Stops)
		assert.Equal(t, 20, r.Plan.TotalLaps())
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	writeSession(t)
	config.Output = "xml"
	_, err := run(t, NewDriversCmd(), monzaArgs...)
	assert.Error(t, err)
}
