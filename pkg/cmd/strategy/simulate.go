package strategy

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-strategy/log"
	"github.com/mpapenbr/iracelog-strategy/pkg/format"
	"github.com/mpapenbr/iracelog-strategy/pkg/racestints"
	"github.com/mpapenbr/iracelog-strategy/pkg/service"
)

func NewSimulateCmd() *cobra.Command {
	var sf sessionFlags
	var driver, planFileName string
	var stints []string
	var showParts bool
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "simulate a strategy plan and compare it with the actual race",
		Example: `  rse simulate --year 2024 --race Monza --driver VER --stint MEDIUM:20 --stint HARD:33
  rse simulate --year 2024 --race Monza --driver VER --plan plan.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := sf.key()
			if err != nil {
				return err
			}
			req := &service.SimulateRequest{Key: key, Driver: driver}
			switch {
			case planFileName != "" && len(stints) > 0:
				return errors.New("use either --plan or --stint")
			case planFileName != "":
				req.Plan, err = loadPlanFile(planFileName)
			default:
				req.Plan, err = parseStints(stints)
			}
			if err != nil {
				return err
			}
			report, err := newService(cmd).Simulate(cmd.Context(), req)
			if err != nil {
				return err
			}
			log.GetFromContext(cmd.Context()).Debug("simulated",
				log.String("runId", report.RunID))
			return render(cmd.OutOrStdout(), report, func(tw *tabwriter.Writer) {
				printSimulation(tw, report, showParts)
			})
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&driver, "driver", "", "driver to compare with")
	cmd.Flags().StringVar(&planFileName, "plan", "", "yaml file containing the plan")
	cmd.Flags().StringArrayVar(&stints, "stint", []string{},
		"stint as COMPOUND:LAPS, may be repeated")
	cmd.Flags().BoolVar(&showParts, "parts", false, "print stints and pit stops of the plan")
	return cmd
}

//nolint:whitespace // readability
func printSimulation(
	tw *tabwriter.Writer,
	r *service.SimulationReport,
	showParts bool,
) {
	fmt.Fprintf(tw, "Plan\t%s\n", r.Plan)
	fmt.Fprintf(tw, "Pit loss\t%.3fs\n", r.PitLoss)
	fmt.Fprintf(tw, "Simulated\t%s\n", format.RaceTime(r.UserTotalTime))
	if r.Actual != nil {
		fmt.Fprintf(tw, "Actual\t%s\t%s\n",
			format.RaceTime(r.Actual.TotalTime),
			format.Delta(r.UserTotalTime-r.Actual.TotalTime))
	}
	if showParts {
		fmt.Fprintln(tw)
		for _, p := range racestints.Parts(r.SimulatedLaps, r.PitLoss) {
			fmt.Fprintln(tw, p.Output())
		}
	}
	if len(r.StintAnalysis) > 0 {
		fmt.Fprintln(tw, "\nSTINT\tCOMPOUND\tLAPS\tDELTA\tEXPLANATION")
		for _, a := range r.StintAnalysis {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
				a.Stint, a.Compound, a.Laps, format.Delta(a.Delta), a.Explanation)
		}
	}
	printSuggested(tw, r.Suggested)
}

func printSuggested(tw *tabwriter.Writer, suggested []service.SuggestedStrategy) {
	if len(suggested) == 0 {
		return
	}
	fmt.Fprintln(tw, "\nSUGGESTION\tPLAN\tTOTAL\tDELTA")
	for _, s := range suggested {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			s.Label, s.Plan, format.RaceTime(s.TotalTime), format.Delta(s.DeltaVsActual))
	}
}
