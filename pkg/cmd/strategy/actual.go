package strategy

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-strategy/pkg/format"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

func NewActualCmd() *cobra.Command {
	var sf sessionFlags
	var driver string
	cmd := &cobra.Command{
		Use:   "actual",
		Short: "show the strategy a driver actually used",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := sf.key()
			if err != nil {
				return err
			}
			act, err := newService(cmd).ActualStrategy(cmd.Context(), key, driver)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), act, func(tw *tabwriter.Writer) {
				printActual(tw, act)
			})
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&driver, "driver", "", "driver code")
	_ = cmd.MarkFlagRequired("driver")
	return cmd
}

func printActual(tw *tabwriter.Writer, act *model.ActualStrategy) {
	fmt.Fprintln(tw, "STINT\tCOMPOUND\tLAPS\tRANGE")
	for _, s := range act.Stints {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d-%d\n", s.Stint, s.Compound, s.Laps, s.StartLap, s.EndLap)
	}
	for _, p := range act.PitLaps {
		fmt.Fprintf(tw, "Pit lap %d\t%s -> %s\n", p.Lap, p.FromCompound, p.ToCompound)
	}
	fmt.Fprintf(tw, "Total\t%s (%d laps)\n", format.RaceTime(act.TotalTime), act.TotalLaps)
}
