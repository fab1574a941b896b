package strategy

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-strategy/pkg/format"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
	"github.com/mpapenbr/iracelog-strategy/pkg/service"
)

func NewDegradationCmd() *cobra.Command {
	var sf sessionFlags
	var showCurves bool
	cmd := &cobra.Command{
		Use:   "degradation",
		Short: "show the tyre degradation models of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := sf.key()
			if err != nil {
				return err
			}
			report, err := newService(cmd).Degradation(cmd.Context(), key)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), report, func(tw *tabwriter.Writer) {
				printDegradation(tw, report, showCurves)
			})
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&showCurves, "curves", false, "print the average lap time per tyre life")
	return cmd
}

func printDegradation(tw *tabwriter.Writer, r *service.DegradationReport, showCurves bool) {
	fmt.Fprintf(tw, "Race laps: %d\n\n", r.TotalLaps)
	fmt.Fprintln(tw, "COMPOUND\tBASE\tDEG/LAP\tSOURCE\tSTINTS")
	for _, c := range model.DryCompounds {
		m := r.Models[c]
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%s\t%d\n",
			c, format.LapTime(m.BaseTime), m.DegRate, m.Source, m.Samples)
	}
	if len(r.FuelEffect) > 0 {
		fmt.Fprintf(tw, "\nFuel effect: %s on lap 1, %s on lap %d\n",
			format.Delta(r.FuelEffect[0].Correction),
			format.Delta(r.FuelEffect[len(r.FuelEffect)-1].Correction),
			len(r.FuelEffect))
	}
	if !showCurves {
		return
	}
	fmt.Fprintln(tw, "\nCOMPOUND\tTYRE LIFE\tAVG\tSTD\tLAPS")
	for _, c := range model.DryCompounds {
		for _, p := range r.Curves[c] {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%.3f\t%d\n",
				c, p.TyreLife, format.LapTime(p.AvgLapTime), p.StdLapTime, p.Count)
		}
	}
}
