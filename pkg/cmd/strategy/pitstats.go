package strategy

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewPitStatsCmd() *cobra.Command {
	var sf sessionFlags
	cmd := &cobra.Command{
		Use:   "pitstats",
		Short: "show the estimated pit stop loss of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := sf.key()
			if err != nil {
				return err
			}
			est, err := newService(cmd).PitStats(cmd.Context(), key)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), est, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "Average\t%.3fs\n", est.AvgPitTime)
				fmt.Fprintf(tw, "Min\t%.3fs\n", est.MinPitTime)
				fmt.Fprintf(tw, "Max\t%.3fs\n", est.MaxPitTime)
				fmt.Fprintf(tw, "Stops\t%d\n", est.NumStops)
			})
		},
	}
	sf.register(cmd)
	return cmd
}
