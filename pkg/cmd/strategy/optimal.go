package strategy

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-strategy/pkg/format"
)

func NewOptimalCmd() *cobra.Command {
	var sf sessionFlags
	cmd := &cobra.Command{
		Use:   "optimal",
		Short: "search the fastest plan for 1, 2 and 3 stops",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := sf.key()
			if err != nil {
				return err
			}
			res, err := newService(cmd).Optimal(cmd.Context(), key)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), res, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "STOPS\tPLAN\tTOTAL")
				for _, r := range res {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Stops, r.Plan, format.RaceTime(r.TotalTime))
				}
			})
		},
	}
	sf.register(cmd)
	return cmd
}
