package strategy

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewDriversCmd() *cobra.Command {
	var sf sessionFlags
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "list the drivers of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := sf.key()
			if err != nil {
				return err
			}
			drivers, err := newService(cmd).Drivers(cmd.Context(), key)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), drivers, func(tw *tabwriter.Writer) {
				for _, d := range drivers {
					fmt.Fprintln(tw, d)
				}
			})
		},
	}
	sf.register(cmd)
	return cmd
}
