// Package strategy contains the commands working on race sessions.
package strategy

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-strategy/log"
	"github.com/mpapenbr/iracelog-strategy/pkg/config"
	"github.com/mpapenbr/iracelog-strategy/pkg/service"
	"github.com/mpapenbr/iracelog-strategy/pkg/session"
)

// sessionFlags selects the session a command works on
type sessionFlags struct {
	year        int
	race        string
	sessionType string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.year, "year", 0, "season of the race")
	cmd.Flags().StringVar(&f.race, "race", "", "name of the race (directory name)")
	cmd.Flags().StringVarP(&f.sessionType, "session", "s", session.DefaultType,
		"session type (R, S, Q, ...)")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("race")
}

func (f *sessionFlags) key() (session.Key, error) {
	k := session.Key{Year: f.year, Race: f.race, Type: f.sessionType}
	return k, k.Validate()
}

// newService wires the strategy service with the configured session source
func newService(cmd *cobra.Command) *service.StrategyService {
	logger := log.GetFromContext(cmd.Context())
	store := session.NewStore(
		session.NewFileSource(config.LapsDir),
		session.WithMaxConcurrentLoads(config.MaxConcurrentLoads),
		session.WithLogger(logger.Named("session")),
	)
	return service.NewStrategyService(store,
		service.WithLogger(logger.Named("service")),
		service.WithFuelCorrection(config.FuelCorrection),
		service.WithSearchWorkers(config.SearchWorkers),
	)
}

// render writes v as JSON or calls text with a tabwriter on w
func render(w io.Writer, v any, text func(tw *tabwriter.Writer)) error {
	switch config.Output {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputText, "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		text(tw)
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format %q", config.Output)
	}
}
