package cli

import (
	"sectiongrid/internal/store"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List logged diffs (oldest-first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			evs, err := store.Store{Dir: app.Dir}.ReadEvents()
			if err != nil {
				return writeErr(cmd, err)
			}
			if limit > 0 && len(evs) > limit {
				evs = evs[len(evs)-limit:]
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Only the newest N diffs (0 = all)")
	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved layout and diff log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := store.Store{Dir: app.Dir}
			if err := ws.Reset(); err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Info("workspace reset", "dir", ws.Dir)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"dir": ws.Dir, "reset": true}})
		},
	}
}
