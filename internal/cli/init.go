package cli

import (
	"fmt"

	"sectiongrid/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the seed layout to the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := store.Store{Dir: app.Dir}
			if err := ws.Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			_, ok, err := ws.LoadLayout(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if ok && !force {
				return writeErr(cmd, fmt.Errorf("workspace %s already has a layout (use --force to overwrite)", ws.Dir))
			}
			if ok {
				if err := ws.Reset(); err != nil {
					return writeErr(cmd, err)
				}
			}
			seed := app.cfg.Seed.Sections
			if err := ws.SaveLayout(cmd.Context(), seed); err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Info("workspace initialized", "dir", ws.Dir, "sections", len(seed))

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":      ws.Dir,
					"sections": seed,
				},
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing layout and clear the diff log")
	return cmd
}
