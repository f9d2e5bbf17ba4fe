package cli

import (
	"fmt"

	"sectiongrid/internal/model"
	"sectiongrid/internal/store"

	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, _, err := loadBoard(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": board.Board()})
		},
	}
}

func newItemCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "item <section,item>",
		Short: "Print the item at a coordinate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := model.ParseCoordinate(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			board, _, err := loadBoard(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := board.ItemAt(at)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("item %s: %w", at, err))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"at": at, "item": it}})
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	var fromRaw, toRaw string

	cmd := &cobra.Command{
		Use:   "move --from S,I --to S,I",
		Short: "Run one drag gesture: begin, move, end",
		Long: `Run a full drag gesture against the saved board.

Coordinates are section,item. --from is read on the board with drop slots
(one trailing slot per section); --to is read after the item at --from has been
taken out. The diff stream of all three steps is printed and appended to the log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := model.ParseCoordinate(fromRaw)
			if err != nil {
				return writeErr(cmd, err)
			}
			to, err := model.ParseCoordinate(toRaw)
			if err != nil {
				return writeErr(cmd, err)
			}
			board, ws, err := loadBoard(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}

			sess := store.NewSession()
			begin, err := board.BeginDrag()
			if err != nil {
				return writeErr(cmd, fmt.Errorf("begin drag: %w", err))
			}
			sess.Record(store.OpBegin, begin)

			moved, err := board.MoveItem(from, to)
			if err != nil {
				// Leave the saved layout untouched; the in-memory drag is discarded with the process.
				return writeErr(cmd, fmt.Errorf("move %s -> %s: %w", from, to, err))
			}
			sess.Record(store.OpMove, moved)

			end, err := board.EndDrag()
			if err != nil {
				return writeErr(cmd, fmt.Errorf("end drag: %w", err))
			}
			sess.Record(store.OpEnd, end)

			final := board.Board()
			if err := ws.SaveLayout(cmd.Context(), final.Payloads()); err != nil {
				return writeErr(cmd, fmt.Errorf("save layout: %w", err))
			}
			if err := ws.AppendSession(cmd.Context(), sess); err != nil {
				return writeErr(cmd, fmt.Errorf("append diff log: %w", err))
			}
			app.logger.Info("moved", "from", from.String(), "to", to.String(), "session", sess.ID)

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"session": sess.ID,
					"diffs": map[string]any{
						"begin": begin,
						"move":  moved,
						"end":   end,
					},
					"board": final,
				},
			})
		},
	}
	cmd.Flags().StringVar(&fromRaw, "from", "", "Source coordinate (section,item)")
	cmd.Flags().StringVar(&toRaw, "to", "", "Destination coordinate (section,item)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
