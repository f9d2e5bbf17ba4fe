package cli

import (
	"fmt"

	"sectiongrid/internal/docs"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	var width int

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show usage documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `sectiongrid docs` to list topics)", topic))
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), docs.Render(body, width))
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for rendered output")
	return cmd
}
