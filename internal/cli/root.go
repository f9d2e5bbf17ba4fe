package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"sectiongrid/internal/config"
	"sectiongrid/internal/format"
	"sectiongrid/internal/reorder"
	"sectiongrid/internal/store"
	"sectiongrid/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir      string
	Format   string
	Pretty   bool
	LogLevel string

	cfg    config.Config
	logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "sectiongrid",
		Short:        "Drag-reorder items across sections (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  sectiongrid

  # Scriptable gesture: move the last item of section 0 to the end of section 2
  sectiongrid move --from 0,4 --to 2,3

  # Print the current board as EDN
  sectiongrid show --format edn --pretty
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.resolve(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("SECTIONGRID_DIR", ""), "Workspace dir (default: workspace.dir from config)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (json|edn|yaml; default: output.format from config)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newItemCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// resolve fills unset flags from config and builds the logger.
func (app *App) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.cfg = cfg

	if strings.TrimSpace(app.Dir) == "" {
		app.Dir = cfg.Workspace.Dir
	}
	if strings.TrimSpace(app.Format) == "" {
		app.Format = cfg.Output.Format
	}
	if !cmd.Flags().Changed("pretty") {
		app.Pretty = cfg.Output.Pretty
	}
	if strings.TrimSpace(app.LogLevel) == "" {
		app.LogLevel = cfg.Log.Level
	}
	lvl, err := config.ParseLogLevel(app.LogLevel)
	if err != nil {
		return err
	}
	app.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	return nil
}

func runTUI(ctx context.Context, app *App) error {
	board, ws, err := loadBoard(ctx, app)
	if err != nil {
		return err
	}
	return tui.Run(board, tui.Options{
		Workspace:        ws,
		SectionLabel:     app.cfg.UI.SectionLabel,
		PlaceholderLabel: app.cfg.UI.PlaceholderLabel,
		Logger:           app.logger,
	})
}

// loadBoard builds a store from the persisted layout, falling back to the configured seed.
func loadBoard(ctx context.Context, app *App) (*reorder.Store, store.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ws := store.Store{Dir: app.Dir}
	sections, ok, err := ws.LoadLayout(ctx)
	if err != nil {
		return nil, ws, fmt.Errorf("load layout: %w", err)
	}
	if !ok {
		app.logger.Debug("no saved layout; using seed", "dir", ws.Dir)
		sections = app.cfg.Seed.Sections
	}
	return reorder.New(sections, reorder.WithLogger(app.logger)), ws, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
