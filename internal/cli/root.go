package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/faizmokh/gaji/internal/config"
	"github.com/faizmokh/gaji/internal/files"
	"github.com/faizmokh/gaji/internal/tracker"
	"github.com/faizmokh/gaji/internal/ui"
	"github.com/faizmokh/gaji/internal/version"
)

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(ctx context.Context, d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gaji",
		Short:   "Track weekly riding distances, wages and the attendance bonus.",
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := d.backend()
			if err != nil {
				return err
			}
			logger, err := d.fileLogger()
			if err != nil {
				return err
			}
			m := ui.NewModel(ctx, tracker.NewSession(st, logger), logger)
			if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String(config.KeyConfig, "", "Path to config file (default: ./.gaji.yaml or ~/.gaji.yaml)")
	flags.String(config.KeyAPIURL, config.DefaultAPIURL, "Base URL of the record store")
	flags.String(config.KeyBackend, config.BackendHTTP, "Store backend: http or sqlite")
	flags.String(config.KeyDBPath, d.manager.DBPath(), "SQLite database path for the sqlite backend and serve")
	flags.String(config.KeyLogLevel, config.DefaultLogLevel, "Log level: debug, info, warn or error")
	flags.String(config.KeyColor, config.DefaultColor, "Colour table output: auto, yes or no")
	// Flags are registered above, so binding cannot fail.
	_ = d.viper.BindPFlags(flags)

	cmd.AddCommand(
		newWeeksCommand(ctx, d),
		newAddCommand(ctx, d),
		newSaveCommand(ctx, d),
		newShowCommand(ctx, d),
		newHistoryCommand(ctx, d),
		newDeleteCommand(ctx, d),
		newServeCommand(ctx, d),
		newVersionCommand(),
	)

	return cmd
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	manager, err := files.NewManager("")
	if err != nil {
		return err
	}
	d := newDeps(manager)
	defer d.Close()

	cmd := NewRootCommand(ctx, d)
	return cmd.ExecuteContext(ctx)
}

// Main is a helper used by cmd/gaji/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
