package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/faizmokh/gaji/internal/report"
)

func newHistoryCommand(ctx context.Context, d *deps) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the attendance bonus for every week.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(outputFlag)
			if err != nil {
				return err
			}
			session, err := d.session(ctx)
			if err != nil {
				return err
			}
			return report.WriteHistory(cmd.OutOrStdout(), session.History(), format)
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", string(report.FormatTable), "Output format: table, json, csv or yaml")

	return cmd
}
