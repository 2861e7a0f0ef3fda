package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/gaji/internal/ledger"
	"github.com/faizmokh/gaji/internal/report"
)

func newWeeksCommand(ctx context.Context, d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "weeks",
		Short: "List every recorded week in ledger order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := d.session(ctx)
			if err != nil {
				return err
			}
			printWeeks(cmd.OutOrStdout(), session.Weeks(), session.Bonus())
			return nil
		},
	}
}

func newAddCommand(ctx context.Context, d *deps) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an empty week containing the given date.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}
			session, err := d.session(ctx)
			if err != nil {
				return err
			}
			week, err := session.AddWeek(ctx, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", describeWeek(week.WeekID))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Any date in the week, YYYY-MM-DD (default: today)")

	return cmd
}

func newSaveCommand(ctx context.Context, d *deps) *cobra.Command {
	var distances [ledger.DaysInWeek]float64

	cmd := &cobra.Command{
		Use:   "save <week|date>",
		Short: "Set day distances for a week and update the attendance bonus.",
		Long:  "save changes only the days passed as flags; the others keep their stored values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekID, err := resolveWeek(args[0])
			if err != nil {
				return err
			}
			session, err := d.session(ctx)
			if err != nil {
				return err
			}
			if err := session.Select(weekID); err != nil {
				return err
			}
			for i, info := range ledger.Days {
				if cmd.Flags().Changed(info.Key) {
					session.SetDistance(ledger.Day(i), distances[i])
				}
			}

			result, err := session.Save(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Changed {
				fmt.Fprintf(out, "No changes to %s\n", describeWeek(weekID))
				return nil
			}
			fmt.Fprintf(out, "Saved %s  total %s  wage %s\n",
				describeWeek(weekID),
				report.FormatDistance(result.Week.Total()),
				ledger.FormatMoney(ledger.Wage(result.Week)),
			)
			if result.BonusChanged {
				fmt.Fprintf(out, "Next week's bonus: %d\n", result.Bonus)
			}
			return nil
		},
	}

	for i, info := range ledger.Days {
		cmd.Flags().Float64Var(&distances[i], info.Key, 0, info.Label+" distance")
	}

	return cmd
}

func newShowCommand(ctx context.Context, d *deps) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "show <week|date>",
		Short: "Show a week's distances, wage, bonus and income.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(outputFlag)
			if err != nil {
				return err
			}
			weekID, err := resolveWeek(args[0])
			if err != nil {
				return err
			}
			session, err := d.session(ctx)
			if err != nil {
				return err
			}
			if err := session.Select(weekID); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format == report.FormatTable {
				fmt.Fprintln(out, describeWeek(weekID))
			}
			return report.WriteSummary(out, session.Summary(), format)
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", string(report.FormatTable), "Output format: table, json, csv or yaml")

	return cmd
}

func newDeleteCommand(ctx context.Context, d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <week|date>",
		Short: "Delete a week from the ledger.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekID, err := resolveWeek(args[0])
			if err != nil {
				return err
			}
			session, err := d.session(ctx)
			if err != nil {
				return err
			}
			if err := session.DeleteWeek(ctx, weekID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", describeWeek(weekID))
			return nil
		},
	}
}
