package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rollcall/internal/api"
	"rollcall/internal/app"
)

// newAttendanceCmd creates the attendance command group.
func newAttendanceCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Mark attendance and show statistics",
		Long: `Mark or unmark a day's attendance for a subject and show statistics.

Days marked no_class do not count towards the percentage. A percentage of
75 or more is considered safe.

Examples:
  rollcall attendance mark 3 --status present          # Today
  rollcall attendance mark 3 --status absent --date 2025-03-14
  rollcall attendance unmark 3 --date 2025-03-14
  rollcall attendance records 3
  rollcall attendance stats 3
  rollcall attendance overall`,
	}

	cmd.AddCommand(newAttendanceMarkCmd(rt))
	cmd.AddCommand(newAttendanceUnmarkCmd(rt))

	cmd.AddCommand(&cobra.Command{
		Use:   "records <subject-id>",
		Short: "List the marks of a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("subject", args[0])
			if err != nil {
				return err
			}
			a, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			f, err := rt.formatter(cmd)
			if err != nil {
				return err
			}

			records, err := a.Client().SubjectRecords(cmd.Context(), id)
			if err != nil {
				return rt.describe(err)
			}
			return f.Records(records)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats <subject-id>",
		Short: "Show attendance statistics of a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("subject", args[0])
			if err != nil {
				return err
			}
			a, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			f, err := rt.formatter(cmd)
			if err != nil {
				return err
			}

			stats, err := a.Client().SubjectStats(cmd.Context(), id)
			if err != nil {
				return rt.describe(err)
			}
			return f.Stats(fmt.Sprintf("Subject %d", id), *stats)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "overall",
		Short: "Show attendance statistics across all subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			f, err := rt.formatter(cmd)
			if err != nil {
				return err
			}

			stats, err := a.Client().OverallStats(cmd.Context())
			if err != nil {
				return rt.describe(err)
			}
			return f.Stats("Overall", *stats)
		},
	})

	return cmd
}

// markDate returns date, or today in local time when empty.
func markDate(a *app.Application, date string) (string, error) {
	if date == "" {
		return a.Clock().Now().Format(api.DateFormat), nil
	}
	if _, err := time.Parse(api.DateFormat, date); err != nil {
		return "", fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
	}
	return date, nil
}

func newAttendanceMarkCmd(rt *runtime) *cobra.Command {
	var date, status string

	cmd := &cobra.Command{
		Use:   "mark <subject-id>",
		Short: "Mark a day as present, absent or no_class",
		Long: `Mark a day as present, absent or no_class. Marking a day that is
already marked replaces the mark.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("subject", args[0])
			if err != nil {
				return err
			}
			st, err := api.ParseAttendanceStatus(status)
			if err != nil {
				return err
			}
			a, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			day, err := markDate(a, date)
			if err != nil {
				return err
			}
			f, err := rt.formatter(cmd)
			if err != nil {
				return err
			}

			record, err := a.Client().MarkAttendance(cmd.Context(), api.Mark{Subject: id, Date: day, Status: st})
			if err != nil {
				return rt.describe(err)
			}
			return f.Records([]api.AttendanceRecord{*record})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to mark, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "present, absent or no_class")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newAttendanceUnmarkCmd(rt *runtime) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "unmark <subject-id>",
		Short: "Remove the mark of a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("subject", args[0])
			if err != nil {
				return err
			}
			a, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			day, err := markDate(a, date)
			if err != nil {
				return err
			}

			if err := a.Client().UnmarkAttendance(cmd.Context(), id, day); err != nil {
				return rt.describe(err)
			}
			if !rt.flags.Quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Unmarked subject %d on %s\n", id, day)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to unmark, YYYY-MM-DD (default today)")
	return cmd
}
