package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rollcall/internal/api"
)

// newTimetableCmd creates the timetable command group.
func newTimetableCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Show and edit the weekly timetable",
		Long: `Show and edit the weekly timetable of your subjects.

Examples:
  rollcall timetable today
  rollcall timetable show 3
  rollcall timetable add 3 --day tue --start 09:00 --end 10:30
  rollcall timetable set-days 3 mon wed fri`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "List the classes scheduled today",
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

			entries, err := a.Client().TodayClasses(cmd.Context())
			if err != nil {
				return rt.describe(err)
			}
			return f.Timetable(entries)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <subject-id>",
		Short: "List the weekly slots of a subject",
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

			entries, err := a.Client().SubjectTimetable(cmd.Context(), id)
			if err != nil {
				return rt.describe(err)
			}
			return f.Timetable(entries)
		},
	})

	cmd.AddCommand(newTimetableAddCmd(rt))

	cmd.AddCommand(&cobra.Command{
		Use:   "set-days <subject-id> <day>...",
		Short: "Replace the days a subject is held on",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("subject", args[0])
			if err != nil {
				return err
			}
			days := make([]api.Weekday, 0, len(args)-1)
			for _, arg := range args[1:] {
				d, err := api.ParseWeekday(arg)
				if err != nil {
					return err
				}
				days = append(days, d)
			}
			a, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}

			if err := a.Client().SetTimetableDays(cmd.Context(), id, days); err != nil {
				return rt.describe(err)
			}
			if !rt.flags.Quiet {
				names := make([]string, len(days))
				for i, d := range days {
					names[i] = string(d)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Subject %d is held on %s\n", id, strings.Join(names, ", "))
			}
			return nil
		},
	})

	return cmd
}

// clockTime normalizes "HH:MM" or "HH:MM:SS" to the backend's HH:MM:SS.
func clockTime(flag, value string) (*string, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ":")
	if len(parts) == 2 {
		value += ":00"
		parts = append(parts, "00")
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid --%s %q: want HH:MM", flag, value)
	}
	var h, m, s int
	if _, err := fmt.Sscanf(value, "%d:%d:%d", &h, &m, &s); err != nil || h > 23 || m > 59 || s > 59 || h < 0 || m < 0 || s < 0 {
		return nil, fmt.Errorf("invalid --%s %q: want HH:MM", flag, value)
	}
	formatted := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	return &formatted, nil
}

func newTimetableAddCmd(rt *runtime) *cobra.Command {
	var day, start, end string

	cmd := &cobra.Command{
		Use:   "add <subject-id>",
		Short: "Add or replace a weekly slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("subject", args[0])
			if err != nil {
				return err
			}
			weekday, err := api.ParseWeekday(day)
			if err != nil {
				return err
			}
			startTime, err := clockTime("start", start)
			if err != nil {
				return err
			}
			endTime, err := clockTime("end", end)
			if err != nil {
				return err
			}
			a, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}

			entry := api.TimetableEntry{Subject: id, DayOfWeek: weekday, StartTime: startTime, EndTime: endTime}
			if err := a.Client().AddTimetableEntry(cmd.Context(), entry); err != nil {
				return rt.describe(err)
			}
			if !rt.flags.Quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Subject %d scheduled on %s\n", id, weekday)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day of week (mon..sun)")
	cmd.Flags().StringVar(&start, "start", "", "Start time, HH:MM (optional)")
	cmd.Flags().StringVar(&end, "end", "", "End time, HH:MM (optional)")
	_ = cmd.MarkFlagRequired("day")
	return cmd
}
