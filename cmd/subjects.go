package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"rollcall/internal/api"
)

// newSubjectsCmd creates the subjects command group.
func newSubjectsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subjects",
		Aliases: []string{"subject"},
		Short:   "Manage tracked subjects",
		Long: `List, inspect, create, update and delete the subjects you track.

Examples:
  rollcall subjects list
  rollcall subjects get 3                    # Stats, records and timetable
  rollcall subjects create --name "Linear Algebra" --code MA201
  rollcall subjects update 3 --name "Linear Algebra II"
  rollcall subjects delete 3`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subjects",
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

			var subjects []api.Subject
			err = rt.progress("Loading subjects...", func() error {
				subjects, err = a.Client().ListSubjects(cmd.Context())
				return err
			})
			if err != nil {
				return rt.describe(err)
			}
			return f.Subjects(subjects)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <subject-id>",
		Short: "Show a subject with its stats, records and timetable",
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

			var detail *api.SubjectDetail
			err = rt.progress("Loading subject...", func() error {
				detail, err = a.Client().SubjectDetail(cmd.Context(), id)
				return err
			})
			if err != nil {
				return rt.describe(err)
			}
			return f.SubjectDetail(detail)
		},
	})

	cmd.AddCommand(newSubjectCreateCmd(rt))
	cmd.AddCommand(newSubjectUpdateCmd(rt))

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <subject-id>",
		Short: "Delete a subject and its attendance",
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
			if err := a.Client().DeleteSubject(cmd.Context(), id); err != nil {
				return rt.describe(err)
			}
			if !rt.flags.Quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Subject %d deleted\n", id)
			}
			return nil
		},
	})

	return cmd
}

func newSubjectCreateCmd(rt *runtime) *cobra.Command {
	var in api.SubjectInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Name == "" {
				return errors.New("--name is required")
			}
			a, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			f, err := rt.formatter(cmd)
			if err != nil {
				return err
			}

			subject, err := a.Client().CreateSubject(cmd.Context(), in)
			if err != nil {
				return rt.describe(err)
			}
			return f.Subjects([]api.Subject{*subject})
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Subject name")
	cmd.Flags().StringVar(&in.Code, "code", "", "Subject code (optional)")
	return cmd
}

func newSubjectUpdateCmd(rt *runtime) *cobra.Command {
	var in api.SubjectInput

	cmd := &cobra.Command{
		Use:   "update <subject-id>",
		Short: "Rename a subject or change its code",
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

			// Unset flags keep the current values.
			current, err := a.Client().GetSubject(cmd.Context(), id)
			if err != nil {
				return rt.describe(err)
			}
			if !cmd.Flags().Changed("name") {
				in.Name = current.Name
			}
			if !cmd.Flags().Changed("code") {
				in.Code = current.Code
			}

			subject, err := a.Client().UpdateSubject(cmd.Context(), id, in)
			if err != nil {
				return rt.describe(err)
			}
			return f.Subjects([]api.Subject{*subject})
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "New subject name")
	cmd.Flags().StringVar(&in.Code, "code", "", "New subject code")
	return cmd
}
