package cmd

import (
	"github.com/spf13/cobra"

	"rollcall/internal/api"
)

func newDashboardCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show subjects, overall attendance and today's classes",
		Long: `Show subjects, overall attendance and today's classes.

The three are fetched concurrently; if the access credential has expired they
share a single renewal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			f, err := rt.formatter(cmd)
			if err != nil {
				return err
			}

			var d *api.Dashboard
			err = rt.progress("Loading dashboard...", func() error {
				d, err = a.Client().Dashboard(cmd.Context())
				return err
			})
			if err != nil {
				return rt.describe(err)
			}
			return f.Dashboard(d)
		},
	}
}
