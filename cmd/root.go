package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"rollcall/internal/app"
	"rollcall/internal/cli"
	"rollcall/internal/formatting"
	"rollcall/internal/session"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates there is no usable session: nothing is
	// stored, or the stored session could not be renewed.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the server rejected the login.
	ExitCodeAuthFailed = 3
)

// runtime carries the state shared by one command tree: parsed flags and the
// lazily bootstrapped application.
type runtime struct {
	flags       cli.CommandFlags
	dumpMetrics bool

	// prompter asks for missing login input; nil disables prompting.
	prompter cli.Prompter

	app       *app.Application
	navigator *cli.TerminalNavigator
}

func newRuntime() *runtime {
	return &runtime{
		prompter: &cli.ReadlinePrompter{Stdin: os.Stdin, Stdout: os.Stderr, Stderr: os.Stderr},
	}
}

// application bootstraps the pipeline on first use.
func (r *runtime) application(cmd *cobra.Command) (*app.Application, error) {
	if r.app != nil {
		return r.app, nil
	}

	level, err := r.flags.Level()
	if err != nil {
		return nil, err
	}

	color := !r.flags.NoColor && os.Getenv("NO_COLOR") == ""
	r.navigator = cli.NewTerminalNavigator(cmd.ErrOrStderr(), color)

	cfg := app.NewConfig(level, r.flags.ConfigPath, r.flags.Server)
	cfg.LogOutput = cmd.ErrOrStderr()
	cfg.Navigator = r.navigator

	application, err := app.NewApplication(cfg)
	if err != nil {
		return nil, err
	}
	r.app = application
	return application, nil
}

// requireSession bootstraps the application and fails early when nothing is stored.
func (r *runtime) requireSession(cmd *cobra.Command) (*app.Application, error) {
	application, err := r.application(cmd)
	if err != nil {
		return nil, err
	}
	if _, ok := application.Services().Store.Get(); !ok {
		return nil, &cli.AuthRequiredError{Server: application.Server()}
	}
	return application, nil
}

// formatter renders to the command's output stream.
func (r *runtime) formatter(cmd *cobra.Command) (formatting.Formatter, error) {
	opts, err := r.flags.FormatterOptions(cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	return formatting.NewFormatter(opts), nil
}

// progress runs fn behind a spinner unless --quiet or a machine readable
// output format is selected.
func (r *runtime) progress(suffix string, fn func() error) error {
	quiet := r.flags.Quiet || r.flags.OutputFormat == string(formatting.FormatJSON) || r.flags.OutputFormat == string(formatting.FormatYAML)
	return cli.Progress(quiet, suffix, fn)
}

// describe turns pipeline errors into actionable CLI errors.
func (r *runtime) describe(err error) error {
	server := ""
	if r.app != nil {
		server = r.app.Server()
	}
	described := cli.Describe(err, server)
	if described == nil || r.navigator == nil {
		return described
	}

	// The pipeline ended the session while this command ran, whatever error
	// the client surfaced for it.
	var ended *cli.SessionEndedError
	if _, over := r.navigator.Ended(); over && !errors.As(described, &ended) && !errors.Is(described, context.Canceled) {
		return &cli.SessionEndedError{Server: server, Reason: err}
	}
	return described
}

// writeMetrics dumps this process's pipeline metrics in the Prometheus text
// format.
func (r *runtime) writeMetrics(w io.Writer) error {
	if r.app == nil {
		return nil
	}
	families, err := r.app.Services().Registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// newRootCmd builds the complete command tree around rt.
func newRootCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollcall",
		Short: "Track class attendance from the terminal",
		Long: `rollcall is a client for the attendance tracking API.

It keeps your session in ~/.config/rollcall/credentials, renews the access
credential transparently when it expires and asks you to log in again only
when the session cannot be renewed.

Examples:
  rollcall auth login                      # Start a session
  rollcall dashboard                       # Subjects, overall attendance, today's classes
  rollcall attendance mark 3 --status present
  rollcall subjects get 3 -o yaml`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
	}

	cli.RegisterCommonFlags(cmd, &rt.flags)
	cmd.PersistentFlags().BoolVar(&rt.dumpMetrics, "metrics", false, "Print request pipeline metrics to stderr when the command finishes")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAuthCmd(rt))
	cmd.AddCommand(newSubjectsCmd(rt))
	cmd.AddCommand(newAttendanceCmd(rt))
	cmd.AddCommand(newTimetableCmd(rt))
	cmd.AddCommand(newDashboardCmd(rt))
	cmd.AddCommand(newConfigCmd(rt))

	return cmd
}

var (
	rootRuntime = newRuntime()
	// rootCmd represents the base command when called without any subcommands.
	rootCmd = newRootCmd(rootRuntime)
)

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, rootCmd, rootRuntime)
	stop()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// execute runs root and dumps metrics when asked, whatever the outcome.
func execute(ctx context.Context, root *cobra.Command, rt *runtime) error {
	root.SetVersionTemplate(`{{printf "rollcall version %s\n" .Version}}`)

	err := root.ExecuteContext(ctx)
	if rt.dumpMetrics {
		if mErr := rt.writeMetrics(root.ErrOrStderr()); mErr != nil {
			fmt.Fprintln(root.ErrOrStderr(), mErr)
		}
	}
	return err
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var authRequired *cli.AuthRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}

	var sessionEnded *cli.SessionEndedError
	if errors.As(err, &sessionEnded) {
		return ExitCodeAuthRequired
	}

	if errors.Is(err, session.ErrRenewalFailed) || errors.Is(err, session.ErrRepeatedAuthorizationFailure) ||
		errors.Is(err, session.ErrNoCredentials) {
		return ExitCodeAuthRequired
	}

	var authFailed *cli.AuthFailedError
	if errors.As(err, &authFailed) {
		return ExitCodeAuthFailed
	}

	// Default to general error
	return ExitCodeError
}
