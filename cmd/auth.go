package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"rollcall/internal/api"
	"rollcall/internal/app"
	"rollcall/internal/cli"
	"rollcall/internal/formatting"
)

// newAuthCmd creates the auth command group.
func newAuthCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the rollcall session",
		Long: `Manage the session used by every other rollcall command.

A session is a pair of credentials: a short-lived access credential sent with
each request and a refresh credential used to renew it. Renewal happens
automatically; you only need to log in again when it fails.

Examples:
  rollcall auth login                  # Prompt for ID card number and password
  rollcall auth register               # Create an account
  rollcall auth status                 # Show the stored session
  rollcall auth refresh                # Force a renewal now
  rollcall auth logout                 # End the session`,
	}

	cmd.AddCommand(newAuthLoginCmd(rt))
	cmd.AddCommand(newAuthRegisterCmd(rt))
	cmd.AddCommand(newAuthLogoutCmd(rt))
	cmd.AddCommand(newAuthRefreshCmd(rt))
	cmd.AddCommand(newAuthStatusCmd(rt))
	cmd.AddCommand(newAuthWatchCmd(rt))
	return cmd
}

// readPassword returns the first line of r when fromStdin is set, and asks
// for it otherwise.
func readPassword(rt *runtime, r io.Reader, fromStdin bool, given string) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return "", fmt.Errorf("no password on stdin")
		}
		return line, nil
	}
	return cli.Ask(rt.prompter, given, "Password: ", true)
}

func newAuthLoginCmd(rt *runtime) *cobra.Command {
	var (
		idCard        string
		password      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		Long: `Exchange an ID card number and password for a session.

Missing values are prompted for; the password is never echoed.

Examples:
  rollcall auth login
  rollcall auth login --id-card 4242
  echo "$PASSWORD" | rollcall auth login --id-card 4242 --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.application(cmd)
			if err != nil {
				return err
			}

			id, err := cli.Ask(rt.prompter, idCard, "ID card number: ", false)
			if err != nil {
				return err
			}
			secret, err := readPassword(rt, cmd.InOrStdin(), passwordStdin, password)
			if err != nil {
				return err
			}

			err = rt.progress("Logging in...", func() error {
				_, err := a.Client().Login(cmd.Context(), id, secret)
				return err
			})
			if err != nil {
				return cli.DescribeLogin(err, a.Server())
			}

			if !rt.flags.Quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", a.Server())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&idCard, "id-card", "", "ID card number")
	cmd.Flags().StringVar(&password, "password", "", "Password (prefer the prompt or --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newAuthRegisterCmd(rt *runtime) *cobra.Command {
	var (
		req           api.RegisterRequest
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account. Registration does not log you in.

Examples:
  rollcall auth register --username ada --id-card 4242`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.application(cmd)
			if err != nil {
				return err
			}

			if req.Username, err = cli.Ask(rt.prompter, req.Username, "Username: ", false); err != nil {
				return err
			}
			if req.IDCardNumber, err = cli.Ask(rt.prompter, req.IDCardNumber, "ID card number: ", false); err != nil {
				return err
			}
			if req.Password, err = readPassword(rt, cmd.InOrStdin(), passwordStdin, req.Password); err != nil {
				return err
			}

			var user *api.User
			err = rt.progress("Registering...", func() error {
				user, err = a.Client().Register(cmd.Context(), req)
				return err
			})
			if err != nil {
				return rt.describe(err)
			}

			f, err := rt.formatter(cmd)
			if err != nil {
				return err
			}
			return f.Data(user)
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Username")
	cmd.Flags().StringVar(&req.IDCardNumber, "id-card", "", "ID card number")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (prefer the prompt or --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newAuthLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Long: `End the session. The refresh credential is revoked on the server
and removed locally. The local session ends even when the server cannot be
reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.application(cmd)
			if err != nil {
				return err
			}
			if _, ok := a.Services().Store.Get(); !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			if err := a.Client().Logout(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out locally")
				return rt.describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newAuthRefreshCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Renew the access credential now",
		Long: `Renew the access credential using the stored refresh credential.

A failed renewal ends the session, exactly as it would during any other
command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}

			err = rt.progress("Renewing session...", func() error {
				_, err := a.Services().Coordinator.Renew(cmd.Context())
				return err
			})
			if err != nil {
				return &cli.SessionEndedError{Server: a.Server(), Reason: err}
			}

			if !rt.flags.Quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Access credential renewed")
			}
			return nil
		},
	}
}

func authStatus(a *app.Application) formatting.AuthStatus {
	return formatting.AuthStatus{
		Server:     a.Server(),
		StorePath:  a.Services().Store.Path(),
		Credential: a.CredentialStatus(),
	}
}

func newAuthStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Long: `Show the stored session. The access credential is decoded locally
without verifying it; the server remains the authority on validity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.application(cmd)
			if err != nil {
				return err
			}
			f, err := rt.formatter(cmd)
			if err != nil {
				return err
			}
			return f.AuthStatus(authStatus(a))
		},
	}
}

func newAuthWatchCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show the session each time it changes",
		Long: `Print the session status now and again whenever another rollcall
process logs in, renews or ends the session. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.application(cmd)
			if err != nil {
				return err
			}
			f, err := rt.formatter(cmd)
			if err != nil {
				return err
			}

			var mu sync.Mutex
			show := func() {
				mu.Lock()
				defer mu.Unlock()
				if err := f.AuthStatus(authStatus(a)); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			}

			show()
			ctx := cmd.Context()
			if err := a.WatchCredentials(ctx, show); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
}
