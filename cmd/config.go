package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"rollcall/internal/config"
)

// newConfigCmd creates the config command group.
func newConfigCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the configuration file",
		Long: `Inspect and create config.yaml.

The configuration directory is --config-path, then $ROLLCALL_CONFIG_PATH,
then ~/.config/rollcall. $ROLLCALL_SERVER and --server override
server.baseURL.

Examples:
  rollcall config init --server https://attendance.example.edu/
  rollcall config show
  rollcall config path`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.application(cmd)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(a.Settings())
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ResolveConfigPath(rt.flags.ConfigPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigFile(dir))
			return nil
		},
	})

	cmd.AddCommand(newConfigInitCmd(rt))
	return cmd
}

func newConfigInitCmd(rt *runtime) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config.yaml with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ResolveConfigPath(rt.flags.ConfigPath)
			if err != nil {
				return err
			}
			path := config.ConfigFile(dir)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg := config.GetDefaultConfig()
			if rt.flags.Server != "" {
				cfg.Server.BaseURL = rt.flags.Server
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			if err := config.SaveConfig(dir, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config.yaml")
	return cmd
}
