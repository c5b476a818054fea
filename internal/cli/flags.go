package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"rollcall/internal/config"
	"rollcall/internal/formatting"
	"rollcall/pkg/logging"
)

// CommandFlags holds the flag values shared by every rollcall command.
type CommandFlags struct {
	// OutputFormat specifies the desired output format (table, wide, json, yaml)
	OutputFormat string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// NoColor disables colored table output
	NoColor bool
	// Quiet suppresses progress indicators and non-essential output
	Quiet bool
	// Debug enables debug logging of the request pipeline
	Debug bool
	// LogLevel names the log level when --debug is not set
	LogLevel string
	// ConfigPath specifies a custom configuration directory path
	ConfigPath string
	// Server overrides server.baseURL
	Server string
}

// RegisterCommonFlags registers the shared flags as persistent flags on cmd.
//
// The registered flags are:
//   - --output/-o: Output format (table, wide, json, yaml), default: "table"
//   - --no-headers: Suppress header row in table output
//   - --no-color: Disable colored output (also honours NO_COLOR)
//   - --quiet/-q: Suppress non-essential output
//   - --debug: Enable debug logging
//   - --log-level: Log level (debug, info, warn, error), default: "warn"
//   - --config-path: Configuration directory (env: ROLLCALL_CONFIG_PATH)
//   - --server: Backend base URL (env: ROLLCALL_SERVER)
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.PersistentFlags().StringVarP(&flags.OutputFormat, "output", "o", "table", "Output format (table, wide, json, yaml)")
	cmd.PersistentFlags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", "", "Configuration directory (env: "+config.EnvConfigPath+")")
	cmd.PersistentFlags().StringVar(&flags.Server, "server", "", "Backend base URL (env: "+config.EnvServer+")")
}

// FormatterOptions validates the output flags and converts them for
// formatting.NewFormatter.
func (f *CommandFlags) FormatterOptions(out io.Writer) (formatting.Options, error) {
	format, err := formatting.ParseFormat(f.OutputFormat)
	if err != nil {
		return formatting.Options{}, err
	}
	return formatting.Options{
		Format:    format,
		NoHeaders: f.NoHeaders,
		Color:     !f.NoColor && os.Getenv("NO_COLOR") == "",
		Out:       out,
	}, nil
}

// Level returns the log level selected by --debug or --log-level.
func (f *CommandFlags) Level() (logging.LogLevel, error) {
	if f.Debug {
		return logging.LevelDebug, nil
	}
	if f.LogLevel == "" {
		return logging.LevelWarn, nil
	}
	return logging.ParseLevel(f.LogLevel)
}
