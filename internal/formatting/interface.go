// Package formatting renders rollcall results as tables, JSON or YAML.
package formatting

import (
	"fmt"
	"io"
	"os"

	"rollcall/internal/api"
	"rollcall/internal/credentials"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatWide  OutputFormat = "wide"  // Table output with timestamps and ids
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ValidFormats lists every supported format.
var ValidFormats = []OutputFormat{FormatTable, FormatWide, FormatJSON, FormatYAML}

// ParseFormat validates s as an output format.
func ParseFormat(s string) (OutputFormat, error) {
	for _, f := range ValidFormats {
		if OutputFormat(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %q (valid: table, wide, json, yaml)", s)
}

// Options configures the formatter behavior
type Options struct {
	Format    OutputFormat
	NoHeaders bool      // Omit table headers
	Color     bool      // Enable colored output
	Out       io.Writer // Defaults to os.Stdout
}

// AuthStatus is the credential state shown by "auth status".
type AuthStatus struct {
	Server     string             `json:"server"`
	StorePath  string             `json:"storePath,omitempty"`
	Credential credentials.Status `json:"credential"`
}

// Formatter renders rollcall results.
type Formatter interface {
	Subjects(subjects []api.Subject) error
	SubjectDetail(detail *api.SubjectDetail) error
	Records(records []api.AttendanceRecord) error
	Stats(title string, stats api.Stats) error
	Timetable(entries []api.TimetableEntry) error
	Dashboard(dashboard *api.Dashboard) error
	AuthStatus(status AuthStatus) error

	// Data renders any value; tables fall back to a key/value view.
	Data(data interface{}) error
}

// NewFormatter creates the formatter for options.Format. Unknown formats get
// the table formatter.
func NewFormatter(options Options) Formatter {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	default:
		return NewTableFormatter(options)
	}
}
