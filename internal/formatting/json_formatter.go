package formatting

import (
	"encoding/json"
	"fmt"

	"rollcall/internal/api"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) *JSONFormatter {
	return &JSONFormatter{options: options}
}

func (f *JSONFormatter) Subjects(subjects []api.Subject) error { return f.Data(subjects) }

func (f *JSONFormatter) SubjectDetail(detail *api.SubjectDetail) error { return f.Data(detail) }

func (f *JSONFormatter) Records(records []api.AttendanceRecord) error { return f.Data(records) }

func (f *JSONFormatter) Stats(_ string, stats api.Stats) error { return f.Data(stats) }

func (f *JSONFormatter) Timetable(entries []api.TimetableEntry) error { return f.Data(entries) }

func (f *JSONFormatter) Dashboard(dashboard *api.Dashboard) error { return f.Data(dashboard) }

func (f *JSONFormatter) AuthStatus(status AuthStatus) error { return f.Data(status) }

// Data writes data as indented JSON.
func (f *JSONFormatter) Data(data interface{}) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	_, err = fmt.Fprintln(f.options.Out, string(b))
	return err
}
