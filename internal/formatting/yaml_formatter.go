package formatting

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"rollcall/internal/api"
)

// YAMLFormatter provides YAML output formatting. Values are converted through
// their JSON form so YAML keys match the JSON field names and order.
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) *YAMLFormatter {
	return &YAMLFormatter{options: options}
}

func (f *YAMLFormatter) Subjects(subjects []api.Subject) error { return f.Data(subjects) }

func (f *YAMLFormatter) SubjectDetail(detail *api.SubjectDetail) error { return f.Data(detail) }

func (f *YAMLFormatter) Records(records []api.AttendanceRecord) error { return f.Data(records) }

func (f *YAMLFormatter) Stats(_ string, stats api.Stats) error { return f.Data(stats) }

func (f *YAMLFormatter) Timetable(entries []api.TimetableEntry) error { return f.Data(entries) }

func (f *YAMLFormatter) Dashboard(dashboard *api.Dashboard) error { return f.Data(dashboard) }

func (f *YAMLFormatter) AuthStatus(status AuthStatus) error { return f.Data(status) }

// Data writes data as YAML.
func (f *YAMLFormatter) Data(data interface{}) error {
	out, err := toYAML(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(f.options.Out, out)
	return err
}

// toYAML converts data via JSON. JSON is valid YAML, so decoding it into a
// yaml.Node keeps the key order.
func toYAML(data interface{}) (string, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to format YAML: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(jsonBytes, &node); err != nil {
		return "", fmt.Errorf("failed to format YAML: %w", err)
	}
	resetStyle(&node)

	yamlBytes, err := yaml.Marshal(&node)
	if err != nil {
		return "", fmt.Errorf("failed to format YAML: %w", err)
	}
	return string(yamlBytes), nil
}

// resetStyle drops the flow and quoting styles inherited from JSON.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}
