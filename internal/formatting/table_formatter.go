package formatting

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"rollcall/internal/api"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) *TableFormatter {
	return &TableFormatter{options: options}
}

func (f *TableFormatter) wide() bool {
	return f.options.Format == FormatWide
}

// Subjects renders one row per subject.
func (f *TableFormatter) Subjects(subjects []api.Subject) error {
	if len(subjects) == 0 {
		return f.empty("No subjects found")
	}

	t := f.createTable()
	header := table.Row{"ID", "NAME", "CODE"}
	if f.wide() {
		header = append(header, "CREATED", "UPDATED")
	}
	f.appendHeader(t, header)

	for _, s := range subjects {
		row := table.Row{s.ID, s.Name, dash(s.Code)}
		if f.wide() {
			row = append(row, formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

// SubjectDetail renders the subject header, its stats, timetable and records.
func (f *TableFormatter) SubjectDetail(d *api.SubjectDetail) error {
	title := d.Subject.Name
	if d.Subject.Code != "" {
		title += " (" + d.Subject.Code + ")"
	}
	if err := f.Stats(title, d.Stats); err != nil {
		return err
	}
	f.println()
	if err := f.Timetable(d.Timetable); err != nil {
		return err
	}
	f.println()
	return f.Records(d.Records)
}

// Records renders attendance marks, newest first.
func (f *TableFormatter) Records(records []api.AttendanceRecord) error {
	if len(records) == 0 {
		return f.empty("No attendance records")
	}

	sorted := append([]api.AttendanceRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	t := f.createTable()
	header := table.Row{"DATE", "DAY", "STATUS"}
	if f.wide() {
		header = append(table.Row{"ID"}, append(header, "UPDATED")...)
	}
	f.appendHeader(t, header)

	for _, r := range sorted {
		row := table.Row{r.Date, dayOf(r.Date), f.status(r.Status)}
		if f.wide() {
			row = append(table.Row{r.ID}, append(row, formatTime(r.UpdatedAt))...)
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

// Stats renders an attendance summary against the attendance goal.
func (f *TableFormatter) Stats(title string, s api.Stats) error {
	t := f.createTable()
	if title != "" {
		t.SetTitle(title)
	}
	f.appendHeader(t, table.Row{"ATTENDANCE", "PRESENT", "ABSENT", "TOTAL", "GOAL"})

	verdict := "Critical"
	if s.Safe() {
		verdict = "Safe"
	}
	t.AppendRow(table.Row{
		f.percentage(s.Percentage),
		s.Present,
		s.Absent,
		s.Total,
		fmt.Sprintf("%s%% %s", strconv.FormatFloat(api.AttendanceGoal, 'f', -1, 64), f.verdict(verdict, s.Safe())),
	})
	t.Render()
	return nil
}

// Timetable renders weekly class slots.
func (f *TableFormatter) Timetable(entries []api.TimetableEntry) error {
	if len(entries) == 0 {
		return f.empty("No classes scheduled")
	}

	t := f.createTable()
	f.appendHeader(t, table.Row{"SUBJECT", "DAY", "START", "END"})
	for _, e := range entries {
		day := e.DayLabel
		if day == "" {
			day = string(e.DayOfWeek)
		}
		t.AppendRow(table.Row{e.Subject, day, clock(e.StartTime), clock(e.EndTime)})
	}
	t.Render()
	return nil
}

// Dashboard renders overall stats, today's classes and the subject list.
func (f *TableFormatter) Dashboard(d *api.Dashboard) error {
	if err := f.Stats("Overall attendance", d.Overall); err != nil {
		return err
	}
	f.println()

	names := make(map[int]string, len(d.Subjects))
	for _, s := range d.Subjects {
		names[s.ID] = s.Name
	}

	if len(d.Today) == 0 {
		if err := f.empty("No classes today"); err != nil {
			return err
		}
	} else {
		t := f.createTable()
		t.SetTitle("Today")
		f.appendHeader(t, table.Row{"SUBJECT", "START", "END"})
		for _, e := range d.Today {
			name := names[e.Subject]
			if name == "" {
				name = strconv.Itoa(e.Subject)
			}
			t.AppendRow(table.Row{name, clock(e.StartTime), clock(e.EndTime)})
		}
		t.Render()
	}
	f.println()

	return f.Subjects(d.Subjects)
}

// AuthStatus renders the credential state as key/value rows.
func (f *TableFormatter) AuthStatus(s AuthStatus) error {
	t := f.createTable()
	f.appendHeader(t, table.Row{"KEY", "VALUE"})

	c := s.Credential
	state := f.color(text.FgRed, "Not authenticated")
	switch {
	case c.Authenticated && c.Expired:
		state = f.color(text.FgYellow, "Access expired (renews on next request)")
	case c.Authenticated:
		state = f.color(text.FgGreen, "Authenticated")
	}

	t.AppendRow(table.Row{"Server", s.Server})
	t.AppendRow(table.Row{"Status", state})
	if s.StorePath != "" {
		t.AppendRow(table.Row{"Store", s.StorePath})
	}
	if c.Subject != "" {
		t.AppendRow(table.Row{"User", c.Subject})
	}
	if !c.ExpiresAt.IsZero() {
		t.AppendRow(table.Row{"Access expires", formatTime(c.ExpiresAt)})
	}
	if c.Opaque {
		t.AppendRow(table.Row{"Note", "Access credential is not a JWT; expiry unknown"})
	}
	t.Render()
	return nil
}

// Data formats generic data using table logic
func (f *TableFormatter) Data(data interface{}) error {
	switch d := data.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		t := f.createTable()
		f.appendHeader(t, table.Row{"KEY", "VALUE"})
		for _, k := range keys {
			t.AppendRow(table.Row{k, truncate(fmt.Sprintf("%v", d[k]), 100)})
		}
		t.Render()
	case string:
		_, err := fmt.Fprintln(f.options.Out, d)
		return err
	default:
		out, err := toYAML(d)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(f.options.Out, out)
		return err
	}
	return nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.options.Out)
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) appendHeader(t table.Writer, header table.Row) {
	if f.options.NoHeaders {
		return
	}
	t.AppendHeader(header)
}

func (f *TableFormatter) empty(message string) error {
	_, err := fmt.Fprintln(f.options.Out, f.color(text.FgYellow, message))
	return err
}

func (f *TableFormatter) println() {
	fmt.Fprintln(f.options.Out)
}

func (f *TableFormatter) color(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}

func (f *TableFormatter) status(s api.AttendanceStatus) string {
	switch s {
	case api.StatusPresent:
		return f.color(text.FgGreen, "Present")
	case api.StatusAbsent:
		return f.color(text.FgRed, "Absent")
	case api.StatusNoClass:
		return f.color(text.FgHiBlack, "No class")
	default:
		return string(s)
	}
}

func (f *TableFormatter) percentage(p float64) string {
	s := FormatPercentage(p)
	switch {
	case p >= api.AttendanceGoal:
		return f.color(text.FgGreen, s)
	case p >= 50:
		return f.color(text.FgYellow, s)
	default:
		return f.color(text.FgRed, s)
	}
}

func (f *TableFormatter) verdict(v string, safe bool) string {
	if safe {
		return f.color(text.FgGreen, v)
	}
	return f.color(text.FgRed, v)
}

func dayOf(date string) string {
	t, err := time.Parse(api.DateFormat, date)
	if err != nil {
		return ""
	}
	return t.Format("Mon")
}
