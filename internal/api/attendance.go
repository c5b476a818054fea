package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// MarkAttendance sets the mark for a subject on a date, replacing any
// existing mark for that date.
func (c *Client) MarkAttendance(ctx context.Context, m Mark) (*AttendanceRecord, error) {
	if err := validateMark(m, true); err != nil {
		return nil, err
	}
	var record AttendanceRecord
	if err := c.do(ctx, http.MethodPost, markPath, m, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UnmarkAttendance removes the mark for a subject on a date. Removing a
// missing mark succeeds.
func (c *Client) UnmarkAttendance(ctx context.Context, subjectID int, date string) error {
	m := Mark{Subject: subjectID, Date: date}
	if err := validateMark(m, false); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, markPath, m, nil)
}

// SubjectRecords returns every mark of a subject, newest first.
func (c *Client) SubjectRecords(ctx context.Context, subjectID int) ([]AttendanceRecord, error) {
	records := []AttendanceRecord{}
	if err := c.do(ctx, http.MethodGet, subjectAttendancePath(subjectID, "records"), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SubjectStats returns a subject's attendance summary.
func (c *Client) SubjectStats(ctx context.Context, subjectID int) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, subjectAttendancePath(subjectID, "stats"), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// OverallStats returns the attendance summary across all subjects.
func (c *Client) OverallStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, overallStatsPath, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func validateMark(m Mark, needStatus bool) error {
	if m.Subject <= 0 {
		return fmt.Errorf("invalid subject id %d", m.Subject)
	}
	if _, err := time.Parse(DateFormat, m.Date); err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", m.Date)
	}
	if needStatus {
		if _, err := ParseAttendanceStatus(string(m.Status)); err != nil {
			return err
		}
	}
	return nil
}
