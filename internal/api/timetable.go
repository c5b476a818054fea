package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type timetableDays struct {
	Days []Weekday `json:"days"`
}

// TodayClasses returns the timetable entries for the server's current day.
func (c *Client) TodayClasses(ctx context.Context) ([]TimetableEntry, error) {
	entries := []TimetableEntry{}
	if err := c.do(ctx, http.MethodGet, todayPath, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SubjectTimetable returns a subject's weekly slots.
func (c *Client) SubjectTimetable(ctx context.Context, subjectID int) ([]TimetableEntry, error) {
	entries := []TimetableEntry{}
	if err := c.do(ctx, http.MethodGet, subjectTimetablePath(subjectID), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddTimetableEntry creates or replaces the slot of a subject on one day.
func (c *Client) AddTimetableEntry(ctx context.Context, entry TimetableEntry) error {
	if _, err := ParseWeekday(string(entry.DayOfWeek)); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, subjectTimetablePath(entry.Subject)+"add/", entry, nil)
}

// SetTimetableDays makes days the complete set of days a subject is held on.
func (c *Client) SetTimetableDays(ctx context.Context, subjectID int, days []Weekday) error {
	if len(days) == 0 {
		return errors.New("at least one day is required")
	}
	for _, d := range days {
		if _, err := ParseWeekday(string(d)); err != nil {
			return err
		}
	}
	return c.do(ctx, http.MethodPost, subjectTimetablePath(subjectID)+"bulk/", timetableDays{Days: days}, nil)
}

func subjectTimetablePath(subjectID int) string {
	return fmt.Sprintf(subjectTimetableFmt, subjectID)
}
