package api

import (
	"fmt"
	"strings"
	"time"
)

// AttendanceStatus is the mark recorded for a subject on a day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
	StatusNoClass AttendanceStatus = "NO_CLASS"
)

// ParseAttendanceStatus accepts the backend values in any case, with "-" or
// " " in place of "_".
func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	switch AttendanceStatus(normalized) {
	case StatusPresent, StatusAbsent, StatusNoClass:
		return AttendanceStatus(normalized), nil
	}
	return "", fmt.Errorf("invalid attendance status %q: want present, absent or no_class", s)
}

// Weekday is the backend's three letter day code.
type Weekday string

const (
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
	Saturday  Weekday = "SAT"
	Sunday    Weekday = "SUN"
)

var weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday accepts a day code or a full day name in any case.
func ParseWeekday(s string) (Weekday, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if len(upper) >= 3 {
		for _, d := range weekdays {
			if strings.HasPrefix(upper, string(d)) {
				return d, nil
			}
		}
	}
	return "", fmt.Errorf("invalid weekday %q", s)
}

// WeekdayOf returns the day code for t.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday starts on Sunday.
	return weekdays[(int(t.Weekday())+6)%7]
}

// DateFormat is the backend's date layout.
const DateFormat = "2006-01-02"

// User is the account returned by registration.
type User struct {
	Username     string `json:"username"`
	IDCardNumber string `json:"id_card_number"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username     string `json:"username"`
	IDCardNumber string `json:"id_card_number"`
	Password     string `json:"password"`
}

// Subject is a tracked course.
type Subject struct {
	ID        int       `json:"id"`
	Name      string    `json:"subject_name"`
	Code      string    `json:"subject_code,omitempty"`
	Owner     int       `json:"owner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubjectInput is the writable part of a Subject.
type SubjectInput struct {
	Name string `json:"subject_name"`
	Code string `json:"subject_code,omitempty"`
}

// AttendanceRecord is one day's mark for a subject.
type AttendanceRecord struct {
	ID        int              `json:"id"`
	Subject   int              `json:"subject"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Mark identifies an attendance mark to set or remove.
type Mark struct {
	Subject int              `json:"subject"`
	Date    string           `json:"date"`
	Status  AttendanceStatus `json:"status,omitempty"`
}

// Stats summarizes attendance. NO_CLASS days are not counted.
type Stats struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// TimetableEntry is a weekly class slot. Start and end times are optional
// "HH:MM:SS" strings.
type TimetableEntry struct {
	ID        int     `json:"id,omitempty"`
	Subject   int     `json:"subject"`
	DayOfWeek Weekday `json:"day_of_week"`
	DayLabel  string  `json:"day_label,omitempty"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// Dashboard is the landing overview: all subjects, overall stats and the
// classes scheduled today.
type Dashboard struct {
	Subjects []Subject        `json:"subjects"`
	Overall  Stats            `json:"overall"`
	Today    []TimetableEntry `json:"today"`
}

// SubjectDetail is everything known about one subject.
type SubjectDetail struct {
	Subject   Subject            `json:"subject"`
	Stats     Stats              `json:"stats"`
	Records   []AttendanceRecord `json:"records"`
	Timetable []TimetableEntry   `json:"timetable"`
}

// AttendanceGoal is the minimum attendance percentage considered safe.
const AttendanceGoal = 75.0

// Safe reports whether the percentage meets AttendanceGoal.
func (s Stats) Safe() bool {
	return s.Percentage >= AttendanceGoal
}
