// Package api is a typed client for the attendance backend.
//
// Every call goes through the authenticated pipeline in package session, so
// callers never deal with credentials: an expired access credential is renewed
// and the call replayed transparently, and an unrecoverable session surfaces
// as a *session.AuthError.
//
// Resources:
//
//   - accounts: Login, Register, Logout
//   - subjects: ListSubjects, CreateSubject, GetSubject, UpdateSubject, DeleteSubject
//   - attendance: MarkAttendance, UnmarkAttendance, SubjectRecords, SubjectStats, OverallStats
//   - timetable: TodayClasses, SubjectTimetable, AddTimetableEntry, SetTimetableDays
//
// Dashboard and SubjectDetail fetch several resources concurrently.
//
// Non-2xx responses are returned as *StatusError carrying the backend's
// "detail" message.
package api
