package model

// SessionType identifies which daily cohort a student belongs to.
// Attendance is recorded and reported separately per cohort.
type SessionType string

const (
	SessionMorning SessionType = "morning"
	SessionEvening SessionType = "evening"
	// SessionCombined marks summaries computed without a session filter.
	// It is never a valid value on a raw attendance record.
	SessionCombined SessionType = "combined"
)

// Valid reports whether s is a session type that can appear on a raw record.
func (s SessionType) Valid() bool {
	return s == SessionMorning || s == SessionEvening
}

// AttendanceRecord is one raw per-student attendance row.
// Dates are ISO calendar dates (YYYY-MM-DD), matching both the SQLite
// schema and the analytics API wire format.
type AttendanceRecord struct {
	Date        string      `json:"date"`
	Session     SessionType `json:"session_type"`
	StudentID   int         `json:"student_id"`
	StudentName string      `json:"student_name"`
	IsPresent   bool        `json:"is_present"`
}

// StudentPresence is the per-student detail retained alongside a summary,
// in original record order.
type StudentPresence struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
}

// SessionSummary is the aggregate for one (date, session) group.
//
// Invariants: Total = Present + Absent, and AttendanceRate is
// Present/Total*100 rounded to two decimals exactly once (0 when Total is 0).
type SessionSummary struct {
	Date           string            `json:"date"`
	Session        SessionType       `json:"session_type"`
	Total          int               `json:"total"`
	Present        int               `json:"present"`
	Absent         int               `json:"absent"`
	AttendanceRate float64           `json:"attendance_rate"`
	Students       []StudentPresence `json:"students,omitempty"`
}

// DateSessionKey is the composite grouping key for aggregation.
type DateSessionKey struct {
	Date    string
	Session SessionType
}

// DailyAttendance is one entry of the analytics API's student_attendance
// list. It is the wire shape of a SessionSummary without student detail.
type DailyAttendance struct {
	Date           string  `json:"date"`
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// AttendanceAnalytics is the analytics endpoint's data payload.
type AttendanceAnalytics struct {
	StudentAttendance []DailyAttendance `json:"student_attendance"`
	PeriodType        string            `json:"period_type"`
	StartDate         string            `json:"start_date"`
	EndDate           string            `json:"end_date"`
}
