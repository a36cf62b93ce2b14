package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dasschool/das-verify/internal/model"
)

// AttendanceRepository reads raw and aggregated attendance data from the
// school management SQLite database.
type AttendanceRepository struct {
	db *sql.DB
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(db *sql.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// RawRecords retrieves per-student attendance rows for an academic year
// within the last `days` days (inclusive), ordered by date descending, then
// session type, then student id ascending. A nil filter returns all
// sessions; this is the unfiltered set the combined aggregator runs on.
func (r *AttendanceRepository) RawRecords(ctx context.Context, academicYearID, days int, filter *model.SessionType) ([]model.AttendanceRecord, error) {
	query := `
		SELECT
			sda.attendance_date,
			s.session_type,
			s.id,
			s.full_name,
			sda.is_present
		FROM student_daily_attendances sda
		JOIN students s ON sda.student_id = s.id
		WHERE sda.academic_year_id = ?
		AND sda.attendance_date >= date('now', '-' || ? || ' days')`
	args := []interface{}{academicYearID, days}

	if filter != nil {
		query += ` AND s.session_type = ?`
		args = append(args, string(*filter))
	}
	query += ` ORDER BY sda.attendance_date DESC, s.session_type, s.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query raw attendance: %w", err)
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		var session string
		if err := rows.Scan(&rec.Date, &session, &rec.StudentID, &rec.StudentName, &rec.IsPresent); err != nil {
			return nil, fmt.Errorf("scan attendance row: %w", err)
		}
		rec.Session = model.SessionType(session)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DailyCounts is one per-date aggregate straight from SQL, before any rate
// is attached.
type DailyCounts struct {
	Date    string
	Total   int
	Present int
	Absent  int
}

// DailyCountsByDate aggregates attendance per date inside [startDate,
// endDate] with SQL, optionally restricted to one session. This is the
// backend's own aggregation path: it must stay independent from the Go-side
// record aggregation so the verifier has something real to check.
func (r *AttendanceRepository) DailyCountsByDate(ctx context.Context, academicYearID int, startDate, endDate string, filter *model.SessionType) ([]DailyCounts, error) {
	query := `
		SELECT
			sda.attendance_date,
			COUNT(sda.id),
			SUM(CASE WHEN sda.is_present THEN 1 ELSE 0 END),
			SUM(CASE WHEN sda.is_present THEN 0 ELSE 1 END)
		FROM student_daily_attendances sda`
	args := []interface{}{}

	if filter != nil {
		query += ` JOIN students s ON sda.student_id = s.id`
	}
	query += `
		WHERE sda.academic_year_id = ?
		AND sda.attendance_date BETWEEN ? AND ?`
	args = append(args, academicYearID, startDate, endDate)

	if filter != nil {
		query += ` AND s.session_type = ?`
		args = append(args, string(*filter))
	}
	query += `
		GROUP BY sda.attendance_date
		ORDER BY sda.attendance_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily counts: %w", err)
	}
	defer rows.Close()

	var counts []DailyCounts
	for rows.Next() {
		var c DailyCounts
		if err := rows.Scan(&c.Date, &c.Total, &c.Present, &c.Absent); err != nil {
			return nil, fmt.Errorf("scan daily counts: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// StudentCountsBySession returns the number of active students per session
// type for an academic year.
func (r *AttendanceRepository) StudentCountsBySession(ctx context.Context, academicYearID int) (map[model.SessionType]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_type, COUNT(*)
		FROM students
		WHERE academic_year_id = ? AND is_active = 1
		GROUP BY session_type`,
		academicYearID,
	)
	if err != nil {
		return nil, fmt.Errorf("query student counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.SessionType]int)
	for rows.Next() {
		var session string
		var count int
		if err := rows.Scan(&session, &count); err != nil {
			return nil, fmt.Errorf("scan student counts: %w", err)
		}
		counts[model.SessionType(session)] = count
	}
	return counts, rows.Err()
}
