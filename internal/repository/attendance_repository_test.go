package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasschool/das-verify/internal/model"
)

const testSchema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    full_name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'staff',
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE academic_years (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    year_name TEXT NOT NULL UNIQUE,
    description TEXT,
    is_active BOOLEAN NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE students (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    full_name TEXT NOT NULL,
    session_type TEXT NOT NULL CHECK (session_type IN ('morning', 'evening')),
    academic_year_id INTEGER NOT NULL REFERENCES academic_years(id),
    is_active BOOLEAN NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE student_daily_attendances (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    student_id INTEGER NOT NULL REFERENCES students(id),
    academic_year_id INTEGER NOT NULL REFERENCES academic_years(id),
    attendance_date TEXT NOT NULL,
    is_present BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (student_id, attendance_date)
);
`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func seedYear(t *testing.T, db *sql.DB, name string, active bool) int {
	t.Helper()
	res, err := db.Exec(`INSERT INTO academic_years (year_name, is_active) VALUES (?, ?)`, name, active)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return int(id)
}

func seedStudent(t *testing.T, db *sql.DB, yearID int, name string, session model.SessionType) int {
	t.Helper()
	res, err := db.Exec(`INSERT INTO students (full_name, session_type, academic_year_id) VALUES (?, ?, ?)`,
		name, string(session), yearID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return int(id)
}

func seedAttendance(t *testing.T, db *sql.DB, studentID, yearID int, date string, present bool) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO student_daily_attendances (student_id, academic_year_id, attendance_date, is_present)
		VALUES (?, ?, ?, ?)`, studentID, yearID, date, present)
	require.NoError(t, err)
}

func daysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).Format("2006-01-02")
}

func TestRawRecords(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	yearID := seedYear(t, db, "2025-2026", true)
	m1 := seedStudent(t, db, yearID, "Ahmad", model.SessionMorning)
	m2 := seedStudent(t, db, yearID, "Omar", model.SessionMorning)
	e1 := seedStudent(t, db, yearID, "Layla", model.SessionEvening)

	seedAttendance(t, db, m1, yearID, daysAgo(1), true)
	seedAttendance(t, db, m2, yearID, daysAgo(1), false)
	seedAttendance(t, db, e1, yearID, daysAgo(1), true)
	seedAttendance(t, db, m1, yearID, daysAgo(2), true)

	repo := NewAttendanceRepository(db)

	t.Run("unfiltered", func(t *testing.T) {
		records, err := repo.RawRecords(ctx, yearID, 30, nil)
		require.NoError(t, err)
		require.Len(t, records, 4)

		// Newest date first, then session, then student id.
		assert.Equal(t, daysAgo(1), records[0].Date)
		assert.Equal(t, model.SessionEvening, records[0].Session)
		assert.Equal(t, "Layla", records[0].StudentName)
		assert.Equal(t, daysAgo(2), records[3].Date)
	})

	t.Run("session filter", func(t *testing.T) {
		morning := model.SessionMorning
		records, err := repo.RawRecords(ctx, yearID, 30, &morning)
		require.NoError(t, err)
		require.Len(t, records, 3)
		for _, rec := range records {
			assert.Equal(t, model.SessionMorning, rec.Session)
		}
	})

	t.Run("window excludes old rows", func(t *testing.T) {
		seedAttendance(t, db, m2, yearID, daysAgo(40), true)
		records, err := repo.RawRecords(ctx, yearID, 30, nil)
		require.NoError(t, err)
		assert.Len(t, records, 4)
	})

	t.Run("wrong year", func(t *testing.T) {
		records, err := repo.RawRecords(ctx, yearID+99, 30, nil)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestDailyCountsByDate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	yearID := seedYear(t, db, "2025-2026", true)
	var morningIDs, eveningIDs []int
	for i := 0; i < 3; i++ {
		morningIDs = append(morningIDs, seedStudent(t, db, yearID, fmt.Sprintf("m%d", i), model.SessionMorning))
	}
	for i := 0; i < 2; i++ {
		eveningIDs = append(eveningIDs, seedStudent(t, db, yearID, fmt.Sprintf("e%d", i), model.SessionEvening))
	}

	// Day one: morning 2/3 present, evening 2/2 present.
	for i, id := range morningIDs {
		seedAttendance(t, db, id, yearID, "2026-03-02", i < 2)
	}
	for _, id := range eveningIDs {
		seedAttendance(t, db, id, yearID, "2026-03-02", true)
	}
	// Day two: morning only, 1/3 present.
	for i, id := range morningIDs {
		seedAttendance(t, db, id, yearID, "2026-03-03", i == 0)
	}

	repo := NewAttendanceRepository(db)

	t.Run("combined pools both sessions", func(t *testing.T) {
		counts, err := repo.DailyCountsByDate(ctx, yearID, "2026-03-01", "2026-03-31", nil)
		require.NoError(t, err)
		require.Len(t, counts, 2)

		assert.Equal(t, "2026-03-02", counts[0].Date)
		assert.Equal(t, 5, counts[0].Total)
		assert.Equal(t, 4, counts[0].Present)
		assert.Equal(t, 1, counts[0].Absent)

		assert.Equal(t, "2026-03-03", counts[1].Date)
		assert.Equal(t, 3, counts[1].Total)
		assert.Equal(t, 1, counts[1].Present)
	})

	t.Run("morning filter", func(t *testing.T) {
		morning := model.SessionMorning
		counts, err := repo.DailyCountsByDate(ctx, yearID, "2026-03-01", "2026-03-31", &morning)
		require.NoError(t, err)
		require.Len(t, counts, 2)
		assert.Equal(t, 3, counts[0].Total)
		assert.Equal(t, 2, counts[0].Present)
	})

	t.Run("evening filter skips morning-only dates", func(t *testing.T) {
		evening := model.SessionEvening
		counts, err := repo.DailyCountsByDate(ctx, yearID, "2026-03-01", "2026-03-31", &evening)
		require.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Equal(t, "2026-03-02", counts[0].Date)
		assert.Equal(t, 2, counts[0].Total)
	})

	t.Run("range excludes outside dates", func(t *testing.T) {
		counts, err := repo.DailyCountsByDate(ctx, yearID, "2026-03-03", "2026-03-31", nil)
		require.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Equal(t, "2026-03-03", counts[0].Date)
	})
}

func TestStudentCountsBySession(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	yearID := seedYear(t, db, "2025-2026", true)
	seedStudent(t, db, yearID, "a", model.SessionMorning)
	seedStudent(t, db, yearID, "b", model.SessionMorning)
	seedStudent(t, db, yearID, "c", model.SessionEvening)

	inactive := seedStudent(t, db, yearID, "d", model.SessionEvening)
	_, err := db.Exec(`UPDATE students SET is_active = 0 WHERE id = ?`, inactive)
	require.NoError(t, err)

	repo := NewAttendanceRepository(db)
	counts, err := repo.StudentCountsBySession(ctx, yearID)
	require.NoError(t, err)

	assert.Equal(t, 2, counts[model.SessionMorning])
	assert.Equal(t, 1, counts[model.SessionEvening])
}

func TestAcademicYearRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewAcademicYearRepository(db)

	t.Run("active with none seeded", func(t *testing.T) {
		_, err := repo.Active(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("create list active", func(t *testing.T) {
		old := &model.AcademicYear{YearName: "2024-2025"}
		require.NoError(t, repo.Create(ctx, old))
		current := &model.AcademicYear{YearName: "2025-2026", IsActive: true}
		require.NoError(t, repo.Create(ctx, current))
		assert.NotZero(t, current.ID)

		years, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, years, 2)
		// Newest first.
		assert.Equal(t, "2025-2026", years[0].YearName)

		active, err := repo.Active(ctx)
		require.NoError(t, err)
		assert.Equal(t, current.ID, active.ID)
	})
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("create and fetch", func(t *testing.T) {
		user := &model.User{
			Username:     "director",
			FullName:     "The Director",
			Role:         model.RoleDirector,
			PasswordHash: "$2a$10$hash",
		}
		require.NoError(t, repo.Create(ctx, user))
		assert.NotZero(t, user.ID)

		got, err := repo.GetByUsername(ctx, "director")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, model.RoleDirector, got.Role)
		assert.Equal(t, "$2a$10$hash", got.PasswordHash)
	})
}
