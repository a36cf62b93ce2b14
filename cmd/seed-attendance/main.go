package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/dasschool/das-verify/internal/config"
	"github.com/dasschool/das-verify/internal/database"
	"github.com/dasschool/das-verify/internal/logger"
	"github.com/dasschool/das-verify/internal/model"
	"github.com/dasschool/das-verify/internal/repository"
)

var morningNames = []string{
	"Ahmed Hassan", "Fatima Ali", "Omar Khalid", "Layla Ibrahim", "Yusuf Said",
	"Mariam Tarek", "Khalid Nasser", "Nour Samir", "Hassan Adel", "Salma Fawzi",
	"Tariq Mahmoud", "Huda Kamal", "Samir Rashid", "Amina Zaki", "Bilal Hamdi",
	"Rania Mostafa", "Karim Fouad", "Dina Sherif", "Ziad Anwar", "Mona Lutfi",
}

var eveningNames = []string{
	"Ali Mansour", "Zainab Qasim", "Ibrahim Saleh", "Hana Waleed", "Mustafa Adnan",
	"Aisha Jamal", "Hamza Riad", "Yasmin Nabil", "Osama Farid", "Laila Munir",
	"Fadi Ghassan", "Sara Hatem", "Nabil Ashraf", "Reem Sami", "Majid Talal",
}

func main() {
	cfg := config.Load()

	var (
		days int
		seed int64
	)
	flag.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "Path to the SQLite database (must be migrated)")
	flag.IntVar(&days, "days", 30, "Number of past days to seed attendance for")
	flag.Int64Var(&seed, "seed", 42, "Random seed for presence generation")
	flag.Parse()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.NewSQLite(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open SQLite database")
	}
	defer db.Close()

	yearRepo := repository.NewAcademicYearRepository(db)

	fmt.Println("=== Seeding Attendance Demo Data ===")

	// Reuse the active academic year if one exists.
	year, err := yearRepo.Active(ctx)
	if err != nil {
		year = &model.AcademicYear{
			YearName:    fmt.Sprintf("%d-%d", time.Now().Year(), time.Now().Year()+1),
			Description: "Seeded demo year",
			IsActive:    true,
		}
		if err := yearRepo.Create(ctx, year); err != nil {
			log.Fatal().Err(err).Msg("Failed to create academic year")
		}
		fmt.Printf("Created academic year %s (ID %d)\n", year.YearName, year.ID)
	} else {
		fmt.Printf("Using existing academic year %s (ID %d)\n", year.YearName, year.ID)
	}

	morningIDs := seedStudents(ctx, db, log, year.ID, model.SessionMorning, morningNames)
	eveningIDs := seedStudents(ctx, db, log, year.ID, model.SessionEvening, eveningNames)
	fmt.Printf("Seeded %d morning and %d evening students\n", len(morningIDs), len(eveningIDs))

	rng := rand.New(rand.NewSource(seed))
	recordCount := 0

	for d := 0; d < days; d++ {
		day := time.Now().AddDate(0, 0, -d)

		// School is closed on Fridays.
		if day.Weekday() == time.Friday {
			continue
		}
		date := day.Format("2006-01-02")

		for _, ids := range [][]int{morningIDs, eveningIDs} {
			for _, studentID := range ids {
				present := rng.Float64() < 0.85
				_, err := db.ExecContext(ctx, `
					INSERT OR IGNORE INTO student_daily_attendances
						(student_id, academic_year_id, attendance_date, is_present)
					VALUES (?, ?, ?, ?)`,
					studentID, year.ID, date, present,
				)
				if err != nil {
					log.Fatal().Err(err).Str("date", date).Msg("Failed to insert attendance record")
				}
				recordCount++
			}
		}
	}

	fmt.Printf("\nSeed completed! Inserted up to %d attendance records over %d days.\n", recordCount, days)
}

func seedStudents(ctx context.Context, db *sql.DB, log zerolog.Logger, yearID int, session model.SessionType, names []string) []int {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		res, err := db.ExecContext(ctx, `
			INSERT INTO students (full_name, session_type, academic_year_id, is_active)
			VALUES (?, ?, ?, 1)`,
			name, string(session), yearID,
		)
		if err != nil {
			log.Fatal().Err(err).Str("name", name).Msg("Failed to insert student")
		}
		id, err := res.LastInsertId()
		if err != nil {
			log.Fatal().Err(err).Str("name", name).Msg("Failed to read student id")
		}
		ids = append(ids, int(id))
	}
	return ids
}
