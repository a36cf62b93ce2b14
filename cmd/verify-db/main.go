// verify-db runs the same reconciliation as verify-api but straight from
// the SQLite store, bypassing the API layer entirely: raw per-student rows
// are fetched per scope and aggregated in Go. Comparing the two tools'
// output isolates whether a defect lives in the database or the API layer.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"

	"github.com/dasschool/das-verify/internal/config"
	"github.com/dasschool/das-verify/internal/database"
	"github.com/dasschool/das-verify/internal/logger"
	"github.com/dasschool/das-verify/internal/report"
	"github.com/dasschool/das-verify/internal/repository"
	"github.com/dasschool/das-verify/internal/service"
)

func main() {
	cfg := config.Load()

	var (
		days    int
		details bool
	)
	flag.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "Path to the school management SQLite database")
	flag.IntVar(&days, "days", cfg.WindowDays, "Day window (inclusive) to verify")
	flag.BoolVar(&details, "students", false, "Print per-student presence detail")
	flag.Parse()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	db, err := database.NewSQLite(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open SQLite database")
	}
	defer db.Close()

	attendanceRepo := repository.NewAttendanceRepository(db)
	yearRepo := repository.NewAcademicYearRepository(db)

	year, err := yearRepo.Active(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Error().Msg("No active academic year found")
		} else {
			log.Error().Err(err).Msg("Failed to load active academic year")
		}
		os.Exit(1)
	}

	renderer := report.NewRenderer(os.Stdout)
	renderer.ShowStudents = details
	renderer.Header("Direct database attendance verification")
	renderer.AcademicYear(year)

	attendanceService := service.NewAttendanceService(attendanceRepo, year.ID, days, log)

	if counts, err := attendanceService.StudentCounts(ctx); err == nil {
		renderer.StudentCounts(counts)
	} else {
		log.Warn().Err(err).Msg("Failed to load student counts")
	}

	verification := service.NewVerificationService(attendanceService, log)
	rep := verification.Run(ctx)

	renderer.Render(rep)
	os.Exit(rep.Verdict.ExitCode())
}
