package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dasschool/das-verify/internal/model"
	"github.com/dasschool/das-verify/internal/repository"
)

// AttendanceService is the direct-database realization of SummarySource: it
// fetches raw per-student rows from SQLite and aggregates them in Go. Each
// scope (morning, evening, combined) is queried separately so the combined
// view is never derived from the per-session ones.
type AttendanceService struct {
	repo           *repository.AttendanceRepository
	academicYearID int
	days           int
	log            zerolog.Logger
}

// NewAttendanceService creates an AttendanceService scoped to one academic
// year and an inclusive day window.
func NewAttendanceService(repo *repository.AttendanceRepository, academicYearID, days int, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		repo:           repo,
		academicYearID: academicYearID,
		days:           days,
		log:            log,
	}
}

// Summaries implements SummarySource. A nil filter fetches the unfiltered
// record set and aggregates it per date; a session filter fetches only that
// session's rows and aggregates per (date, session), retaining per-student
// detail for the report.
func (s *AttendanceService) Summaries(ctx context.Context, filter *model.SessionType) (map[string]model.SessionSummary, error) {
	records, err := s.repo.RawRecords(ctx, s.academicYearID, s.days, filter)
	if err != nil {
		return nil, err
	}

	scope := "all"
	if filter != nil {
		scope = string(*filter)
	}
	s.log.Debug().
		Int("records", len(records)).
		Str("scope", scope).
		Msg("Fetched raw attendance rows")

	if filter == nil {
		return AggregateDaily(records), nil
	}
	return SessionView(AggregateRecords(records), *filter), nil
}

// StudentCounts reports how many active students each session has, for the
// report header.
func (s *AttendanceService) StudentCounts(ctx context.Context) (map[model.SessionType]int, error) {
	return s.repo.StudentCountsBySession(ctx, s.academicYearID)
}
