package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dasschool/das-verify/internal/config"
	"github.com/dasschool/das-verify/internal/model"
	"github.com/dasschool/das-verify/internal/repository"
)

// AnalyticsService serves the attendance analytics endpoint of the stub
// server. Aggregation happens in SQL (GROUP BY attendance_date), which
// keeps this path independent of the Go-side record aggregation the
// verifier recomputes.
type AnalyticsService struct {
	repo *repository.AttendanceRepository
	rdb  *redis.Client // nil disables the response cache
	cfg  *config.Config
	log  zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(repo *repository.AttendanceRepository, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, rdb: rdb, cfg: cfg, log: log}
}

// AttendanceAnalytics computes per-date attendance stats for an academic
// year and period. A nil filter yields the combined (no session filter)
// view.
//
// When LegacyCombinedRates is on, the combined view reproduces the defect
// this toolkit was built to catch: per-date rates are averaged across the
// two sessions instead of being recomputed from the summed counts.
func (s *AnalyticsService) AttendanceAnalytics(ctx context.Context, academicYearID int, periodType string, filter *model.SessionType) (*model.AttendanceAnalytics, error) {
	startDate, endDate := DateRange(periodType, time.Now())

	sessionKey := ""
	if filter != nil {
		sessionKey = string(*filter)
	}
	cacheKey := config.CacheKey.AttendanceAnalyticsKey(academicYearID, periodType, sessionKey)

	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	var (
		attendance []model.DailyAttendance
		err        error
	)
	if filter == nil && s.cfg.LegacyCombinedRates {
		attendance, err = s.legacyCombined(ctx, academicYearID, startDate, endDate)
	} else {
		attendance, err = s.dailyAttendance(ctx, academicYearID, startDate, endDate, filter)
	}
	if err != nil {
		return nil, err
	}

	result := &model.AttendanceAnalytics{
		StudentAttendance: attendance,
		PeriodType:        periodType,
		StartDate:         startDate,
		EndDate:           endDate,
	}

	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

func (s *AnalyticsService) dailyAttendance(ctx context.Context, academicYearID int, startDate, endDate string, filter *model.SessionType) ([]model.DailyAttendance, error) {
	counts, err := s.repo.DailyCountsByDate(ctx, academicYearID, startDate, endDate, filter)
	if err != nil {
		return nil, err
	}

	attendance := make([]model.DailyAttendance, 0, len(counts))
	for _, c := range counts {
		attendance = append(attendance, model.DailyAttendance{
			Date:           c.Date,
			Total:          c.Total,
			Present:        c.Present,
			Absent:         c.Absent,
			AttendanceRate: RoundRate(c.Present, c.Total),
		})
	}
	return attendance, nil
}

// legacyCombined merges the two per-session aggregates by averaging their
// already-rounded rates. Counts are still summed, so total/present/absent
// stay correct while the rate drifts whenever the sessions differ in size.
func (s *AnalyticsService) legacyCombined(ctx context.Context, academicYearID int, startDate, endDate string) ([]model.DailyAttendance, error) {
	morning := model.SessionMorning
	evening := model.SessionEvening

	morningCounts, err := s.repo.DailyCountsByDate(ctx, academicYearID, startDate, endDate, &morning)
	if err != nil {
		return nil, err
	}
	eveningCounts, err := s.repo.DailyCountsByDate(ctx, academicYearID, startDate, endDate, &evening)
	if err != nil {
		return nil, err
	}

	eveningByDate := make(map[string]repository.DailyCounts, len(eveningCounts))
	for _, c := range eveningCounts {
		eveningByDate[c.Date] = c
	}

	attendance := make([]model.DailyAttendance, 0, len(morningCounts)+len(eveningCounts))
	seen := make(map[string]struct{}, len(morningCounts))

	for _, m := range morningCounts {
		seen[m.Date] = struct{}{}
		row := model.DailyAttendance{
			Date:           m.Date,
			Total:          m.Total,
			Present:        m.Present,
			Absent:         m.Absent,
			AttendanceRate: RoundRate(m.Present, m.Total),
		}
		if e, ok := eveningByDate[m.Date]; ok {
			row.Total += e.Total
			row.Present += e.Present
			row.Absent += e.Absent
			row.AttendanceRate = avgRate(
				RoundRate(m.Present, m.Total),
				RoundRate(e.Present, e.Total),
			)
		}
		attendance = append(attendance, row)
	}

	for _, e := range eveningCounts {
		if _, ok := seen[e.Date]; ok {
			continue
		}
		attendance = append(attendance, model.DailyAttendance{
			Date:           e.Date,
			Total:          e.Total,
			Present:        e.Present,
			Absent:         e.Absent,
			AttendanceRate: RoundRate(e.Present, e.Total),
		})
	}

	sortDailyAttendance(attendance)
	return attendance, nil
}

func avgRate(a, b float64) float64 {
	return math.Round((a+b)/2*100) / 100
}

func sortDailyAttendance(rows []model.DailyAttendance) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
}

func (s *AnalyticsService) cacheGet(ctx context.Context, key string) *model.AttendanceAnalytics {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("Analytics cache read failed")
		}
		return nil
	}
	var result model.AttendanceAnalytics
	if err := json.Unmarshal(raw, &result); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Analytics cache entry corrupt")
		return nil
	}
	return &result
}

func (s *AnalyticsService) cacheSet(ctx context.Context, key string, result *model.AttendanceAnalytics) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.cfg.AnalyticsCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Analytics cache write failed")
	}
}
