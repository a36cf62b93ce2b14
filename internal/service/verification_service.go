package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/dasschool/das-verify/internal/model"
)

// RateTolerance is the absolute difference allowed between an expected and
// an actual combined attendance rate. It absorbs single-rounding slack only;
// both sides are rounded exactly once before comparison.
const RateTolerance = 0.01

// SummarySource yields date-keyed attendance summaries for one session
// scope. A nil filter means the combined (no session filter) view, which
// the source must compute independently of the per-session views.
//
// Implementations downgrade their own transport faults to errors; the
// verification service decides how to degrade.
type SummarySource interface {
	Summaries(ctx context.Context, filter *model.SessionType) (map[string]model.SessionSummary, error)
}

// Report is the complete outcome of one verification pass.
type Report struct {
	Morning  map[string]model.SessionSummary
	Evening  map[string]model.SessionSummary
	Combined map[string]model.SessionSummary

	Mismatches []model.Mismatch
	Merged     []model.MergedAttendanceRow

	// Degraded is set when a fetch failed and was replaced by an empty
	// result, so "no data" findings cannot be trusted as exhaustive.
	Degraded bool

	Verdict model.Verdict
}

// VerificationService runs the aggregation cross-check against a summary
// source and assembles the report.
type VerificationService struct {
	source SummarySource
	log    zerolog.Logger
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(source SummarySource, log zerolog.Logger) *VerificationService {
	return &VerificationService{source: source, log: log}
}

// Run fetches the morning, evening, and combined views, reconciles them,
// and builds the frontend merge. Fetch faults are logged and downgraded to
// empty result sets so the comparison still runs; downstream treats an
// empty map as "no data for this scope".
func (s *VerificationService) Run(ctx context.Context) *Report {
	morning := model.SessionMorning
	evening := model.SessionEvening

	report := &Report{}
	report.Morning = s.fetch(ctx, &morning, report)
	report.Evening = s.fetch(ctx, &evening, report)
	report.Combined = s.fetch(ctx, nil, report)

	report.Mismatches = Reconcile(report.Morning, report.Evening, report.Combined)
	report.Merged = MergeFrontendView(report.Morning, report.Evening)
	report.Verdict = verdictFor(report)

	return report
}

func (s *VerificationService) fetch(ctx context.Context, filter *model.SessionType, report *Report) map[string]model.SessionSummary {
	summaries, err := s.source.Summaries(ctx, filter)
	if err != nil {
		scope := "combined"
		if filter != nil {
			scope = string(*filter)
		}
		s.log.Warn().
			Err(err).
			Str("scope", scope).
			Msg("Data source unavailable, treating scope as empty")
		report.Degraded = true
		return map[string]model.SessionSummary{}
	}
	if summaries == nil {
		summaries = map[string]model.SessionSummary{}
	}
	return summaries
}

func verdictFor(r *Report) model.Verdict {
	if len(r.Mismatches) > 0 {
		return model.VerdictFailed
	}
	if len(r.Morning) == 0 && len(r.Evening) == 0 && len(r.Combined) == 0 {
		return model.VerdictPassedNoData
	}
	return model.VerdictPassed
}

// Reconcile compares the independently reported combined summaries against
// the expectation derived by summing morning and evening counts. For each
// date where both sessions have data and a combined summary exists, the
// expected rate is computed from the summed counts with one final rounding
// and compared within RateTolerance. Dates missing either session produce
// no finding: no expectation can be derived there.
//
// The returned findings are sorted by date ascending and are deterministic
// for a fixed input.
func Reconcile(morning, evening, combined map[string]model.SessionSummary) []model.Mismatch {
	mismatches := []model.Mismatch{}

	for _, date := range SortedDates(morning, evening, combined) {
		m, hasMorning := morning[date]
		e, hasEvening := evening[date]
		if !hasMorning || !hasEvening {
			continue
		}
		actual, hasCombined := combined[date]
		if !hasCombined {
			continue
		}

		expectedRate := RoundRate(m.Present+e.Present, m.Total+e.Total)
		if math.Abs(actual.AttendanceRate-expectedRate) > RateTolerance {
			mismatches = append(mismatches, model.Mismatch{
				Date:          date,
				ExpectedRate:  expectedRate,
				ActualRate:    actual.AttendanceRate,
				MorningDetail: fmt.Sprintf("%d/%d", m.Present, m.Total),
				EveningDetail: fmt.Sprintf("%d/%d", e.Present, e.Total),
			})
		}
	}

	return mismatches
}

// MergeFrontendView builds the rows the frontend's "both sessions" view
// displays: one row per date with the morning and evening summaries joined
// side by side. It is a plain union join that never recomputes a combined
// rate, so presentation-layer defects can be distinguished from
// backend aggregation defects.
func MergeFrontendView(morning, evening map[string]model.SessionSummary) []model.MergedAttendanceRow {
	byDate := make(map[string]*model.MergedAttendanceRow)

	for date, m := range morning {
		m := m
		byDate[date] = &model.MergedAttendanceRow{
			Date:           date,
			MorningRate:    &m.AttendanceRate,
			MorningTotal:   &m.Total,
			MorningPresent: &m.Present,
			MorningAbsent:  &m.Absent,
		}
	}

	for date, e := range evening {
		e := e
		row, ok := byDate[date]
		if !ok {
			row = &model.MergedAttendanceRow{Date: date}
			byDate[date] = row
		}
		row.EveningRate = &e.AttendanceRate
		row.EveningTotal = &e.Total
		row.EveningPresent = &e.Present
		row.EveningAbsent = &e.Absent
	}

	rows := make([]model.MergedAttendanceRow, 0, len(byDate))
	for _, row := range byDate {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}
