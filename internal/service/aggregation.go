package service

import (
	"math"
	"sort"

	"github.com/dasschool/das-verify/internal/model"
)

// RoundRate converts a present/total pair into a percentage rounded to two
// decimal places. Rounding must happen exactly once per summary; callers
// never re-round a rate that came out of this function.
func RoundRate(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*100*100) / 100
}

// AggregateRecords groups raw attendance rows by (date, session) and
// computes one SessionSummary per group, retaining per-student detail in
// input order. Records with an invalid session type are dropped rather than
// silently opening a new group. Dates or sessions with no records produce
// no entry: absence of a key means "no data", not zero attendance.
//
// The result is independent of input record order apart from the retained
// student detail, which keeps the source ordering.
func AggregateRecords(records []model.AttendanceRecord) map[model.DateSessionKey]*model.SessionSummary {
	stats := make(map[model.DateSessionKey]*model.SessionSummary)

	for _, rec := range records {
		if !rec.Session.Valid() {
			continue
		}

		key := model.DateSessionKey{Date: rec.Date, Session: rec.Session}
		summary, ok := stats[key]
		if !ok {
			summary = &model.SessionSummary{
				Date:    rec.Date,
				Session: rec.Session,
			}
			stats[key] = summary
		}

		summary.Total++
		if rec.IsPresent {
			summary.Present++
		} else {
			summary.Absent++
		}
		summary.Students = append(summary.Students, model.StudentPresence{
			Name:    rec.StudentName,
			Present: rec.IsPresent,
		})
	}

	for _, summary := range stats {
		summary.AttendanceRate = RoundRate(summary.Present, summary.Total)
	}

	return stats
}

// AggregateDaily groups raw attendance rows by date only, ignoring session
// membership. This is the combined aggregator: it must always run over an
// independently fetched, unfiltered record set so the reconciler can compare
// the backend's own no-filter path against the per-session sums.
func AggregateDaily(records []model.AttendanceRecord) map[string]model.SessionSummary {
	type counts struct {
		total, present int
	}
	byDate := make(map[string]*counts)

	for _, rec := range records {
		if !rec.Session.Valid() {
			continue
		}
		c, ok := byDate[rec.Date]
		if !ok {
			c = &counts{}
			byDate[rec.Date] = c
		}
		c.total++
		if rec.IsPresent {
			c.present++
		}
	}

	daily := make(map[string]model.SessionSummary, len(byDate))
	for date, c := range byDate {
		daily[date] = model.SessionSummary{
			Date:           date,
			Session:        model.SessionCombined,
			Total:          c.total,
			Present:        c.present,
			Absent:         c.total - c.present,
			AttendanceRate: RoundRate(c.present, c.total),
		}
	}
	return daily
}

// SessionView projects a (date, session) aggregation down to a single
// session's date-keyed map.
func SessionView(stats map[model.DateSessionKey]*model.SessionSummary, session model.SessionType) map[string]model.SessionSummary {
	view := make(map[string]model.SessionSummary)
	for key, summary := range stats {
		if key.Session == session {
			view[key.Date] = *summary
		}
	}
	return view
}

// SummariesFromDaily converts the analytics API's wire rows into a
// date-keyed summary map, tagging each entry with the given session.
func SummariesFromDaily(rows []model.DailyAttendance, session model.SessionType) map[string]model.SessionSummary {
	view := make(map[string]model.SessionSummary, len(rows))
	for _, row := range rows {
		view[row.Date] = model.SessionSummary{
			Date:           row.Date,
			Session:        session,
			Total:          row.Total,
			Present:        row.Present,
			Absent:         row.Absent,
			AttendanceRate: row.AttendanceRate,
		}
	}
	return view
}

// SortedDates returns the union of dates across the given summary maps in
// ascending order.
func SortedDates(maps ...map[string]model.SessionSummary) []string {
	seen := make(map[string]struct{})
	for _, m := range maps {
		for date := range m {
			seen[date] = struct{}{}
		}
	}
	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
