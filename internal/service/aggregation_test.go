package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasschool/das-verify/internal/model"
)

func rec(date string, session model.SessionType, name string, present bool) model.AttendanceRecord {
	return model.AttendanceRecord{
		Date:        date,
		Session:     session,
		StudentName: name,
		IsPresent:   present,
	}
}

func TestRoundRate(t *testing.T) {
	tests := []struct {
		name    string
		present int
		total   int
		want    float64
	}{
		{"exact", 18, 20, 90.0},
		{"repeating decimal", 25, 35, 71.43},
		{"two thirds", 2, 3, 66.67},
		{"one third", 1, 3, 33.33},
		{"all present", 15, 15, 100.0},
		{"none present", 0, 15, 0.0},
		{"zero total", 0, 0, 0.0},
		{"negative total", 3, -1, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundRate(tt.present, tt.total))
		})
	}
}

func TestAggregateRecords(t *testing.T) {
	records := []model.AttendanceRecord{
		rec("2026-03-02", model.SessionMorning, "Ahmad", true),
		rec("2026-03-02", model.SessionMorning, "Fatima", true),
		rec("2026-03-02", model.SessionMorning, "Omar", false),
		rec("2026-03-02", model.SessionEvening, "Layla", true),
		rec("2026-03-03", model.SessionMorning, "Ahmad", false),
	}

	stats := AggregateRecords(records)
	require.Len(t, stats, 3)

	m := stats[model.DateSessionKey{Date: "2026-03-02", Session: model.SessionMorning}]
	require.NotNil(t, m)
	assert.Equal(t, 3, m.Total)
	assert.Equal(t, 2, m.Present)
	assert.Equal(t, 1, m.Absent)
	assert.Equal(t, 66.67, m.AttendanceRate)

	e := stats[model.DateSessionKey{Date: "2026-03-02", Session: model.SessionEvening}]
	require.NotNil(t, e)
	assert.Equal(t, 1, e.Total)
	assert.Equal(t, 100.0, e.AttendanceRate)

	m2 := stats[model.DateSessionKey{Date: "2026-03-03", Session: model.SessionMorning}]
	require.NotNil(t, m2)
	assert.Equal(t, 0.0, m2.AttendanceRate)
}

func TestAggregateRecords_CountInvariant(t *testing.T) {
	records := []model.AttendanceRecord{
		rec("2026-03-02", model.SessionMorning, "a", true),
		rec("2026-03-02", model.SessionMorning, "b", false),
		rec("2026-03-02", model.SessionMorning, "c", false),
		rec("2026-03-02", model.SessionEvening, "d", true),
	}

	for _, s := range AggregateRecords(records) {
		assert.Equal(t, s.Total, s.Present+s.Absent,
			"total must equal present + absent for %s/%s", s.Date, s.Session)
	}
}

func TestAggregateRecords_DropsInvalidSession(t *testing.T) {
	records := []model.AttendanceRecord{
		rec("2026-03-02", model.SessionMorning, "a", true),
		rec("2026-03-02", "night", "b", true),
		rec("2026-03-02", "", "c", false),
	}

	stats := AggregateRecords(records)
	require.Len(t, stats, 1)

	m := stats[model.DateSessionKey{Date: "2026-03-02", Session: model.SessionMorning}]
	require.NotNil(t, m)
	assert.Equal(t, 1, m.Total)
}

func TestAggregateRecords_Empty(t *testing.T) {
	assert.Empty(t, AggregateRecords(nil))
	assert.Empty(t, AggregateRecords([]model.AttendanceRecord{}))
}

func TestAggregateRecords_OrderIndependentCounts(t *testing.T) {
	forward := []model.AttendanceRecord{
		rec("2026-03-02", model.SessionMorning, "a", true),
		rec("2026-03-02", model.SessionMorning, "b", false),
		rec("2026-03-03", model.SessionEvening, "c", true),
	}
	reversed := []model.AttendanceRecord{forward[2], forward[1], forward[0]}

	a := AggregateRecords(forward)
	b := AggregateRecords(reversed)
	require.Len(t, b, len(a))

	for key, sa := range a {
		sb, ok := b[key]
		require.True(t, ok, "key %v missing after reorder", key)
		assert.Equal(t, sa.Total, sb.Total)
		assert.Equal(t, sa.Present, sb.Present)
		assert.Equal(t, sa.AttendanceRate, sb.AttendanceRate)
	}
}

func TestAggregateRecords_RetainsStudentDetail(t *testing.T) {
	records := []model.AttendanceRecord{
		rec("2026-03-02", model.SessionMorning, "Ahmad", true),
		rec("2026-03-02", model.SessionMorning, "Omar", false),
	}

	stats := AggregateRecords(records)
	m := stats[model.DateSessionKey{Date: "2026-03-02", Session: model.SessionMorning}]
	require.NotNil(t, m)
	require.Len(t, m.Students, 2)
	assert.Equal(t, "Ahmad", m.Students[0].Name)
	assert.True(t, m.Students[0].Present)
	assert.Equal(t, "Omar", m.Students[1].Name)
	assert.False(t, m.Students[1].Present)
}

func TestAggregateDaily(t *testing.T) {
	records := []model.AttendanceRecord{
		rec("2026-03-02", model.SessionMorning, "a", true),
		rec("2026-03-02", model.SessionMorning, "b", false),
		rec("2026-03-02", model.SessionEvening, "c", true),
		rec("2026-03-02", model.SessionEvening, "d", true),
		rec("2026-03-03", model.SessionMorning, "a", true),
	}

	daily := AggregateDaily(records)
	require.Len(t, daily, 2)

	d := daily["2026-03-02"]
	assert.Equal(t, model.SessionCombined, d.Session)
	assert.Equal(t, 4, d.Total)
	assert.Equal(t, 3, d.Present)
	assert.Equal(t, 1, d.Absent)
	assert.Equal(t, 75.0, d.AttendanceRate)
}

func TestAggregateDaily_PoolsBeforeRounding(t *testing.T) {
	// Morning 1/3 = 33.33, evening 1/3 = 33.33; pooled 2/6 = 33.33. An
	// implementation that averaged or summed the session rates would drift
	// on record sets where the pools differ in size.
	records := []model.AttendanceRecord{
		rec("2026-03-02", model.SessionMorning, "a", true),
		rec("2026-03-02", model.SessionMorning, "b", false),
		rec("2026-03-02", model.SessionMorning, "c", false),
		rec("2026-03-02", model.SessionEvening, "d", true),
	}

	daily := AggregateDaily(records)
	// Pooled: 2/4 = 50%. Rate-averaging would give (33.33+100)/2 = 66.67.
	assert.Equal(t, 50.0, daily["2026-03-02"].AttendanceRate)
}

func TestSessionView(t *testing.T) {
	stats := AggregateRecords([]model.AttendanceRecord{
		rec("2026-03-02", model.SessionMorning, "a", true),
		rec("2026-03-02", model.SessionEvening, "b", false),
		rec("2026-03-03", model.SessionMorning, "a", true),
	})

	morning := SessionView(stats, model.SessionMorning)
	require.Len(t, morning, 2)
	assert.Contains(t, morning, "2026-03-02")
	assert.Contains(t, morning, "2026-03-03")

	evening := SessionView(stats, model.SessionEvening)
	require.Len(t, evening, 1)
	assert.Equal(t, 0.0, evening["2026-03-02"].AttendanceRate)
}

func TestSummariesFromDaily(t *testing.T) {
	rows := []model.DailyAttendance{
		{Date: "2026-03-02", Total: 20, Present: 18, Absent: 2, AttendanceRate: 90.0},
		{Date: "2026-03-03", Total: 20, Present: 20, Absent: 0, AttendanceRate: 100.0},
	}

	view := SummariesFromDaily(rows, model.SessionMorning)
	require.Len(t, view, 2)
	assert.Equal(t, model.SessionMorning, view["2026-03-02"].Session)
	assert.Equal(t, 18, view["2026-03-02"].Present)
	assert.Equal(t, 90.0, view["2026-03-02"].AttendanceRate)
}

func TestSortedDates(t *testing.T) {
	a := map[string]model.SessionSummary{"2026-03-03": {}, "2026-03-01": {}}
	b := map[string]model.SessionSummary{"2026-03-02": {}, "2026-03-01": {}}

	dates := SortedDates(a, b)
	assert.Equal(t, []string{"2026-03-01", "2026-03-02", "2026-03-03"}, dates)
}
