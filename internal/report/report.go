// Package report renders verification results as tabular terminal output.
package report

import (
	"fmt"
	"io"

	"github.com/dasschool/das-verify/internal/model"
	"github.com/dasschool/das-verify/internal/service"
)

// Renderer writes report sections to a terminal-ish output.
type Renderer struct {
	out io.Writer

	// ShowStudents includes per-student presence detail under each
	// session table (direct DB runs retain that detail, API runs do not).
	ShowStudents bool
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Header prints a section banner.
func (r *Renderer) Header(title string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, sectionStyle.Render(title))
}

// AcademicYear prints the scope the run verified.
func (r *Renderer) AcademicYear(year *model.AcademicYear) {
	fmt.Fprintf(r.out, "Academic year: %s (ID %d)\n", year.YearName, year.ID)
	if year.Description != "" {
		fmt.Fprintf(r.out, "Description:   %s\n", year.Description)
	}
}

// StudentCounts prints active student counts per session.
func (r *Renderer) StudentCounts(counts map[model.SessionType]int) {
	for _, session := range []model.SessionType{model.SessionMorning, model.SessionEvening} {
		if n, ok := counts[session]; ok {
			fmt.Fprintf(r.out, "%s students: %d\n", session, n)
		}
	}
}

// SessionSummaries prints one session's per-date table, newest date first.
func (r *Renderer) SessionSummaries(title string, view map[string]model.SessionSummary) {
	r.Header(title)
	if len(view) == 0 {
		fmt.Fprintln(r.out, "No attendance data found")
		return
	}

	dates := service.SortedDates(view)
	rows := make([][]string, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		s := view[dates[i]]
		rows = append(rows, []string{
			s.Date,
			fmt.Sprintf("%d", s.Total),
			fmt.Sprintf("%d", s.Present),
			fmt.Sprintf("%d", s.Absent),
			formatRate(s.AttendanceRate),
		})
	}
	r.grid([]string{"Date", "Total", "Present", "Absent", "Rate"}, rows)

	if r.ShowStudents {
		for i := len(dates) - 1; i >= 0; i-- {
			s := view[dates[i]]
			if len(s.Students) == 0 {
				continue
			}
			fmt.Fprintf(r.out, "\n%s:\n", s.Date)
			for _, student := range s.Students {
				status := "absent"
				if student.Present {
					status = "present"
				}
				fmt.Fprintf(r.out, "  - %s: %s\n", student.Name, status)
			}
		}
	}
}

// DailyComparison prints the three views side by side per date.
func (r *Renderer) DailyComparison(morning, evening, combined map[string]model.SessionSummary) {
	r.Header("Daily comparison")

	dates := service.SortedDates(morning, evening, combined)
	if len(dates) == 0 {
		fmt.Fprintln(r.out, "No dates to compare")
		return
	}

	rows := make([][]string, 0, len(dates))
	for _, date := range dates {
		rows = append(rows, []string{
			date,
			detailOrDash(morning, date),
			rateOrNA(morning, date),
			detailOrDash(evening, date),
			rateOrNA(evening, date),
			rateOrNA(combined, date),
		})
	}
	r.grid([]string{"Date", "Morning (P/T)", "Morning %", "Evening (P/T)", "Evening %", "Combined %"}, rows)
}

// Mismatches prints reconciliation findings, or a confirmation when clean.
func (r *Renderer) Mismatches(mismatches []model.Mismatch) {
	r.Header("Reconciliation")
	if len(mismatches) == 0 {
		fmt.Fprintln(r.out, "No combined-rate mismatches found")
		return
	}

	rows := make([][]string, 0, len(mismatches))
	for _, m := range mismatches {
		rows = append(rows, []string{
			m.Date,
			formatRate(m.ExpectedRate),
			formatRate(m.ActualRate),
			m.MorningDetail,
			m.EveningDetail,
		})
	}
	r.grid([]string{"Date", "Expected %", "Actual %", "Morning", "Evening"}, rows)
}

// MergedFrontend prints the simulated frontend "both sessions" view.
func (r *Renderer) MergedFrontend(rows []model.MergedAttendanceRow) {
	r.Header("Frontend merged view")
	if len(rows) == 0 {
		fmt.Fprintln(r.out, "No merged rows")
		return
	}

	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, []string{
			row.Date,
			ratePtr(row.MorningRate),
			ratePtr(row.EveningRate),
		})
	}
	r.grid([]string{"Date", "Morning Rate", "Evening Rate"}, tableRows)
}

// Verdict prints the final outcome line.
func (r *Renderer) Verdict(verdict model.Verdict, degraded bool) {
	fmt.Fprintln(r.out)
	switch verdict {
	case model.VerdictFailed:
		fmt.Fprintln(r.out, failStyle.Render("VERIFICATION FAILED"))
	case model.VerdictPassedNoData:
		fmt.Fprintln(r.out, warnStyle.Render("VERIFICATION PASSED (no data fetched, nothing was verified)"))
	default:
		fmt.Fprintln(r.out, passStyle.Render("VERIFICATION PASSED"))
	}
	if degraded {
		fmt.Fprintln(r.out, warnStyle.Render("Warning: one or more fetches failed; scopes were treated as empty"))
	}
}

// Render prints a full verification report.
func (r *Renderer) Render(rep *service.Report) {
	r.SessionSummaries("Morning session attendance", rep.Morning)
	r.SessionSummaries("Evening session attendance", rep.Evening)
	r.SessionSummaries("Combined attendance (no session filter)", rep.Combined)
	r.DailyComparison(rep.Morning, rep.Evening, rep.Combined)
	r.Mismatches(rep.Mismatches)
	r.MergedFrontend(rep.Merged)
	r.Verdict(rep.Verdict, rep.Degraded)
}

func formatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate)
}

func rateOrNA(view map[string]model.SessionSummary, date string) string {
	if s, ok := view[date]; ok {
		return formatRate(s.AttendanceRate)
	}
	return "N/A"
}

func detailOrDash(view map[string]model.SessionSummary, date string) string {
	if s, ok := view[date]; ok {
		return fmt.Sprintf("%d/%d", s.Present, s.Total)
	}
	return "-"
}

func ratePtr(rate *float64) string {
	if rate == nil {
		return "N/A"
	}
	return formatRate(*rate)
}
