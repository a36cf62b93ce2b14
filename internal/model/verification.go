package model

// Mismatch is a reconciliation finding: the combined summary reported for a
// date disagrees with what summing the morning and evening counts predicts.
// Findings are data, not errors.
type Mismatch struct {
	Date          string  `json:"date"`
	ExpectedRate  float64 `json:"expected_rate"`
	ActualRate    float64 `json:"actual_rate"`
	MorningDetail string  `json:"morning_detail"` // "present/total"
	EveningDetail string  `json:"evening_detail"` // "present/total"
}

// MergedAttendanceRow mirrors what the frontend displays for its "both
// sessions" view: one row per date with independent morning and evening
// columns. Nil pointer means the session has no data for that date.
// This is a plain union join, never a recomputation.
type MergedAttendanceRow struct {
	Date           string   `json:"date"`
	MorningRate    *float64 `json:"morning_rate,omitempty"`
	MorningTotal   *int     `json:"morning_total,omitempty"`
	MorningPresent *int     `json:"morning_present,omitempty"`
	MorningAbsent  *int     `json:"morning_absent,omitempty"`
	EveningRate    *float64 `json:"evening_rate,omitempty"`
	EveningTotal   *int     `json:"evening_total,omitempty"`
	EveningPresent *int     `json:"evening_present,omitempty"`
	EveningAbsent  *int     `json:"evening_absent,omitempty"`
}

// Verdict is the overall outcome of a verification run.
type Verdict string

const (
	// VerdictPassed means data was fetched and every combined rate matched.
	VerdictPassed Verdict = "PASSED"
	// VerdictPassedNoData means no records were fetched anywhere, so the
	// run passed trivially. Reported distinctly so an empty scope is never
	// read as a verified-correct backend.
	VerdictPassedNoData Verdict = "PASSED_NO_DATA"
	// VerdictFailed means at least one combined rate mismatch was found.
	VerdictFailed Verdict = "FAILED"
)

// ExitCode maps a verdict to the process exit status. The exit status is
// the sole machine-readable pass/fail signal.
func (v Verdict) ExitCode() int {
	if v == VerdictFailed {
		return 1
	}
	return 0
}
