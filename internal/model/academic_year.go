package model

import "time"

// AcademicYear represents one school year scope.
type AcademicYear struct {
	ID          int       `json:"id"`
	YearName    string    `json:"year_name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActiveAcademicYear picks the active entry, falling back to the first one
// when none is marked active. Returns nil for an empty list.
func ActiveAcademicYear(years []AcademicYear) *AcademicYear {
	for i := range years {
		if years[i].IsActive {
			return &years[i]
		}
	}
	if len(years) > 0 {
		return &years[0]
	}
	return nil
}
