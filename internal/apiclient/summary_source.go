package apiclient

import (
	"context"

	"github.com/dasschool/das-verify/internal/model"
	"github.com/dasschool/das-verify/internal/service"
)

// SummarySource adapts a Client to service.SummarySource for one academic
// year and period. Each scope is a separate API call, so the combined view
// is exactly what the backend's own no-filter path reports.
type SummarySource struct {
	client         *Client
	academicYearID int
	periodType     string
}

// NewSummarySource creates a SummarySource over an authenticated client.
func NewSummarySource(client *Client, academicYearID int, periodType string) *SummarySource {
	return &SummarySource{
		client:         client,
		academicYearID: academicYearID,
		periodType:     periodType,
	}
}

// Summaries implements service.SummarySource.
func (s *SummarySource) Summaries(ctx context.Context, filter *model.SessionType) (map[string]model.SessionSummary, error) {
	analytics, err := s.client.AttendanceAnalytics(ctx, s.academicYearID, s.periodType, filter)
	if err != nil {
		return nil, err
	}

	session := model.SessionCombined
	if filter != nil {
		session = *filter
	}
	return service.SummariesFromDaily(analytics.StudentAttendance, session), nil
}
