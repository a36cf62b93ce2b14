package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dasschool/das-verify/internal/model"
	"github.com/dasschool/das-verify/internal/response"
	"github.com/dasschool/das-verify/internal/service"
)

// AnalyticsHandler handles attendance analytics endpoints.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Attendance godoc
// GET /api/v1/analytics/attendance?academic_year_id=&period_type=&session_type=
// Returns per-date attendance stats. Omitting session_type yields the
// combined (no filter) view.
func (h *AnalyticsHandler) Attendance(c *gin.Context) {
	academicYearID, err := strconv.Atoi(c.Query("academic_year_id"))
	if err != nil || academicYearID <= 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"academic_year_id": "must be a positive integer",
		})
		return
	}

	periodType := c.DefaultQuery("period_type", "monthly")

	var filter *model.SessionType
	if raw := c.Query("session_type"); raw != "" {
		session := model.SessionType(raw)
		if !session.Valid() {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"session_type": "must be morning or evening",
			})
			return
		}
		filter = &session
	}

	analytics, err := h.analyticsService.AttendanceAnalytics(c.Request.Context(), academicYearID, periodType, filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, analytics)
}
