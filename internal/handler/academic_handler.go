package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dasschool/das-verify/internal/model"
	"github.com/dasschool/das-verify/internal/repository"
	"github.com/dasschool/das-verify/internal/response"
)

// AcademicHandler handles academic year endpoints.
type AcademicHandler struct {
	yearRepo *repository.AcademicYearRepository
}

// NewAcademicHandler creates a new AcademicHandler.
func NewAcademicHandler(yearRepo *repository.AcademicYearRepository) *AcademicHandler {
	return &AcademicHandler{yearRepo: yearRepo}
}

// ListYears godoc
// GET /api/v1/academic/years
// Returns all academic years, newest first.
func (h *AcademicHandler) ListYears(c *gin.Context) {
	years, err := h.yearRepo.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if years == nil {
		years = []model.AcademicYear{}
	}
	response.Success(c, http.StatusOK, years)
}
