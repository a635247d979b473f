package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursedesk/coursedesk-backend/internal/middleware"
	"github.com/coursedesk/coursedesk-backend/internal/response"
	"github.com/coursedesk/coursedesk-backend/internal/service"
)

// DashboardHandler handles the faculty landing-page overview.
type DashboardHandler struct {
	courseService *service.CourseService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(courseService *service.CourseService) *DashboardHandler {
	return &DashboardHandler{courseService: courseService}
}

// GetDashboard godoc
// GET /api/v1/faculty/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)

	summary, err := h.courseService.Dashboard(c.Request.Context(), claims.FacultyID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, summary)
}
