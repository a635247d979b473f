package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursedesk/coursedesk-backend/internal/courseimport"
	"github.com/coursedesk/coursedesk-backend/internal/middleware"
	"github.com/coursedesk/coursedesk-backend/internal/model"
	"github.com/coursedesk/coursedesk-backend/internal/repository"
	"github.com/coursedesk/coursedesk-backend/internal/response"
	"github.com/coursedesk/coursedesk-backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CourseHandler handles course listing, lifecycle, export and template
// endpoints.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// ListCourses godoc
// GET /api/v1/faculty/courses?q=&status=&semester=&academic_year=&page=&per_page=
func (h *CourseHandler) ListCourses(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := repository.ListQuery{
		Search:       c.Query("q"),
		Status:       c.Query("status"),
		Semester:     c.Query("semester"),
		AcademicYear: c.Query("academic_year"),
		Page:         page,
		PerPage:      perPage,
	}

	courses, total, err := h.courseService.List(c.Request.Context(), claims.FacultyID, q)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, courses, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// GetCourse godoc
// GET /api/v1/faculty/courses/:slug
func (h *CourseHandler) GetCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	course, err := h.courseService.GetBySlug(c.Request.Context(), claims.FacultyID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, course)
}

// GetCourseSchedules godoc
// GET /api/v1/faculty/courses/:slug/schedules
func (h *CourseHandler) GetCourseSchedules(c *gin.Context) {
	claims := middleware.GetClaims(c)

	course, entries, err := h.courseService.Schedules(c.Request.Context(), claims.FacultyID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course, "schedules": entries})
}

// ArchiveCourse godoc
// PATCH /api/v1/faculty/courses/:slug/archive
func (h *CourseHandler) ArchiveCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	course, err := h.courseService.Archive(c.Request.Context(), claims.FacultyID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, course)
}

// UnarchiveCourse godoc
// PATCH /api/v1/faculty/courses/:slug/unarchive
func (h *CourseHandler) UnarchiveCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	course, err := h.courseService.Unarchive(c.Request.Context(), claims.FacultyID, c.Param("slug"))
	if err != nil {
		var capErr *courseimport.CapacityError
		switch {
		case errors.Is(err, repository.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.As(err, &capErr):
			response.FailWithMessage(c, http.StatusConflict, response.ErrCourseLimitReached, capErr.Error())
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, course)
}

// ExportCourses godoc
// GET /api/v1/faculty/courses/export
func (h *CourseHandler) ExportCourses(c *gin.Context) {
	claims := middleware.GetClaims(c)

	f, err := h.courseService.Export(c.Request.Context(), claims.FacultyID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("courses-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// ImportTemplate godoc
// GET /api/v1/faculty/courses/import/template
func (h *CourseHandler) ImportTemplate(c *gin.Context) {
	f, err := courseimport.Template()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="course-import-template.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
