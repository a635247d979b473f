package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/coursedesk/coursedesk-backend/internal/config"
	"github.com/coursedesk/coursedesk-backend/internal/courseimport"
	"github.com/coursedesk/coursedesk-backend/internal/model"
	"github.com/coursedesk/coursedesk-backend/internal/repository"
	"github.com/coursedesk/coursedesk-backend/internal/schedule"
)

// CourseService handles course listing, lifecycle and export logic.
type CourseService struct {
	courseRepo *repository.CourseRepository
	cfg        *config.Config
	log        zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo *repository.CourseRepository, cfg *config.Config, log zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		cfg:        cfg,
		log:        log.With().Str("component", "course_service").Logger(),
	}
}

// List retrieves one page of the faculty's courses.
func (s *CourseService) List(ctx context.Context, facultyID int, q repository.ListQuery) ([]model.Course, int, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 20
	}
	return s.courseRepo.List(ctx, facultyID, q)
}

// NaturalKeys retrieves the duplicate-check snapshot for the faculty.
func (s *CourseService) NaturalKeys(ctx context.Context, facultyID int) ([]courseimport.ExistingCourse, error) {
	return s.courseRepo.NaturalKeys(ctx, facultyID)
}

// GetBySlug retrieves one course.
func (s *CourseService) GetBySlug(ctx context.Context, facultyID int, slug string) (*model.Course, error) {
	return s.courseRepo.GetBySlug(ctx, facultyID, slug)
}

// Schedules retrieves a course and its schedule entries.
func (s *CourseService) Schedules(ctx context.Context, facultyID int, slug string) (*model.Course, []schedule.Entry, error) {
	course, err := s.courseRepo.GetBySlug(ctx, facultyID, slug)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.courseRepo.SchedulesFor(ctx, course.ID)
	if err != nil {
		return nil, nil, err
	}
	return course, entries, nil
}

// Archive moves a course to ARCHIVED. Archived courses stop counting against
// the admission ceiling.
func (s *CourseService) Archive(ctx context.Context, facultyID int, slug string) (*model.Course, error) {
	return s.courseRepo.UpdateStatus(ctx, facultyID, slug, model.CourseStatusArchived)
}

// Unarchive restores an archived course as INACTIVE, provided the ceiling
// still has room for it.
func (s *CourseService) Unarchive(ctx context.Context, facultyID int, slug string) (*model.Course, error) {
	active, err := s.courseRepo.CountNonArchived(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	if active+1 > s.cfg.MaxActiveCourses {
		return nil, &courseimport.CapacityError{Active: active, Incoming: 1, Limit: s.cfg.MaxActiveCourses}
	}
	return s.courseRepo.UpdateStatus(ctx, facultyID, slug, model.CourseStatusInactive)
}

// Export builds an .xlsx workbook of all the faculty's courses.
func (s *CourseService) Export(ctx context.Context, facultyID int) (*excelize.File, error) {
	courses, _, err := s.courseRepo.List(ctx, facultyID, repository.ListQuery{Page: 1, PerPage: 10000})
	if err != nil {
		return nil, err
	}
	return courseimport.WriteCourses(courses)
}

// DashboardSummary is the faculty landing-page overview.
type DashboardSummary struct {
	Total             int                        `json:"total"`
	ByStatus          map[model.CourseStatus]int `json:"by_status"`
	ActiveLimit       int                        `json:"active_limit"`
	RemainingCapacity int                        `json:"remaining_capacity"`
}

// Dashboard retrieves the faculty's course counts and remaining capacity.
func (s *CourseService) Dashboard(ctx context.Context, facultyID int) (*DashboardSummary, error) {
	counts, err := s.courseRepo.StatusCounts(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		ByStatus:    counts,
		ActiveLimit: s.cfg.MaxActiveCourses,
	}
	for _, n := range counts {
		summary.Total += n
	}
	nonArchived := counts[model.CourseStatusActive] + counts[model.CourseStatusInactive]
	summary.RemainingCapacity = s.cfg.MaxActiveCourses - nonArchived
	if summary.RemainingCapacity < 0 {
		summary.RemainingCapacity = 0
	}
	return summary, nil
}

// CourseSlug derives the URL slug for a course candidate from its natural
// key, e.g. "cs101-a-2024-2025-s1".
func CourseSlug(c courseimport.Candidate) string {
	semester := "s1"
	if c.Semester == model.SemesterSecond {
		semester = "s2"
	}
	raw := fmt.Sprintf("%s-%s-%s-%s", c.Code, c.Section, c.AcademicYear, semester)
	return strings.ReplaceAll(strings.ToLower(raw), " ", "-")
}
