package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/coursedesk/coursedesk-backend/internal/config"
	"github.com/coursedesk/coursedesk-backend/internal/courseimport"
	"github.com/coursedesk/coursedesk-backend/internal/model"
	"github.com/coursedesk/coursedesk-backend/internal/repository"
	"github.com/coursedesk/coursedesk-backend/internal/wizard"
)

// WizardCommitters holds the one commit strategy per wizard mode.
type WizardCommitters struct {
	committers map[wizard.Mode]wizard.Committer
}

// NewWizardCommitters wires the three mode-specific commit strategies.
func NewWizardCommitters(courseRepo *repository.CourseRepository, cfg *config.Config, log zerolog.Logger) *WizardCommitters {
	log = log.With().Str("component", "wizard_commit").Logger()
	return &WizardCommitters{
		committers: map[wizard.Mode]wizard.Committer{
			wizard.ModeCreate: &createCommitter{courseRepo: courseRepo, cfg: cfg, log: log},
			wizard.ModeEdit:   &editCommitter{courseRepo: courseRepo, log: log},
			wizard.ModeImport: &importCommitter{courseRepo: courseRepo, log: log},
		},
	}
}

// For returns the committer for a mode.
func (w *WizardCommitters) For(mode wizard.Mode) (wizard.Committer, bool) {
	c, ok := w.committers[mode]
	return c, ok
}

func candidateToCourse(facultyID int, c courseimport.Candidate) *model.Course {
	return &model.Course{
		Slug:         CourseSlug(c),
		FacultyID:    facultyID,
		Code:         c.Code,
		Title:        c.Title,
		Room:         c.Room,
		Semester:     c.Semester,
		AcademicYear: c.AcademicYear,
		ClassNumber:  c.ClassNumber,
		Section:      c.Section,
		Status:       c.Status,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// createCommitter persists one course with its schedule set, all or nothing.
type createCommitter struct {
	courseRepo *repository.CourseRepository
	cfg        *config.Config
	log        zerolog.Logger
}

func (c *createCommitter) Commit(ctx context.Context, s *wizard.Session) (*wizard.Outcome, error) {
	candidate := s.Courses[0]

	// The ceiling is re-checked at commit time; the wizard may outlive the
	// snapshot the form was opened against.
	if candidate.Status != model.CourseStatusArchived {
		active, err := c.courseRepo.CountNonArchived(ctx, s.FacultyID)
		if err != nil {
			return nil, err
		}
		if active+1 > c.cfg.MaxActiveCourses {
			return nil, &courseimport.CapacityError{Active: active, Incoming: 1, Limit: c.cfg.MaxActiveCourses}
		}
	}

	course := candidateToCourse(s.FacultyID, candidate)
	if err := c.courseRepo.CreateWithSchedules(ctx, course, s.Accepted[0]); err != nil {
		return nil, err
	}

	c.log.Info().Str("slug", course.Slug).Int("faculty_id", s.FacultyID).Msg("Course created")
	return &wizard.Outcome{
		Success: 1,
		Feedback: []courseimport.FeedbackEntry{{
			Row: 1, Code: course.Code, Status: courseimport.StatusImported, Message: "course created",
		}},
	}, nil
}

// editCommitter replaces one existing course's schedules wholesale. The
// course identity itself is never touched.
type editCommitter struct {
	courseRepo *repository.CourseRepository
	log        zerolog.Logger
}

func (c *editCommitter) Commit(ctx context.Context, s *wizard.Session) (*wizard.Outcome, error) {
	course, err := c.courseRepo.GetBySlug(ctx, s.FacultyID, s.TargetSlug)
	if err != nil {
		return nil, err
	}
	// Conflict errors pass through untouched so the handler can surface
	// the itemized list verbatim.
	if err := c.courseRepo.ReplaceSchedules(ctx, course, s.Accepted[0]); err != nil {
		return nil, err
	}

	c.log.Info().Str("slug", course.Slug).Int("entries", len(s.Accepted[0])).Msg("Schedules replaced")
	return &wizard.Outcome{
		Success: 1,
		Feedback: []courseimport.FeedbackEntry{{
			Row: 1, Code: course.Code, Status: courseimport.StatusImported, Message: "schedules replaced",
		}},
	}, nil
}

// importCommitter persists each batch course independently, reporting
// partial success per row instead of failing the whole batch.
type importCommitter struct {
	courseRepo *repository.CourseRepository
	log        zerolog.Logger
}

func (c *importCommitter) Commit(ctx context.Context, s *wizard.Session) (*wizard.Outcome, error) {
	outcome := &wizard.Outcome{}

	for i, candidate := range s.Courses {
		if ctx.Err() != nil {
			// A dead connection is a transport failure: report it as such
			// so the session survives for retry.
			return nil, ctx.Err()
		}

		row := i + 1
		if i < len(s.CourseRows) {
			row = s.CourseRows[i]
		}

		course := candidateToCourse(s.FacultyID, candidate)
		// A course persisted without any schedule surfaces as INACTIVE until
		// the owner fills one in.
		if len(s.Accepted[i]) == 0 && course.Status == model.CourseStatusActive {
			course.Status = model.CourseStatusInactive
		}
		err := c.courseRepo.CreateWithSchedules(ctx, course, s.Accepted[i])
		switch {
		case err == nil:
			outcome.Success++
			message := "course created"
			if s.Skipped[i] {
				message = "course created without schedules"
			}
			outcome.Feedback = append(outcome.Feedback, courseimport.FeedbackEntry{
				Row: row, Code: course.Code, Status: courseimport.StatusImported, Message: message,
			})
		case isUniqueViolation(err):
			// Lost the race against a concurrent import; the natural-key
			// index caught it.
			outcome.Failed++
			outcome.Feedback = append(outcome.Feedback, courseimport.FeedbackEntry{
				Row: row, Code: course.Code, Status: courseimport.StatusError,
				Message: "course already exists",
			})
		default:
			c.log.Error().Err(err).Str("code", course.Code).Msg("Import row failed")
			outcome.Failed++
			outcome.Feedback = append(outcome.Feedback, courseimport.FeedbackEntry{
				Row: row, Code: course.Code, Status: courseimport.StatusError,
				Message: fmt.Sprintf("could not be saved: %v", err),
			})
		}
	}

	return outcome, nil
}
