package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coursedesk/coursedesk-backend/internal/courseimport"
	"github.com/coursedesk/coursedesk-backend/internal/middleware"
	"github.com/coursedesk/coursedesk-backend/internal/repository"
	"github.com/coursedesk/coursedesk-backend/internal/response"
	"github.com/coursedesk/coursedesk-backend/internal/schedule"
	"github.com/coursedesk/coursedesk-backend/internal/service"
	"github.com/coursedesk/coursedesk-backend/internal/validator"
	"github.com/coursedesk/coursedesk-backend/internal/wizard"
)

// WizardHandler drives the step-per-course schedule wizard over HTTP.
type WizardHandler struct {
	store         *wizard.Store
	committers    *service.WizardCommitters
	courseService *service.CourseService
	importService *service.ImportService
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(store *wizard.Store, committers *service.WizardCommitters, courseService *service.CourseService, importService *service.ImportService) *WizardHandler {
	return &WizardHandler{
		store:         store,
		committers:    committers,
		courseService: courseService,
		importService: importService,
	}
}

// StartWizardRequest is the wizard start payload. Exactly one of the
// mode-specific groups applies: course fields for create, slug for edit,
// import_token for import.
type StartWizardRequest struct {
	Mode string `json:"mode" binding:"required,oneof=create edit import"`

	// create mode
	Code         string `json:"code"`
	Title        string `json:"title"`
	Room         string `json:"room"`
	Semester     string `json:"semester"`
	AcademicYear string `json:"academic_year"`
	ClassNumber  string `json:"class_number"`
	Section      string `json:"section"`
	Status       string `json:"status"`

	// edit mode
	Slug string `json:"slug"`

	// import mode
	ImportToken string `json:"import_token"`
}

// wizardView is the client-facing snapshot of a session.
type wizardView struct {
	ID      string                 `json:"id"`
	Mode    wizard.Mode            `json:"mode"`
	State   wizard.State           `json:"state"`
	Step    int                    `json:"step"`
	Total   int                    `json:"total"`
	Course  courseimport.Candidate `json:"course"`
	Draft   []schedule.Draft       `json:"draft"`
	Skipped bool                   `json:"skipped"`
}

func viewOf(s *wizard.Session) wizardView {
	v := wizardView{
		ID:    s.ID,
		Mode:  s.Mode,
		State: s.State,
		Step:  s.Index + 1,
		Total: len(s.Courses),
	}
	v.Course = s.Courses[s.Index]
	v.Draft = s.Drafts[s.Index]
	v.Skipped = s.Skipped[s.Index]
	return v
}

// StartWizard godoc
// POST /api/v1/faculty/wizard
func (h *WizardHandler) StartWizard(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req StartWizardRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var session *wizard.Session
	var err error
	switch wizard.Mode(req.Mode) {
	case wizard.ModeCreate:
		session, err = h.startCreate(c, claims.FacultyID, req)
	case wizard.ModeEdit:
		session, err = h.startEdit(c, claims.FacultyID, req)
	case wizard.ModeImport:
		session, err = h.startImport(c, claims.FacultyID, req)
	}
	if err != nil || session == nil {
		// The mode-specific starters have already written the response.
		return
	}

	h.store.Put(session)
	response.Success(c, http.StatusCreated, viewOf(session))
}

func (h *WizardHandler) startCreate(c *gin.Context, facultyID int, req StartWizardRequest) (*wizard.Session, error) {
	candidate, violations := courseimport.ValidateRow(courseimport.Row{
		Line:         1,
		Code:         req.Code,
		Title:        req.Title,
		Room:         req.Room,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		ClassNumber:  req.ClassNumber,
		Section:      req.Section,
		Status:       req.Status,
	})
	if len(violations) > 0 {
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrValidation, strings.Join(violations, ", "))
		return nil, errors.New("invalid course form")
	}

	existing, err := h.courseService.NaturalKeys(c.Request.Context(), facultyID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return nil, err
	}
	if courseimport.IsDuplicate(candidate, existing) {
		response.Fail(c, http.StatusConflict, response.ErrDuplicateCourse)
		return nil, errors.New("duplicate course")
	}

	return wizard.New(wizard.ModeCreate, facultyID, []courseimport.Candidate{candidate})
}

func (h *WizardHandler) startEdit(c *gin.Context, facultyID int, req StartWizardRequest) (*wizard.Session, error) {
	if req.Slug == "" {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "edit mode requires a course slug")
		return nil, errors.New("missing slug")
	}

	course, entries, err := h.courseService.Schedules(c.Request.Context(), facultyID, req.Slug)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		} else {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return nil, err
	}

	candidate := courseimport.Candidate{
		Code:         course.Code,
		Title:        course.Title,
		Room:         course.Room,
		Semester:     course.Semester,
		AcademicYear: course.AcademicYear,
		ClassNumber:  course.ClassNumber,
		Section:      course.Section,
		Status:       course.Status,
	}
	session, err := wizard.New(wizard.ModeEdit, facultyID, []courseimport.Candidate{candidate})
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return nil, err
	}
	session.TargetSlug = course.Slug

	// Prefill the draft form from the stored schedule so the user edits in
	// place instead of retyping.
	drafts := make([]schedule.Draft, len(entries))
	for i, e := range entries {
		drafts[i] = schedule.Draft{
			Day:  e.Day.FullName(),
			From: e.From.Format24Hour(),
			To:   e.To.Format24Hour(),
		}
	}
	session.Drafts[0] = drafts
	return session, nil
}

func (h *WizardHandler) startImport(c *gin.Context, facultyID int, req StartWizardRequest) (*wizard.Session, error) {
	if req.ImportToken == "" {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "import mode requires an import token")
		return nil, errors.New("missing import token")
	}

	pending, err := h.importService.TakePending(c.Request.Context(), facultyID, req.ImportToken)
	if err != nil {
		if errors.Is(err, service.ErrPendingImportNotFound) {
			response.Fail(c, http.StatusGone, response.ErrImportExpired)
		} else {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return nil, err
	}

	session, err := wizard.New(wizard.ModeImport, facultyID, pending.Candidates)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return nil, err
	}
	session.CourseRows = pending.Rows
	session.PriorFeedback = pending.Feedback
	return session, nil
}

// DraftRequest carries the schedule form rows for the current step.
type DraftRequest struct {
	Drafts []schedule.Draft `json:"drafts"`
}

// CancelRequest carries the explicit cancellation confirmation.
type CancelRequest struct {
	Confirmed bool `json:"confirmed"`
}

// GetWizard godoc
// GET /api/v1/faculty/wizard/:id
func (h *WizardHandler) GetWizard(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var view wizardView
	err := h.store.With(c.Param("id"), func(s *wizard.Session) error {
		if s.FacultyID != claims.FacultyID {
			return wizard.ErrSessionNotFound
		}
		view = viewOf(s)
		return nil
	})
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrWizardNotFound)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// NextStep godoc
// POST /api/v1/faculty/wizard/:id/next
func (h *WizardHandler) NextStep(c *gin.Context) {
	h.step(c, func(s *wizard.Session, drafts []schedule.Draft) error {
		return s.Next(drafts)
	})
}

// BackStep godoc
// POST /api/v1/faculty/wizard/:id/back
func (h *WizardHandler) BackStep(c *gin.Context) {
	h.step(c, func(s *wizard.Session, drafts []schedule.Draft) error {
		return s.Back(drafts)
	})
}

// SkipStep godoc
// POST /api/v1/faculty/wizard/:id/skip
func (h *WizardHandler) SkipStep(c *gin.Context) {
	h.step(c, func(s *wizard.Session, _ []schedule.Draft) error {
		return s.Skip()
	})
}

func (h *WizardHandler) step(c *gin.Context, transition func(*wizard.Session, []schedule.Draft) error) {
	claims := middleware.GetClaims(c)

	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	var view wizardView
	err := h.store.With(c.Param("id"), func(s *wizard.Session) error {
		if s.FacultyID != claims.FacultyID {
			return wizard.ErrSessionNotFound
		}
		if err := transition(s, req.Drafts); err != nil {
			return err
		}
		if s.State == wizard.StateEditing {
			view = viewOf(s)
		} else {
			view = wizardView{ID: s.ID, Mode: s.Mode, State: s.State, Total: len(s.Courses)}
		}
		return nil
	})
	if err != nil {
		failWizardStep(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// CancelWizard godoc
// POST /api/v1/faculty/wizard/:id/cancel
func (h *WizardHandler) CancelWizard(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	err := h.store.With(c.Param("id"), func(s *wizard.Session) error {
		if s.FacultyID != claims.FacultyID {
			return wizard.ErrSessionNotFound
		}
		return s.Cancel(req.Confirmed)
	})
	if err != nil {
		failWizardStep(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"state": wizard.StateCancelled})
}

// SubmitWizard godoc
// POST /api/v1/faculty/wizard/:id/submit
func (h *WizardHandler) SubmitWizard(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var report *wizard.Report
	err := h.store.With(c.Param("id"), func(s *wizard.Session) error {
		if s.FacultyID != claims.FacultyID {
			return wizard.ErrSessionNotFound
		}
		committer, ok := h.committers.For(s.Mode)
		if !ok {
			return wizard.ErrNotSubmitting
		}
		var err error
		report, err = s.Submit(c.Request.Context(), committer)
		return err
	})
	if err != nil {
		var conflictErr *repository.ScheduleConflictError
		var capErr *courseimport.CapacityError
		switch {
		case errors.As(err, &conflictErr):
			response.FailWithDetails(c, http.StatusConflict, response.ErrScheduleConflict, conflictErr.Conflicts)
		case errors.As(err, &capErr):
			response.FailWithMessage(c, http.StatusConflict, response.ErrCourseLimitReached, capErr.Error())
		case errors.Is(err, repository.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			failWizardStep(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, report)
}

// failWizardStep maps wizard navigation and schedule validation failures onto
// the response envelope.
func failWizardStep(c *gin.Context, err error) {
	var incompleteErr *schedule.IncompleteError
	var entryErr *schedule.EntryError
	var overlapErr *schedule.OverlapError

	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrWizardNotFound)
	case errors.Is(err, schedule.ErrNoCompleteEntry),
		errors.As(err, &incompleteErr),
		errors.As(err, &entryErr),
		errors.As(err, &overlapErr):
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrScheduleInvalid, err.Error())
	case errors.Is(err, wizard.ErrCancelNotConfirmed):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrWizardStep, err.Error())
	case errors.Is(err, wizard.ErrNotEditing),
		errors.Is(err, wizard.ErrNotSubmitting),
		errors.Is(err, wizard.ErrFinished),
		errors.Is(err, wizard.ErrBackUnavailable),
		errors.Is(err, wizard.ErrSkipUnavailable):
		response.FailWithMessage(c, http.StatusConflict, response.ErrWizardStep, err.Error())
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
