// Package wizard drives the step-per-course schedule collection flow:
// Editing(i) → … → Submitting → Done | Cancelled, with lossless back/forward
// navigation over per-course drafts.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coursedesk/coursedesk-backend/internal/courseimport"
	"github.com/coursedesk/coursedesk-backend/internal/schedule"
)

// Mode selects the commit behavior of a session. The set is closed; each
// mode has exactly one Committer implementation.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
	ModeImport Mode = "import"
)

// State is the lifecycle phase of a session.
type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateDone       State = "done"
	StateCancelled  State = "cancelled"
)

// Session-navigation errors.
var (
	ErrNotEditing         = errors.New("wizard is not in an editing step")
	ErrNotSubmitting      = errors.New("wizard is not ready to submit")
	ErrFinished           = errors.New("wizard session is finished")
	ErrBackUnavailable    = errors.New("cannot go back from this step")
	ErrSkipUnavailable    = errors.New("skipping is only available during import")
	ErrCancelNotConfirmed = errors.New("cancellation requires confirmation")
)

// Outcome is what a Committer reports after persisting a session: per-mode
// success/failure counts plus row-addressable feedback (imported rows and
// storage-side errors).
type Outcome struct {
	Success  int
	Failed   int
	Feedback []courseimport.FeedbackEntry
}

// Committer persists a finished session. Implementations are mode-specific:
// atomic single create, wholesale schedule replacement, or independent batch
// imports with partial success.
type Committer interface {
	Commit(ctx context.Context, s *Session) (*Outcome, error)
}

// Report is the final unified result handed to the caller after submission:
// the pipeline's own skip/error entries plus whatever the storage layer
// reported, counts added together rather than overwritten.
type Report struct {
	Success  int                          `json:"success"`
	Failed   int                          `json:"failed"`
	Skipped  int                          `json:"skipped"`
	Feedback []courseimport.FeedbackEntry `json:"feedback"`
}

// Session is the exclusive mutable state of one wizard invocation. It lives
// only until completion or cancellation and is never shared between two
// concurrent wizard instances; the Store enforces single ownership.
type Session struct {
	ID        string
	Mode      Mode
	FacultyID int

	// Courses awaiting schedules, in step order. One per step.
	Courses []courseimport.Candidate
	// CourseRows maps each course to its original sheet line (import mode).
	CourseRows []int
	// TargetSlug identifies the existing course in edit mode.
	TargetSlug string

	// Index is the current editing step while State == StateEditing.
	Index int
	// Drafts is the per-course draft arena: raw form rows are kept per
	// index so Back/Next navigation is lossless, never recomputed.
	Drafts [][]schedule.Draft
	// Accepted holds the cleaned entries for steps confirmed via Next.
	Accepted [][]schedule.Entry
	// Skipped marks steps advanced without schedules (import mode only).
	Skipped []bool

	State State
	// PriorFeedback carries the import pipeline's skip/error entries into
	// the final report.
	PriorFeedback []courseimport.FeedbackEntry

	CreatedAt time.Time
	// TouchedAt is bumped on every transition; the reaper expires stale
	// sessions by it.
	TouchedAt time.Time
}

// New starts a session in Editing(0). Create and edit sessions carry exactly
// one course; import sessions carry one or more.
func New(mode Mode, facultyID int, courses []courseimport.Candidate) (*Session, error) {
	if len(courses) == 0 {
		return nil, errors.New("wizard needs at least one course")
	}
	if (mode == ModeCreate || mode == ModeEdit) && len(courses) != 1 {
		return nil, fmt.Errorf("%s mode takes exactly one course, got %d", mode, len(courses))
	}

	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		FacultyID: facultyID,
		Courses:   courses,
		Drafts:    make([][]schedule.Draft, len(courses)),
		Accepted:  make([][]schedule.Entry, len(courses)),
		Skipped:   make([]bool, len(courses)),
		State:     StateEditing,
		CreatedAt: now,
		TouchedAt: now,
	}, nil
}

func (s *Session) touch() {
	s.TouchedAt = time.Now()
}

// Current returns the step index, its course, and the retained draft for it.
func (s *Session) Current() (int, courseimport.Candidate, []schedule.Draft) {
	return s.Index, s.Courses[s.Index], s.Drafts[s.Index]
}

// Next validates the draft for the current course. On failure the session
// stays in Editing(Index) and the validation error is returned. On success
// the cleaned entries are stored for this index and the session advances,
// moving to Submitting after the last course.
func (s *Session) Next(draft []schedule.Draft) error {
	if s.State != StateEditing {
		return ErrNotEditing
	}
	s.touch()
	s.Drafts[s.Index] = draft

	entries, err := schedule.Validate(draft, schedule.Options{EnforceWindow: true})
	if err != nil {
		return err
	}

	s.Accepted[s.Index] = entries
	s.Skipped[s.Index] = false
	s.advance()
	return nil
}

// Skip advances past the current course without validation. Import mode
// only; the course is still created, just without schedules (storage marks
// schedule-less courses inactive, not this state machine).
func (s *Session) Skip() error {
	if s.State != StateEditing {
		return ErrNotEditing
	}
	if s.Mode != ModeImport {
		return ErrSkipUnavailable
	}
	s.touch()
	s.Accepted[s.Index] = nil
	s.Skipped[s.Index] = true
	s.advance()
	return nil
}

func (s *Session) advance() {
	if s.Index == len(s.Courses)-1 {
		s.State = StateSubmitting
		return
	}
	s.Index++
}

// Back stores the current draft as typed and returns to the previous step,
// restoring whatever draft was previously entered there. Import mode only.
func (s *Session) Back(draft []schedule.Draft) error {
	if s.State != StateEditing {
		return ErrNotEditing
	}
	if s.Mode != ModeImport || s.Index == 0 {
		return ErrBackUnavailable
	}
	s.touch()
	s.Drafts[s.Index] = draft
	s.Index--
	return nil
}

// Cancel ends the session without persisting anything. It must be confirmed
// explicitly. Cancelling guarantees: create — the create call is never
// issued; import — none of the batch is persisted; edit — the pre-existing
// schedule is untouched.
func (s *Session) Cancel(confirmed bool) error {
	if s.State == StateDone || s.State == StateCancelled {
		return ErrFinished
	}
	if !confirmed {
		return ErrCancelNotConfirmed
	}
	s.touch()
	s.State = StateCancelled
	return nil
}

// Submit issues exactly one commit call for the session's mode. A transport
// failure leaves the session in Submitting so the user can retry; it is
// never reset. On success the storage outcome is merged with the pipeline's
// prior feedback and the session reaches Done.
func (s *Session) Submit(ctx context.Context, committer Committer) (*Report, error) {
	if s.State != StateSubmitting {
		return nil, ErrNotSubmitting
	}
	s.touch()

	outcome, err := committer.Commit(ctx, s)
	if err != nil {
		// Session intentionally preserved for retry.
		return nil, err
	}

	report := &Report{
		Success:  outcome.Success,
		Failed:   outcome.Failed,
		Feedback: append([]courseimport.FeedbackEntry{}, s.PriorFeedback...),
	}
	for _, fb := range s.PriorFeedback {
		switch fb.Status {
		case courseimport.StatusSkipped:
			report.Skipped++
		case courseimport.StatusError:
			report.Failed++
		}
	}
	report.Feedback = append(report.Feedback, outcome.Feedback...)

	s.State = StateDone
	return report, nil
}
