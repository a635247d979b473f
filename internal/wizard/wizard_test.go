package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coursedesk/coursedesk-backend/internal/courseimport"
	"github.com/coursedesk/coursedesk-backend/internal/model"
	"github.com/coursedesk/coursedesk-backend/internal/schedule"
)

type fakeCommitter struct {
	calls   int
	err     error
	outcome Outcome
}

func (f *fakeCommitter) Commit(ctx context.Context, s *Session) (*Outcome, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := f.outcome
	return &out, nil
}

func candidates(codes ...string) []courseimport.Candidate {
	cs := make([]courseimport.Candidate, len(codes))
	for i, code := range codes {
		cs[i] = courseimport.Candidate{
			Code: code, Title: "T", Room: "A101",
			Semester: model.SemesterFirst, AcademicYear: "2024-2025",
			ClassNumber: int64(i + 1), Section: "A",
			Status: model.CourseStatusActive,
		}
	}
	return cs
}

func goodDraft() []schedule.Draft {
	return []schedule.Draft{{Day: "Monday", From: "9:00 AM", To: "10:30 AM"}}
}

func TestNewModeArity(t *testing.T) {
	t.Parallel()

	if _, err := New(ModeCreate, 1, candidates("A", "B")); err == nil {
		t.Error("create mode accepted two courses")
	}
	if _, err := New(ModeEdit, 1, nil); err == nil {
		t.Error("edit mode accepted zero courses")
	}
	if _, err := New(ModeImport, 1, candidates("A", "B", "C")); err != nil {
		t.Errorf("import mode rejected three courses: %v", err)
	}
}

func TestNextAdvancesAndSubmits(t *testing.T) {
	t.Parallel()

	s, err := New(ModeImport, 1, candidates("A", "B"))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Next(goodDraft()); err != nil {
		t.Fatalf("step 0: %v", err)
	}
	if s.Index != 1 || s.State != StateEditing {
		t.Fatalf("after step 0: index=%d state=%s", s.Index, s.State)
	}

	if err := s.Next(goodDraft()); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if s.State != StateSubmitting {
		t.Fatalf("after last step: state=%s", s.State)
	}
	if len(s.Accepted[0]) != 1 || len(s.Accepted[1]) != 1 {
		t.Errorf("accepted = %+v", s.Accepted)
	}
}

func TestNextValidationFailureStaysPut(t *testing.T) {
	t.Parallel()

	s, _ := New(ModeCreate, 1, candidates("A"))

	err := s.Next([]schedule.Draft{{Day: "Monday", From: "9:00", To: "9:10"}})
	if err == nil {
		t.Fatal("invalid draft accepted")
	}
	if s.State != StateEditing || s.Index != 0 {
		t.Fatalf("state=%s index=%d, want editing step 0", s.State, s.Index)
	}
	// The failed draft is retained so the form re-renders as typed.
	if len(s.Drafts[0]) != 1 {
		t.Error("failed draft not retained")
	}
}

func TestBackRestoresDraft(t *testing.T) {
	t.Parallel()

	s, _ := New(ModeImport, 1, candidates("A", "B", "C"))

	first := goodDraft()
	if err := s.Next(first); err != nil {
		t.Fatal(err)
	}

	typedAtSecond := []schedule.Draft{{Day: "Tuesday", From: "1:00 PM", To: ""}}
	if err := s.Back(typedAtSecond); err != nil {
		t.Fatal(err)
	}

	idx, course, draft := s.Current()
	if idx != 0 || course.Code != "A" {
		t.Fatalf("current = %d %q", idx, course.Code)
	}
	if len(draft) != 1 || draft[0].Day != "Monday" {
		t.Fatalf("draft at step 0 = %+v, want the originally entered rows", draft)
	}

	// Moving forward again restores the half-typed draft at step 1.
	if err := s.Next(draft); err != nil {
		t.Fatal(err)
	}
	_, _, draft = s.Current()
	if len(draft) != 1 || draft[0].Day != "Tuesday" || draft[0].To != "" {
		t.Fatalf("draft at step 1 = %+v, want the partial rows back", draft)
	}
}

func TestBackUnavailable(t *testing.T) {
	t.Parallel()

	s, _ := New(ModeImport, 1, candidates("A", "B"))
	if err := s.Back(nil); !errors.Is(err, ErrBackUnavailable) {
		t.Errorf("back at step 0: err = %v", err)
	}

	c, _ := New(ModeCreate, 1, candidates("A"))
	if err := c.Back(nil); !errors.Is(err, ErrBackUnavailable) {
		t.Errorf("back in create mode: err = %v", err)
	}
}

func TestSkipImportOnly(t *testing.T) {
	t.Parallel()

	s, _ := New(ModeImport, 1, candidates("A", "B"))
	if err := s.Skip(); err != nil {
		t.Fatal(err)
	}
	if !s.Skipped[0] || s.Index != 1 {
		t.Fatalf("after skip: skipped=%v index=%d", s.Skipped, s.Index)
	}

	c, _ := New(ModeCreate, 1, candidates("A"))
	if err := c.Skip(); !errors.Is(err, ErrSkipUnavailable) {
		t.Errorf("skip in create mode: err = %v", err)
	}
}

func TestCancelRequiresConfirmation(t *testing.T) {
	t.Parallel()

	s, _ := New(ModeCreate, 1, candidates("A"))
	if err := s.Cancel(false); !errors.Is(err, ErrCancelNotConfirmed) {
		t.Fatalf("unconfirmed cancel: err = %v", err)
	}
	if s.State != StateEditing {
		t.Fatal("unconfirmed cancel changed state")
	}

	if err := s.Cancel(true); err != nil {
		t.Fatal(err)
	}
	if s.State != StateCancelled {
		t.Fatalf("state = %s", s.State)
	}
}

func TestCancelBeforeSubmitIssuesNoCommit(t *testing.T) {
	t.Parallel()

	s, _ := New(ModeCreate, 1, candidates("A"))
	committer := &fakeCommitter{}

	_ = s.Cancel(true)
	if _, err := s.Submit(context.Background(), committer); !errors.Is(err, ErrNotSubmitting) {
		t.Fatalf("submit after cancel: err = %v", err)
	}
	if committer.calls != 0 {
		t.Fatalf("commit called %d times, want 0", committer.calls)
	}
}

func TestSubmitMergesFeedback(t *testing.T) {
	t.Parallel()

	s, _ := New(ModeImport, 1, candidates("A"))
	s.PriorFeedback = []courseimport.FeedbackEntry{
		{Row: 2, Code: "B", Status: courseimport.StatusSkipped, Message: "course already exists"},
		{Row: 3, Code: "C", Status: courseimport.StatusError, Message: "course title is required"},
	}
	if err := s.Next(goodDraft()); err != nil {
		t.Fatal(err)
	}

	committer := &fakeCommitter{outcome: Outcome{
		Success: 1,
		Feedback: []courseimport.FeedbackEntry{
			{Row: 1, Code: "A", Status: courseimport.StatusImported, Message: "imported"},
		},
	}}

	report, err := s.Submit(context.Background(), committer)
	if err != nil {
		t.Fatal(err)
	}
	if s.State != StateDone {
		t.Fatalf("state = %s", s.State)
	}
	// Pipeline counts are added to the storage counts, not overwritten.
	if report.Success != 1 || report.Failed != 1 || report.Skipped != 1 {
		t.Fatalf("report counts = %+v", report)
	}
	if len(report.Feedback) != 3 {
		t.Fatalf("feedback = %+v", report.Feedback)
	}
}

func TestSubmitTransportFailurePreservesSession(t *testing.T) {
	t.Parallel()

	s, _ := New(ModeCreate, 1, candidates("A"))
	if err := s.Next(goodDraft()); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("connection reset")
	committer := &fakeCommitter{err: boom}

	if _, err := s.Submit(context.Background(), committer); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if s.State != StateSubmitting {
		t.Fatalf("state = %s, want submitting for retry", s.State)
	}

	// Retry succeeds against a recovered committer.
	committer.err = nil
	committer.outcome = Outcome{Success: 1}
	if _, err := s.Submit(context.Background(), committer); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if committer.calls != 2 {
		t.Fatalf("calls = %d", committer.calls)
	}
}

func TestStoreLifecycle(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)
	s, _ := New(ModeCreate, 1, candidates("A"))
	store.Put(s)

	if err := store.With("nope", func(*Session) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown id: err = %v", err)
	}

	if err := store.With(s.ID, func(sess *Session) error {
		return sess.Cancel(true)
	}); err != nil {
		t.Fatal(err)
	}

	// Finished sessions are removed on the way out.
	if store.Len() != 0 {
		t.Fatalf("store len = %d, want 0", store.Len())
	}
}

func TestStoreReapExpired(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	fresh, _ := New(ModeCreate, 1, candidates("A"))
	stale, _ := New(ModeCreate, 2, candidates("B"))
	stale.TouchedAt = time.Now().Add(-2 * time.Minute)
	store.Put(fresh)
	store.Put(stale)

	if n := store.ReapExpired(); n != 1 {
		t.Fatalf("reaped %d, want 1", n)
	}
	if store.Len() != 1 {
		t.Fatalf("store len = %d, want 1", store.Len())
	}
}
