package courseimport

import (
	"fmt"
	"strings"

	"github.com/coursedesk/coursedesk-backend/internal/model"
)

// Report is the aggregate outcome of one uploaded sheet. Fresh holds the
// candidates that passed validation and deduplication and still need
// schedules; Feedback holds the skipped/errored lines accumulated so far.
type Report struct {
	Fresh []Candidate `json:"fresh"`
	// FreshRows maps Fresh[i] back to its 1-based sheet line.
	FreshRows []int           `json:"fresh_rows"`
	Feedback  []FeedbackEntry `json:"feedback"`
	// NeedsConfirmation is set when some rows were dropped but at least one
	// fresh row remains. The caller must obtain an explicit go-ahead before
	// proceeding; the pipeline never assumes confirmation.
	NeedsConfirmation bool `json:"needs_confirmation"`
}

// CapacityError aborts a whole batch before any commit is attempted.
type CapacityError struct {
	Active   int
	Incoming int
	Limit    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("importing %d courses would exceed the limit of %d non-archived courses (currently %d)",
		e.Incoming, e.Limit, e.Active)
}

// Run validates and deduplicates every row of an uploaded sheet.
//
// All rows are validated first (field violations become error feedback), the
// survivors are checked against the existing-course snapshot (matches become
// skip feedback), then admission control runs over the fresh remainder:
// if activeCount plus the incoming non-archived courses would exceed
// maxActive, the whole batch is rejected with a CapacityError and nothing is
// committed. Archived imports never count against the ceiling.
func Run(rows []Row, existing []ExistingCourse, activeCount, maxActive int) (*Report, error) {
	report := &Report{}
	dropped := 0

	for _, row := range rows {
		candidate, violations := ValidateRow(row)
		if len(violations) > 0 {
			report.Feedback = append(report.Feedback, FeedbackEntry{
				Row:     row.Line,
				Code:    strings.ToUpper(strings.TrimSpace(row.Code)),
				Status:  StatusError,
				Message: strings.Join(violations, ", "),
			})
			dropped++
			continue
		}

		if IsDuplicate(candidate, existing) {
			report.Feedback = append(report.Feedback, FeedbackEntry{
				Row:     row.Line,
				Code:    candidate.Code,
				Status:  StatusSkipped,
				Message: "course already exists",
			})
			dropped++
			continue
		}

		report.Fresh = append(report.Fresh, candidate)
		report.FreshRows = append(report.FreshRows, row.Line)
	}

	incoming := 0
	for _, c := range report.Fresh {
		if c.Status != model.CourseStatusArchived {
			incoming++
		}
	}
	if activeCount+incoming > maxActive {
		return nil, &CapacityError{Active: activeCount, Incoming: incoming, Limit: maxActive}
	}

	report.NeedsConfirmation = dropped > 0 && len(report.Fresh) > 0
	return report, nil
}
