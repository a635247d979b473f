package courseimport

import (
	"errors"
	"testing"

	"github.com/coursedesk/coursedesk-backend/internal/model"
)

func sheetRow(line int, code, section string) Row {
	r := validRow()
	r.Line = line
	r.Code = code
	r.Section = section
	return r
}

func TestRunAllFresh(t *testing.T) {
	t.Parallel()

	rows := []Row{sheetRow(1, "CS101", "A"), sheetRow(2, "CS102", "A")}
	report, err := Run(rows, nil, 0, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Fresh) != 2 || len(report.Feedback) != 0 {
		t.Fatalf("report = %+v", report)
	}
	if report.NeedsConfirmation {
		t.Error("clean sheet must not require confirmation")
	}
	if report.FreshRows[0] != 1 || report.FreshRows[1] != 2 {
		t.Errorf("fresh rows = %v", report.FreshRows)
	}
}

func TestRunPartitionsOutcomes(t *testing.T) {
	t.Parallel()

	bad := sheetRow(2, "CS102", "A")
	bad.AcademicYear = "2024-2026"

	existing := []ExistingCourse{
		{Code: "CS103", Section: "A", AcademicYear: "2024-2025", Semester: model.SemesterFirst},
	}
	rows := []Row{sheetRow(1, "CS101", "A"), bad, sheetRow(3, "CS103", "A")}

	report, err := Run(rows, existing, 0, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Fresh) != 1 || report.Fresh[0].Code != "CS101" {
		t.Fatalf("fresh = %+v", report.Fresh)
	}
	if len(report.Feedback) != 2 {
		t.Fatalf("feedback = %+v", report.Feedback)
	}
	if report.Feedback[0].Status != StatusError || report.Feedback[0].Row != 2 {
		t.Errorf("feedback[0] = %+v", report.Feedback[0])
	}
	if report.Feedback[1].Status != StatusSkipped || report.Feedback[1].Row != 3 {
		t.Errorf("feedback[1] = %+v", report.Feedback[1])
	}
	if !report.NeedsConfirmation {
		t.Error("mixed outcome must surface the confirmation flag")
	}
}

func TestRunCapacityAbortsWholeBatch(t *testing.T) {
	t.Parallel()

	rows := []Row{sheetRow(1, "CS101", "A"), sheetRow(2, "CS102", "A")}
	report, err := Run(rows, nil, 14, 15)
	if report != nil {
		t.Fatalf("report = %+v, want nil on capacity abort", report)
	}
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, want CapacityError", err)
	}
	if capErr.Active != 14 || capErr.Incoming != 2 || capErr.Limit != 15 {
		t.Errorf("capacity error = %+v", capErr)
	}
}

func TestRunArchivedRowsDoNotCountAgainstCapacity(t *testing.T) {
	t.Parallel()

	archived := sheetRow(1, "CS101", "A")
	archived.Status = "Archived"
	rows := []Row{archived, sheetRow(2, "CS102", "A")}

	report, err := Run(rows, nil, 14, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Fresh) != 2 {
		t.Fatalf("fresh = %+v", report.Fresh)
	}
}

func TestRunZeroFresh(t *testing.T) {
	t.Parallel()

	existing := []ExistingCourse{
		{Code: "CS101", Section: "A", AcademicYear: "2024-2025", Semester: model.SemesterFirst},
	}
	report, err := Run([]Row{sheetRow(1, "CS101", "A")}, existing, 0, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Fresh) != 0 || len(report.Feedback) != 1 {
		t.Fatalf("report = %+v", report)
	}
	// Nothing fresh remains, so there is nothing to confirm.
	if report.NeedsConfirmation {
		t.Error("confirmation flag set with zero fresh rows")
	}
}

func TestRunErrorFeedbackJoinsViolations(t *testing.T) {
	t.Parallel()

	bad := Row{Line: 1, Code: "CS101"}
	report, err := Run([]Row{bad}, nil, 0, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Feedback) != 1 {
		t.Fatalf("feedback = %+v", report.Feedback)
	}
	entry := report.Feedback[0]
	if entry.Code != "CS101" || entry.Status != StatusError {
		t.Errorf("entry = %+v", entry)
	}
	// Several fields are missing; the message carries them all, comma-joined.
	if got := len(entry.Message); got < 40 {
		t.Errorf("message %q looks truncated", entry.Message)
	}
}
