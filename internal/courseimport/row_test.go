package courseimport

import (
	"strings"
	"testing"

	"github.com/coursedesk/coursedesk-backend/internal/model"
)

func validRow() Row {
	return Row{
		Line:         1,
		Code:         "CS101",
		Title:        "Intro",
		Room:         "A101",
		Semester:     model.SemesterFirst,
		AcademicYear: "2024-2025",
		ClassNumber:  "1",
		Section:      "A",
		Status:       "Active",
	}
}

func TestValidateRowHappyPath(t *testing.T) {
	t.Parallel()

	c, errs := ValidateRow(validRow())
	if errs != nil {
		t.Fatalf("unexpected violations: %v", errs)
	}
	if c.Status != model.CourseStatusActive {
		t.Errorf("status = %q, want ACTIVE", c.Status)
	}
	if c.Code != "CS101" || c.Section != "A" || c.ClassNumber != 1 {
		t.Errorf("candidate = %+v", c)
	}
}

func TestValidateRowNormalization(t *testing.T) {
	t.Parallel()

	r := validRow()
	r.Code = "  cs101 "
	r.Section = " b "
	r.Room = " room: a101 "
	r.Status = "aRcHiVeD"

	c, errs := ValidateRow(r)
	if errs != nil {
		t.Fatalf("unexpected violations: %v", errs)
	}
	if c.Code != "CS101" {
		t.Errorf("code = %q", c.Code)
	}
	if c.Section != "B" {
		t.Errorf("section = %q", c.Section)
	}
	if c.Room != "A101" {
		t.Errorf("room = %q, want Room: prefix stripped", c.Room)
	}
	if c.Status != model.CourseStatusArchived {
		t.Errorf("status = %q", c.Status)
	}
}

func TestValidateRowAcademicYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		year    string
		wantMsg string
	}{
		{name: "wrong gap", year: "2024-2026", wantMsg: "exactly one year"},
		{name: "reversed", year: "2025-2024", wantMsg: "start before it ends"},
		{name: "same year", year: "2024-2024", wantMsg: "start before it ends"},
		{name: "bad shape", year: "24-25", wantMsg: "look like"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := validRow()
			r.AcademicYear = tc.year
			_, errs := ValidateRow(r)
			if len(errs) != 1 {
				t.Fatalf("violations = %v, want exactly one", errs)
			}
			if !strings.Contains(errs[0], tc.wantMsg) {
				t.Errorf("violation %q does not mention %q", errs[0], tc.wantMsg)
			}
		})
	}
}

func TestValidateRowClassNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{name: "one", value: "1", ok: true},
		{name: "max", value: "9999999999999", ok: true},
		{name: "zero", value: "0"},
		{name: "negative", value: "-3"},
		{name: "over max", value: "10000000000000"},
		{name: "not a number", value: "abc"},
		{name: "decimal", value: "1.5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := validRow()
			r.ClassNumber = tc.value
			_, errs := ValidateRow(r)
			if tc.ok && errs != nil {
				t.Fatalf("unexpected violations: %v", errs)
			}
			if !tc.ok && len(errs) == 0 {
				t.Fatal("expected a violation")
			}
		})
	}
}

func TestValidateRowAccumulatesAllViolations(t *testing.T) {
	t.Parallel()

	_, errs := ValidateRow(Row{Line: 1})
	// Every one of the eight fields is missing; the row must report all of
	// them at once, not stop at the first.
	if len(errs) != 8 {
		t.Fatalf("got %d violations, want 8: %v", len(errs), errs)
	}
}

func TestValidateRowLengthLimits(t *testing.T) {
	t.Parallel()

	r := validRow()
	r.Code = strings.Repeat("X", MaxCodeLen+1)
	r.Title = strings.Repeat("T", MaxTitleLen+1)
	r.Section = strings.Repeat("S", MaxSectionLen+1)
	r.Room = strings.Repeat("R", MaxRoomLen+1)

	_, errs := ValidateRow(r)
	if len(errs) != 4 {
		t.Fatalf("got %d violations, want 4: %v", len(errs), errs)
	}
}

func TestValidateRowStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []string{"active", "INACTIVE", "Archived"} {
		r := validRow()
		r.Status = status
		if _, errs := ValidateRow(r); errs != nil {
			t.Errorf("status %q rejected: %v", status, errs)
		}
	}

	r := validRow()
	r.Status = "PENDING"
	if _, errs := ValidateRow(r); len(errs) == 0 {
		t.Error("unknown status accepted")
	}
}
