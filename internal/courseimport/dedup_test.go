package courseimport

import (
	"testing"

	"github.com/coursedesk/coursedesk-backend/internal/model"
)

func TestIsDuplicateCaseInsensitive(t *testing.T) {
	t.Parallel()

	existing := []ExistingCourse{
		{Code: "CS101", Section: "a", AcademicYear: "2024-2025", Semester: model.SemesterFirst},
	}

	candidate := Candidate{
		Code:         "cs101",
		Section:      "A",
		AcademicYear: "2024-2025",
		Semester:     model.SemesterFirst,
	}
	if !IsDuplicate(candidate, existing) {
		t.Error("case-insensitive natural-key match not detected")
	}
}

func TestIsDuplicateTrimsKeyComponents(t *testing.T) {
	t.Parallel()

	existing := []ExistingCourse{
		{Code: " CS101 ", Section: "A", AcademicYear: "2024-2025", Semester: model.SemesterFirst},
	}
	candidate := Candidate{Code: "CS101", Section: "A", AcademicYear: "2024-2025", Semester: model.SemesterFirst}
	if !IsDuplicate(candidate, existing) {
		t.Error("whitespace in persisted key should not defeat the match")
	}
}

func TestIsDuplicateRequiresWholeKey(t *testing.T) {
	t.Parallel()

	base := ExistingCourse{Code: "CS101", Section: "A", AcademicYear: "2024-2025", Semester: model.SemesterFirst}
	candidate := Candidate{Code: "CS101", Section: "A", AcademicYear: "2024-2025", Semester: model.SemesterFirst}

	variants := []ExistingCourse{
		{Code: "CS102", Section: base.Section, AcademicYear: base.AcademicYear, Semester: base.Semester},
		{Code: base.Code, Section: "B", AcademicYear: base.AcademicYear, Semester: base.Semester},
		{Code: base.Code, Section: base.Section, AcademicYear: "2025-2026", Semester: base.Semester},
		{Code: base.Code, Section: base.Section, AcademicYear: base.AcademicYear, Semester: model.SemesterSecond},
	}
	for _, v := range variants {
		if IsDuplicate(candidate, []ExistingCourse{v}) {
			t.Errorf("partial key match %+v reported as duplicate", v)
		}
	}

	if IsDuplicate(candidate, nil) {
		t.Error("empty snapshot reported a duplicate")
	}
}
