package courseimport

import "strings"

// ExistingCourse is the minimal persisted-course projection needed for
// duplicate detection and the capacity check.
type ExistingCourse struct {
	Code         string
	Section      string
	AcademicYear string
	Semester     string
}

// sameKey compares two natural-key components after trimming, ignoring case.
func sameKey(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// IsDuplicate reports whether the candidate matches an existing course on the
// composite natural key (code, section, academic year, semester).
func IsDuplicate(c Candidate, existing []ExistingCourse) bool {
	for _, e := range existing {
		if sameKey(c.Code, e.Code) &&
			sameKey(c.Section, e.Section) &&
			sameKey(c.AcademicYear, e.AcademicYear) &&
			sameKey(c.Semester, e.Semester) {
			return true
		}
	}
	return false
}
