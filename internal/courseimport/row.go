// Package courseimport validates and deduplicates spreadsheet-imported course
// rows and partitions an uploaded sheet into imported/skipped/errored outcomes.
package courseimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/coursedesk/coursedesk-backend/internal/model"
)

// Field length and value limits for one imported row.
const (
	MaxCodeLen    = 15
	MaxTitleLen   = 80
	MaxSectionLen = 10
	MaxRoomLen    = 15

	// MaxClassNumber is the largest accepted class number.
	MaxClassNumber int64 = 9_999_999_999_999
)

var academicYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// Row is one raw spreadsheet row. Line is its 1-based position in the sheet
// body, used to address feedback back to the uploader.
type Row struct {
	Line         int
	Code         string
	Title        string
	Room         string
	Semester     string
	AcademicYear string
	ClassNumber  string
	Section      string
	Status       string
}

// Candidate is the normalized projection of a Row (or a create-form
// submission) after every field rule has passed.
type Candidate struct {
	Code         string             `json:"code"`
	Title        string             `json:"title"`
	Room         string             `json:"room"`
	Semester     string             `json:"semester"`
	AcademicYear string             `json:"academic_year"`
	ClassNumber  int64              `json:"class_number"`
	Section      string             `json:"section"`
	Status       model.CourseStatus `json:"status"`
}

// ValidateRow checks every field rule and returns either the normalized
// candidate or the full list of violations. All rules are evaluated, not
// short-circuited, so one pass reports everything wrong with the row.
func ValidateRow(r Row) (Candidate, []string) {
	var errs []string
	var c Candidate

	c.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	switch {
	case c.Code == "":
		errs = append(errs, "course code is required")
	case len(c.Code) > MaxCodeLen:
		errs = append(errs, fmt.Sprintf("course code must be at most %d characters", MaxCodeLen))
	}

	c.Title = strings.TrimSpace(r.Title)
	switch {
	case c.Title == "":
		errs = append(errs, "course title is required")
	case len(c.Title) > MaxTitleLen:
		errs = append(errs, fmt.Sprintf("course title must be at most %d characters", MaxTitleLen))
	}

	c.Section = strings.ToUpper(strings.TrimSpace(r.Section))
	switch {
	case c.Section == "":
		errs = append(errs, "section is required")
	case len(c.Section) > MaxSectionLen:
		errs = append(errs, fmt.Sprintf("section must be at most %d characters", MaxSectionLen))
	}

	c.Room = normalizeRoom(r.Room)
	switch {
	case c.Room == "":
		errs = append(errs, "room is required")
	case len(c.Room) > MaxRoomLen:
		errs = append(errs, fmt.Sprintf("room must be at most %d characters", MaxRoomLen))
	}

	c.Semester = strings.TrimSpace(r.Semester)
	switch c.Semester {
	case "":
		errs = append(errs, "semester is required")
	case model.SemesterFirst, model.SemesterSecond:
	default:
		errs = append(errs, fmt.Sprintf("semester must be %q or %q", model.SemesterFirst, model.SemesterSecond))
	}

	c.AcademicYear = strings.TrimSpace(r.AcademicYear)
	if c.AcademicYear == "" {
		errs = append(errs, "academic year is required")
	} else if err := checkAcademicYear(c.AcademicYear); err != nil {
		errs = append(errs, err.Error())
	}

	classNumber := strings.TrimSpace(r.ClassNumber)
	if classNumber == "" {
		errs = append(errs, "class number is required")
	} else {
		n, err := strconv.ParseInt(classNumber, 10, 64)
		switch {
		case err != nil:
			errs = append(errs, "class number must be a whole number")
		case n < 1:
			errs = append(errs, "class number must be at least 1")
		case n > MaxClassNumber:
			errs = append(errs, fmt.Sprintf("class number must be at most %d", MaxClassNumber))
		default:
			c.ClassNumber = n
		}
	}

	status := strings.TrimSpace(r.Status)
	if status == "" {
		errs = append(errs, "status is required")
	} else {
		switch model.CourseStatus(strings.ToUpper(status)) {
		case model.CourseStatusActive:
			c.Status = model.CourseStatusActive
		case model.CourseStatusInactive:
			c.Status = model.CourseStatusInactive
		case model.CourseStatusArchived:
			c.Status = model.CourseStatusArchived
		default:
			errs = append(errs, "status must be one of ACTIVE, INACTIVE or ARCHIVED")
		}
	}

	if len(errs) > 0 {
		return Candidate{}, errs
	}
	return c, nil
}

// normalizeRoom trims, upper-cases and strips a leading "Room:" prefix that
// some source sheets carry.
func normalizeRoom(room string) string {
	room = strings.TrimSpace(room)
	if len(room) >= 5 && strings.EqualFold(room[:5], "Room:") {
		room = strings.TrimSpace(room[5:])
	}
	return strings.ToUpper(room)
}

// checkAcademicYear enforces the "YYYY-YYYY" span: both years numeric, the
// first strictly earlier, and the gap exactly one year. "2025-2024" and
// "2024-2026" both match the regex and both must fail here.
func checkAcademicYear(year string) error {
	if !academicYearPattern.MatchString(year) {
		return fmt.Errorf("academic year must look like 2024-2025")
	}
	first, _ := strconv.Atoi(year[:4])
	second, _ := strconv.Atoi(year[5:])
	if first >= second {
		return fmt.Errorf("academic year must start before it ends")
	}
	if second-first != 1 {
		return fmt.Errorf("academic year must span exactly one year")
	}
	return nil
}
