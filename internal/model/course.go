package model

import "time"

// CourseStatus is the lifecycle state of a course.
type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "ACTIVE"
	CourseStatusInactive CourseStatus = "INACTIVE"
	CourseStatusArchived CourseStatus = "ARCHIVED"
)

// Semester literals accepted across the system.
const (
	SemesterFirst  = "1st Semester"
	SemesterSecond = "2nd Semester"
)

// Course is one offered course instance owned by a faculty member. The
// natural key for deduplication is (code, section, academic year, semester),
// compared case-insensitively.
type Course struct {
	ID           int          `json:"id"`
	Slug         string       `json:"slug"`
	FacultyID    int          `json:"faculty_id"`
	Code         string       `json:"code"`
	Title        string       `json:"title"`
	Room         string       `json:"room"`
	Semester     string       `json:"semester"`
	AcademicYear string       `json:"academic_year"`
	ClassNumber  int64        `json:"class_number"`
	Section      string       `json:"section"`
	Status       CourseStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
