package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coursedesk/coursedesk-backend/internal/courseimport"
	"github.com/coursedesk/coursedesk-backend/internal/model"
	"github.com/coursedesk/coursedesk-backend/internal/schedule"
)

// ErrCourseNotFound is returned when a slug does not resolve for the caller.
var ErrCourseNotFound = errors.New("course not found")

// ScheduleConflict names one existing course whose room booking collides
// with a proposed schedule entry.
type ScheduleConflict struct {
	CourseCode    string `json:"course_code"`
	CourseSection string `json:"course_section"`
	Error         string `json:"error"`
}

// ScheduleConflictError carries the itemized conflict list for a rejected
// schedule replacement. It is surfaced to the client verbatim, never
// collapsed into a generic message.
type ScheduleConflictError struct {
	Conflicts []ScheduleConflict
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("schedule collides with %d other course(s)", len(e.Conflicts))
}

// ListQuery holds the search/filter/pagination parameters for course lists.
type ListQuery struct {
	Search       string
	Status       string
	Semester     string
	AcademicYear string
	Page         int
	PerPage      int
}

// CourseRepository handles course and schedule data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, slug, faculty_id, code, title, room, semester, academic_year,
	class_number, section, status, created_at, updated_at`

func scanCourse(row pgx.Row) (*model.Course, error) {
	c := &model.Course{}
	err := row.Scan(&c.ID, &c.Slug, &c.FacultyID, &c.Code, &c.Title, &c.Room,
		&c.Semester, &c.AcademicYear, &c.ClassNumber, &c.Section, &c.Status,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves one page of the faculty's courses matching the query.
func (r *CourseRepository) List(ctx context.Context, facultyID int, q ListQuery) ([]model.Course, int, error) {
	where := []string{"faculty_id = $1"}
	args := []interface{}{facultyID}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("(code ILIKE $%d OR title ILIKE $%d)", len(args), len(args)))
	}
	if q.Status != "" {
		args = append(args, strings.ToUpper(q.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.Semester != "" {
		args = append(args, q.Semester)
		where = append(where, fmt.Sprintf("semester = $%d", len(args)))
	}
	if q.AcademicYear != "" {
		args = append(args, q.AcademicYear)
		where = append(where, fmt.Sprintf("academic_year = $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM courses WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM courses WHERE %s
		 ORDER BY code, section LIMIT $%d OFFSET $%d`,
			courseColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		courses = append(courses, *c)
	}
	return courses, total, rows.Err()
}

// GetBySlug retrieves one of the faculty's courses by its slug.
func (r *CourseRepository) GetBySlug(ctx context.Context, facultyID int, slug string) (*model.Course, error) {
	c, err := scanCourse(r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM courses WHERE faculty_id = $1 AND slug = $2`, courseColumns),
		facultyID, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	return c, err
}

// NaturalKeys retrieves the duplicate-check snapshot for one faculty owner.
func (r *CourseRepository) NaturalKeys(ctx context.Context, facultyID int) ([]courseimport.ExistingCourse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT code, section, academic_year, semester FROM courses WHERE faculty_id = $1`,
		facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []courseimport.ExistingCourse
	for rows.Next() {
		var k courseimport.ExistingCourse
		if err := rows.Scan(&k.Code, &k.Section, &k.AcademicYear, &k.Semester); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// CountNonArchived counts the faculty's ACTIVE and INACTIVE courses, the
// population the admission ceiling applies to.
func (r *CourseRepository) CountNonArchived(ctx context.Context, facultyID int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM courses WHERE faculty_id = $1 AND status <> $2`,
		facultyID, model.CourseStatusArchived,
	).Scan(&n)
	return n, err
}

// StatusCounts retrieves the faculty's course distribution by status.
func (r *CourseRepository) StatusCounts(ctx context.Context, facultyID int) (map[model.CourseStatus]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM courses WHERE faculty_id = $1 GROUP BY status`,
		facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.CourseStatus]int)
	for rows.Next() {
		var status model.CourseStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// CreateWithSchedules inserts a course and its schedule entries in one
// transaction: the course and its schedules appear together or not at all.
func (r *CourseRepository) CreateWithSchedules(ctx context.Context, c *model.Course, entries []schedule.Entry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO courses (slug, faculty_id, code, title, room, semester,
			academic_year, class_number, section, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		c.Slug, c.FacultyID, c.Code, c.Title, c.Room, c.Semester,
		c.AcademicYear, c.ClassNumber, c.Section, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertSchedules(ctx, tx, c.ID, entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceSchedules swaps a course's schedule wholesale. Before writing it
// checks every new entry against other non-archived courses booked into the
// same room; any collision aborts the replacement with the itemized list.
func (r *CourseRepository) ReplaceSchedules(ctx context.Context, c *model.Course, entries []schedule.Entry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var conflicts []ScheduleConflict
	for _, e := range entries {
		rows, err := tx.Query(ctx,
			`SELECT c.code, c.section, s.from_minutes, s.to_minutes
			 FROM course_schedules s
			 JOIN courses c ON c.id = s.course_id
			 WHERE c.id <> $1 AND c.status <> $2 AND lower(c.room) = lower($3)
			   AND s.day = $4 AND s.from_minutes < $5 AND $6 < s.to_minutes`,
			c.ID, model.CourseStatusArchived, c.Room, e.Day.Abbrev(), int(e.To), int(e.From))
		if err != nil {
			return err
		}
		for rows.Next() {
			var code, section string
			var from, to int
			if err := rows.Scan(&code, &section, &from, &to); err != nil {
				rows.Close()
				return err
			}
			conflicts = append(conflicts, ScheduleConflict{
				CourseCode:    code,
				CourseSection: section,
				Error: fmt.Sprintf("room %s is occupied on %s %s-%s", c.Room, e.Day.Abbrev(),
					schedule.ClockMinutes(from).Format12Hour(), schedule.ClockMinutes(to).Format12Hour()),
			})
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	if len(conflicts) > 0 {
		return &ScheduleConflictError{Conflicts: conflicts}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM course_schedules WHERE course_id = $1`, c.ID); err != nil {
		return err
	}
	if err := insertSchedules(ctx, tx, c.ID, entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SchedulesFor retrieves a course's schedule entries.
func (r *CourseRepository) SchedulesFor(ctx context.Context, courseID int) ([]schedule.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT day, from_minutes, to_minutes FROM course_schedules
		 WHERE course_id = $1 ORDER BY from_minutes`,
		courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []schedule.Entry
	for rows.Next() {
		var day string
		var from, to int
		if err := rows.Scan(&day, &from, &to); err != nil {
			return nil, err
		}
		d, ok := schedule.ParseDay(day)
		if !ok {
			return nil, fmt.Errorf("stored schedule has unknown day %q", day)
		}
		entries = append(entries, schedule.Entry{
			Day:  d,
			From: schedule.ClockMinutes(from),
			To:   schedule.ClockMinutes(to),
		})
	}
	return entries, rows.Err()
}

// UpdateStatus sets a course's lifecycle status and returns the fresh row.
func (r *CourseRepository) UpdateStatus(ctx context.Context, facultyID int, slug string, status model.CourseStatus) (*model.Course, error) {
	c, err := scanCourse(r.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE courses SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE faculty_id = $2 AND slug = $3
		 RETURNING %s`, courseColumns),
		status, facultyID, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	return c, err
}

func insertSchedules(ctx context.Context, tx pgx.Tx, courseID int, entries []schedule.Entry) error {
	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO course_schedules (course_id, day, from_minutes, to_minutes)
			 VALUES ($1, $2, $3, $4)`,
			courseID, e.Day.Abbrev(), int(e.From), int(e.To)); err != nil {
			return err
		}
	}
	return nil
}
