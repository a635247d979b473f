package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/coursedesk/coursedesk-backend/internal/config"
	"github.com/coursedesk/coursedesk-backend/internal/courseimport"
	"github.com/coursedesk/coursedesk-backend/internal/repository"
)

// ErrPendingImportNotFound is returned when an import token is unknown,
// expired, or belongs to another faculty member.
var ErrPendingImportNotFound = errors.New("pending import not found")

// PendingImport is a validated batch parked in Redis between the upload
// report and the user's explicit go-ahead.
type PendingImport struct {
	FacultyID  int                          `json:"faculty_id"`
	Candidates []courseimport.Candidate     `json:"candidates"`
	Rows       []int                        `json:"rows"`
	Feedback   []courseimport.FeedbackEntry `json:"feedback"`
}

// ImportService runs the bulk-import pipeline over uploaded sheets.
type ImportService struct {
	courseRepo *repository.CourseRepository
	rdb        *redis.Client
	cfg        *config.Config
	log        zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(courseRepo *repository.CourseRepository, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *ImportService {
	return &ImportService{
		courseRepo: courseRepo,
		rdb:        rdb,
		cfg:        cfg,
		log:        log.With().Str("component", "import_service").Logger(),
	}
}

// Prepare parses an uploaded workbook and runs validation, deduplication and
// admission control over it. The existing-course snapshot is fetched once
// per batch. When fresh rows remain they are stashed under a one-time token
// so the wizard can pick them up after the user confirms.
func (s *ImportService) Prepare(ctx context.Context, facultyID int, upload io.Reader) (*courseimport.Report, string, error) {
	rows, err := courseimport.ReadSheet(upload)
	if err != nil {
		return nil, "", err
	}

	existing, err := s.courseRepo.NaturalKeys(ctx, facultyID)
	if err != nil {
		return nil, "", fmt.Errorf("fetch course snapshot: %w", err)
	}
	active, err := s.courseRepo.CountNonArchived(ctx, facultyID)
	if err != nil {
		return nil, "", fmt.Errorf("count active courses: %w", err)
	}

	report, err := courseimport.Run(rows, existing, active, s.cfg.MaxActiveCourses)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().
		Int("faculty_id", facultyID).
		Int("rows", len(rows)).
		Int("fresh", len(report.Fresh)).
		Int("dropped", len(report.Feedback)).
		Msg("Import sheet validated")

	if len(report.Fresh) == 0 {
		return report, "", nil
	}

	token := uuid.New().String()
	pending := PendingImport{
		FacultyID:  facultyID,
		Candidates: report.Fresh,
		Rows:       report.FreshRows,
		Feedback:   report.Feedback,
	}
	payload, err := json.Marshal(pending)
	if err != nil {
		return nil, "", fmt.Errorf("marshal pending import: %w", err)
	}
	key := config.CacheKey.PendingImportKey(token)
	if err := s.rdb.Set(ctx, key, payload, s.cfg.PendingImportTTL).Err(); err != nil {
		return nil, "", fmt.Errorf("stash pending import: %w", err)
	}

	return report, token, nil
}

// TakePending consumes a pending import. The token is single-use: a second
// take (or a take after TTL expiry) fails.
func (s *ImportService) TakePending(ctx context.Context, facultyID int, token string) (*PendingImport, error) {
	key := config.CacheKey.PendingImportKey(token)
	payload, err := s.rdb.GetDel(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrPendingImportNotFound
		}
		return nil, fmt.Errorf("fetch pending import: %w", err)
	}

	var pending PendingImport
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, fmt.Errorf("unmarshal pending import: %w", err)
	}
	if pending.FacultyID != facultyID {
		return nil, ErrPendingImportNotFound
	}
	return &pending, nil
}
